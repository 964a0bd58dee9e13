package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyrakriv/schooldays/internal/reconcile"
	"github.com/tyrakriv/schooldays/internal/report"
	"github.com/tyrakriv/schooldays/internal/roster"
)

var yearbookOut string

// yearbookFields maps the export's loose headers to logical fields. The
// timestamp column is optional here: single-row students need no ordering,
// and the engine rejects multi-row students when it is missing.
var yearbookFields = []roster.Field{
	{Name: roster.FieldPersonKey, Keywords: []string{"student id"}, Required: true},
	{Name: roster.FieldPayload, Keywords: []string{"yearbook photo", "selection"}, Required: true},
	{Name: roster.FieldTimestamp, Keywords: []string{"yearbook date"}},
	{Name: roster.FieldDisplayName, Keywords: []string{"student last name", "last name"}},
}

var yearbookCmd = &cobra.Command{
	Use:   "yearbook",
	Short: "Reconcile yearbook selections to one decision per student",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		session := time.Now()

		path, table, err := loadTable()
		if err != nil {
			return err
		}

		resolved, err := roster.Resolve(table.Columns, yearbookFields)
		if err != nil {
			return eris.Wrap(err, "yearbook")
		}

		rows := roster.ExtractRows(table, resolved)
		_, hasTimestamp := resolved[roster.FieldTimestamp]

		res := reconcile.Reconcile(ctx, rows, reconcile.Options{
			HasTimestampField: hasTimestamp,
			PayloadAlphabet:   cfg.Yearbook.Alphabet,
			DefaultPayload:    cfg.Yearbook.Default,
			Concurrency:       cfg.Reconcile.Concurrency,
		})

		out := yearbookOut
		if out == "" {
			out = filepath.Join(cfg.Report.Dir, fmt.Sprintf("yearbook-decisions-%s.csv", session.Format("20060102_150405")))
		}
		if err := writeCSV(out, report.DecisionHeader(), report.DecisionRows(res.Decisions)); err != nil {
			return eris.Wrap(err, "yearbook: write decisions")
		}

		writer := report.NewWriter(cfg.Report.Dir, "yearbook", session)
		if err := writer.Append(res.Rejected); err != nil {
			return eris.Wrap(err, "yearbook: write error report")
		}

		if s, err := openStore(ctx); err != nil {
			zap.L().Warn("run store unavailable", zap.Error(err))
		} else if s != nil {
			defer s.Close()
			if run, err := s.CreateRun(ctx, "yearbook", filepath.Base(path), res.Persons, len(res.Decisions), len(res.Rejected)); err != nil {
				zap.L().Warn("record run failed", zap.Error(err))
			} else {
				zap.L().Info("run recorded", zap.String("run_id", run.ID))
			}
		}

		zap.L().Info("yearbook reconciliation complete",
			zap.String("workbook", filepath.Base(path)),
			zap.Int("persons", res.Persons),
			zap.Int("decisions", len(res.Decisions)),
			zap.Int("rejected", len(res.Rejected)),
			zap.String("decisions_csv", out),
			zap.String("error_report", writer.Path()),
		)
		return nil
	},
}

func init() {
	yearbookCmd.Flags().StringVar(&yearbookOut, "out", "", "decisions CSV path (default reports/yearbook-decisions-<session>.csv)")
	rootCmd.AddCommand(yearbookCmd)
}
