package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyrakriv/schooldays/internal/choices"
	"github.com/tyrakriv/schooldays/internal/classify"
	"github.com/tyrakriv/schooldays/internal/model"
	"github.com/tyrakriv/schooldays/internal/report"
	"github.com/tyrakriv/schooldays/internal/roster"
)

var packagesOut string

var packagesFields = []roster.Field{
	{Name: roster.FieldPersonKey, Keywords: []string{"student id"}, Required: true},
	{Name: roster.FieldDescription, Keywords: []string{"product name", "package choice", "description"}, Required: true},
	{Name: roster.FieldSecondaryKey, Keywords: []string{"photo choice", "yearbook choice"}},
	{Name: roster.FieldQuantity, Keywords: []string{"quantity", "qty"}},
	{Name: roster.FieldDisplayName, Keywords: []string{"last name", "student last name"}},
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Classify package orders into entry codes grouped by photo choice",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		session := time.Now()

		path, table, err := loadTable()
		if err != nil {
			return err
		}

		resolved, err := roster.Resolve(table.Columns, packagesFields)
		if err != nil {
			return eris.Wrap(err, "packages")
		}

		cls := classify.Default()
		if cfg.Packages.RulesFile != "" {
			rules, err := classify.LoadRules(cfg.Packages.RulesFile)
			if err != nil {
				return eris.Wrap(err, "packages")
			}
			cls = classify.New(rules)
		}

		rows := roster.ExtractRows(table, resolved)

		// Pass 1: bucket rows per student. Pass 2: fold each student's
		// bucket independently.
		var (
			order   []string
			buckets = make(map[string][]model.RawRow)
		)
		for _, r := range rows {
			if _, ok := buckets[r.PersonKey]; !ok {
				order = append(order, r.PersonKey)
			}
			buckets[r.PersonKey] = append(buckets[r.PersonKey], r)
		}

		var (
			groups   []model.ChoiceGroup
			rejected []model.RejectedEntry
		)
		for _, key := range order {
			g, rej := choices.GroupAndLimit(buckets[key], cls, choices.Options{
				MaxDistinctGrouped: cfg.Packages.MaxDistinctGrouped,
			})
			groups = append(groups, g...)
			rejected = append(rejected, rej...)
		}

		out := packagesOut
		if out == "" {
			out = filepath.Join(cfg.Report.Dir, fmt.Sprintf("package-entries-%s.csv", session.Format("20060102_150405")))
		}
		if err := writeCSV(out, report.GroupHeader(), report.GroupRows(groups)); err != nil {
			return eris.Wrap(err, "packages: write entries")
		}

		writer := report.NewWriter(cfg.Report.Dir, "package", session)
		if err := writer.Append(rejected); err != nil {
			return eris.Wrap(err, "packages: write error report")
		}

		if s, err := openStore(ctx); err != nil {
			zap.L().Warn("run store unavailable", zap.Error(err))
		} else if s != nil {
			defer s.Close()
			if run, err := s.CreateRun(ctx, "packages", filepath.Base(path), len(order), len(groups), len(rejected)); err != nil {
				zap.L().Warn("record run failed", zap.Error(err))
			} else {
				zap.L().Info("run recorded", zap.String("run_id", run.ID))
			}
		}

		zap.L().Info("package classification complete",
			zap.String("workbook", filepath.Base(path)),
			zap.Int("students", len(order)),
			zap.Int("choice_groups", len(groups)),
			zap.Int("rejected", len(rejected)),
			zap.String("entries_csv", out),
			zap.String("error_report", writer.Path()),
		)
		return nil
	},
}

func init() {
	packagesCmd.Flags().StringVar(&packagesOut, "out", "", "entries CSV path (default reports/package-entries-<session>.csv)")
	rootCmd.AddCommand(packagesCmd)
}
