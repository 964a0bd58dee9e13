package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded reconciliation runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "runs")
		}
		if s == nil {
			return eris.New("runs: store is disabled (set store.path)")
		}
		defer s.Close()

		runs, err := s.ListRuns(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODE\tWORKBOOK\tPERSONS\tACCEPTED\tREJECTED\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.ID, r.Mode, r.Workbook, r.Persons, r.Accepted, r.Rejected,
				r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var runsOutcomesCmd = &cobra.Command{
	Use:   "outcomes <run-id>",
	Short: "Show driver pass/fail feedback for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "runs outcomes")
		}
		if s == nil {
			return eris.New("runs outcomes: store is disabled (set store.path)")
		}
		defer s.Close()

		outcomes, err := s.Outcomes(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs outcomes")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PERSON\tSTATUS\tDETAIL\tREPORTED")
		for _, o := range outcomes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				o.PersonKey, o.Status, o.Detail, o.ReportedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsCmd.AddCommand(runsOutcomesCmd)
	rootCmd.AddCommand(runsCmd)
}
