package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyrakriv/schooldays/internal/store"
)

var (
	feedbackRun    string
	feedbackPerson string
	feedbackStatus string
	feedbackDetail string
)

// feedbackCmd records the external driver's per-person result. The driver
// replays decisions on screen and calls back here with pass/fail so failed
// students can be retried or handled by hand.
var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record a driver pass/fail outcome for one person",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if feedbackStatus != "pass" && feedbackStatus != "fail" {
			return eris.Errorf("feedback: status must be pass or fail, got %q", feedbackStatus)
		}

		s, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "feedback")
		}
		if s == nil {
			return eris.New("feedback: store is disabled (set store.path)")
		}
		defer s.Close()

		err = s.RecordOutcome(ctx, store.Outcome{
			RunID:     feedbackRun,
			PersonKey: feedbackPerson,
			Status:    feedbackStatus,
			Detail:    feedbackDetail,
		})
		if err != nil {
			return eris.Wrap(err, "feedback")
		}

		zap.L().Info("outcome recorded",
			zap.String("run_id", feedbackRun),
			zap.String("person", feedbackPerson),
			zap.String("status", feedbackStatus),
		)
		return nil
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackRun, "run", "", "run ID (required)")
	feedbackCmd.Flags().StringVar(&feedbackPerson, "person", "", "person key (required)")
	feedbackCmd.Flags().StringVar(&feedbackStatus, "status", "", "pass or fail (required)")
	feedbackCmd.Flags().StringVar(&feedbackDetail, "detail", "", "optional failure detail")
	_ = feedbackCmd.MarkFlagRequired("run")
	_ = feedbackCmd.MarkFlagRequired("person")
	_ = feedbackCmd.MarkFlagRequired("status")
	rootCmd.AddCommand(feedbackCmd)
}
