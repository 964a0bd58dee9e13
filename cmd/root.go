package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyrakriv/schooldays/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "schooldays",
	Short: "Roster reconciliation and package-entry preparation",
	Long:  "Collapses a multi-row order export into one authoritative decision per student, classifies free-text package lines into entry codes, and reports everything ambiguous for human review.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
