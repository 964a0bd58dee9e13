package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tyrakriv/schooldays/internal/classify"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active classification rule table as YAML",
	RunE: func(_ *cobra.Command, _ []string) error {
		rules := classify.DefaultRules()
		if cfg.Packages.RulesFile != "" {
			loaded, err := classify.LoadRules(cfg.Packages.RulesFile)
			if err != nil {
				return eris.Wrap(err, "rules")
			}
			rules = loaded
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return eris.Wrap(enc.Encode(rules), "rules: encode")
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
