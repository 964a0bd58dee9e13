// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input     InputConfig     `yaml:"input" mapstructure:"input"`
	Yearbook  YearbookConfig  `yaml:"yearbook" mapstructure:"yearbook"`
	Packages  PackagesConfig  `yaml:"packages" mapstructure:"packages"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the export workbook.
type InputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"` // sheet name; empty means first sheet
	SheetIdx int    `yaml:"sheet_index" mapstructure:"sheet_index"`
}

// YearbookConfig configures the selection reconciliation flow. The alphabet
// is the set of selection letters a winning row may carry; Default fills in
// when a row legitimately has no selection.
type YearbookConfig struct {
	Alphabet []string `yaml:"alphabet" mapstructure:"alphabet"`
	Default  string   `yaml:"default" mapstructure:"default"`
}

// PackagesConfig configures the classification flow.
type PackagesConfig struct {
	RulesFile          string `yaml:"rules_file" mapstructure:"rules_file"` // optional YAML override of the built-in table
	MaxDistinctGrouped int    `yaml:"max_distinct_grouped" mapstructure:"max_distinct_grouped"`
}

// ReconcileConfig tunes the reconciliation fold.
type ReconcileConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ReportConfig configures the session error report.
type ReportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCHOOLDAYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.dir", ".")
	v.SetDefault("yearbook.alphabet", []string{"a", "b", "c", "d"})
	v.SetDefault("yearbook.default", "d")
	v.SetDefault("packages.max_distinct_grouped", 2)
	v.SetDefault("reconcile.concurrency", 4)
	v.SetDefault("report.dir", "reports")
	v.SetDefault("store.path", "schooldays.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
