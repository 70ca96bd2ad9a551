// Package main implements the resumesync CLI for validating,
// exporting, listing, and enriching resume documents.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-sync/internal/config"
	"github.com/jonathan/resume-sync/internal/logger"
	"github.com/rs/zerolog"
)

var rootCmd = &cobra.Command{
	Use:   "resumesync",
	Short: "Resume document sync and validation tool",
	Long:  "resumesync validates resume documents, scores their completeness, exports them to text and markdown, and manages the synced resume collection.",
}

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (json, console)")
}

// loadConfig merges flags over a config file over the environment.
func loadConfig() (config.Config, error) {
	cfg := config.Config{LogLevel: flagLogLevel, LogFormat: flagLogFormat}
	if flagConfig != "" {
		fileCfg, err := config.Load(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logger.New(os.Stderr, logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
