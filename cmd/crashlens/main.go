// crashlens extracts abnormal-termination records from Linux audit and
// journal logs, classifies them by signal and heuristic pattern, and scores
// aggregate crash severity.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/setevik/crashlens/internal/classifier"
	"github.com/setevik/crashlens/internal/config"
)

var version = "dev"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "crashlens",
	SilenceUsage: true,
	Short:        "Analyze Linux crash logs for abnormal process terminations",
	Long: `crashlens scans audit/journal text for ANOM_ABEND crash records,
classifies them by POSIX signal and heuristic failure pattern, and produces
a scored analysis report with remediation recommendations.

Analyses can be persisted to a local SQLite database and browsed later.`,
	Example: `  # Analyze a saved log file
  crashlens analyze audit.log

  # Analyze live audit records from the journal and save the run
  crashlens analyze --journal --since "24 hours ago" --save

  # Read from stdin, emit the JSON report
  journalctl _TRANSPORT=audit | crashlens analyze - --format json

  # Browse stored crash events
  crashlens browse`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Version = version
}

// loadTable builds the signal table, applying YAML overrides when
// configured.
func loadTable() (*classifier.Table, error) {
	table := classifier.NewTable()
	if cfg.Signals.Overrides != "" {
		if err := table.LoadOverrides(cfg.Signals.Overrides); err != nil {
			return nil, err
		}
		slog.Debug("signal overrides applied", "path", cfg.Signals.Overrides)
	}
	return table, nil
}

// parseDuration extends time.ParseDuration with support for "d" (days) suffix.
func parseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		s = strings.TrimSuffix(s, "d")
		var days int
		if _, err := fmt.Sscanf(s, "%d", &days); err != nil {
			return 0, fmt.Errorf("invalid days format: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
