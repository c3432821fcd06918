package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/setevik/crashlens/internal/analyzer"
	"github.com/setevik/crashlens/internal/meminfo"
	"github.com/setevik/crashlens/internal/render"
	"github.com/setevik/crashlens/internal/source"
	"github.com/setevik/crashlens/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze crash records in a log file or live journal output",
	Long: `Analyze extracts ANOM_ABEND crash records from the given input,
classifies each by signal, and prints a scored report.

Input is a file path, "-" for stdin, or live system logs via --journal or
--dmesg. The report is deterministic for a given input (pin --year for
reproducible syslog timestamps across year boundaries).`,
	Example: `  # From a file
  crashlens analyze audit.log

  # From stdin as JSON
  cat audit.log | crashlens analyze - --format json

  # Live journal audit records from the last day, persisted
  crashlens analyze --journal --since "24 hours ago" --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, _ := cmd.Flags().GetBool("journal")
		dmesg, _ := cmd.Flags().GetBool("dmesg")
		since, _ := cmd.Flags().GetString("since")
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")
		year, _ := cmd.Flags().GetInt("year")
		noMemBias, _ := cmd.Flags().GetBool("no-mem-bias")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		text, label, err := gatherInput(cmd, args, journal, dmesg, since)
		if err != nil {
			return err
		}

		table, err := loadTable()
		if err != nil {
			return err
		}

		opts := []analyzer.Option{analyzer.WithTable(table)}

		if year == 0 {
			year = cfg.Analysis.Year
		}
		if year != 0 {
			opts = append(opts, analyzer.WithYear(year))
		}

		if cfg.Memory.Bias && !noMemBias {
			opts = append(opts,
				analyzer.WithMemoryProvider(meminfo.ProcProvider{}),
				analyzer.WithMemoryBiasThreshold(cfg.Memory.ThresholdPct),
			)
		}

		report := analyzer.New(opts...).Analyze(text)

		if save {
			if err := saveReport(report, label); err != nil {
				return err
			}
		}

		if format == "json" {
			return render.JSON(os.Stdout, report)
		}
		render.Text(os.Stdout, report)
		return nil
	},
}

// gatherInput resolves the analysis text and a short source label for the
// stored run.
func gatherInput(cmd *cobra.Command, args []string, journal, dmesg bool, since string) (string, string, error) {
	switch {
	case journal && dmesg:
		return "", "", fmt.Errorf("--journal and --dmesg are mutually exclusive")
	case journal:
		text, err := source.CollectJournal(cmd.Context(), since)
		return text, "journalctl", err
	case dmesg:
		text, err := source.CollectDmesg(cmd.Context())
		return text, "dmesg", err
	case len(args) == 1:
		text, err := source.ReadInput(args[0])
		label := args[0]
		if label == "-" {
			label = "stdin"
		}
		return text, label, err
	default:
		return "", "", fmt.Errorf("provide a file path, \"-\" for stdin, or --journal/--dmesg")
	}
}

// saveReport persists the run and its events to the history database.
func saveReport(report *analyzer.Report, label string) error {
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()

	data, err := report.JSON()
	if err != nil {
		return fmt.Errorf("serializing report: %w", err)
	}

	run := &store.Run{
		Source:          label,
		TotalCrashes:    len(report.Events),
		SeverityScore:   report.Assessment.SeverityScore,
		OverallSeverity: report.Assessment.OverallSeverity,
		ReportJSON:      string(data),
	}

	if err := db.SaveRun(run, report.Events); err != nil {
		return fmt.Errorf("saving analysis run: %w", err)
	}

	slog.Info("analysis run saved", "run_id", run.ID, "crashes", run.TotalCrashes)
	return nil
}

func init() {
	analyzeCmd.Flags().Bool("journal", false, "collect audit records via journalctl")
	analyzeCmd.Flags().Bool("dmesg", false, "collect kernel ring buffer via dmesg")
	analyzeCmd.Flags().String("since", "", "time window for --journal (journalctl syntax)")
	analyzeCmd.Flags().String("format", "text", "output format (text, json)")
	analyzeCmd.Flags().Bool("save", false, "persist the run to the history database")
	analyzeCmd.Flags().Int("year", 0, "year for year-less syslog timestamps (default: current)")
	analyzeCmd.Flags().Bool("no-mem-bias", false, "disable the live memory-pressure bias")
	rootCmd.AddCommand(analyzeCmd)
}
