package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/setevik/crashlens/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored crash events and analysis runs",
	Example: `  # Crash events from the last week
  crashlens history --last 7d

  # Segfaults of a specific process
  crashlens history --signal 11 --command code

  # Past analysis runs instead of individual events
  crashlens history --runs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetString("last")
		signal, _ := cmd.Flags().GetInt("signal")
		command, _ := cmd.Flags().GetString("command")
		limit, _ := cmd.Flags().GetInt("limit")
		listRuns, _ := cmd.Flags().GetBool("runs")

		duration, err := parseDuration(last)
		if err != nil {
			return fmt.Errorf("invalid --last value %q: %w", last, err)
		}
		since := time.Now().Add(-duration)

		db, err := store.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer db.Close()

		if listRuns {
			runs, err := db.Runs(store.RunFilter{Since: since, Limit: limit})
			if err != nil {
				return err
			}
			printRuns(runs)
			return nil
		}

		events, err := db.Events(store.EventFilter{
			Since:   since,
			Signal:  signal,
			Command: command,
			Limit:   limit,
		})
		if err != nil {
			return err
		}

		table, err := loadTable()
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No crash events found.")
			return nil
		}

		for _, ev := range events {
			ts := "unknown time       "
			if ev.Timestamp != nil {
				ts = ev.Timestamp.Local().Format("2006-01-02 15:04:05")
			}
			info := table.Lookup(ev.Signal)
			fmt.Printf("%s  %-8s %-16s pid %d\n", ts, info.Name, ev.Command, ev.PID)
		}
		fmt.Printf("\nTotal: %d event(s)\n", len(events))
		return nil
	},
}

func printRuns(runs []*store.Run) {
	if len(runs) == 0 {
		fmt.Println("No analysis runs found.")
		return
	}

	for _, run := range runs {
		fmt.Printf("%s  [%s] score %-3d %d crash(es)  from %s\n",
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.OverallSeverity,
			run.SeverityScore,
			run.TotalCrashes,
			run.Source,
		)
		fmt.Printf("             run %s\n", run.ID)
	}
	fmt.Printf("\nTotal: %d run(s)\n", len(runs))
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete stored runs older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetString("older-than")

		retention := cfg.Store.Retention.Duration
		if olderThan != "" {
			var err error
			retention, err = parseDuration(olderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value %q: %w", olderThan, err)
			}
		}
		if retention <= 0 {
			return fmt.Errorf("no retention configured; pass --older-than")
		}

		db, err := store.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer db.Close()

		purged, err := db.Purge(retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Purged %d run(s) older than %s.\n", purged, retention)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("last", "30d", "time window (e.g. 24h, 7d, 30d)")
	historyCmd.Flags().Int("signal", 0, "filter by signal number")
	historyCmd.Flags().String("command", "", "filter by process name")
	historyCmd.Flags().Int("limit", 50, "max rows to show")
	historyCmd.Flags().Bool("runs", false, "list analysis runs instead of events")
	rootCmd.AddCommand(historyCmd)

	purgeCmd.Flags().String("older-than", "", "retention override (e.g. 30d)")
	rootCmd.AddCommand(purgeCmd)
}
