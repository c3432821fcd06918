package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/setevik/crashlens/internal/store"
	"github.com/setevik/crashlens/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored crash events interactively",
	Long: `Browse opens a terminal UI over the history database: a filterable
event list with a detail pane showing signal reference info and the raw
audit record for the selected crash.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer db.Close()

		table, err := loadTable()
		if err != nil {
			return err
		}

		return tui.Run(db, table)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
