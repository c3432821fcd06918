package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Print the signal reference table",
	Long: `Signals prints the builtin signal classification table, including
any entries added or replaced by the configured YAML overrides file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}

		for _, info := range table.Signals() {
			fmt.Printf("%-8s (%2d)  %-9s %s\n", info.Name, info.Number, info.Severity, info.Description)
			for _, cause := range info.CommonCauses {
				fmt.Printf("               - %s\n", cause)
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("crashlens", version)

		check, _ := cmd.Flags().GetBool("check")
		if check {
			checkUpdate(version)
		}
		return nil
	},
}

// checkUpdate consults GitHub releases for a newer version. Failures are
// silent; this is best-effort only.
func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "setevik",
		Repository: "crashlens",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return
	}

	if res.Outdated {
		fmt.Printf("A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("Download it from https://github.com/setevik/crashlens/releases")
	} else {
		fmt.Printf("You are using the latest version: %s\n", currentVer)
	}
}

func init() {
	rootCmd.AddCommand(signalsCmd)

	versionCmd.Flags().Bool("check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
