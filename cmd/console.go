// ABOUTME: Console command launching the interactive TUI
// ABOUTME: The TUI owns the terminal, so no writer-based output here

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive admin console",
	Long: `Open the full-screen admin console.

The console restores any stored session and lands on the dashboard; without
a valid session it starts on the login screen and returns to the requested
screen after login.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := bootstrap()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		if err := tui.Run(app.cfg, app.api, app.sess); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
