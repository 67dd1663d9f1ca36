// ABOUTME: Whoami command confirming the stored session against the server
// ABOUTME: A rejected token clears the local session and reports logged out

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(ctx context.Context, w io.Writer) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	identity := app.sess.RefreshIdentity(ctx)
	if identity == nil {
		fmt.Fprintln(w, "Not logged in")
		return 1
	}

	if IsJSONOutput() {
		printJSON(w, identity)
		return 0
	}

	fmt.Fprintf(w, "Username: %s\nUser ID:  %d\nRole:     %s\n", identity.Username, identity.UserID, identity.Role)
	return 0
}
