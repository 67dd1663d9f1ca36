// ABOUTME: Logout command: best-effort server call, guaranteed local clear
// ABOUTME: A failed network round trip never leaves the user logged in locally

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

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long:  `Invalidate the session on the server when reachable, and always clear the locally stored credentials.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogout(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(ctx context.Context, w io.Writer) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	app.sess.Logout(ctx)
	fmt.Fprintln(w, "Logged out")
	return 0
}
