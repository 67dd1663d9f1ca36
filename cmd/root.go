// ABOUTME: Root command for the DataPipeline admin console CLI
// ABOUTME: Handles global flags and constructs the shared client/session context

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/huyaoxiaohonghong/DataPipeline/config"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/notify"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
	"github.com/huyaoxiaohonghong/DataPipeline/logger"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "datapipeline",
	Short: "Admin console for the DataPipeline platform",
	Long: `datapipeline is a command-line admin console for the DataPipeline platform.

It manages users, roles, permissions, and database connections against a
remote DataPipeline API, with a persisted login session.

Environment Variables:
  DATAPIPELINE_API_URL     Backend API URL (default: http://localhost:8080)
  DATAPIPELINE_TIMEOUT     Request timeout in seconds (default: 30)
  DATAPIPELINE_CAPTCHA     Require the captcha step on login (default: false)
  DATAPIPELINE_CONFIG_DIR  Credential directory (default: ~/.config/datapipeline)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides DATAPIPELINE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appContext bundles the singletons every command needs. It is built once
// per invocation; the session is the single writer of the credential store
// and the client's 401 handler clears it.
type appContext struct {
	cfg   *config.Config
	api   *client.Client
	store *session.Store
	sess  *session.Session
}

// bootstrap loads configuration and wires store, client, and session
// together. The explicit wiring here is the only place the pieces meet.
func bootstrap() (*appContext, error) {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	store := session.NewStore(cfg.ConfigDir)
	api := client.New(cfg.APIURL,
		client.WithTokenSource(store),
		client.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		client.WithNotifier(notify.Log{}),
	)
	sess := session.Restore(store, api)
	api.SetUnauthorizedHandler(sess.Clear)

	return &appContext{cfg: cfg, api: api, store: store, sess: sess}, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// fail prints an error and returns the generic failure exit code.
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}

// runner adapts a runX function to a cobra Run handler with signal-aware
// context and exit-code handling.
func runner(fn func(ctx context.Context, w io.Writer, args []string) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := fn(ctx, os.Stdout, args); exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// parseID parses a positional numeric ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a number", arg)
	}
	return id, nil
}

// parseIDs parses a list of positional numeric ID arguments.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
