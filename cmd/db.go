// ABOUTME: Database connection subcommands against /v1/db-connections
// ABOUTME: Stored connection CRUD, connectivity tests, and monitoring

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/validate"
)

var (
	dbListPage int
	dbListSize int
	dbListName string
	dbListType string

	dbCreateType        string
	dbCreateHost        string
	dbCreatePort        int
	dbCreateDatabase    string
	dbCreateUsername    string
	dbCreatePassword    string
	dbCreateDescription string

	dbUpdateName        string
	dbUpdateHost        string
	dbUpdatePort        int
	dbUpdateDatabase    string
	dbUpdateUsername    string
	dbUpdatePassword    string
	dbUpdateDescription string

	dbTestType     string
	dbTestHost     string
	dbTestPort     int
	dbTestDatabase string
	dbTestUsername string
	dbTestPassword string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage database connections",
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connections",
	Run:   runner(runDBList),
}

var dbGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one stored connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBGet),
}

var dbCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Store a new connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBCreate),
}

var dbUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a stored connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBUpdate),
}

var dbEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a stored connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBEnable),
}

var dbDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a stored connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBDisable),
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more stored connections",
	Args:  cobra.MinimumNArgs(1),
	Run:   runner(runDBDelete),
}

var dbTestCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Probe a stored connection, or ad-hoc parameters with flags",
	Args:  cobra.MaximumNArgs(1),
	Run:   runner(runDBTest),
}

var dbMonitorCmd = &cobra.Command{
	Use:   "monitor <id>",
	Short: "Show the monitoring snapshot of a connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBMonitor),
}

var dbTablesCmd = &cobra.Command{
	Use:   "tables <id>",
	Short: "List the tables reachable through a connection",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runDBTables),
}

func init() {
	dbListCmd.Flags().IntVar(&dbListPage, "page", 1, "Page number")
	dbListCmd.Flags().IntVar(&dbListSize, "size", 20, "Page size")
	dbListCmd.Flags().StringVar(&dbListName, "name", "", "Filter by name substring")
	dbListCmd.Flags().StringVar(&dbListType, "type", "", "Filter by database type")

	dbCreateCmd.Flags().StringVar(&dbCreateType, "type", "", "Database type (MYSQL, POSTGRESQL, ORACLE, SQLSERVER)")
	dbCreateCmd.Flags().StringVar(&dbCreateHost, "host", "", "Host name or address")
	dbCreateCmd.Flags().IntVar(&dbCreatePort, "port", 0, "Port")
	dbCreateCmd.Flags().StringVar(&dbCreateDatabase, "database", "", "Database name")
	dbCreateCmd.Flags().StringVar(&dbCreateUsername, "username", "", "Database user")
	dbCreateCmd.Flags().StringVar(&dbCreatePassword, "password", "", "Database password (prompted if omitted)")
	dbCreateCmd.Flags().StringVar(&dbCreateDescription, "description", "", "Description")

	dbUpdateCmd.Flags().StringVar(&dbUpdateName, "name", "", "New name")
	dbUpdateCmd.Flags().StringVar(&dbUpdateHost, "host", "", "New host")
	dbUpdateCmd.Flags().IntVar(&dbUpdatePort, "port", 0, "New port")
	dbUpdateCmd.Flags().StringVar(&dbUpdateDatabase, "database", "", "New database name")
	dbUpdateCmd.Flags().StringVar(&dbUpdateUsername, "username", "", "New database user")
	dbUpdateCmd.Flags().StringVar(&dbUpdatePassword, "password", "", "New database password")
	dbUpdateCmd.Flags().StringVar(&dbUpdateDescription, "description", "", "New description")

	dbTestCmd.Flags().StringVar(&dbTestType, "type", "", "Database type for an ad-hoc test")
	dbTestCmd.Flags().StringVar(&dbTestHost, "host", "", "Host for an ad-hoc test")
	dbTestCmd.Flags().IntVar(&dbTestPort, "port", 0, "Port for an ad-hoc test")
	dbTestCmd.Flags().StringVar(&dbTestDatabase, "database", "", "Database name for an ad-hoc test")
	dbTestCmd.Flags().StringVar(&dbTestUsername, "username", "", "User for an ad-hoc test")
	dbTestCmd.Flags().StringVar(&dbTestPassword, "password", "", "Password for an ad-hoc test")

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbGetCmd)
	dbCmd.AddCommand(dbCreateCmd)
	dbCmd.AddCommand(dbUpdateCmd)
	dbCmd.AddCommand(dbEnableCmd)
	dbCmd.AddCommand(dbDisableCmd)
	dbCmd.AddCommand(dbDeleteCmd)
	dbCmd.AddCommand(dbTestCmd)
	dbCmd.AddCommand(dbMonitorCmd)
	dbCmd.AddCommand(dbTablesCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBList(ctx context.Context, w io.Writer, _ []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	page, err := app.api.ListDBConnections(ctx, client.DBConnectionQuery{
		PageNumber: dbListPage,
		PageSize:   dbListSize,
		Name:       dbListName,
		DBType:     strings.ToUpper(dbListType),
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, page)
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tHOST\tPORT\tDATABASE\tENABLED")
	for _, c := range page.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%t\n", c.ID, c.Name, c.DBType, c.Host, c.Port, c.DatabaseName, c.Enabled)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nPage %d/%d (%d connections)\n", page.PageNumber, page.TotalPage, page.TotalRow)
	return 0
}

func runDBGet(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	conn, err := app.api.GetDBConnection(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, conn)
		return 0
	}

	fmt.Fprintf(w, "ID:          %d\nName:        %s\nType:        %s\nHost:        %s\nPort:        %d\nDatabase:    %s\nUser:        %s\nEnabled:     %t\nDescription: %s\n",
		conn.ID, conn.Name, conn.DBType, conn.Host, conn.Port, conn.DatabaseName, conn.Username, conn.Enabled, conn.Description)
	return 0
}

func runDBCreate(ctx context.Context, w io.Writer, args []string) int {
	name := args[0]
	dbType := strings.ToUpper(dbCreateType)
	for _, check := range []error{
		validate.Required("name", name),
		validate.Required("type", dbType),
		validate.Required("host", dbCreateHost),
		validate.Required("database", dbCreateDatabase),
		validate.Required("username", dbCreateUsername),
		validate.Port(dbCreatePort),
	} {
		if check != nil {
			return fail(w, check)
		}
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	password := dbCreatePassword
	if password == "" {
		if password, err = promptPassword("Password for " + dbCreateUsername + "@" + dbCreateHost); err != nil {
			return fail(w, err)
		}
	}

	conn, err := app.api.CreateDBConnection(ctx, client.DBConnectionCreateRequest{
		Name:         name,
		DBType:       dbType,
		Host:         dbCreateHost,
		Port:         dbCreatePort,
		DatabaseName: dbCreateDatabase,
		Username:     dbCreateUsername,
		Password:     password,
		Description:  dbCreateDescription,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, conn)
		return 0
	}
	fmt.Fprintf(w, "Created connection %s (id %d)\n", conn.Name, conn.ID)
	return 0
}

func runDBUpdate(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}
	if dbUpdatePort != 0 {
		if err := validate.Port(dbUpdatePort); err != nil {
			return fail(w, err)
		}
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	conn, err := app.api.UpdateDBConnection(ctx, id, client.DBConnectionUpdateRequest{
		Name:         dbUpdateName,
		Host:         dbUpdateHost,
		Port:         dbUpdatePort,
		DatabaseName: dbUpdateDatabase,
		Username:     dbUpdateUsername,
		Password:     dbUpdatePassword,
		Description:  dbUpdateDescription,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, conn)
		return 0
	}
	fmt.Fprintf(w, "Updated connection %s (id %d)\n", conn.Name, conn.ID)
	return 0
}

func runDBEnable(ctx context.Context, w io.Writer, args []string) int {
	return setDBEnabled(ctx, w, args[0], true)
}

func runDBDisable(ctx context.Context, w io.Writer, args []string) int {
	return setDBEnabled(ctx, w, args[0], false)
}

func setDBEnabled(ctx context.Context, w io.Writer, arg string, enabled bool) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if err := app.api.SetDBConnectionEnabled(ctx, id, enabled); err != nil {
		return fail(w, err)
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(w, "Connection %d %s\n", id, state)
	return 0
}

func runDBDelete(ctx context.Context, w io.Writer, args []string) int {
	ids, err := parseIDs(args)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if len(ids) == 1 {
		err = app.api.DeleteDBConnection(ctx, ids[0])
	} else {
		err = app.api.DeleteDBConnections(ctx, ids)
	}
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted %d connection(s)\n", len(ids))
	return 0
}

func runDBTest(ctx context.Context, w io.Writer, args []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	var info *client.DBMonitorInfo
	if len(args) == 1 {
		id, idErr := parseID(args[0])
		if idErr != nil {
			return fail(w, idErr)
		}
		info, err = app.api.TestDBConnection(ctx, id)
	} else {
		dbType := strings.ToUpper(dbTestType)
		for _, check := range []error{
			validate.Required("type", dbType),
			validate.Required("host", dbTestHost),
			validate.Required("database", dbTestDatabase),
			validate.Required("username", dbTestUsername),
			validate.Port(dbTestPort),
		} {
			if check != nil {
				return fail(w, check)
			}
		}
		info, err = app.api.TestDBConnectionParams(ctx, client.DBConnectionTestRequest{
			DBType:       dbType,
			Host:         dbTestHost,
			Port:         dbTestPort,
			DatabaseName: dbTestDatabase,
			Username:     dbTestUsername,
			Password:     dbTestPassword,
		})
	}
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, info)
		if info.Status != "UP" {
			return 1
		}
		return 0
	}

	if info.Status != "UP" {
		fmt.Fprintf(w, "Connection failed: %s\n", info.ErrorMessage)
		return 1
	}
	fmt.Fprintf(w, "Connection OK (%s, %dms)\n", info.Version, info.ResponseTimeMs)
	return 0
}

func runDBMonitor(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	info, err := app.api.DBConnectionMonitor(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, info)
		return 0
	}

	fmt.Fprintf(w, "Status:      %s\n", info.Status)
	if info.Status != "UP" {
		if info.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:       %s\n", info.ErrorMessage)
		}
		return 1
	}
	fmt.Fprintf(w, "Version:     %s\nConnections: %d/%d\nSize:        %.1f MB\nTables:      %d\nLatency:     %dms\n",
		info.Version, info.ActiveConnections, info.MaxConnections, info.DatabaseSizeMB, info.TableCount, info.ResponseTimeMs)
	return 0
}

func runDBTables(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	tables, err := app.api.DBConnectionTables(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, tables)
		return 0
	}

	for _, t := range tables {
		fmt.Fprintln(w, t)
	}
	return 0
}
