// ABOUTME: Role management subcommands against /v1/roles
// ABOUTME: Listing, CRUD, enable toggle, and permission assignment

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
	roleListPage int
	roleListSize int
	roleListName string
	roleListCode string
	roleListAll  bool

	roleCreateName        string
	roleCreateDescription string
	roleCreateSort        int
	roleCreateDisabled    bool

	roleUpdateName        string
	roleUpdateDescription string
	roleUpdateSort        int
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	Run:   runner(runRoleList),
}

var roleGetCmd = &cobra.Command{
	Use:   "get <id-or-code>",
	Short: "Show one role",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runRoleGet),
}

var roleCreateCmd = &cobra.Command{
	Use:   "create <code>",
	Short: "Create a role",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runRoleCreate),
}

var roleUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update role fields",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runRoleUpdate),
}

var roleEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a role",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runRoleEnable),
}

var roleDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a role",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runRoleDisable),
}

var roleDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more roles",
	Args:  cobra.MinimumNArgs(1),
	Run:   runner(runRoleDelete),
}

var rolePermsCmd = &cobra.Command{
	Use:   "perms <role-id>",
	Short: "List the permissions granted to a role",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runRolePerms),
}

var roleGrantCmd = &cobra.Command{
	Use:   "grant <role-id> <permission-id>...",
	Short: "Replace a role's permission set",
	Args:  cobra.MinimumNArgs(1),
	Run:   runner(runRoleGrant),
}

func init() {
	roleListCmd.Flags().IntVar(&roleListPage, "page", 1, "Page number")
	roleListCmd.Flags().IntVar(&roleListSize, "size", 20, "Page size")
	roleListCmd.Flags().StringVar(&roleListName, "name", "", "Filter by name substring")
	roleListCmd.Flags().StringVar(&roleListCode, "code", "", "Filter by code")
	roleListCmd.Flags().BoolVar(&roleListAll, "all", false, "List every role without paging")

	roleCreateCmd.Flags().StringVar(&roleCreateName, "name", "", "Display name (defaults to the code)")
	roleCreateCmd.Flags().StringVar(&roleCreateDescription, "description", "", "Description")
	roleCreateCmd.Flags().IntVar(&roleCreateSort, "sort", 0, "Sort order")
	roleCreateCmd.Flags().BoolVar(&roleCreateDisabled, "disabled", false, "Create the role disabled")

	roleUpdateCmd.Flags().StringVar(&roleUpdateName, "name", "", "New display name")
	roleUpdateCmd.Flags().StringVar(&roleUpdateDescription, "description", "", "New description")
	roleUpdateCmd.Flags().IntVar(&roleUpdateSort, "sort", 0, "New sort order")

	roleCmd.AddCommand(roleListCmd)
	roleCmd.AddCommand(roleGetCmd)
	roleCmd.AddCommand(roleCreateCmd)
	roleCmd.AddCommand(roleUpdateCmd)
	roleCmd.AddCommand(roleEnableCmd)
	roleCmd.AddCommand(roleDisableCmd)
	roleCmd.AddCommand(roleDeleteCmd)
	roleCmd.AddCommand(rolePermsCmd)
	roleCmd.AddCommand(roleGrantCmd)
	rootCmd.AddCommand(roleCmd)
}

func runRoleList(ctx context.Context, w io.Writer, _ []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	var roles []client.Role
	var footer string
	if roleListAll {
		roles, err = app.api.AllRoles(ctx)
		if err != nil {
			return fail(w, err)
		}
		footer = fmt.Sprintf("\n%d roles\n", len(roles))
	} else {
		page, listErr := app.api.ListRoles(ctx, client.RoleQuery{
			PageNumber: roleListPage,
			PageSize:   roleListSize,
			Name:       roleListName,
			Code:       roleListCode,
		})
		if listErr != nil {
			return fail(w, listErr)
		}
		roles = page.Records
		footer = fmt.Sprintf("\nPage %d/%d (%d roles)\n", page.PageNumber, page.TotalPage, page.TotalRow)
	}

	if IsJSONOutput() {
		printJSON(w, roles)
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tENABLED\tDESCRIPTION")
	for _, r := range roles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", r.ID, r.Code, r.Name, r.Enabled, r.Description)
	}
	tw.Flush()
	fmt.Fprint(w, footer)
	return 0
}

func runRoleGet(ctx context.Context, w io.Writer, args []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	var role *client.Role
	if id, idErr := parseID(args[0]); idErr == nil {
		role, err = app.api.GetRole(ctx, id)
	} else {
		role, err = app.api.GetRoleByCode(ctx, strings.ToUpper(args[0]))
	}
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, role)
		return 0
	}

	fmt.Fprintf(w, "ID:          %d\nCode:        %s\nName:        %s\nEnabled:     %t\nSort:        %d\nDescription: %s\n",
		role.ID, role.Code, role.Name, role.Enabled, role.Sort, role.Description)
	return 0
}

func runRoleCreate(ctx context.Context, w io.Writer, args []string) int {
	code := strings.ToUpper(args[0])
	if err := validate.Required("code", code); err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	available, err := app.api.CheckRoleCode(ctx, code)
	if err != nil {
		return fail(w, err)
	}
	if !available {
		return fail(w, fmt.Errorf("role code %q is already taken", code))
	}

	name := roleCreateName
	if name == "" {
		name = code
	}
	role, err := app.api.CreateRole(ctx, client.RoleCreateRequest{
		Code:        code,
		Name:        name,
		Description: roleCreateDescription,
		Sort:        roleCreateSort,
		Enabled:     !roleCreateDisabled,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, role)
		return 0
	}
	fmt.Fprintf(w, "Created role %s (id %d)\n", role.Code, role.ID)
	return 0
}

func runRoleUpdate(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}
	if roleUpdateName == "" && roleUpdateDescription == "" && roleUpdateSort == 0 {
		return fail(w, fmt.Errorf("nothing to update: pass --name, --description, or --sort"))
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	role, err := app.api.UpdateRole(ctx, id, client.RoleUpdateRequest{
		Name:        roleUpdateName,
		Description: roleUpdateDescription,
		Sort:        roleUpdateSort,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, role)
		return 0
	}
	fmt.Fprintf(w, "Updated role %s (id %d)\n", role.Code, role.ID)
	return 0
}

func runRoleEnable(ctx context.Context, w io.Writer, args []string) int {
	return setRoleEnabled(ctx, w, args[0], true)
}

func runRoleDisable(ctx context.Context, w io.Writer, args []string) int {
	return setRoleEnabled(ctx, w, args[0], false)
}

func setRoleEnabled(ctx context.Context, w io.Writer, arg string, enabled bool) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if err := app.api.SetRoleEnabled(ctx, id, enabled); err != nil {
		return fail(w, err)
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(w, "Role %d %s\n", id, state)
	return 0
}

func runRoleDelete(ctx context.Context, w io.Writer, args []string) int {
	ids, err := parseIDs(args)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if len(ids) == 1 {
		err = app.api.DeleteRole(ctx, ids[0])
	} else {
		err = app.api.DeleteRoles(ctx, ids)
	}
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted %d role(s)\n", len(ids))
	return 0
}

func runRolePerms(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	perms, err := app.api.RolePermissions(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, perms)
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tTYPE")
	for _, p := range perms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Code, p.Name, p.Type)
	}
	tw.Flush()
	return 0
}

func runRoleGrant(ctx context.Context, w io.Writer, args []string) int {
	roleID, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}
	permIDs, err := parseIDs(args[1:])
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if err := app.api.AssignPermissions(ctx, roleID, permIDs); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Granted %d permission(s) to role %d\n", len(permIDs), roleID)
	return 0
}
