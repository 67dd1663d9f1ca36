// ABOUTME: Permission management subcommands against /v1/permissions
// ABOUTME: Flat and tree listings, CRUD, and enable toggling

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
	permListType string

	permCreateName   string
	permCreateType   string
	permCreateParent int64
	permCreatePath   string
	permCreateIcon   string
	permCreateSort   int
	permCreateHidden bool

	permUpdateName   string
	permUpdateParent int64
	permUpdatePath   string
	permUpdateIcon   string
	permUpdateSort   int
)

var permCmd = &cobra.Command{
	Use:     "permission",
	Aliases: []string{"perm"},
	Short:   "Manage permissions",
}

var permListCmd = &cobra.Command{
	Use:   "list",
	Short: "List permissions",
	Run:   runner(runPermList),
}

var permTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the permission hierarchy",
	Run:   runner(runPermTree),
}

var permGetCmd = &cobra.Command{
	Use:   "get <id-or-code>",
	Short: "Show one permission",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runPermGet),
}

var permCreateCmd = &cobra.Command{
	Use:   "create <code>",
	Short: "Create a permission",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runPermCreate),
}

var permUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update permission fields",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runPermUpdate),
}

var permEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a permission",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runPermEnable),
}

var permDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a permission",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runPermDisable),
}

var permDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more permissions",
	Args:  cobra.MinimumNArgs(1),
	Run:   runner(runPermDelete),
}

func init() {
	permListCmd.Flags().StringVar(&permListType, "type", "", "Filter by type (MENU, BUTTON, API)")

	permCreateCmd.Flags().StringVar(&permCreateName, "name", "", "Display name (defaults to the code)")
	permCreateCmd.Flags().StringVar(&permCreateType, "type", client.PermissionMenu, "Type (MENU, BUTTON, API)")
	permCreateCmd.Flags().Int64Var(&permCreateParent, "parent", 0, "Parent permission ID")
	permCreateCmd.Flags().StringVar(&permCreatePath, "path", "", "Route or endpoint path")
	permCreateCmd.Flags().StringVar(&permCreateIcon, "icon", "", "Icon name")
	permCreateCmd.Flags().IntVar(&permCreateSort, "sort", 0, "Sort order")
	permCreateCmd.Flags().BoolVar(&permCreateHidden, "disabled", false, "Create the permission disabled")

	permUpdateCmd.Flags().StringVar(&permUpdateName, "name", "", "New display name")
	permUpdateCmd.Flags().Int64Var(&permUpdateParent, "parent", 0, "New parent permission ID")
	permUpdateCmd.Flags().StringVar(&permUpdatePath, "path", "", "New route or endpoint path")
	permUpdateCmd.Flags().StringVar(&permUpdateIcon, "icon", "", "New icon name")
	permUpdateCmd.Flags().IntVar(&permUpdateSort, "sort", 0, "New sort order")

	permCmd.AddCommand(permListCmd)
	permCmd.AddCommand(permTreeCmd)
	permCmd.AddCommand(permGetCmd)
	permCmd.AddCommand(permCreateCmd)
	permCmd.AddCommand(permUpdateCmd)
	permCmd.AddCommand(permEnableCmd)
	permCmd.AddCommand(permDisableCmd)
	permCmd.AddCommand(permDeleteCmd)
	rootCmd.AddCommand(permCmd)
}

func validPermType(permType string) error {
	switch permType {
	case "", client.PermissionMenu, client.PermissionButton, client.PermissionAPI:
		return nil
	}
	return fmt.Errorf("invalid type %q: must be MENU, BUTTON, or API", permType)
}

func runPermList(ctx context.Context, w io.Writer, _ []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	permType := strings.ToUpper(permListType)
	if err := validPermType(permType); err != nil {
		return fail(w, err)
	}

	perms, err := app.api.ListPermissions(ctx, permType)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, perms)
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tTYPE\tENABLED\tPATH")
	for _, p := range perms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\n", p.ID, p.Code, p.Name, p.Type, p.Enabled, p.Path)
	}
	tw.Flush()
	return 0
}

func runPermTree(ctx context.Context, w io.Writer, _ []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	tree, err := app.api.PermissionTree(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, tree)
		return 0
	}

	printPermTree(w, tree, 0)
	return 0
}

func printPermTree(w io.Writer, perms []client.Permission, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range perms {
		fmt.Fprintf(w, "%s%s [%s] (id %d)\n", indent, p.Name, p.Code, p.ID)
		if len(p.Children) > 0 {
			printPermTree(w, p.Children, depth+1)
		}
	}
}

func runPermGet(ctx context.Context, w io.Writer, args []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	var perm *client.Permission
	if id, idErr := parseID(args[0]); idErr == nil {
		perm, err = app.api.GetPermission(ctx, id)
	} else {
		perm, err = app.api.GetPermissionByCode(ctx, args[0])
	}
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, perm)
		return 0
	}

	fmt.Fprintf(w, "ID:      %d\nCode:    %s\nName:    %s\nType:    %s\nParent:  %d\nPath:    %s\nEnabled: %t\n",
		perm.ID, perm.Code, perm.Name, perm.Type, perm.ParentID, perm.Path, perm.Enabled)
	return 0
}

func runPermCreate(ctx context.Context, w io.Writer, args []string) int {
	code := args[0]
	if err := validate.Required("code", code); err != nil {
		return fail(w, err)
	}
	permType := strings.ToUpper(permCreateType)
	if permType == "" {
		return fail(w, fmt.Errorf("type is required"))
	}
	if err := validPermType(permType); err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	available, err := app.api.CheckPermissionCode(ctx, code)
	if err != nil {
		return fail(w, err)
	}
	if !available {
		return fail(w, fmt.Errorf("permission code %q is already taken", code))
	}

	name := permCreateName
	if name == "" {
		name = code
	}
	perm, err := app.api.CreatePermission(ctx, client.PermissionCreateRequest{
		Code:     code,
		Name:     name,
		Type:     permType,
		ParentID: permCreateParent,
		Path:     permCreatePath,
		Icon:     permCreateIcon,
		Sort:     permCreateSort,
		Enabled:  !permCreateHidden,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, perm)
		return 0
	}
	fmt.Fprintf(w, "Created permission %s (id %d)\n", perm.Code, perm.ID)
	return 0
}

func runPermUpdate(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}
	if permUpdateName == "" && permUpdateParent == 0 && permUpdatePath == "" && permUpdateIcon == "" && permUpdateSort == 0 {
		return fail(w, fmt.Errorf("nothing to update: pass --name, --parent, --path, --icon, or --sort"))
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	perm, err := app.api.UpdatePermission(ctx, id, client.PermissionUpdateRequest{
		Name:     permUpdateName,
		ParentID: permUpdateParent,
		Path:     permUpdatePath,
		Icon:     permUpdateIcon,
		Sort:     permUpdateSort,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, perm)
		return 0
	}
	fmt.Fprintf(w, "Updated permission %s (id %d)\n", perm.Code, perm.ID)
	return 0
}

func runPermEnable(ctx context.Context, w io.Writer, args []string) int {
	return setPermEnabled(ctx, w, args[0], true)
}

func runPermDisable(ctx context.Context, w io.Writer, args []string) int {
	return setPermEnabled(ctx, w, args[0], false)
}

func setPermEnabled(ctx context.Context, w io.Writer, arg string, enabled bool) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if err := app.api.SetPermissionEnabled(ctx, id, enabled); err != nil {
		return fail(w, err)
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(w, "Permission %d %s\n", id, state)
	return 0
}

func runPermDelete(ctx context.Context, w io.Writer, args []string) int {
	ids, err := parseIDs(args)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if len(ids) == 1 {
		err = app.api.DeletePermission(ctx, ids[0])
	} else {
		err = app.api.DeletePermissions(ctx, ids)
	}
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted %d permission(s)\n", len(ids))
	return 0
}
