// ABOUTME: User management subcommands against /v1/users
// ABOUTME: Paged listing, lookups, create/update, role and password changes

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/validate"
)

var (
	userListPage     int
	userListSize     int
	userListUsername string
	userListRole     string

	userCreatePassword string
	userCreateEmail    string
	userCreateRole     string

	userUpdateUsername string
	userUpdateEmail    string
	userUpdateRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run:   runner(runUserList),
}

var userGetCmd = &cobra.Command{
	Use:   "get <id-or-username>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runUserGet),
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runUserCreate),
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update user fields",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runUserUpdate),
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role <id> <role>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	Run:   runner(runUserSetRole),
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd <id>",
	Short: "Change a user's password",
	Args:  cobra.ExactArgs(1),
	Run:   runner(runUserPasswd),
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more users",
	Args:  cobra.MinimumNArgs(1),
	Run:   runner(runUserDelete),
}

func init() {
	userListCmd.Flags().IntVar(&userListPage, "page", 1, "Page number")
	userListCmd.Flags().IntVar(&userListSize, "size", 20, "Page size")
	userListCmd.Flags().StringVar(&userListUsername, "username", "", "Filter by username substring")
	userListCmd.Flags().StringVar(&userListRole, "role", "", "Filter by role")

	userCreateCmd.Flags().StringVarP(&userCreatePassword, "password", "p", "", "Password (prompted if omitted)")
	userCreateCmd.Flags().StringVar(&userCreateEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userCreateRole, "role", client.RoleUser, "Role (ADMIN, USER, GUEST)")

	userUpdateCmd.Flags().StringVar(&userUpdateUsername, "username", "", "New username")
	userUpdateCmd.Flags().StringVar(&userUpdateEmail, "email", "", "New email address")
	userUpdateCmd.Flags().StringVar(&userUpdateRole, "role", "", "New role")

	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userSetRoleCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserList(ctx context.Context, w io.Writer, _ []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	page, err := app.api.ListUsers(ctx, client.UserQuery{
		PageNumber: userListPage,
		PageSize:   userListSize,
		Username:   userListUsername,
		Role:       userListRole,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, page)
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range page.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, u.CreateTime)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nPage %d/%d (%d users)\n", page.PageNumber, page.TotalPage, page.TotalRow)
	return 0
}

func runUserGet(ctx context.Context, w io.Writer, args []string) int {
	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	var user *client.User
	if id, idErr := parseID(args[0]); idErr == nil {
		user, err = app.api.GetUser(ctx, id)
	} else {
		user, err = app.api.GetUserByUsername(ctx, args[0])
	}
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, user)
		return 0
	}

	fmt.Fprintf(w, "ID:       %d\nUsername: %s\nEmail:    %s\nRole:     %s\nCreated:  %s\nUpdated:  %s\n",
		user.ID, user.Username, user.Email, user.Role, user.CreateTime, user.UpdateTime)
	return 0
}

func runUserCreate(ctx context.Context, w io.Writer, args []string) int {
	username := args[0]
	if err := validate.Username(username); err != nil {
		return fail(w, err)
	}
	if userCreateEmail != "" {
		if err := validate.Email(userCreateEmail); err != nil {
			return fail(w, err)
		}
	}
	if err := validate.Role(userCreateRole, client.RoleAdmin, client.RoleUser, client.RoleGuest); err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	available, err := app.api.CheckUsername(ctx, username)
	if err != nil {
		return fail(w, err)
	}
	if !available {
		return fail(w, fmt.Errorf("username %q is already taken", username))
	}

	password := userCreatePassword
	if password == "" {
		if password, err = promptPassword("Password for " + username); err != nil {
			return fail(w, err)
		}
	}
	if err := validate.Password(password); err != nil {
		return fail(w, err)
	}

	user, err := app.api.CreateUser(ctx, client.UserCreateRequest{
		Username: username,
		Password: password,
		Email:    userCreateEmail,
		Role:     userCreateRole,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, user)
		return 0
	}
	fmt.Fprintf(w, "Created user %s (id %d)\n", user.Username, user.ID)
	return 0
}

func runUserUpdate(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}
	if userUpdateUsername == "" && userUpdateEmail == "" && userUpdateRole == "" {
		return fail(w, fmt.Errorf("nothing to update: pass --username, --email, or --role"))
	}
	if userUpdateUsername != "" {
		if err := validate.Username(userUpdateUsername); err != nil {
			return fail(w, err)
		}
	}
	if userUpdateEmail != "" {
		if err := validate.Email(userUpdateEmail); err != nil {
			return fail(w, err)
		}
	}
	if userUpdateRole != "" {
		if err := validate.Role(userUpdateRole, client.RoleAdmin, client.RoleUser, client.RoleGuest); err != nil {
			return fail(w, err)
		}
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	user, err := app.api.UpdateUser(ctx, id, client.UserUpdateRequest{
		Username: userUpdateUsername,
		Email:    userUpdateEmail,
		Role:     userUpdateRole,
	})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, user)
		return 0
	}
	fmt.Fprintf(w, "Updated user %s (id %d)\n", user.Username, user.ID)
	return 0
}

func runUserSetRole(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}
	role := strings.ToUpper(args[1])
	if err := validate.Role(role, client.RoleAdmin, client.RoleUser, client.RoleGuest); err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if err := app.api.UpdateUserRole(ctx, id, role); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "User %d is now %s\n", id, role)
	return 0
}

func runUserPasswd(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	oldPassword, err := promptPassword("Current password")
	if err != nil {
		return fail(w, err)
	}
	newPassword, err := promptPassword("New password")
	if err != nil {
		return fail(w, err)
	}
	if err := validate.Password(newPassword); err != nil {
		return fail(w, err)
	}

	if err := app.api.ChangePassword(ctx, id, oldPassword, newPassword); err != nil {
		return fail(w, err)
	}
	fmt.Fprintln(w, "Password changed")
	return 0
}

func runUserDelete(ctx context.Context, w io.Writer, args []string) int {
	ids, err := parseIDs(args)
	if err != nil {
		return fail(w, err)
	}

	app, err := bootstrap()
	if err != nil {
		return fail(w, err)
	}

	if len(ids) == 1 {
		err = app.api.DeleteUser(ctx, ids[0])
	} else {
		err = app.api.DeleteUsers(ctx, ids)
	}
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted %d user(s)\n", len(ids))
	return 0
}

// promptPassword asks for a password without echoing it.
func promptPassword(title string) (string, error) {
	var password string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&password),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}
