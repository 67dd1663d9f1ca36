// ABOUTME: Root bubbletea model for the admin console TUI
// ABOUTME: Every screen transition is resolved through the navigation guard

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huyaoxiaohonghong/DataPipeline/config"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/navigation"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/notify"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/dashboard"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/listing"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/login"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/styles"
)

// Screen identifies the active TUI screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenUsers
	ScreenRoles
	ScreenPermissions
	ScreenDBConns
)

// Routes for each screen; the guard speaks in routes, not Screen values.
const (
	routeUsers       = "/users"
	routeRoles       = "/roles"
	routePermissions = "/permissions"
	routeDBConns     = "/db-connections"
)

var screenRoutes = map[Screen]string{
	ScreenLogin:       navigation.LoginPath,
	ScreenDashboard:   navigation.HomePath,
	ScreenUsers:       routeUsers,
	ScreenRoles:       routeRoles,
	ScreenPermissions: routePermissions,
	ScreenDBConns:     routeDBConns,
}

func screenForRoute(route string) Screen {
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}
	for screen, r := range screenRoutes {
		if r == route {
			return screen
		}
	}
	return ScreenDashboard
}

// navResolvedMsg carries the guard's verdict for an attempted navigation.
type navResolvedMsg struct {
	decision navigation.Decision
}

// sessionExpiredMsg is sent from the transport's 401 handler. The session
// is already cleared by the time it arrives.
type sessionExpiredMsg struct {
	redirect string
}

// loggedOutMsg is sent when an explicit logout completes.
type loggedOutMsg struct{}

// routeTracker shares the current route with the 401 hook, which runs on
// whatever goroutine the failing request used.
type routeTracker struct {
	mu    sync.Mutex
	route string
}

func (t *routeTracker) set(route string) {
	t.mu.Lock()
	t.route = route
	t.mu.Unlock()
}

func (t *routeTracker) get() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}

// App is the root model.
type App struct {
	cfg     *config.Config
	api     *client.Client
	sess    *session.Session
	guard   *navigation.Guard
	tracker *routeTracker

	screen  Screen
	width   int
	height  int
	notices *notify.Recorder

	loginScreen *login.Login
	dash        *dashboard.Dashboard
	listings    map[Screen]*listing.Listing
}

// New creates the TUI application.
func New(cfg *config.Config, api *client.Client, sess *session.Session, guard *navigation.Guard) *App {
	a := &App{
		cfg:     cfg,
		api:     api,
		sess:    sess,
		guard:   guard,
		tracker: &routeTracker{route: navigation.HomePath},
		screen:  ScreenDashboard,
		dash:    dashboard.New(80),
	}
	a.listings = map[Screen]*listing.Listing{
		ScreenUsers:       newUsersListing(api),
		ScreenRoles:       newRolesListing(api),
		ScreenPermissions: newPermissionsListing(api),
		ScreenDBConns:     newDBConnsListing(api),
	}
	return a
}

// Init resolves the boot navigation: the guard decides whether the restored
// session lands on the dashboard or on the login screen.
func (a *App) Init() tea.Cmd {
	return a.navigate(navigation.HomePath)
}

// navigate asks the guard about a target route. The resolution may await an
// identity refresh, so it runs as a command.
func (a *App) navigate(target string) tea.Cmd {
	return func() tea.Msg {
		return navResolvedMsg{decision: a.guard.Resolve(context.Background(), target)}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dash.SetSize(msg.Width - 4)
		for _, l := range a.listings {
			l.SetSize(msg.Width-4, msg.Height-4)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == ScreenLogin {
			return a.updateLogin(msg)
		}
		return a.updateKeys(msg)

	case navResolvedMsg:
		return a.applyDecision(msg.decision)

	case sessionExpiredMsg:
		// Repeated 401s while already on the login screen are no-ops.
		if a.screen == ScreenLogin {
			return a, nil
		}
		cmd := a.enterLogin(navigation.LoginRedirect(msg.redirect))
		a.loginScreen.SetError("Session expired, please log in again")
		return a, cmd

	case loggedOutMsg:
		return a, a.enterLogin(navigation.LoginPath)

	case login.SubmittedMsg:
		return a, a.navigate(msg.Redirect)

	case login.FailedMsg:
		// Fresh form and a fresh captcha; challenges are single-use.
		redirect := navigation.HomePath
		if a.loginScreen != nil {
			redirect = a.loginScreen.Redirect()
		}
		cmd := a.enterLogin(navigation.LoginRedirect(redirect))
		a.loginScreen.SetError(msg.Reason)
		return a, cmd

	case dashboard.LoadedMsg:
		a.dash.Update(msg)
		return a, nil

	case listing.LoadedMsg:
		for _, l := range a.listings {
			if l.Route() == msg.Route {
				return a, l.Update(msg)
			}
		}
		return a, nil

	default:
		// huh form internals need every message while login is active
		if a.screen == ScreenLogin && a.loginScreen != nil {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginScreen == nil {
		return a, nil
	}
	model, cmd := a.loginScreen.Update(msg)
	a.loginScreen = model
	return a, cmd
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "h":
		return a, a.navigate(navigation.HomePath)
	case "u":
		return a, a.navigate(routeUsers)
	case "o":
		return a, a.navigate(routeRoles)
	case "p":
		return a, a.navigate(routePermissions)
	case "d":
		return a, a.navigate(routeDBConns)
	case "ctrl+l":
		return a, a.logout()
	}

	if a.screen == ScreenDashboard {
		if msg.String() == "r" {
			return a, dashboard.Load(a.api)
		}
		return a, nil
	}

	if l, ok := a.listings[a.screen]; ok {
		return a, l.Update(msg)
	}
	return a, nil
}

// applyDecision enacts a guard verdict.
func (a *App) applyDecision(d navigation.Decision) (tea.Model, tea.Cmd) {
	switch d.Action {
	case navigation.RedirectLogin:
		return a, a.enterLogin(d.Target)
	case navigation.RedirectHome:
		return a, a.enter(navigation.HomePath)
	default:
		return a, a.enter(d.Target)
	}
}

// enter switches to the screen behind an allowed route and kicks off its
// data load.
func (a *App) enter(route string) tea.Cmd {
	screen := screenForRoute(route)
	a.screen = screen
	a.tracker.set(screenRoutes[screen])
	if a.notices != nil {
		a.notices.Drain()
	}

	switch screen {
	case ScreenDashboard:
		return dashboard.Load(a.api)
	case ScreenLogin:
		return a.enterLogin(route)
	default:
		if l, ok := a.listings[screen]; ok {
			return l.Reload()
		}
	}
	return nil
}

// enterLogin switches to a fresh login screen. loginTarget may carry the
// post-login destination as built by navigation.LoginRedirect.
func (a *App) enterLogin(loginTarget string) tea.Cmd {
	redirect := navigation.RedirectParam(loginTarget)
	a.screen = ScreenLogin
	a.tracker.set(navigation.LoginPath)
	a.loginScreen = login.New(a.sess, a.api, a.cfg.CaptchaEnabled, redirect)
	return a.loginScreen.Init()
}

// logout calls the server best-effort and clears local state either way.
func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.sess.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		if a.loginScreen != nil {
			content = a.loginScreen.View()
		}
	case ScreenDashboard:
		content = a.dash.View(a.sess.Snapshot())
	default:
		if l, ok := a.listings[a.screen]; ok {
			content = l.View()
		}
	}

	return styles.ActivePanel.Render(content) + a.statusLine()
}

// statusLine renders the most recent transport notification, if any. The
// line clears on the next screen transition.
func (a *App) statusLine() string {
	if a.notices == nil {
		return ""
	}
	msgs := a.notices.Messages()
	if len(msgs) == 0 {
		return ""
	}
	last := msgs[len(msgs)-1]
	style := styles.Subtitle
	if last.Level == notify.LevelError {
		style = styles.StatusError
	}
	return "\n" + style.Render(last.Text)
}

// Run starts the TUI and wires the transport's 401 handler to the session
// and the screen router.
func Run(cfg *config.Config, api *client.Client, sess *session.Session) error {
	guard := navigation.NewGuard(sess)
	app := New(cfg, api, sess, guard)

	// Route transport errors into the status line instead of the log,
	// which would tear up the alternate screen.
	app.notices = notify.NewRecorder()
	api.SetNotifier(app.notices)

	p := tea.NewProgram(app, tea.WithAltScreen())

	api.SetUnauthorizedHandler(func() {
		sess.Clear()
		p.Send(sessionExpiredMsg{redirect: app.tracker.get()})
	})

	_, err := p.Run()
	return err
}

func newUsersListing(api *client.Client) *listing.Listing {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Username", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Role", Width: 8},
		{Title: "Created", Width: 20},
	}
	return listing.New(routeUsers, "Users", columns, func(ctx context.Context) ([]table.Row, error) {
		page, err := api.ListUsers(ctx, client.UserQuery{PageNumber: 1, PageSize: 50})
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, 0, len(page.Records))
		for _, u := range page.Records {
			rows = append(rows, table.Row{
				strconv.FormatInt(u.ID, 10), u.Username, u.Email, u.Role, u.CreateTime,
			})
		}
		return rows, nil
	})
}

func newRolesListing(api *client.Client) *listing.Listing {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Code", Width: 14},
		{Title: "Name", Width: 22},
		{Title: "Enabled", Width: 8},
		{Title: "Sort", Width: 6},
	}
	return listing.New(routeRoles, "Roles", columns, func(ctx context.Context) ([]table.Row, error) {
		roles, err := api.AllRoles(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, 0, len(roles))
		for _, r := range roles {
			rows = append(rows, table.Row{
				strconv.FormatInt(r.ID, 10), r.Code, r.Name, enabledText(r.Enabled), strconv.Itoa(r.Sort),
			})
		}
		return rows, nil
	})
}

func newPermissionsListing(api *client.Client) *listing.Listing {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Code", Width: 22},
		{Title: "Name", Width: 22},
		{Title: "Type", Width: 8},
		{Title: "Enabled", Width: 8},
	}
	return listing.New(routePermissions, "Permissions", columns, func(ctx context.Context) ([]table.Row, error) {
		perms, err := api.ListPermissions(ctx, "")
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, 0, len(perms))
		for _, p := range perms {
			rows = append(rows, table.Row{
				strconv.FormatInt(p.ID, 10), p.Code, p.Name, p.Type, enabledText(p.Enabled),
			})
		}
		return rows, nil
	})
}

func newDBConnsListing(api *client.Client) *listing.Listing {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 18},
		{Title: "Type", Width: 12},
		{Title: "Host", Width: 22},
		{Title: "Database", Width: 16},
		{Title: "Enabled", Width: 8},
	}
	return listing.New(routeDBConns, "Database Connections", columns, func(ctx context.Context) ([]table.Row, error) {
		page, err := api.ListDBConnections(ctx, client.DBConnectionQuery{PageNumber: 1, PageSize: 50})
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, 0, len(page.Records))
		for _, c := range page.Records {
			rows = append(rows, table.Row{
				strconv.FormatInt(c.ID, 10), c.Name, c.DBType,
				fmt.Sprintf("%s:%d", c.Host, c.Port), c.DatabaseName, enabledText(c.Enabled),
			})
		}
		return rows, nil
	})
}

func enabledText(enabled bool) string {
	if enabled {
		return "yes"
	}
	return "no"
}
