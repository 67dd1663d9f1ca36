// ABOUTME: Home screen showing entity counts and the signed-in identity
// ABOUTME: Loads all counts in parallel with an errgroup

package dashboard

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/styles"
)

// Stats are the entity counts shown on the dashboard.
type Stats struct {
	Users         int64
	Roles         int64
	Permissions   int64
	DBConnections int64
}

// LoadedMsg is sent when the dashboard data arrives.
type LoadedMsg struct {
	Stats *Stats
	Err   error
}

// Load fetches all counts concurrently. One failing call fails the load;
// the transport has already surfaced its message.
func Load(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())
		var stats Stats

		g.Go(func() error {
			page, err := api.ListUsers(ctx, client.UserQuery{PageNumber: 1, PageSize: 1})
			if err != nil {
				return err
			}
			stats.Users = page.TotalRow
			return nil
		})
		g.Go(func() error {
			roles, err := api.AllRoles(ctx)
			if err != nil {
				return err
			}
			stats.Roles = int64(len(roles))
			return nil
		})
		g.Go(func() error {
			perms, err := api.ListPermissions(ctx, "")
			if err != nil {
				return err
			}
			stats.Permissions = int64(len(perms))
			return nil
		})
		g.Go(func() error {
			page, err := api.ListDBConnections(ctx, client.DBConnectionQuery{PageNumber: 1, PageSize: 1})
			if err != nil {
				return err
			}
			stats.DBConnections = page.TotalRow
			return nil
		})

		if err := g.Wait(); err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Stats: &stats}
	}
}

// Dashboard renders the home screen.
type Dashboard struct {
	stats *Stats
	err   error
	width int
}

// New creates an empty dashboard awaiting a LoadedMsg.
func New(width int) *Dashboard {
	return &Dashboard{width: width}
}

// Update applies a load result.
func (d *Dashboard) Update(msg LoadedMsg) {
	d.stats = msg.Stats
	d.err = msg.Err
}

// SetSize updates the render width.
func (d *Dashboard) SetSize(width int) {
	d.width = width
}

// View renders the dashboard for the given session state.
func (d *Dashboard) View(state session.State) string {
	out := styles.Title.Render("DataPipeline Console") + "\n"

	who := state.Username
	if who == "" {
		who = "(unknown)"
	}
	out += styles.Subtitle.Render("Signed in as "+who) + " " + styles.Tag.Render(state.Role) + "\n"

	switch {
	case d.err != nil:
		out += styles.StatusError.Render("Error: " + d.err.Error())
	case d.stats == nil:
		out += styles.Subtitle.Render("Loading...")
	default:
		out += lipgloss.JoinHorizontal(lipgloss.Top,
			metricBlock("Users", d.stats.Users),
			metricBlock("Roles", d.stats.Roles),
			metricBlock("Permissions", d.stats.Permissions),
			metricBlock("DB Connections", d.stats.DBConnections),
		)
	}

	out += "\n" + styles.Help.Render("u Users  o Roles  p Permissions  d Databases  r Refresh  ctrl+l Logout  q Quit")
	return out
}

func metricBlock(label string, value int64) string {
	content := styles.StatusOK.Render(fmt.Sprintf("%d", value)) + "\n" + styles.Subtitle.Render(label)
	return styles.Panel.Render(content)
}
