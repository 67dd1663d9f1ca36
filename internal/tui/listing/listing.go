// ABOUTME: Reusable table screen for entity listings
// ABOUTME: Wraps a bubbles table with async loading and error display

package listing

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/tui/styles"
)

// LoadFunc fetches the rows for one listing screen.
type LoadFunc func(ctx context.Context) ([]table.Row, error)

// LoadedMsg is sent when a listing finishes loading. Route identifies which
// listing the rows belong to so screens ignore each other's loads.
type LoadedMsg struct {
	Route string
	Rows  []table.Row
	Err   error
}

// Listing is a scrollable entity table with a title and async refresh.
type Listing struct {
	route   string
	title   string
	tbl     table.Model
	load    LoadFunc
	loading bool
	err     error
	width   int
}

// New creates a listing screen for the given route.
func New(route, title string, columns []table.Column, load LoadFunc) *Listing {
	st := table.DefaultStyles()
	st.Header = st.Header.Bold(true).Foreground(styles.Primary)
	st.Selected = st.Selected.Foreground(styles.Text).Background(styles.Surface)

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithStyles(st),
	)

	return &Listing{
		route: route,
		title: title,
		tbl:   tbl,
		load:  load,
	}
}

// Route returns the navigation route this listing serves.
func (l *Listing) Route() string {
	return l.route
}

// Reload returns a command that fetches fresh rows.
func (l *Listing) Reload() tea.Cmd {
	l.loading = true
	l.err = nil
	return func() tea.Msg {
		rows, err := l.load(context.Background())
		return LoadedMsg{Route: l.route, Rows: rows, Err: err}
	}
}

// Update handles loading results and forwards keys to the table.
func (l *Listing) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Route != l.route {
			return nil
		}
		l.loading = false
		l.err = msg.Err
		if msg.Err == nil {
			l.tbl.SetRows(msg.Rows)
		}
		return nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return l.Reload()
		}
	}

	var cmd tea.Cmd
	l.tbl, cmd = l.tbl.Update(msg)
	return cmd
}

// SetSize adjusts the table to the available area.
func (l *Listing) SetSize(width, height int) {
	l.width = width
	if height > 6 {
		l.tbl.SetHeight(height - 6)
	}
}

// View renders the listing.
func (l *Listing) View() string {
	out := styles.Title.Render(l.title) + "\n"

	switch {
	case l.loading:
		out += styles.Subtitle.Render("Loading...")
	case l.err != nil:
		out += styles.StatusError.Render("Error: " + l.err.Error())
	case len(l.tbl.Rows()) == 0:
		out += styles.Subtitle.Render("No records")
	default:
		out += l.tbl.View()
	}

	out += "\n" + styles.Help.Render("r Refresh  ↑↓ Scroll")
	return out
}
