// ABOUTME: Tests for the reusable listing screen
// ABOUTME: Covers route identity and load-result filtering

package listing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
)

func newTestListing(route string) *Listing {
	columns := []table.Column{{Title: "Name", Width: 10}}
	return New(route, "Things", columns, func(ctx context.Context) ([]table.Row, error) {
		return []table.Row{{"alpha"}}, nil
	})
}

func TestRoute(t *testing.T) {
	l := newTestListing("/things")
	if got := l.Route(); got != "/things" {
		t.Errorf("Route() = %q, want %q", got, "/things")
	}
}

func TestUpdate_IgnoresForeignRoute(t *testing.T) {
	l := newTestListing("/things")
	l.Update(LoadedMsg{Route: "/others", Rows: []table.Row{{"beta"}}})

	if got := len(l.tbl.Rows()); got != 0 {
		t.Errorf("expected rows untouched by a foreign route's load, got %d", got)
	}
}

func TestUpdate_AppliesOwnRoute(t *testing.T) {
	l := newTestListing("/things")
	l.Update(LoadedMsg{Route: "/things", Rows: []table.Row{{"alpha"}, {"beta"}}})

	if got := len(l.tbl.Rows()); got != 2 {
		t.Errorf("expected 2 rows after load, got %d", got)
	}
}

func TestView_ErrorState(t *testing.T) {
	l := newTestListing("/things")
	l.Update(LoadedMsg{Route: "/things", Err: errors.New("down")})

	if view := l.View(); !strings.Contains(view, "down") {
		t.Errorf("expected error in view, got:\n%s", view)
	}
}
