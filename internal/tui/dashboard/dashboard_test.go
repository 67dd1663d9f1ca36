// ABOUTME: Tests for the dashboard view rendering
// ABOUTME: Pure view assertions; loading is not driven here

package dashboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
)

func TestView_IdentityLineWithRoleBadge(t *testing.T) {
	d := New(80)
	view := d.View(session.State{Username: "admin", Role: "ADMIN"})

	if !strings.Contains(view, "Signed in as admin") {
		t.Errorf("expected identity line, got:\n%s", view)
	}
	if !strings.Contains(view, "ADMIN") {
		t.Errorf("expected role badge, got:\n%s", view)
	}
}

func TestView_UnknownIdentityPlaceholder(t *testing.T) {
	d := New(80)
	view := d.View(session.State{})

	if !strings.Contains(view, "(unknown)") {
		t.Errorf("expected placeholder for missing username, got:\n%s", view)
	}
}

func TestView_States(t *testing.T) {
	d := New(80)
	state := session.State{Username: "admin", Role: "ADMIN"}

	if view := d.View(state); !strings.Contains(view, "Loading") {
		t.Errorf("expected loading state before data arrives, got:\n%s", view)
	}

	d.Update(LoadedMsg{Err: errors.New("boom")})
	if view := d.View(state); !strings.Contains(view, "boom") {
		t.Errorf("expected error state, got:\n%s", view)
	}

	d.Update(LoadedMsg{Stats: &Stats{Users: 3, Roles: 2, Permissions: 9, DBConnections: 1}})
	view := d.View(state)
	for _, want := range []string{"Users", "Roles", "Permissions", "DB Connections", "3", "9"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in loaded view, got:\n%s", want, view)
		}
	}
}
