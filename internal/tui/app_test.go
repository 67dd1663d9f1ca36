// ABOUTME: Tests for screen routing and the route tracker
// ABOUTME: Pure logic only; the program loop is not driven here

package tui

import (
	"strings"
	"sync"
	"testing"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/navigation"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/notify"
)

func TestScreenForRoute(t *testing.T) {
	tests := []struct {
		route string
		want  Screen
	}{
		{navigation.LoginPath, ScreenLogin},
		{navigation.HomePath, ScreenDashboard},
		{"/users", ScreenUsers},
		{"/roles", ScreenRoles},
		{"/permissions", ScreenPermissions},
		{"/db-connections", ScreenDBConns},
		{"/unknown", ScreenDashboard},
	}
	for _, tt := range tests {
		if got := screenForRoute(tt.route); got != tt.want {
			t.Errorf("screenForRoute(%q) = %v, want %v", tt.route, got, tt.want)
		}
	}
}

func TestScreenForRoute_StripsQuery(t *testing.T) {
	if got := screenForRoute("/login?redirect=%2Fusers"); got != ScreenLogin {
		t.Errorf("expected login screen for route with query, got %v", got)
	}
}

func TestScreenRoutes_RoundTrip(t *testing.T) {
	for screen, route := range screenRoutes {
		if got := screenForRoute(route); got != screen {
			t.Errorf("route %q maps to %v, want %v", route, got, screen)
		}
	}
}

func TestRouteTracker_Concurrent(t *testing.T) {
	tracker := &routeTracker{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.set("/users")
			_ = tracker.get()
		}()
	}
	wg.Wait()

	if got := tracker.get(); got != "/users" {
		t.Errorf("expected /users, got %q", got)
	}
}

func TestEnabledText(t *testing.T) {
	if enabledText(true) == enabledText(false) {
		t.Error("expected distinct rendering for enabled and disabled")
	}
}

func TestStatusLine(t *testing.T) {
	app := &App{}
	if got := app.statusLine(); got != "" {
		t.Errorf("expected empty status line without a recorder, got %q", got)
	}

	app.notices = notify.NewRecorder()
	if got := app.statusLine(); got != "" {
		t.Errorf("expected empty status line without messages, got %q", got)
	}

	app.notices.Notify(notify.LevelError, "request failed")
	app.notices.Notify(notify.LevelError, "connection lost")
	if got := app.statusLine(); !strings.Contains(got, "connection lost") {
		t.Errorf("expected status line to carry the latest message, got %q", got)
	}

	app.notices.Drain()
	if got := app.statusLine(); got != "" {
		t.Errorf("expected status line to clear after drain, got %q", got)
	}
}
