// ABOUTME: Tests for the navigation guard decision table
// ABOUTME: Covers every row: allow, redirect-login, redirect-home, refresh paths

package navigation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
)

func okEnvelope(data any) []byte {
	payload, _ := json.Marshal(map[string]any{"code": 200, "message": "ok", "data": data})
	return payload
}

// authedSession builds a session in the fully authenticated state.
func authedSession(t *testing.T) *session.Session {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(okEnvelope(map[string]any{
			"token": "tok-abc", "userId": 7, "username": "admin", "role": "ADMIN",
		}))
	}))
	t.Cleanup(server.Close)

	store := session.NewStore(t.TempDir())
	sess := session.Restore(store, client.New(server.URL))
	if _, err := sess.Login(context.Background(), "admin", "secret1", ""); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return sess
}

func anonymousSession(t *testing.T) *session.Session {
	t.Helper()
	store := session.NewStore(t.TempDir())
	return session.Restore(store, client.New("http://unused"))
}

// restoredSession builds the ambiguous state: token on disk, identity not
// yet confirmed. The handler controls whether confirmation succeeds.
func restoredSession(t *testing.T, handler http.HandlerFunc) *session.Session {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(t.TempDir())
	if err := store.SetToken("tok-old"); err != nil {
		t.Fatal(err)
	}
	return session.Restore(store, client.New(server.URL, client.WithTokenSource(store)))
}

func TestResolve_AuthenticatedToProtected(t *testing.T) {
	guard := NewGuard(authedSession(t))

	d := guard.Resolve(context.Background(), "/users")
	if d.Action != Allow || d.Target != "/users" {
		t.Errorf("expected allow /users, got %+v", d)
	}
}

func TestResolve_AuthenticatedToLoginBouncesHome(t *testing.T) {
	guard := NewGuard(authedSession(t))

	d := guard.Resolve(context.Background(), LoginPath)
	if d.Action != RedirectHome || d.Target != HomePath {
		t.Errorf("expected redirect home, got %+v", d)
	}
}

func TestResolve_AnonymousToLogin(t *testing.T) {
	guard := NewGuard(anonymousSession(t))

	d := guard.Resolve(context.Background(), LoginPath)
	if d.Action != Allow || d.Target != LoginPath {
		t.Errorf("expected allow login, got %+v", d)
	}
}

func TestResolve_AnonymousToProtectedCarriesRedirect(t *testing.T) {
	guard := NewGuard(anonymousSession(t))

	d := guard.Resolve(context.Background(), "/dashboard")
	if d.Action != RedirectLogin {
		t.Fatalf("expected redirect login, got %+v", d)
	}
	if d.Target != "/login?redirect=%2Fdashboard" {
		t.Errorf("expected escaped redirect param, got %q", d.Target)
	}
}

func TestResolve_AnonymousToAllowListed(t *testing.T) {
	guard := NewGuard(anonymousSession(t), "/about")

	d := guard.Resolve(context.Background(), "/about")
	if d.Action != Allow || d.Target != "/about" {
		t.Errorf("expected allow-listed path to pass, got %+v", d)
	}
}

func TestResolve_RestoredTokenConfirmedAllows(t *testing.T) {
	sess := restoredSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(okEnvelope(map[string]any{"userId": 7, "username": "admin", "role": "ADMIN"}))
	})
	guard := NewGuard(sess)

	d := guard.Resolve(context.Background(), "/users")
	if d.Action != Allow || d.Target != "/users" {
		t.Errorf("expected allow after confirmation, got %+v", d)
	}
	if !sess.Snapshot().IdentityKnown() {
		t.Error("expected identity confirmed as a side effect")
	}
}

func TestResolve_RestoredTokenRejectedRedirects(t *testing.T) {
	sess := restoredSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	guard := NewGuard(sess)

	d := guard.Resolve(context.Background(), "/users")
	if d.Action != RedirectLogin {
		t.Fatalf("expected redirect login, got %+v", d)
	}
	if d.Target != "/login?redirect=%2Fusers" {
		t.Errorf("expected attempted path carried, got %q", d.Target)
	}
	if sess.Snapshot().LoggedIn() {
		t.Error("expected rejected token to clear the session")
	}
}

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		attempted string
		want      string
	}{
		{"", "/login"},
		{"/login", "/login"},
		{"/users", "/login?redirect=%2Fusers"},
		{"/users?page=2", "/login?redirect=%2Fusers%3Fpage%3D2"},
	}
	for _, tt := range tests {
		if got := LoginRedirect(tt.attempted); got != tt.want {
			t.Errorf("LoginRedirect(%q) = %q, want %q", tt.attempted, got, tt.want)
		}
	}
}

func TestRedirectParam(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/login", HomePath},
		{"/login?redirect=%2Fusers", "/users"},
		{"/login?redirect=%2Fusers%3Fpage%3D2", "/users?page=2"},
		{"://bad", HomePath},
	}
	for _, tt := range tests {
		if got := RedirectParam(tt.target); got != tt.want {
			t.Errorf("RedirectParam(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestAction_String(t *testing.T) {
	if Allow.String() != "allow" || RedirectLogin.String() != "redirect-login" || RedirectHome.String() != "redirect-home" {
		t.Error("unexpected action strings")
	}
}
