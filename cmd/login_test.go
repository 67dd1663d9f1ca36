// ABOUTME: Tests for the login, logout, and whoami commands
// ABOUTME: Runs against an httptest backend with an isolated credential dir

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okEnvelope(data any) []byte {
	payload, _ := json.Marshal(map[string]any{"code": 200, "message": "ok", "data": data})
	return payload
}

// testBackend points the command layer at an in-process server with a
// throwaway credential directory.
func testBackend(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	apiURL = server.URL
	t.Cleanup(func() { apiURL = "" })
	t.Setenv("DATAPIPELINE_CONFIG_DIR", t.TempDir())
	t.Setenv("DATAPIPELINE_CAPTCHA", "false")
}

func TestLoginCommand_Success(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(okEnvelope(map[string]any{
			"token": "tok-abc", "userId": 7, "username": "admin", "role": "ADMIN",
		}))
	})

	loginUsername = "admin"
	loginPassword = "secret1"
	defer func() { loginUsername, loginPassword = "", "" }()

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Logged in as admin [ADMIN]")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1002,"message":"Bad credentials","data":null}`))
	})

	loginUsername = "admin"
	loginPassword = "wrong1"
	defer func() { loginUsername, loginPassword = "", "" }()

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Error:")) {
		t.Errorf("expected error output, got %s", buf.String())
	}
}

func TestLoginCommand_InvalidUsernameRejectedLocally(t *testing.T) {
	var hits int
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	loginUsername = "x"
	loginPassword = "secret1"
	defer func() { loginUsername, loginPassword = "", "" }()

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if hits != 0 {
		t.Errorf("expected no network call for invalid username, got %d", hits)
	}
}

func TestLogoutCommand_ClearsStoredSession(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(okEnvelope(map[string]any{
			"token": "tok-abc", "userId": 7, "username": "admin", "role": "ADMIN",
		}))
	})

	loginUsername = "admin"
	loginPassword = "secret1"
	defer func() { loginUsername, loginPassword = "", "" }()

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("login failed: %s", buf.String())
	}

	buf.Reset()
	if exitCode := runLogout(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("logout failed: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Logged out")) {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	if exitCode := runWhoami(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1 after logout, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Not logged in")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWhoamiCommand_ConfirmsStoredSession(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			w.Write(okEnvelope(map[string]any{
				"token": "tok-abc", "userId": 7, "username": "admin", "role": "ADMIN",
			}))
		case "/v1/auth/me":
			w.Write(okEnvelope(map[string]any{
				"userId": 7, "username": "admin", "role": "ADMIN",
			}))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	loginUsername = "admin"
	loginPassword = "secret1"
	defer func() { loginUsername, loginPassword = "", "" }()

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("login failed: %s", buf.String())
	}

	buf.Reset()
	if exitCode := runWhoami(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("whoami failed: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("admin")) {
		t.Errorf("expected username in output, got %s", buf.String())
	}
}

func TestWhoamiCommand_RejectedTokenReportsLoggedOut(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			w.Write(okEnvelope(map[string]any{
				"token": "tok-abc", "userId": 7, "username": "admin", "role": "ADMIN",
			}))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	loginUsername = "admin"
	loginPassword = "secret1"
	defer func() { loginUsername, loginPassword = "", "" }()

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("login failed: %s", buf.String())
	}

	buf.Reset()
	if exitCode := runWhoami(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Not logged in")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
