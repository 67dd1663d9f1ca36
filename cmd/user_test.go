// ABOUTME: Tests for the user management subcommands
// ABOUTME: Verifies listing output, lookups, and batch deletes

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"testing"
)

func TestUserListCommand_TableOutput(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(okEnvelope(map[string]any{
			"records": []map[string]any{
				{"id": 1, "username": "admin", "email": "a@example.com", "role": "ADMIN"},
				{"id": 2, "username": "bob", "email": "b@example.com", "role": "USER"},
			},
			"pageNumber": 1, "pageSize": 20, "totalRow": 2, "totalPage": 1,
		}))
	})

	var buf bytes.Buffer
	if exitCode := runUserList(context.Background(), &buf, nil); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	for _, want := range []string{"USERNAME", "admin", "bob", "Page 1/1 (2 users)"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected %q in output, got:\n%s", want, buf.String())
		}
	}
}

func TestUserGetCommand_ByUsername(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users/username/admin" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(okEnvelope(map[string]any{"id": 1, "username": "admin", "role": "ADMIN"}))
	})

	var buf bytes.Buffer
	if exitCode := runUserGet(context.Background(), &buf, []string{"admin"}); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Username: admin")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestUserGetCommand_NotFound(t *testing.T) {
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	var buf bytes.Buffer
	if exitCode := runUserGet(context.Background(), &buf, []string{"42"}); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Error:")) {
		t.Errorf("expected error output, got %s", buf.String())
	}
}

func TestUserDeleteCommand_Batch(t *testing.T) {
	var gotPath string
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(okEnvelope(nil))
	})

	var buf bytes.Buffer
	if exitCode := runUserDelete(context.Background(), &buf, []string{"1", "2"}); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if gotPath != "/v1/users/batch" {
		t.Errorf("expected batch endpoint, got %s", gotPath)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Deleted 2 user(s)")) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestUserDeleteCommand_InvalidID(t *testing.T) {
	var buf bytes.Buffer
	if exitCode := runUserDelete(context.Background(), &buf, []string{"abc"}); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestUserSetRoleCommand_RejectsUnknownRole(t *testing.T) {
	var hits int
	testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	var buf bytes.Buffer
	if exitCode := runUserSetRole(context.Background(), &buf, []string{"1", "ROOT"}); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if hits != 0 {
		t.Errorf("expected validation to fail before the network, got %d calls", hits)
	}
}
