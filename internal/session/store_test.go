// ABOUTME: Tests for the file-backed credential store
// ABOUTME: Verifies round trips, corrupt-file handling, and clearing

package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStore_TokenRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if got := store.Token(); got != "" {
		t.Errorf("expected empty token before write, got %q", got)
	}

	if err := store.SetToken("tok-123"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if got := store.Token(); got != "tok-123" {
		t.Errorf("expected tok-123, got %q", got)
	}
}

func TestStore_TokenTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok-123\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if got := store.Token(); got != "tok-123" {
		t.Errorf("expected trimmed token, got %q", got)
	}
}

func TestStore_IdentityRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, ok := store.LoadIdentity(); ok {
		t.Error("expected no identity before write")
	}

	want := PersistedSession{Token: "tok-123", UserID: 7, Username: "admin", Role: "ADMIN"}
	if err := store.SaveIdentity(want); err != nil {
		t.Fatalf("SaveIdentity failed: %v", err)
	}

	got, ok := store.LoadIdentity()
	if !ok {
		t.Fatal("expected identity after write")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestStore_CorruptIdentityReadsAsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if _, ok := store.LoadIdentity(); ok {
		t.Error("expected corrupt file to read as logged out")
	}
}

func TestStore_EmptyTokenIdentityRejected(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.SaveIdentity(PersistedSession{Username: "ghost"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.LoadIdentity(); ok {
		t.Error("expected snapshot without a token to read as logged out")
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveIdentity(PersistedSession{Token: "tok-123", Username: "admin"}); err != nil {
		t.Fatal(err)
	}

	store.Clear()
	store.Clear()

	if got := store.Token(); got != "" {
		t.Errorf("expected empty token after clear, got %q", got)
	}
	if _, ok := store.LoadIdentity(); ok {
		t.Error("expected no identity after clear")
	}
}

func TestStore_CredentialFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 token file, got %v", info.Mode().Perm())
	}
}
