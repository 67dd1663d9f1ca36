// ABOUTME: File-backed credential store under the user config directory
// ABOUTME: Persists the bearer token and identity snapshot across runs

package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tokenFile    = "token"
	sessionFile  = "session.json"
	credFileMode = 0600
)

// PersistedSession is the structured slot written alongside the raw token
// so a restart can restore the full identity without a network call.
type PersistedSession struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store persists credentials as two files: a plain-text token and a JSON
// identity snapshot. All operations are synchronous and never touch the
// network; a missing or corrupt file reads as logged out.
type Store struct {
	mu        sync.Mutex
	configDir string
}

// NewStore creates a store rooted at configDir. The directory is created
// lazily on first write.
func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

// Token returns the persisted bearer token, or "" when logged out.
// Implements the transport pipeline's TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.configDir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetToken persists the bearer token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.configDir, tokenFile), []byte(token), credFileMode)
}

// SaveIdentity persists the structured session snapshot.
func (s *Store) SaveIdentity(ps PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.configDir, sessionFile), data, credFileMode)
}

// LoadIdentity reads the persisted session snapshot. The second return is
// false when nothing usable is stored.
func (s *Store) LoadIdentity() (PersistedSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.configDir, sessionFile))
	if err != nil {
		return PersistedSession{}, false
	}

	var ps PersistedSession
	if err := json.Unmarshal(data, &ps); err != nil {
		slog.Debug("Discarding corrupt session file", "error", err)
		return PersistedSession{}, false
	}
	if ps.Token == "" {
		return PersistedSession{}, false
	}
	return ps, true
}

// Clear erases both credential slots. Safe to call repeatedly.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	os.Remove(filepath.Join(s.configDir, tokenFile))
	os.Remove(filepath.Join(s.configDir, sessionFile))
}
