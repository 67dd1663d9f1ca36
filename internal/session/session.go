// ABOUTME: Authoritative client-side session state machine
// ABOUTME: Two states (anonymous, authenticated) mutated only by login, logout, refresh, clear

package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/client"
)

// State is an atomic snapshot of the session fields. The invariant holds
// for every reachable snapshot: Token == "" exactly when UserID == 0 and
// Username == "".
type State struct {
	Token    string
	UserID   int64
	Username string
	Role     string
}

// LoggedIn reports whether a bearer token is held.
func (st State) LoggedIn() bool {
	return st.Token != ""
}

// IdentityKnown reports whether the identity fields have been populated.
// False with a token present means the session was restored from disk and
// has not been confirmed against the server yet.
func (st State) IdentityKnown() bool {
	return st.Username != ""
}

// IsAdmin reports whether the confirmed role is ADMIN.
func (st State) IsAdmin() bool {
	return st.Role == client.RoleAdmin
}

// Session is the process-wide login state. It is the single writer of the
// credential store. Mutations happen atomically under the internal mutex;
// bubbletea commands and concurrent CLI calls may touch it from multiple
// goroutines.
type Session struct {
	store *Store
	api   *client.Client

	mu       sync.Mutex
	token    string
	userID   int64
	username string
	role     string

	refresh singleflight.Group
}

// Restore builds the session from whatever the credential store holds.
// A bare token restores the authenticated-identity-unknown state; a full
// snapshot whose token matches restores the identity too.
func Restore(store *Store, api *client.Client) *Session {
	s := &Session{store: store, api: api}

	token := store.Token()
	if token == "" {
		return s
	}
	s.token = token

	if ps, ok := store.LoadIdentity(); ok && ps.Token == token {
		s.userID = ps.UserID
		s.username = ps.Username
		s.role = ps.Role
	}
	return s
}

// Snapshot returns the current session fields as one consistent value.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Token: s.token, UserID: s.userID, Username: s.username, Role: s.role}
}

// Login authenticates against the server and, on success, atomically sets
// all session fields and persists the credentials. The error is whatever
// classification the transport produced.
func (s *Session) Login(ctx context.Context, username, password, captchaToken string) (*client.Identity, error) {
	identity, err := s.api.Login(ctx, client.LoginRequest{
		Username:     username,
		Password:     password,
		CaptchaToken: captchaToken,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = identity.Token
	s.userID = identity.UserID
	s.username = identity.Username
	s.role = identity.Role
	s.mu.Unlock()

	if err := s.store.SetToken(identity.Token); err != nil {
		slog.Warn("Failed to persist token", "error", err)
	}
	if err := s.store.SaveIdentity(PersistedSession{
		Token:    identity.Token,
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}); err != nil {
		slog.Warn("Failed to persist session", "error", err)
	}

	return identity, nil
}

// Logout tells the server to drop the token, then clears local state no
// matter what. A failed network call never blocks a local logout; it is
// logged and swallowed.
func (s *Session) Logout(ctx context.Context) {
	if s.Snapshot().LoggedIn() {
		if err := s.api.Logout(ctx); err != nil {
			slog.Warn("Logout request failed, clearing local session anyway", "error", err)
		}
	}
	s.Clear()
}

// RefreshIdentity confirms the stored token against the server and updates
// the identity fields. It returns nil without a network call when
// anonymous. Any failure is treated as an invalid session: the state is
// cleared and nil returned — redirecting is the caller's job.
//
// Concurrent refreshes for the same token collapse into one flight. Each
// flight is stamped with the token it was issued against; if the session
// moved on before the response lands (logout, re-login), the stale result
// is discarded instead of resurrecting dead state.
func (s *Session) RefreshIdentity(ctx context.Context) *client.Identity {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return nil
	}

	v, err, _ := s.refresh.Do(token, func() (interface{}, error) {
		return s.api.CurrentUser(ctx)
	})

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		slog.Debug("Discarding stale identity refresh", "token_changed", true)
		return nil
	}

	if err != nil {
		s.clearLocked()
		s.mu.Unlock()
		s.store.Clear()
		return nil
	}

	identity := v.(*client.Identity)
	s.userID = identity.UserID
	s.username = identity.Username
	s.role = identity.Role
	s.mu.Unlock()

	if err := s.store.SaveIdentity(PersistedSession{
		Token:    token,
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}); err != nil {
		slog.Warn("Failed to persist session", "error", err)
	}

	return identity
}

// Clear zeroes every session field and erases the credential store.
// Synchronous and idempotent; called by logout, by failed refreshes, and
// by the transport's 401 handler — possibly several times concurrently.
func (s *Session) Clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.store.Clear()
}

func (s *Session) clearLocked() {
	s.token = ""
	s.userID = 0
	s.username = ""
	s.role = ""
}
