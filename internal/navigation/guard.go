// ABOUTME: Navigation guard gating every screen transition on session state
// ABOUTME: Resolves each target to exactly one of allow, redirect-login, redirect-home

package navigation

import (
	"context"
	"net/url"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/session"
)

// Well-known routes.
const (
	LoginPath = "/login"
	HomePath  = "/dashboard"
)

// Action is the outcome of resolving a navigation attempt.
type Action int

const (
	// Allow lets the transition proceed to its target.
	Allow Action = iota
	// RedirectLogin sends the user to the login screen, carrying the
	// attempted path so login can return there.
	RedirectLogin
	// RedirectHome sends an already-authenticated user home instead of
	// back to the login screen.
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "allow"
	}
}

// Decision is a resolved navigation. Target is the path to actually visit:
// the attempted path for Allow, the login path with a redirect query for
// RedirectLogin, the home path for RedirectHome.
type Decision struct {
	Action Action
	Target string
}

// LoginRedirect builds the login path carrying the attempted destination,
// e.g. /login?redirect=%2Fusers.
func LoginRedirect(attempted string) string {
	if attempted == "" || attempted == LoginPath {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(attempted)
}

// RedirectParam extracts the post-login destination from a login target
// produced by LoginRedirect. Returns HomePath when none is present.
func RedirectParam(loginTarget string) string {
	u, err := url.Parse(loginTarget)
	if err != nil {
		return HomePath
	}
	if redirect := u.Query().Get("redirect"); redirect != "" {
		return redirect
	}
	return HomePath
}

// Guard decides whether a screen transition may proceed. It reads session
// state and, when the state is ambiguous (token restored but identity not
// yet confirmed), awaits an identity refresh before deciding.
type Guard struct {
	session   *session.Session
	allowList map[string]bool
}

// NewGuard creates a guard. allowList names the public paths reachable
// without a session; the login path is always public.
func NewGuard(s *session.Session, allowList ...string) *Guard {
	allowed := map[string]bool{LoginPath: true}
	for _, path := range allowList {
		allowed[path] = true
	}
	return &Guard{session: s, allowList: allowed}
}

// Resolve maps (session state, target) to exactly one decision. The table
// is evaluated in order and is total: every navigation resolves.
func (g *Guard) Resolve(ctx context.Context, target string) Decision {
	state := g.session.Snapshot()

	// Already in session: the login screen bounces home.
	if state.LoggedIn() && target == LoginPath {
		return Decision{Action: RedirectHome, Target: HomePath}
	}

	// Token restored from disk but identity unconfirmed: confirm first.
	// A failed refresh has already cleared the session.
	if state.LoggedIn() && !state.IdentityKnown() {
		if g.session.RefreshIdentity(ctx) != nil {
			return Decision{Action: Allow, Target: target}
		}
		return Decision{Action: RedirectLogin, Target: LoginRedirect(target)}
	}

	if state.LoggedIn() {
		return Decision{Action: Allow, Target: target}
	}

	if g.allowList[target] {
		return Decision{Action: Allow, Target: target}
	}

	return Decision{Action: RedirectLogin, Target: LoginRedirect(target)}
}
