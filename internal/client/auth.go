// ABOUTME: Authentication endpoints: login, logout, current user
// ABOUTME: Mirrors the /v1/auth API surface

package client

import "context"

// Closed set of roles known to the backend.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
	RoleGuest = "GUEST"
)

// Identity is the authenticated-user payload returned by login and /me.
// The token field is only meaningful on login; /me echoes it back empty.
type Identity struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// LoginRequest carries credentials plus the optional captcha proof token.
type LoginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// Login calls POST /v1/auth/login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Identity, error) {
	var identity Identity
	if err := c.post(ctx, "/v1/auth/login", req, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout calls POST /v1/auth/logout. The server invalidates the token;
// local state cleanup is the session's responsibility.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/v1/auth/logout", nil, nil)
}

// CurrentUser calls GET /v1/auth/me for the identity behind the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.get(ctx, "/v1/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
