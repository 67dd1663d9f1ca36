// ABOUTME: User management endpoints under /v1/users
// ABOUTME: Paged listing, lookups, CRUD, role and password changes

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// User is a managed account as returned by the backend.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CreateTime string `json:"createTime"`
	UpdateTime string `json:"updateTime"`
}

// UserQuery filters the paged user listing. Zero page values fall back to
// the server defaults.
type UserQuery struct {
	PageNumber int
	PageSize   int
	Username   string
	Role       string
}

// UserCreateRequest creates a new account.
type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// UserUpdateRequest updates account fields; empty fields are left unchanged.
type UserUpdateRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ListUsers calls GET /v1/users with paging and filters.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*Page[User], error) {
	query := url.Values{}
	if q.PageNumber > 0 {
		query.Set("pageNumber", strconv.Itoa(q.PageNumber))
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Username != "" {
		query.Set("username", q.Username)
	}
	if q.Role != "" {
		query.Set("role", q.Role)
	}

	var page Page[User]
	if err := c.get(ctx, "/v1/users", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser calls GET /v1/users/{id}.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.get(ctx, fmt.Sprintf("/v1/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername calls GET /v1/users/username/{username}.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.get(ctx, "/v1/users/username/"+url.PathEscape(username), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsersByRole calls GET /v1/users/role/{role}.
func (c *Client) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/v1/users/role/"+url.PathEscape(role), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser calls POST /v1/users.
func (c *Client) CreateUser(ctx context.Context, req UserCreateRequest) (*User, error) {
	var user User
	if err := c.post(ctx, "/v1/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser calls PUT /v1/users/{id}.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UserUpdateRequest) (*User, error) {
	var user User
	if err := c.put(ctx, fmt.Sprintf("/v1/users/%d", id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserRole calls PATCH /v1/users/{id}/role?role=. The role travels as
// a query parameter, not a body field.
func (c *Client) UpdateUserRole(ctx context.Context, id int64, role string) error {
	query := url.Values{"role": {role}}
	return c.patch(ctx, fmt.Sprintf("/v1/users/%d/role", id), query, nil, nil)
}

// ChangePassword calls PATCH /v1/users/{id}/password.
func (c *Client) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	req := struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}{OldPassword: oldPassword, NewPassword: newPassword}
	return c.patch(ctx, fmt.Sprintf("/v1/users/%d/password", id), nil, req, nil)
}

// DeleteUser calls DELETE /v1/users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/users/%d", id), nil)
}

// DeleteUsers calls DELETE /v1/users/batch with the id list as body.
func (c *Client) DeleteUsers(ctx context.Context, ids []int64) error {
	return c.delete(ctx, "/v1/users/batch", ids)
}

// CheckUsername reports whether a username is still available.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var available bool
	query := url.Values{"username": {username}}
	if err := c.get(ctx, "/v1/users/check-username", query, &available); err != nil {
		return false, err
	}
	return available, nil
}

// CheckEmail reports whether an email is still available.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var available bool
	query := url.Values{"email": {email}}
	if err := c.get(ctx, "/v1/users/check-email", query, &available); err != nil {
		return false, err
	}
	return available, nil
}
