// ABOUTME: Role management endpoints under /v1/roles
// ABOUTME: Paged listing, code lookups, CRUD, enable toggle

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Role is a named permission grouping.
type Role struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sort        int    `json:"sort"`
	Enabled     bool   `json:"enabled"`
	CreateTime  string `json:"createTime"`
	UpdateTime  string `json:"updateTime"`
}

// RoleQuery filters the paged role listing.
type RoleQuery struct {
	PageNumber int
	PageSize   int
	Name       string
	Code       string
}

// RoleCreateRequest creates a new role.
type RoleCreateRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sort        int    `json:"sort,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// RoleUpdateRequest updates role fields; the code is immutable.
type RoleUpdateRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Sort        int    `json:"sort,omitempty"`
}

// ListRoles calls GET /v1/roles with paging and filters.
func (c *Client) ListRoles(ctx context.Context, q RoleQuery) (*Page[Role], error) {
	query := url.Values{}
	if q.PageNumber > 0 {
		query.Set("pageNumber", strconv.Itoa(q.PageNumber))
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Name != "" {
		query.Set("name", q.Name)
	}
	if q.Code != "" {
		query.Set("code", q.Code)
	}

	var page Page[Role]
	if err := c.get(ctx, "/v1/roles", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllRoles calls GET /v1/roles/all.
func (c *Client) AllRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.get(ctx, "/v1/roles/all", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// EnabledRoles calls GET /v1/roles/enabled.
func (c *Client) EnabledRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.get(ctx, "/v1/roles/enabled", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRole calls GET /v1/roles/{id}.
func (c *Client) GetRole(ctx context.Context, id int64) (*Role, error) {
	var role Role
	if err := c.get(ctx, fmt.Sprintf("/v1/roles/%d", id), nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoleByCode calls GET /v1/roles/code/{code}.
func (c *Client) GetRoleByCode(ctx context.Context, code string) (*Role, error) {
	var role Role
	if err := c.get(ctx, "/v1/roles/code/"+url.PathEscape(code), nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole calls POST /v1/roles.
func (c *Client) CreateRole(ctx context.Context, req RoleCreateRequest) (*Role, error) {
	var role Role
	if err := c.post(ctx, "/v1/roles", req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole calls PUT /v1/roles/{id}.
func (c *Client) UpdateRole(ctx context.Context, id int64, req RoleUpdateRequest) (*Role, error) {
	var role Role
	if err := c.put(ctx, fmt.Sprintf("/v1/roles/%d", id), req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// SetRoleEnabled calls PATCH /v1/roles/{id}/enabled?enabled=.
func (c *Client) SetRoleEnabled(ctx context.Context, id int64, enabled bool) error {
	query := url.Values{"enabled": {strconv.FormatBool(enabled)}}
	return c.patch(ctx, fmt.Sprintf("/v1/roles/%d/enabled", id), query, nil, nil)
}

// DeleteRole calls DELETE /v1/roles/{id}.
func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/roles/%d", id), nil)
}

// DeleteRoles calls DELETE /v1/roles/batch with the id list as body.
func (c *Client) DeleteRoles(ctx context.Context, ids []int64) error {
	return c.delete(ctx, "/v1/roles/batch", ids)
}

// CheckRoleCode reports whether a role code is still available.
func (c *Client) CheckRoleCode(ctx context.Context, code string) (bool, error) {
	var available bool
	query := url.Values{"code": {code}}
	if err := c.get(ctx, "/v1/roles/check-code", query, &available); err != nil {
		return false, err
	}
	return available, nil
}
