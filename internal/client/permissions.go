// ABOUTME: Permission endpoints under /v1/permissions and /v1/role-permissions
// ABOUTME: Flat and tree listings, CRUD, role-permission assignment

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Permission kinds as defined by the backend.
const (
	PermissionMenu   = "MENU"
	PermissionButton = "BUTTON"
	PermissionAPI    = "API"
)

// Permission is a single grantable capability. Tree listings nest children.
type Permission struct {
	ID         int64        `json:"id"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	ParentID   int64        `json:"parentId"`
	Path       string       `json:"path,omitempty"`
	Icon       string       `json:"icon,omitempty"`
	Sort       int          `json:"sort"`
	Enabled    bool         `json:"enabled"`
	Children   []Permission `json:"children,omitempty"`
	CreateTime string       `json:"createTime"`
	UpdateTime string       `json:"updateTime"`
}

// PermissionCreateRequest creates a new permission node.
type PermissionCreateRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID int64  `json:"parentId,omitempty"`
	Path     string `json:"path,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Sort     int    `json:"sort,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// PermissionUpdateRequest updates permission fields; code and type are fixed.
type PermissionUpdateRequest struct {
	Name     string `json:"name,omitempty"`
	ParentID int64  `json:"parentId,omitempty"`
	Path     string `json:"path,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Sort     int    `json:"sort,omitempty"`
}

// ListPermissions calls GET /v1/permissions, optionally filtered by type.
func (c *Client) ListPermissions(ctx context.Context, permType string) ([]Permission, error) {
	var query url.Values
	if permType != "" {
		query = url.Values{"type": {permType}}
	}
	var perms []Permission
	if err := c.get(ctx, "/v1/permissions", query, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// PermissionTree calls GET /v1/permissions/tree.
func (c *Client) PermissionTree(ctx context.Context) ([]Permission, error) {
	var perms []Permission
	if err := c.get(ctx, "/v1/permissions/tree", nil, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// EnabledPermissions calls GET /v1/permissions/enabled.
func (c *Client) EnabledPermissions(ctx context.Context) ([]Permission, error) {
	var perms []Permission
	if err := c.get(ctx, "/v1/permissions/enabled", nil, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// GetPermission calls GET /v1/permissions/{id}.
func (c *Client) GetPermission(ctx context.Context, id int64) (*Permission, error) {
	var perm Permission
	if err := c.get(ctx, fmt.Sprintf("/v1/permissions/%d", id), nil, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// GetPermissionByCode calls GET /v1/permissions/code/{code}.
func (c *Client) GetPermissionByCode(ctx context.Context, code string) (*Permission, error) {
	var perm Permission
	if err := c.get(ctx, "/v1/permissions/code/"+url.PathEscape(code), nil, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// CreatePermission calls POST /v1/permissions.
func (c *Client) CreatePermission(ctx context.Context, req PermissionCreateRequest) (*Permission, error) {
	var perm Permission
	if err := c.post(ctx, "/v1/permissions", req, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// UpdatePermission calls PUT /v1/permissions/{id}.
func (c *Client) UpdatePermission(ctx context.Context, id int64, req PermissionUpdateRequest) (*Permission, error) {
	var perm Permission
	if err := c.put(ctx, fmt.Sprintf("/v1/permissions/%d", id), req, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// SetPermissionEnabled calls PATCH /v1/permissions/{id}/enabled?enabled=.
func (c *Client) SetPermissionEnabled(ctx context.Context, id int64, enabled bool) error {
	query := url.Values{"enabled": {strconv.FormatBool(enabled)}}
	return c.patch(ctx, fmt.Sprintf("/v1/permissions/%d/enabled", id), query, nil, nil)
}

// DeletePermission calls DELETE /v1/permissions/{id}.
func (c *Client) DeletePermission(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/permissions/%d", id), nil)
}

// DeletePermissions calls DELETE /v1/permissions/batch with the id list as body.
func (c *Client) DeletePermissions(ctx context.Context, ids []int64) error {
	return c.delete(ctx, "/v1/permissions/batch", ids)
}

// CheckPermissionCode reports whether a permission code is still available.
func (c *Client) CheckPermissionCode(ctx context.Context, code string) (bool, error) {
	var available bool
	query := url.Values{"code": {code}}
	if err := c.get(ctx, "/v1/permissions/check-code", query, &available); err != nil {
		return false, err
	}
	return available, nil
}

// RolePermissions calls GET /v1/role-permissions/{roleId}.
func (c *Client) RolePermissions(ctx context.Context, roleID int64) ([]Permission, error) {
	var perms []Permission
	if err := c.get(ctx, fmt.Sprintf("/v1/role-permissions/%d", roleID), nil, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// RolePermissionIDs calls GET /v1/role-permissions/{roleId}/ids.
func (c *Client) RolePermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, fmt.Sprintf("/v1/role-permissions/%d/ids", roleID), nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// AssignPermissions calls POST /v1/role-permissions/{roleId}, replacing the
// role's permission set with the given ids.
func (c *Client) AssignPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return c.post(ctx, fmt.Sprintf("/v1/role-permissions/%d", roleID), permissionIDs, nil)
}
