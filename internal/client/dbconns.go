// ABOUTME: Database connection endpoints under /v1/db-connections
// ABOUTME: CRUD plus connectivity test, monitoring info, and table listing

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Database types accepted by the backend.
const (
	DBTypeMySQL      = "MYSQL"
	DBTypePostgreSQL = "POSTGRESQL"
	DBTypeOracle     = "ORACLE"
	DBTypeSQLServer  = "SQLSERVER"
)

// DBConnection is a stored database connection. The password never comes
// back from the server.
type DBConnection struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DBType       string `json:"dbType"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	Description  string `json:"description,omitempty"`
	Enabled      bool   `json:"enabled"`
	CreateTime   string `json:"createTime"`
	UpdateTime   string `json:"updateTime"`
}

// DBConnectionQuery filters the paged connection listing.
type DBConnectionQuery struct {
	PageNumber int
	PageSize   int
	Name       string
	DBType     string
}

// DBConnectionCreateRequest creates a new stored connection.
type DBConnectionCreateRequest struct {
	Name         string `json:"name"`
	DBType       string `json:"dbType"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Description  string `json:"description,omitempty"`
}

// DBConnectionUpdateRequest updates connection fields; empty fields are
// left unchanged.
type DBConnectionUpdateRequest struct {
	Name         string `json:"name,omitempty"`
	DBType       string `json:"dbType,omitempty"`
	Host         string `json:"host,omitempty"`
	Port         int    `json:"port,omitempty"`
	DatabaseName string `json:"databaseName,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	Description  string `json:"description,omitempty"`
}

// DBConnectionTestRequest probes ad-hoc connection parameters without
// saving them.
type DBConnectionTestRequest struct {
	DBType       string `json:"dbType"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// DBMonitorInfo is the health/monitoring snapshot of one connection.
type DBMonitorInfo struct {
	Status            string   `json:"status"`
	Version           string   `json:"version,omitempty"`
	ActiveConnections int      `json:"activeConnections,omitempty"`
	MaxConnections    int      `json:"maxConnections,omitempty"`
	DatabaseSizeMB    float64  `json:"databaseSizeMB,omitempty"`
	TableCount        int      `json:"tableCount,omitempty"`
	Tables            []string `json:"tables,omitempty"`
	ErrorMessage      string   `json:"errorMessage,omitempty"`
	ResponseTimeMs    int64    `json:"responseTimeMs,omitempty"`
}

// ListDBConnections calls GET /v1/db-connections with paging and filters.
func (c *Client) ListDBConnections(ctx context.Context, q DBConnectionQuery) (*Page[DBConnection], error) {
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
	if q.DBType != "" {
		query.Set("dbType", q.DBType)
	}

	var page Page[DBConnection]
	if err := c.get(ctx, "/v1/db-connections", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDBConnection calls GET /v1/db-connections/{id}.
func (c *Client) GetDBConnection(ctx context.Context, id int64) (*DBConnection, error) {
	var conn DBConnection
	if err := c.get(ctx, fmt.Sprintf("/v1/db-connections/%d", id), nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// CreateDBConnection calls POST /v1/db-connections.
func (c *Client) CreateDBConnection(ctx context.Context, req DBConnectionCreateRequest) (*DBConnection, error) {
	var conn DBConnection
	if err := c.post(ctx, "/v1/db-connections", req, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateDBConnection calls PUT /v1/db-connections/{id}.
func (c *Client) UpdateDBConnection(ctx context.Context, id int64, req DBConnectionUpdateRequest) (*DBConnection, error) {
	var conn DBConnection
	if err := c.put(ctx, fmt.Sprintf("/v1/db-connections/%d", id), req, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteDBConnection calls DELETE /v1/db-connections/{id}.
func (c *Client) DeleteDBConnection(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/db-connections/%d", id), nil)
}

// DeleteDBConnections calls DELETE /v1/db-connections/batch with the id
// list as body.
func (c *Client) DeleteDBConnections(ctx context.Context, ids []int64) error {
	return c.delete(ctx, "/v1/db-connections/batch", ids)
}

// TestDBConnection calls POST /v1/db-connections/{id}/test against a saved
// connection.
func (c *Client) TestDBConnection(ctx context.Context, id int64) (*DBMonitorInfo, error) {
	var info DBMonitorInfo
	if err := c.post(ctx, fmt.Sprintf("/v1/db-connections/%d/test", id), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// TestDBConnectionParams calls POST /v1/db-connections/test with ad-hoc
// parameters.
func (c *Client) TestDBConnectionParams(ctx context.Context, req DBConnectionTestRequest) (*DBMonitorInfo, error) {
	var info DBMonitorInfo
	if err := c.post(ctx, "/v1/db-connections/test", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DBConnectionMonitor calls GET /v1/db-connections/{id}/monitor.
func (c *Client) DBConnectionMonitor(ctx context.Context, id int64) (*DBMonitorInfo, error) {
	var info DBMonitorInfo
	if err := c.get(ctx, fmt.Sprintf("/v1/db-connections/%d/monitor", id), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DBConnectionTables calls GET /v1/db-connections/{id}/tables.
func (c *Client) DBConnectionTables(ctx context.Context, id int64) ([]string, error) {
	var tables []string
	if err := c.get(ctx, fmt.Sprintf("/v1/db-connections/%d/tables", id), nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// SetDBConnectionEnabled calls PATCH /v1/db-connections/{id}/enabled?enabled=.
func (c *Client) SetDBConnectionEnabled(ctx context.Context, id int64, enabled bool) error {
	query := url.Values{"enabled": {strconv.FormatBool(enabled)}}
	return c.patch(ctx, fmt.Sprintf("/v1/db-connections/%d/enabled", id), query, nil, nil)
}
