// ABOUTME: HTTP client for the DataPipeline admin API
// ABOUTME: Single outbound gateway: bearer injection, envelope decoding, error classification

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huyaoxiaohonghong/DataPipeline/internal/notify"
)

// successCode is the sole business-level success sentinel. The server wraps
// every response in {code, message, data} regardless of transport status.
const successCode = 200

// TokenSource supplies the current bearer token, or "" when logged out.
// It must be callable from any point in the pipeline without blocking.
type TokenSource interface {
	Token() string
}

// envelope is the uniform response body shape of the DataPipeline API.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Page is the paginated list envelope used by the list endpoints.
type Page[T any] struct {
	Records    []T   `json:"records"`
	PageNumber int64 `json:"pageNumber"`
	PageSize   int64 `json:"pageSize"`
	TotalRow   int64 `json:"totalRow"`
	TotalPage  int64 `json:"totalPage"`
}

// Client is the API client for the DataPipeline backend. All outbound
// calls in the process go through one Client so credential handling and
// error classification stay uniform.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	mu             sync.Mutex
	notifier       notify.Notifier
	onUnauthorized func()

	// hookMu is held across the 401 handler so concurrent rejections
	// enter it one at a time, without blocking notifier swaps on mu.
	hookMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 30 second request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource attaches a credential source. When the source returns a
// non-empty token it is sent as a bearer credential on every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithNotifier sets the surface for user-facing error messages.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// New creates a new API client with the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		notifier: notify.Log{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler registers the hook invoked whenever a call is
// rejected with 401. Invocations are serialized; the handler itself must be
// idempotent since any number of in-flight calls can hit 401 together.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) handleUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn == nil {
		return
	}
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	fn()
}

// SetNotifier swaps the notification surface, e.g. when the TUI takes
// over from the logging default.
func (c *Client) SetNotifier(n notify.Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

func (c *Client) notify(err *APIError) {
	c.mu.Lock()
	n := c.notifier
	c.mu.Unlock()
	if n != nil {
		n.Notify(notify.LevelError, err.Message)
	}
}

// do performs one API round trip: marshal, send, classify, unwrap.
// out may be nil for calls whose data payload is ignored.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			apiErr := &APIError{Kind: KindRequest, Message: "Invalid request configuration", Err: err}
			c.notify(apiErr)
			return apiErr
		}
		reader = bytes.NewReader(encoded)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		apiErr := &APIError{Kind: KindRequest, Message: "Invalid request configuration", Err: err}
		c.notify(apiErr)
		return apiErr
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := c.classifyTransportError(ctx, err)
		c.notify(apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := &APIError{Kind: KindNetwork, Message: "Cannot connect to the server, check your network", Err: err}
		c.notify(apiErr)
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyStatus(resp.StatusCode, respBody)
		c.notify(apiErr)
		if apiErr.Kind == KindUnauthorized {
			c.handleUnauthorized()
		}
		return apiErr
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		apiErr := &APIError{Kind: KindServer, Code: resp.StatusCode, Message: "Invalid response from server", Err: err}
		c.notify(apiErr)
		return apiErr
	}

	if env.Code != successCode {
		msg := env.Message
		if msg == "" {
			msg = "Request failed"
		}
		apiErr := &APIError{Kind: KindBusiness, Code: env.Code, Message: msg}
		c.notify(apiErr)
		return apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			apiErr := &APIError{Kind: KindServer, Code: resp.StatusCode, Message: "Invalid response from server", Err: err}
			c.notify(apiErr)
			return apiErr
		}
	}

	return nil
}

// classifyTransportError maps a failed round trip (no response received)
// to an APIError, honoring context cancellation the way callers expect.
func (c *Client) classifyTransportError(ctx context.Context, err error) *APIError {
	if ctx.Err() == context.Canceled {
		return &APIError{Kind: KindNetwork, Message: "Request canceled", Err: err}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &APIError{Kind: KindNetwork, Message: "Request timed out", Err: err}
	}
	return &APIError{
		Kind:    KindNetwork,
		Message: "Cannot connect to the server, check your network",
		Err:     fmt.Errorf("cannot connect to %s: %w", c.baseURL, err),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, nil)
}
