// ABOUTME: Error taxonomy for the API transport pipeline
// ABOUTME: Classifies every failed call into one well-defined kind

package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Kind identifies what class of failure an API call resolved to.
type Kind int

const (
	// KindBusiness is a transport-level success carrying a non-200
	// business code in the response envelope.
	KindBusiness Kind = iota
	// KindUnauthorized is an HTTP 401; the session is no longer valid.
	KindUnauthorized
	// KindForbidden is an HTTP 403.
	KindForbidden
	// KindNotFound is an HTTP 404.
	KindNotFound
	// KindServer covers HTTP 5xx and any other unexpected status.
	KindServer
	// KindNetwork means the request was sent but no response arrived.
	KindNetwork
	// KindRequest means the request could not be constructed or sent
	// due to a client-side mistake.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// APIError is the single error type produced by the transport pipeline.
// Message is always safe to show to the user.
type APIError struct {
	Kind    Kind
	Code    int // business code for KindBusiness, HTTP status otherwise
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrorKind extracts the classification from an error returned by this
// package. The second return is false for foreign errors.
func ErrorKind(err error) (Kind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401 classification.
func IsUnauthorized(err error) bool {
	kind, ok := ErrorKind(err)
	return ok && kind == KindUnauthorized
}

// classifyStatus maps a non-2xx transport status to an APIError.
// The message is extracted best-effort from the response body envelope,
// falling back to a fixed per-status text.
func classifyStatus(status int, body []byte) *APIError {
	bodyMsg := gjson.GetBytes(body, "message").String()

	switch status {
	case http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorized, Code: status, Message: "Session expired, please log in again"}
	case http.StatusForbidden:
		return &APIError{Kind: KindForbidden, Code: status, Message: "You do not have permission to access this resource"}
	case http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Code: status, Message: "The requested resource does not exist"}
	case http.StatusInternalServerError:
		if bodyMsg == "" {
			bodyMsg = "Internal server error"
		}
		return &APIError{Kind: KindServer, Code: status, Message: bodyMsg}
	default:
		if bodyMsg == "" {
			bodyMsg = fmt.Sprintf("Request failed (%d)", status)
		}
		return &APIError{Kind: KindServer, Code: status, Message: bodyMsg}
	}
}
