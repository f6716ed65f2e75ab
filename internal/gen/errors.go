package gen

import (
	"fmt"
	"net/http"
)

// ConfigurationError reports a request that cannot be served with the
// current registry: unknown model id, or a credentialed model invoked
// without the machinery to supply one. Raised before any network call.
type ConfigurationError struct {
	ModelID string
	Detail  string
}

func (e *ConfigurationError) Error() string {
	if e.ModelID != "" {
		return fmt.Sprintf("configuration error for model %q: %s", e.ModelID, e.Detail)
	}

	return "configuration error: " + e.Detail
}

// ValidationError reports request input that violates a local rule.
// Raised before any network call.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Rule)
}

// RemoteServiceError reports a non-2xx response from the hosted
// generation service.
type RemoteServiceError struct {
	StatusCode int
	Body       []byte
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service returned status %d", e.StatusCode)
}

// RateLimited reports whether the remote service rejected the request
// for quota reasons.
func (e *RemoteServiceError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// PayloadTooLarge reports whether the shaped input exceeded the remote
// service's size limit.
func (e *RemoteServiceError) PayloadTooLarge() bool {
	return e.StatusCode == http.StatusRequestEntityTooLarge
}

// UnrecognizedResponseShapeError reports a response that parsed as JSON
// but matched none of the known shapes. Raw is kept for diagnostics.
type UnrecognizedResponseShapeError struct {
	Raw []byte
}

func (e *UnrecognizedResponseShapeError) Error() string {
	return "remote response matched no known shape"
}

// PersistenceError reports a failed auto-save. It is always downgraded
// to a logged warning plus a PersistenceReport; it never turns a
// successful generation into a failure.
type PersistenceError struct {
	Reason string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence failed: %s: %v", e.Reason, e.Err)
	}

	return "persistence failed: " + e.Reason
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
