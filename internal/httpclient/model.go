package httpclient

import (
	"net/http"
	"net/url"
)

// Request is a generic HTTP request shaped for one specific remote
// model endpoint.
type Request struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	Query       url.Values  `json:"query,omitempty"`
	Headers     http.Header `json:"headers,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Body        []byte      `json:"body,omitempty"`

	// Authentication
	Auth *AuthConfig `json:"auth,omitempty"`

	// Request tracking
	RequestID string `json:"request_id,omitempty"`
}

// AuthConfig represents authentication configuration.
type AuthConfig struct {
	// Type is "bearer" or "api_key".
	Type string `json:"type"`

	// APIKey is the credential value, including any scheme prefix the
	// endpoint expects in the header value.
	APIKey string `json:"api_key,omitempty"`

	// HeaderKey is the header name when Type is "api_key".
	HeaderKey string `json:"header_key,omitempty"`
}

const (
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "api_key"
)

// Response is a generic HTTP response.
type Response struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers,omitempty"`
	Body       []byte      `json:"body,omitempty"`

	// Request the response belongs to.
	Request *Request `json:"-"`

	// Raw HTTP response for advanced use cases.
	RawResponse *http.Response `json:"-"`
}
