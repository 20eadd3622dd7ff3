package brokerage

import (
	"fmt"
	"net/http"
	"time"
)

const (
	liveURL = "https://api.kiwoom.com"
	mockURL = "https://mockapi.kiwoom.com"

	defaultTimeout = 30 * time.Second

	// Responses with an uncapped list field are cut to this many rows before
	// being handed downstream, to bound report and prompt size.
	listCap = 10
)

// Config configures the brokerage adapter. It is built once at startup and
// passed by reference into the Authenticator and the Invoker; call logic
// never reads ambient environment state.
type Config struct {
	AppKey    string
	SecretKey string
	Mock      bool

	Timeout    time.Duration
	HTTPClient *http.Client

	// BaseURL overrides host selection, used by tests.
	BaseURL string
}

// Credentialed reports whether both secret values are present.
func (c *Config) Credentialed() bool {
	return c.AppKey != "" && c.SecretKey != ""
}

func (c *Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Mock {
		return mockURL
	}
	return liveURL
}

func (c *Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// AccessToken is the bearer token issued by the brokerage OAuth endpoint.
// It is read-shared across all invocations within one request and never
// mutated in place; a refresh produces a replacement value.
type AccessToken struct {
	Value     string
	TokenType string
	IssuedAt  time.Time

	// ExpiresAt is nil when the remote did not report an expiry; the token
	// is then assumed valid and server-side rejection is relied upon.
	ExpiresAt *time.Time
}

// Expired reports whether the token is past its known expiry at the given
// instant. Tokens with unknown expiry are never considered expired locally.
func (t *AccessToken) Expired(now time.Time) bool {
	if t == nil || t.ExpiresAt == nil {
		return false
	}
	return !now.Before(*t.ExpiresAt)
}

// ContinuationState carries the pagination cursor between calls.
type ContinuationState struct {
	HasMore bool
	NextKey string
}

// Request describes one brokerage tool invocation. Immutable once sent.
type Request struct {
	Endpoint     string // opcode, e.g. "ka10023"
	Params       map[string]string
	Continuation ContinuationState
}

// WithContinuation returns a copy of the request carrying the given cursor.
func (r Request) WithContinuation(cont ContinuationState) Request {
	next := Request{
		Endpoint:     r.Endpoint,
		Params:       r.Params,
		Continuation: cont,
	}
	return next
}

// FailureKind classifies invocation failures.
type FailureKind string

const (
	KindTransport        FailureKind = "transport"
	KindMalformed        FailureKind = "malformed"
	KindTimeout          FailureKind = "timeout"
	KindMissingParameter FailureKind = "missing_parameter"
	KindInvalidRequest   FailureKind = "invalid"
	KindAuth             FailureKind = "auth"
)

// Failure is the typed error half of a Result. It never escapes as a panic
// or raw error; remote-call problems always surface as a value.
type Failure struct {
	Kind     FailureKind
	Endpoint string
	Message  string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s [%s]: %s", f.Kind, f.Endpoint, f.Message)
}

// Result is the uniform envelope returned by the Invoker: either a parsed
// payload plus continuation state, or a typed failure.
type Result struct {
	Payload      map[string]interface{}
	Continuation ContinuationState
	Failure      *Failure
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

func failure(kind FailureKind, endpoint, format string, args ...interface{}) Result {
	return Result{Failure: &Failure{
		Kind:     kind,
		Endpoint: endpoint,
		Message:  fmt.Sprintf(format, args...),
	}}
}
