package brokerage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"minerva/internal/metrics"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

const (
	authPath   = "/oauth2/token"
	authOpcode = "au10001"
)

// kst is the exchange-local zone used for token expiry stamps.
var kst = time.FixedZone("KST", 9*60*60)

// Authenticator acquires and refreshes access tokens from the brokerage
// OAuth endpoint. It is stateless between invocations: tokens are not
// cached across calls, each request re-acquires.
type Authenticator struct {
	cfg *Config
	log *logger.Logger
}

// NewAuthenticator creates an Authenticator bound to the given config.
func NewAuthenticator(cfg *Config) *Authenticator {
	return &Authenticator{
		cfg: cfg,
		log: logger.Get().With("component", "brokerage_auth"),
	}
}

type authRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	SecretKey string `json:"secretkey"`
}

type authResponse struct {
	Token      string `json:"token"`
	TokenType  string `json:"token_type"`
	ExpiresDt  string `json:"expires_dt"`
	ReturnCode int    `json:"return_code"`
	ReturnMsg  string `json:"return_msg"`
}

// AcquireToken requests a fresh access token. It performs no retries; retry
// policy belongs to the caller. Missing credentials fail before any network
// call is attempted.
func (a *Authenticator) AcquireToken(ctx context.Context) (*AccessToken, error) {
	return a.requestToken(ctx, nil)
}

// RefreshToken exchanges a current token for a replacement. Used when a
// caller detects a rejected or expired token mid-flow; the returned token is
// a new value, the current one is never mutated.
func (a *Authenticator) RefreshToken(ctx context.Context, current *AccessToken) (*AccessToken, error) {
	if current == nil || current.Value == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no current token to refresh")
	}
	return a.requestToken(ctx, current)
}

func (a *Authenticator) requestToken(ctx context.Context, current *AccessToken) (*AccessToken, error) {
	if !a.cfg.Credentialed() {
		metrics.RecordTokenAcquisition("missing_credentials")
		return nil, errors.ErrMissingCredentials
	}

	body, err := json.Marshal(authRequest{
		GrantType: "client_credentials",
		AppKey:    a.cfg.AppKey,
		SecretKey: a.cfg.SecretKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal auth request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.baseURL()+authPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}
	req.Header.Set("api-id", authOpcode)
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	if current != nil {
		req.Header.Set("authorization", "Bearer "+current.Value)
	}

	resp, err := a.cfg.httpClient().Do(req)
	if err != nil {
		metrics.RecordTokenAcquisition("transport")
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordTokenAcquisition("transport")
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordTokenAcquisition("transport")
		return nil, errors.Wrapf(errors.ErrTransport, "auth endpoint returned %d: %s", resp.StatusCode, truncateForLog(respBody))
	}

	var parsed authResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		metrics.RecordTokenAcquisition("rejected")
		return nil, errors.Wrap(errors.ErrMalformedResponse, err.Error())
	}

	if parsed.ReturnCode != 0 || parsed.Token == "" {
		metrics.RecordTokenAcquisition("rejected")
		return nil, errors.Wrapf(errors.ErrRemoteRejected, "code=%d msg=%s", parsed.ReturnCode, parsed.ReturnMsg)
	}

	token := &AccessToken{
		Value:     parsed.Token,
		TokenType: parsed.TokenType,
		IssuedAt:  time.Now(),
		ExpiresAt: parseExpiry(parsed.ExpiresDt),
	}

	metrics.RecordTokenAcquisition("success")
	a.log.Debugw("access token acquired", "token_type", token.TokenType, "has_expiry", token.ExpiresAt != nil)
	return token, nil
}

// parseExpiry parses the remote's yyyymmddHHMMSS expiry stamp. An absent or
// unparseable stamp yields nil: assume valid, rely on server-side rejection.
func parseExpiry(stamp string) *time.Time {
	if stamp == "" {
		return nil
	}
	t, err := time.ParseInLocation("20060102150405", stamp, kst)
	if err != nil {
		return nil
	}
	return &t
}

func truncateForLog(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
