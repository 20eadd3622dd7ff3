package brokerage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"minerva/internal/adapters/brokerage/ratelimit"
	"minerva/internal/metrics"
	"minerva/pkg/logger"
)

// Invoker performs single brokerage API calls. One Invoke is exactly one
// network round trip: no retries, no pagination (see CollectAll for that).
// All failure modes are converted into the Result envelope; Invoke never
// returns a raw error.
type Invoker struct {
	cfg     *Config
	http    *http.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// NewInvoker creates an Invoker bound to the given config.
// requestsPerMinute bounds the call rate against the brokerage host.
func NewInvoker(cfg *Config, requestsPerMinute int) *Invoker {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	return &Invoker{
		cfg:     cfg,
		http:    cfg.httpClient(),
		limiter: ratelimit.NewLimiter("brokerage", requestsPerMinute),
		log:     logger.Get().With("component", "brokerage_invoker"),
	}
}

// Invoke performs one call against the endpoint named by req.Endpoint,
// attaching the bearer token and continuation headers when present. The
// token is read-shared and never mutated; an expired token is refused
// before any network traffic.
func (iv *Invoker) Invoke(ctx context.Context, req Request, token *AccessToken) Result {
	started := time.Now()
	res := iv.invoke(ctx, req, token)

	status := "success"
	if res.Failure != nil {
		status = string(res.Failure.Kind)
	}
	metrics.RecordToolInvocation(req.Endpoint, status, time.Since(started))

	if res.Failure != nil {
		iv.log.Warnw("tool invocation failed",
			"endpoint", req.Endpoint,
			"kind", res.Failure.Kind,
			"message", res.Failure.Message,
		)
	}
	return res
}

func (iv *Invoker) invoke(ctx context.Context, req Request, token *AccessToken) Result {
	ep, ok := Lookup(req.Endpoint)
	if !ok {
		return failure(KindInvalidRequest, req.Endpoint, "no descriptor registered for opcode %q", req.Endpoint)
	}

	if missing := ep.missingParams(req.Params); len(missing) > 0 {
		return failure(KindMissingParameter, req.Endpoint, "missing required parameters: %v", missing)
	}

	if token.Expired(time.Now()) {
		return failure(KindAuth, req.Endpoint, "access token expired at %s", token.ExpiresAt.Format(time.RFC3339))
	}

	if err := iv.limiter.Wait(ctx); err != nil {
		return failure(KindTimeout, req.Endpoint, "rate limiter: %v", err)
	}

	payload := make(map[string]string, len(req.Params))
	for k, v := range req.Params {
		if v != "" {
			payload[k] = v
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return failure(KindInvalidRequest, req.Endpoint, "marshal request body: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, iv.cfg.baseURL()+ep.Path, bytes.NewReader(body))
	if err != nil {
		return failure(KindTransport, req.Endpoint, "build request: %v", err)
	}

	httpReq.Header.Set("api-id", ep.Opcode)
	httpReq.Header.Set("Content-Type", "application/json;charset=UTF-8")
	if token != nil && token.Value != "" {
		httpReq.Header.Set("authorization", "Bearer "+token.Value)
	}
	if req.Continuation.NextKey != "" {
		httpReq.Header.Set("cont-yn", "Y")
		httpReq.Header.Set("next-key", req.Continuation.NextKey)
	}

	resp, err := iv.http.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return failure(KindTimeout, req.Endpoint, "%v", err)
		}
		return failure(KindTransport, req.Endpoint, "%v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(KindTransport, req.Endpoint, "read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(KindTransport, req.Endpoint, "http %d: %s", resp.StatusCode, truncateForLog(respBody))
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return failure(KindMalformed, req.Endpoint, "response is not a JSON object: %v", err)
	}

	capListField(parsed, ep.ListField)

	return Result{
		Payload: parsed,
		Continuation: ContinuationState{
			HasMore: resp.Header.Get("cont-yn") == "Y",
			NextKey: resp.Header.Get("next-key"),
		},
	}
}

// capListField truncates the endpoint's unbounded array field to listCap
// entries, annotating the payload so callers can tell truncation occurred.
// total_count reports the length of the truncated slice, mirroring the
// behavior reports downstream were built against.
func capListField(payload map[string]interface{}, field string) {
	if field == "" {
		return
	}
	rows, ok := payload[field].([]interface{})
	if !ok || len(rows) <= listCap {
		return
	}
	capped := rows[:listCap]
	payload[field] = capped
	payload["limited_to"] = listCap
	payload["total_count"] = len(capped)
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	return os.IsTimeout(err)
}
