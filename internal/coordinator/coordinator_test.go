package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/internal/adapters/brokerage"
	"minerva/internal/router"
	"minerva/internal/search"
	"minerva/internal/trend"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "test")
	m.Run()
}

type fixedClassifier struct {
	intent router.Intent
}

func (f fixedClassifier) Classify(context.Context, string) router.Decision {
	return router.Decision{Intent: f.intent, Classifier: "rules"}
}

type fakeSearch struct {
	err error
}

func (f fakeSearch) Search(_ context.Context, query string) (string, []search.Source, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return "findings for " + query, []search.Source{{Title: "t", URL: "https://example.com"}}, nil
}

type fakeTrends struct {
	err error
}

func (f fakeTrends) InterestOverTime(_ context.Context, _ string, _ trend.Window) (trend.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	series := make(trend.Series, 0, 52)
	for week := 0; week < 52; week++ {
		series = append(series, trend.Point{
			Date:  now.AddDate(0, 0, -7*(51-week)),
			Value: decimal.NewFromInt(50),
		})
	}
	return series, nil
}

// brokerageServer serves the token endpoint plus every data endpoint with a
// small canned payload keyed by api-id.
func brokerageServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"token":       "tok-1",
				"token_type":  "Bearer",
				"expires_dt":  time.Now().AddDate(0, 0, 1).Format("20060102150405"),
				"return_code": 0,
			})
			return
		}

		opcode := r.Header.Get("api-id")
		ep, ok := brokerage.Lookup(opcode)
		require.True(t, ok, "unexpected api-id %q", opcode)

		payload := map[string]interface{}{"return_code": 0}
		if ep.ListField != "" {
			payload[ep.ListField] = []interface{}{
				map[string]interface{}{"stk_cd": "005930", "stk_nm": "삼성전자", "cur_prc": "71200"},
			}
		} else {
			payload["stk_cd"] = "005930"
			payload["cur_prc"] = "71200"
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func newCoordinator(t *testing.T, baseURL string, intent router.Intent, searchErr, trendErr error) *Coordinator {
	t.Helper()
	cfg := &brokerage.Config{
		AppKey:    "key",
		SecretKey: "secret",
		BaseURL:   baseURL,
	}
	return New(
		brokerage.NewAuthenticator(cfg),
		brokerage.NewInvoker(cfg, 6000),
		fixedClassifier{intent: intent},
		search.NewFanOut(fakeSearch{err: searchErr}),
		fakeTrends{err: trendErr},
	)
}

func TestHandleBrokerageIntent(t *testing.T) {
	srv := brokerageServer(t)
	defer srv.Close()

	c := newCoordinator(t, srv.URL, router.IntentVolumeMomentum, nil, nil)
	rep := c.Handle(context.Background(), "거래량 급등 종목")

	assert.Equal(t, string(router.IntentVolumeMomentum), rep.Intent)
	assert.False(t, rep.Partial(), "failures: %+v", rep.Failures)
	assert.Len(t, rep.Sections, len(router.Toolset(router.IntentVolumeMomentum)))
	for _, section := range rep.Sections {
		require.NotNil(t, section.Record)
		assert.Equal(t, section.Endpoint, section.Record.Endpoint)
	}
}

func TestHandleSingleStockExtractsCode(t *testing.T) {
	srv := brokerageServer(t)
	defer srv.Close()

	c := newCoordinator(t, srv.URL, router.IntentSingleStock, nil, nil)
	rep := c.Handle(context.Background(), "삼성전자 요즘 어때?")

	assert.Equal(t, string(router.IntentSingleStock), rep.Intent)
	assert.NotEmpty(t, rep.Sections)
}

func TestHandleSingleStockWithoutCodeDegradesToDiscovery(t *testing.T) {
	c := newCoordinator(t, "http://127.0.0.1:1", router.IntentSingleStock, nil, nil)
	rep := c.Handle(context.Background(), "이 회사 주가 어때?")

	assert.Equal(t, string(router.IntentDiscovery), rep.Intent)
	require.NotEmpty(t, rep.Sections)
	assert.NotEmpty(t, rep.Sections[0].Findings)
}

func TestHandleAuthFailureShortCircuits(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newCoordinator(t, srv.URL, router.IntentInstitutionalFlow, nil, nil)
	rep := c.Handle(context.Background(), "기관 순매수")

	assert.True(t, rep.Partial())
	assert.Empty(t, rep.Sections)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, string(brokerage.KindAuth), rep.Failures[0].Kind)
	assert.Equal(t, 1, calls, "no endpoint may be attempted without a token")
}

func TestHandleEndpointFailureDegradesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "tok-1", "token_type": "Bearer", "return_code": 0,
			})
			return
		}
		if r.Header.Get("api-id") == "ka10023" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"return_code": 0})
	}))
	defer srv.Close()

	c := newCoordinator(t, srv.URL, router.IntentVolumeMomentum, nil, nil)
	rep := c.Handle(context.Background(), "거래량 순위")

	assert.True(t, rep.Partial())
	assert.Len(t, rep.Sections, len(router.Toolset(router.IntentVolumeMomentum))-1)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "ka10023", rep.Failures[0].Endpoint)
	assert.Equal(t, string(brokerage.KindTransport), rep.Failures[0].Kind)
}

func TestHandleContinuationBoundRecordedAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "tok-1", "token_type": "Bearer", "return_code": 0,
			})
			return
		}
		// One endpoint claims more data forever; the rest answer in one page.
		if r.Header.Get("api-id") == "ka10001" {
			w.Header().Set("cont-yn", "Y")
			w.Header().Set("next-key", "k")
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"return_code": 0, "stk_cd": "005930"})
	}))
	defer srv.Close()

	c := newCoordinator(t, srv.URL, router.IntentSingleStock, nil, nil)
	rep := c.Handle(context.Background(), "005930 차트 보여줘")

	assert.True(t, rep.Partial())
	// The truncated chain is reported, but its collected pages still yield
	// a section alongside the other endpoints.
	assert.Len(t, rep.Sections, len(router.Toolset(router.IntentSingleStock)))
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "continuation", rep.Failures[0].Kind)
	assert.Equal(t, "ka10001", rep.Failures[0].Endpoint)
	assert.Equal(t, errors.ErrContinuationOverflow.Error(), rep.Failures[0].Message)
}

func TestHandleDiscoveryRunsSearchAndTrend(t *testing.T) {
	c := newCoordinator(t, "http://127.0.0.1:1", router.IntentDiscovery, nil, nil)
	rep := c.Handle(context.Background(), "유망한 산업")

	assert.False(t, rep.Partial())
	require.Len(t, rep.Sections, 2)
	assert.NotEmpty(t, rep.Sections[0].Findings)
	require.NotNil(t, rep.Sections[1].Trend)
	assert.Equal(t, "유망한 산업", rep.Sections[1].Trend.Keyword)
}

func TestHandleDiscoverySurvivesTrendFailure(t *testing.T) {
	c := newCoordinator(t, "http://127.0.0.1:1", router.IntentDiscovery, nil, errors.New("gateway down"))
	rep := c.Handle(context.Background(), "유망한 산업")

	assert.True(t, rep.Partial())
	require.Len(t, rep.Sections, 1)
	assert.NotEmpty(t, rep.Sections[0].Findings)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "trend", rep.Failures[0].Kind)
}

func TestHandleDiscoveryAllSearchFailed(t *testing.T) {
	c := newCoordinator(t, "http://127.0.0.1:1", router.IntentDiscovery, errors.New("quota"), nil)
	rep := c.Handle(context.Background(), "유망한 산업")

	assert.True(t, rep.Partial())
	// Findings still come back as placeholders; the report carries a search
	// failure plus the trend section.
	var failureKinds []string
	for _, f := range rep.Failures {
		failureKinds = append(failureKinds, f.Kind)
	}
	assert.Contains(t, failureKinds, "search")
}
