package brokerage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surgeParams() map[string]string {
	return map[string]string{
		"mrkt_tp":     "000",
		"sort_tp":     "1",
		"tm_tp":       "2",
		"trde_qty_tp": "5",
		"stk_cnd":     "0",
		"pric_tp":     "0",
		"stex_tp":     "3",
	}
}

func TestInvoker_Invoke(t *testing.T) {
	t.Run("sends opcode and bearer headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/dostk/rkinfo", r.URL.Path)
			assert.Equal(t, "ka10023", r.Header.Get("api-id"))
			assert.Equal(t, "Bearer tok", r.Header.Get("authorization"))
			assert.Empty(t, r.Header.Get("cont-yn"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "000", body["mrkt_tp"])

			_ = json.NewEncoder(w).Encode(map[string]interface{}{"return_code": 0})
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10023", Params: surgeParams()}, &AccessToken{Value: "tok"})

		require.True(t, res.OK(), "failure: %v", res.Failure)
		assert.False(t, res.Continuation.HasMore)
	})

	t.Run("caps unbounded list field to 10", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rows := make([]map[string]string, 37)
			for i := range rows {
				rows[i] = map[string]string{"stk_cd": fmt.Sprintf("%06d", i)}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"trde_qty_sdnin": rows})
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10023", Params: surgeParams()}, nil)

		require.True(t, res.OK())
		rows := res.Payload["trde_qty_sdnin"].([]interface{})
		assert.Len(t, rows, 10)
		assert.EqualValues(t, 10, res.Payload["limited_to"])
		assert.EqualValues(t, 10, res.Payload["total_count"])
	})

	t.Run("short list is left untouched", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"trde_qty_sdnin": []map[string]string{{"stk_cd": "005930"}},
			})
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10023", Params: surgeParams()}, nil)

		require.True(t, res.OK())
		assert.NotContains(t, res.Payload, "limited_to")
		assert.NotContains(t, res.Payload, "total_count")
	})

	t.Run("reads continuation response headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("cont-yn", "Y")
			w.Header().Set("next-key", "page-2")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, nil)

		require.True(t, res.OK())
		assert.True(t, res.Continuation.HasMore)
		assert.Equal(t, "page-2", res.Continuation.NextKey)
	})

	t.Run("forwards continuation request headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Y", r.Header.Get("cont-yn"))
			assert.Equal(t, "page-2", r.Header.Get("next-key"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		req := Request{
			Endpoint:     "ka10001",
			Params:       map[string]string{"stk_cd": "005930"},
			Continuation: ContinuationState{HasMore: true, NextKey: "page-2"},
		}
		res := iv.Invoke(context.Background(), req, nil)
		require.True(t, res.OK())
	})

	t.Run("missing required parameter fails before network", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no network call expected")
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: nil}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindMissingParameter, res.Failure.Kind)
		assert.Contains(t, res.Failure.Message, "stk_cd")
	})

	t.Run("unknown opcode fails before network", func(t *testing.T) {
		iv := NewInvoker(&Config{BaseURL: "http://127.0.0.1:1"}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "zz99999"}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindInvalidRequest, res.Failure.Kind)
	})

	t.Run("expired token is refused before network", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no network call expected")
		}))
		defer srv.Close()

		past := time.Now().Add(-time.Hour)
		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, &AccessToken{Value: "tok", ExpiresAt: &past})

		require.False(t, res.OK())
		assert.Equal(t, KindAuth, res.Failure.Kind)
	})

	t.Run("non-2xx surfaces as transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindTransport, res.Failure.Kind)
		assert.Contains(t, res.Failure.Message, "502")
	})

	t.Run("non-object body is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`["not", "an", "object"]`))
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindMalformed, res.Failure.Kind)
	})

	t.Run("slow remote surfaces as timeout failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"return_code": 0})
		}))
		defer srv.Close()

		iv := NewInvoker(&Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindTimeout, res.Failure.Kind)
	})

	t.Run("expired context deadline surfaces as timeout failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"return_code": 0})
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		iv := NewInvoker(&Config{BaseURL: srv.URL}, 0)
		res := iv.Invoke(ctx, Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindTimeout, res.Failure.Kind)
	})

	t.Run("connection failure surfaces as transport failure", func(t *testing.T) {
		iv := NewInvoker(&Config{BaseURL: "http://127.0.0.1:1"}, 0)
		res := iv.Invoke(context.Background(), Request{Endpoint: "ka10001", Params: map[string]string{"stk_cd": "005930"}}, nil)

		require.False(t, res.OK())
		assert.Equal(t, KindTransport, res.Failure.Kind)
	})
}

func TestEndpointRegistry(t *testing.T) {
	t.Run("ranking endpoints declare their capped list fields", func(t *testing.T) {
		expected := map[string]string{
			"ka10023": "trde_qty_sdnin",
			"ka10030": "trde_qty_upper",
			"ka10032": "trde_prica_upper",
			"ka10027": "pred_pre_flu_rt_upper",
			"ka10029": "exp_cntr_flu_rt_upper",
		}
		for opcode, field := range expected {
			ep, ok := Lookup(opcode)
			require.True(t, ok, opcode)
			assert.Equal(t, field, ep.ListField, opcode)
		}
	})

	t.Run("all descriptors carry opcode and path", func(t *testing.T) {
		for _, ep := range Endpoints() {
			assert.NotEmpty(t, ep.Opcode)
			assert.NotEmpty(t, ep.Path)
			assert.NotEmpty(t, ep.Name)
		}
	})
}
