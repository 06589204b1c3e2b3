package routes_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mongo-todo/testutil"
)

func TestHealthz(t *testing.T) {
	r, store := testutil.SetupTestRouter(t)

	resp := testutil.DoJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())

	store.PingErr = errors.New("no primary")
	resp = testutil.DoJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRequestIDHeader(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	t.Run("generated when absent", func(t *testing.T) {
		resp := testutil.DoJSON(t, r, http.MethodGet, "/todo", nil)
		assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/todo", nil)
		req.Header.Set("X-Request-ID", "req-123")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		assert.Equal(t, "req-123", resp.Header().Get("X-Request-ID"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	// 一度リクエストを流してからメトリクスを取得する
	testutil.DoJSON(t, r, http.MethodGet, "/todo", nil)

	resp := testutil.DoJSON(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "http_requests_total")
	assert.Contains(t, resp.Body.String(), `route="/todo"`)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/todo/abc", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}
