package middleware_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqids/internal/config"
	"sqids/internal/middleware"
)

func newLimitedEcho(cfg *config.RateLimitConfig, exempt ...string) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	e := echo.New()
	e.Use(middleware.RateLimit(cfg, logger, exempt...))
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	e.POST("/api/v1/encode", ok)
	e.GET("/api/v1/health", ok)
	return e
}

func limitedRequest(e *echo.Echo, method, target, ip, bypass string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = ip + ":12345"
	if bypass != "" {
		req.Header.Set("X-Rate-Limit-Bypass", bypass)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_AllowsRequestsUnderLimit(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{RPS: 10, Burst: 5, ExpireMinutes: 1})

	for i := 0; i < 5; i++ {
		rec := limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.1", "")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i)
	}
}

func TestRateLimit_BlocksRequestsOverLimit(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{RPS: 1, Burst: 2, ExpireMinutes: 1})

	var rateLimited bool
	for i := 0; i < 10; i++ {
		rec := limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.2", "")
		if rec.Code == http.StatusTooManyRequests {
			rateLimited = true
			break
		}
	}

	assert.True(t, rateLimited, "expected at least one request to be rate limited")
}

func TestRateLimit_Returns429WithCorrectResponse(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{RPS: 0.1, Burst: 1, ExpireMinutes: 1})

	// First request uses up the burst
	limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.3", "")
	rec := limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.3", "")

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var resp struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, 1, resp.RetryAfter)
}

func TestRateLimit_DifferentIPsHaveSeparateLimits(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{RPS: 0.1, Burst: 1, ExpireMinutes: 1})

	rec1 := limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.4", "")
	assert.Equal(t, http.StatusOK, rec1.Code, "IP1 first request should succeed")

	rec2 := limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.5", "")
	assert.Equal(t, http.StatusOK, rec2.Code, "IP2 first request should succeed")
}

func TestRateLimit_Bypass(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{"correct secret", "test_secret", "test_secret", http.StatusOK},
		{"wrong secret", "test_secret", "wrong_secret", http.StatusTooManyRequests},
		{"bypass disabled when secret empty", "", "any_value", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newLimitedEcho(&config.RateLimitConfig{
				RPS:           0.1,
				Burst:         1,
				ExpireMinutes: 1,
				BypassSecret:  tt.secret,
			})

			var rec *httptest.ResponseRecorder
			for range 3 {
				rec = limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.6", tt.header)
			}
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimit_ExemptRoutes(t *testing.T) {
	e := newLimitedEcho(&config.RateLimitConfig{RPS: 0.1, Burst: 1, ExpireMinutes: 1}, "/api/v1/health")

	for i := 0; i < 5; i++ {
		rec := limitedRequest(e, http.MethodGet, "/api/v1/health", "192.168.1.9", "")
		assert.Equal(t, http.StatusOK, rec.Code, "health request %d should not be limited", i)
	}

	limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.9", "")
	rec := limitedRequest(e, http.MethodPost, "/api/v1/encode", "192.168.1.9", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
