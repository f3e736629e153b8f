package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/portfolio/internal/middleware"
)

const testBurst = 3

func newRouter(t *testing.T, rps float64, burst int, opts ...middleware.RateLimitOption) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	r := gin.New()
	r.Use(middleware.RateLimiter(rps, burst, done, opts...))
	r.GET("/api/projects", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func get(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", http.NoBody)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	// rps is tiny so no tokens refill during the test.
	r := newRouter(t, 0.001, testBurst)

	for i := range testBurst {
		w := get(r, "1.2.3.4:1234")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	var rejected atomic.Int32
	r := newRouter(t, 0.001, testBurst, middleware.OnReject(func() { rejected.Add(1) }))

	for range testBurst {
		get(r, "1.2.3.4:1234")
	}
	w := get(r, "1.2.3.4:5678")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, int32(1), rejected.Load())
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	r := newRouter(t, 0.001, 1)

	assert.Equal(t, http.StatusOK, get(r, "1.1.1.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "1.1.1.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(r, "2.2.2.2:1234").Code)
}

func TestRateLimiter_IgnoresForwardedFor(t *testing.T) {
	r := newRouter(t, 0.001, 1)

	assert.Equal(t, http.StatusOK, get(r, "1.1.1.1:1234").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", http.NoBody)
	req.RemoteAddr = "1.1.1.1:4321"
	req.Header.Set("X-Forwarded-For", "9.9.9.9")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
