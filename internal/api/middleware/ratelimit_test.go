package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedRouter(cl *ClientRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cl.Middleware())
	router.GET("/sheet", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func hit(router *gin.Engine, addr string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/sheet", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestRateLimiterBurst tests that the burst drains before requests are rejected
func TestRateLimiterBurst(t *testing.T) {
	cl := NewClientRateLimiter(1, 3)
	router := limitedRouter(cl)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, hit(router, "203.0.113.7:1234").Code)
	}

	assert.Equal(t, []int{200, 200, 200, 429}, codes)
	assert.Equal(t, 1, cl.TrackedClients())

	w := hit(router, "203.0.113.7:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

// TestRateLimiterPerClient tests that budgets are tracked per IP
func TestRateLimiterPerClient(t *testing.T) {
	cl := NewClientRateLimiter(1, 1)
	router := limitedRouter(cl)

	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.7:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "203.0.113.7:1234").Code)

	// A different client still has its full budget.
	assert.Equal(t, http.StatusOK, hit(router, "198.51.100.9:4321").Code)
	assert.Equal(t, 2, cl.TrackedClients())
}

// TestRateLimiterDefaults tests the zero-config fallbacks
func TestRateLimiterDefaults(t *testing.T) {
	cl := NewClientRateLimiter(0, 0)
	assert.Equal(t, rate.Limit(10), cl.rps)
	assert.Equal(t, 20, cl.burst)
}
