package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dunning-dashboard/internal/adapter/http/middleware"
	redisStore "dunning-dashboard/internal/adapter/storage/redis"
	"dunning-dashboard/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisStore.NewRateLimitStore(client)
	rule := middleware.RateLimitRule{Limit: 3, Window: time.Minute}

	r := gin.New()
	r.GET("/test",
		func(c *gin.Context) {
			if u := c.GetHeader("X-Test-Operator"); u != "" {
				c.Set(middleware.CtxOperator, domain.Operator{Username: u})
			}
			c.Next()
		},
		middleware.RateLimiter(store, "test", rule, zerolog.Nop()),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
	)
	return r, mr
}

func doGet(r *gin.Engine, operator string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if operator != "" {
		req.Header.Set("X-Test-Operator", operator)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	router, _ := setupRateLimitRouter(t)

	for i := 0; i < 3; i++ {
		w := doGet(router, "")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should succeed", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	router, _ := setupRateLimitRouter(t)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "").Code)
	}

	w := doGet(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_001")
}

func TestRateLimiter_SeparateCountersPerOperator(t *testing.T) {
	router, _ := setupRateLimitRouter(t)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "alice").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doGet(router, "alice").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "bob").Code)
}

func TestRateLimiter_DegradedModeWhenRedisDown(t *testing.T) {
	router, mr := setupRateLimitRouter(t)
	mr.Close()

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "").Code)
	}
}

func TestDefaultRateLimitRules(t *testing.T) {
	rules := middleware.DefaultRateLimitRules()
	assert.Equal(t, int64(300), rules["webhooks"].Limit)
	assert.Equal(t, int64(10), rules["auth_login"].Limit)
	assert.Equal(t, int64(120), rules["dashboard"].Limit)
	assert.Equal(t, int64(30), rules["emails_send"].Limit)
	for group, rule := range rules {
		assert.Equal(t, time.Minute, rule.Window, group)
	}
}
