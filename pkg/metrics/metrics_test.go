package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_RecordsRouteTemplate(t *testing.T) {
	reg := New()

	r := gin.New()
	r.Use(reg.Middleware())
	r.GET("/api/v1/payments/:id/emails", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/"+id+"/emails", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	got := testutil.ToFloat64(reg.reqCnt.WithLabelValues("200", "GET", "/api/v1/payments/:id/emails"))
	assert.Equal(t, float64(2), got)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	reg := New()

	r := gin.New()
	r.Use(reg.Middleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	got := testutil.ToFloat64(reg.reqCnt.WithLabelValues("404", "GET", "unmatched"))
	assert.Equal(t, float64(1), got)
}

func TestBusinessCounters(t *testing.T) {
	reg := New()

	reg.WebhookEvent("payment_failed", "processed")
	reg.WebhookEvent("payment_failed", "processed")
	reg.WebhookEvent("membership_invalid", "duplicate")
	reg.EmailSent("sent")

	assert.Equal(t, float64(2), testutil.ToFloat64(reg.webhookEvents.WithLabelValues("payment_failed", "processed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.webhookEvents.WithLabelValues("membership_invalid", "duplicate")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.emailsSent.WithLabelValues("sent")))
}

func TestNilRegistry_IsSafe(t *testing.T) {
	var reg *Registry
	assert.NotPanics(t, func() {
		reg.WebhookEvent("payment_failed", "processed")
		reg.EmailSent("sent")
	})
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := New()
	reg.EmailSent("failed")

	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dunning_emails_sent_total{outcome="failed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
