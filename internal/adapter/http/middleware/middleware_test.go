package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	redisStore "dunning-dashboard/internal/adapter/storage/redis"
	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/internal/core/ports/mocks"
	"dunning-dashboard/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "whsec_test"

func signedHeader(secret string, ts int64, body []byte) string {
	sig := service.NewHMACSignatureService()
	return fmt.Sprintf("t=%d,v1=%s", ts, sig.Sign(secret, sig.BuildSignedPayload(ts, body)))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// webhookRouter wires the signature middleware in front of a handler that
// answers with the given status and counts its invocations.
func webhookRouter(secret string, store ports.NonceStore, status *int, calls *int) *gin.Engine {
	r := gin.New()
	cfg := WebhookSignatureConfig{Scope: "payment_failed", Secret: secret, Tolerance: 5 * time.Minute}
	r.POST("/hook", WebhookSignature(cfg, service.NewHMACSignatureService(), store, zerolog.Nop()), func(c *gin.Context) {
		*calls++
		raw, _ := c.Get(CtxWebhookBody)
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(*status, gin.H{"raw": string(raw.([]byte)), "body": string(body)})
	})
	return r
}

func newMiniNonceStore(t *testing.T) *redisStore.NonceStore {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisStore.NewNonceStore(client)
}

func postHook(r *gin.Engine, header string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	if header != "" {
		req.Header.Set(HeaderWebhookSignature, header)
	}
	r.ServeHTTP(w, req)
	return w
}

// ==================== WebhookSignature ====================

func TestWebhookSignature_Valid(t *testing.T) {
	status, calls := http.StatusOK, 0
	r := webhookRouter(testSecret, newMiniNonceStore(t), &status, &calls)
	body := []byte(`{"action":"payment.failed","data":{"id":"pay_1"}}`)

	w := postHook(r, signedHeader(testSecret, time.Now().Unix(), body), body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(body), resp["raw"])
	assert.Equal(t, string(body), resp["body"], "body must be readable again downstream")
}

func TestWebhookSignature_Rejections(t *testing.T) {
	body := []byte(`{"action":"payment.failed"}`)
	now := time.Now().Unix()

	tests := []struct {
		name   string
		secret string
		header string
		status int
		code   string
	}{
		{"missing secret", "", signedHeader(testSecret, now, body), http.StatusInternalServerError, "CFG_002"},
		{"missing header", testSecret, "", http.StatusUnauthorized, "SEC_001"},
		{"malformed header", testSecret, "sha256=abcdef", http.StatusUnauthorized, "SEC_002"},
		{"non numeric timestamp", testSecret, "t=abc,v1=abcdef", http.StatusUnauthorized, "SEC_002"},
		{"stale timestamp", testSecret, signedHeader(testSecret, now-600, body), http.StatusUnauthorized, "SEC_003"},
		{"future timestamp", testSecret, signedHeader(testSecret, now+600, body), http.StatusUnauthorized, "SEC_003"},
		{"wrong secret", testSecret, signedHeader("other", now, body), http.StatusUnauthorized, "SEC_002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, calls := http.StatusOK, 0
			r := webhookRouter(tt.secret, redisStore.NoopNonceStore{}, &status, &calls)

			w := postHook(r, tt.header, body)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
			assert.Zero(t, calls)
		})
	}
}

func TestWebhookSignature_TamperedBody(t *testing.T) {
	status, calls := http.StatusOK, 0
	r := webhookRouter(testSecret, redisStore.NoopNonceStore{}, &status, &calls)
	header := signedHeader(testSecret, time.Now().Unix(), []byte(`{"amount":1}`))

	w := postHook(r, header, []byte(`{"amount":1000}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, calls)
}

func TestWebhookSignature_DuplicateAcknowledged(t *testing.T) {
	status, calls := http.StatusOK, 0
	r := webhookRouter(testSecret, newMiniNonceStore(t), &status, &calls)
	body := []byte(`{"action":"payment.failed","data":{"id":"pay_1"}}`)
	header := signedHeader(testSecret, time.Now().Unix(), body)

	require.Equal(t, http.StatusOK, postHook(r, header, body).Code)
	w := postHook(r, header, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["duplicate"])
}

func TestWebhookSignature_ServerErrorReleasesMarker(t *testing.T) {
	status, calls := http.StatusInternalServerError, 0
	r := webhookRouter(testSecret, newMiniNonceStore(t), &status, &calls)
	body := []byte(`{"action":"payment.failed","data":{"id":"pay_1"}}`)
	header := signedHeader(testSecret, time.Now().Unix(), body)

	assert.Equal(t, http.StatusInternalServerError, postHook(r, header, body).Code)

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, postHook(r, header, body).Code)
	assert.Equal(t, 2, calls)
}

func TestWebhookSignature_ClientErrorKeepsMarker(t *testing.T) {
	status, calls := http.StatusBadRequest, 0
	r := webhookRouter(testSecret, newMiniNonceStore(t), &status, &calls)
	body := []byte(`{"action":"payment.failed","data":{}}`)
	header := signedHeader(testSecret, time.Now().Unix(), body)

	assert.Equal(t, http.StatusBadRequest, postHook(r, header, body).Code)
	assert.Equal(t, http.StatusOK, postHook(r, header, body).Code)
	assert.Equal(t, 1, calls)
}

func TestWebhookSignature_ReplayGuardUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockNonceStore(ctrl)
	store.EXPECT().CheckAndSet(gomock.Any(), "payment_failed", gomock.Any(), 10*time.Minute).
		Return(false, errors.New("redis: connection refused"))
	// Release must not be attempted for a marker that was never written.

	status, calls := http.StatusInternalServerError, 0
	r := webhookRouter(testSecret, store, &status, &calls)
	body := []byte(`{}`)

	w := postHook(r, signedHeader(testSecret, time.Now().Unix(), body), body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, calls)
}

func TestParseSignatureHeader(t *testing.T) {
	tests := []struct {
		header string
		ts     int64
		sigs   []string
		ok     bool
	}{
		{"t=1700000000,v1=abc123", 1700000000, []string{"abc123"}, true},
		{" v1=abc123 , t=1700000000 ", 1700000000, []string{"abc123"}, true},
		{"t=1700000000,v0=old,v1=abc123", 1700000000, []string{"abc123"}, true},
		{"t=1700000000,v1=new456,v1=abc123", 1700000000, []string{"new456", "abc123"}, true},
		{"t=1700000000,v1=", 0, nil, false},
		{"t=1700000000", 0, nil, false},
		{"v1=abc123", 0, nil, false},
		{"t=x,v1=abc123", 0, nil, false},
		{"", 0, nil, false},
	}
	for _, tt := range tests {
		ts, sigs, err := ParseSignatureHeader(tt.header)
		if !tt.ok {
			assert.Error(t, err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.ts, ts)
		assert.Equal(t, tt.sigs, sigs)
	}
}

func TestWebhookSignature_AnyRotatedSignatureVerifies(t *testing.T) {
	body := []byte(`{"action":"payment.failed","data":{"id":"pay_1"}}`)
	now := time.Now().Unix()
	sig := service.NewHMACSignatureService()
	current := sig.Sign(testSecret, sig.BuildSignedPayload(now, body))
	retired := sig.Sign("whsec_retired", sig.BuildSignedPayload(now, body))

	t.Run("matching signature listed last", func(t *testing.T) {
		status, calls := http.StatusOK, 0
		r := webhookRouter(testSecret, newMiniNonceStore(t), &status, &calls)

		w := postHook(r, fmt.Sprintf("t=%d,v1=%s,v1=%s", now, current, retired), body)
		assert.Equal(t, http.StatusOK, w.Code)

		w = postHook(r, fmt.Sprintf("t=%d,v1=%s,v1=%s", now, retired, current), body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls, "same verified signature is a replay regardless of order")
	})

	t.Run("no signature matches", func(t *testing.T) {
		status, calls := http.StatusOK, 0
		r := webhookRouter(testSecret, redisStore.NoopNonceStore{}, &status, &calls)

		w := postHook(r, fmt.Sprintf("t=%d,v1=%s,v1=deadbeef", now, retired), body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "SEC_002", errorCode(t, w))
		assert.Zero(t, calls)
	})
}

// ==================== JWTAuth ====================

func TestJWTAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	r := gin.New()
	r.GET("/secure", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		op, ok := OperatorFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, op)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTH_003", errorCode(t, w))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		tokenSvc.EXPECT().Validate("bad").Return(nil, errors.New("token is expired"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer bad")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tokenSvc.EXPECT().Validate("good").Return(&ports.TokenClaims{Username: "alice", Companies: []string{"biz_1"}}, nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer good")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var op domain.Operator
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &op))
		assert.Equal(t, "alice", op.Username)
		assert.Equal(t, []string{"biz_1"}, op.Companies)
	})
}

// ==================== RequestID / Recovery / CORS ====================

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-abc", w.Body.String())
	assert.Equal(t, "req-abc", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SYS_001", errorCode(t, w))
}

func TestWithCORS(t *testing.T) {
	r := gin.New()
	r.GET("/api", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	h := WithCORS(r, []string{"http://localhost:3000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://evil.example")
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}
