package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("VAL_001", "Payment IDs are required", http.StatusBadRequest),
			expected: "[VAL_001] Payment IDs are required",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestErrorCatalog(t *testing.T) {
	inner := fmt.Errorf("boom")

	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("bad"), "VAL_001", 400},
		{"PayloadTooLarge", ErrPayloadTooLarge(), "VAL_002", 413},
		{"MissingSignature", ErrMissingSignature(), "SEC_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "SEC_002", 401},
		{"TimestampExpired", ErrTimestampExpired(), "SEC_003", 401},
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
		{"CompanyAccessDenied", ErrCompanyAccessDenied("biz_1"), "AUTH_004", 403},
		{"NotFound", ErrNotFound("Failed payment"), "RES_001", 404},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429},
		{"StorageNotConfigured", ErrStorageNotConfigured(), "CFG_001", 503},
		{"MissingWebhookSecret", ErrMissingWebhookSecret(), "CFG_002", 500},
		{"EmailNotConfigured", ErrEmailNotConfigured(), "CFG_003", 503},
		{"MembershipNotConfigured", ErrMembershipNotConfigured(), "CFG_004", 503},
		{"Upstream", ErrUpstream(inner), "UPS_001", 500},
		{"EmailRejected", ErrEmailRejected(inner), "UPS_002", 502},
		{"Database", ErrDatabaseError(inner), "SYS_001", 500},
		{"Internal", InternalError(inner), "SYS_001", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestErrUpstream_ExposesMessage(t *testing.T) {
	inner := fmt.Errorf("upsert failed payment: duplicate key")
	err := ErrUpstream(inner)

	assert.Equal(t, "upsert failed payment: duplicate key", err.Message)
	assert.True(t, errors.Is(err, inner))
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Email rule")
	assert.Equal(t, "Email rule not found", err.Message)
}

func TestCompanyAccessDenied_NamesCompany(t *testing.T) {
	err := ErrCompanyAccessDenied("biz_42")
	assert.Contains(t, err.Message, "biz_42")
}
