package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error carrying the given message verbatim.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrPayloadTooLarge() *AppError {
	return New("VAL_002", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Webhook security (SEC) ----

func ErrMissingSignature() *AppError {
	return New("SEC_001", "Missing webhook signature", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid webhook signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Webhook timestamp outside tolerance", http.StatusUnauthorized)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrCompanyAccessDenied(companyID string) *AppError {
	return New("AUTH_004", fmt.Sprintf("Access to company %s denied", companyID), http.StatusForbidden)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Configuration (CFG) ----

func ErrStorageNotConfigured() *AppError {
	return New("CFG_001", "Storage not configured", http.StatusServiceUnavailable)
}

func ErrMissingWebhookSecret() *AppError {
	return New("CFG_002", "Missing webhook secret", http.StatusInternalServerError)
}

func ErrEmailNotConfigured() *AppError {
	return New("CFG_003", "Email provider not configured", http.StatusServiceUnavailable)
}

func ErrMembershipNotConfigured() *AppError {
	return New("CFG_004", "Membership API not configured", http.StatusServiceUnavailable)
}

// ---- Upstream (UPS) ----

// ErrUpstream exposes the underlying error message to the caller. Used where
// the webhook sender needs to see why processing failed.
func ErrUpstream(err error) *AppError {
	return Wrap("UPS_001", err.Error(), http.StatusInternalServerError, err)
}

func ErrEmailRejected(err error) *AppError {
	return Wrap("UPS_002", "Email provider rejected the message", http.StatusBadGateway, err)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
