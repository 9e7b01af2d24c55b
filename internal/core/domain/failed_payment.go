package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultCompanyID is used when neither the webhook nor the caller names a company.
const DefaultCompanyID = "default"

// PaymentStatus represents the dunning state of a failed payment.
type PaymentStatus string

const (
	PaymentStatusActive    PaymentStatus = "active"
	PaymentStatusRecovered PaymentStatus = "recovered"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusActive, PaymentStatusRecovered, PaymentStatusCancelled:
		return true
	}
	return false
}

// ParseStatusFilter turns a query parameter into a status filter.
// "" and "all" mean no filter and yield an empty status.
func ParseStatusFilter(raw string) (PaymentStatus, bool) {
	if raw == "" || raw == "all" {
		return "", true
	}
	s := PaymentStatus(raw)
	return s, s.Valid()
}

// FailedPayment is one externally reported failed payment, keyed by PaymentID.
type FailedPayment struct {
	ID                  uuid.UUID     `json:"id"`
	PaymentID           string        `json:"payment_id"`
	MembershipID        string        `json:"membership_id"`
	UserID              string        `json:"user_id"`
	UserEmail           string        `json:"user_email"`
	ProductID           string        `json:"product_id"`
	CompanyID           string        `json:"company_id"`
	Amount              int64         `json:"amount"` // minor currency units
	Currency            string        `json:"currency"`
	PaymentsFailedCount int           `json:"payments_failed_count"`
	LastPaymentAttempt  *time.Time    `json:"last_payment_attempt"`
	NextPaymentAttempt  *time.Time    `json:"next_payment_attempt"`
	Status              PaymentStatus `json:"status"`
	AutoEmailEnabled    bool          `json:"auto_email_enabled"`
	EmailsSent          int           `json:"emails_sent"`
	LastEmailSent       *time.Time    `json:"last_email_sent"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// PaymentFilter selects a page of failed payments for one company.
type PaymentFilter struct {
	CompanyID string
	Status    PaymentStatus // empty = all
	Search    string        // substring of user_email or membership_id
	Page      int
	Limit     int
}

// Offset returns the number of rows preceding the requested page.
func (f PaymentFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// PaymentPage is one page of a filtered listing.
type PaymentPage struct {
	Payments   []*FailedPayment `json:"payments"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// TotalPages returns ceil(total/limit), 0 for an empty set.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// PaymentUpdate is the set of operator-editable fields. Nil fields are left untouched.
type PaymentUpdate struct {
	Status           *PaymentStatus `json:"status,omitempty"`
	AutoEmailEnabled *bool          `json:"auto_email_enabled,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u PaymentUpdate) Empty() bool {
	return u.Status == nil && u.AutoEmailEnabled == nil
}

// RecoveryStats aggregates the failed payments of one company.
type RecoveryStats struct {
	TotalFailed      int64   `json:"totalFailed"`
	Recovered        int64   `json:"recovered"`
	Active           int64   `json:"active"`
	Cancelled        int64   `json:"cancelled"`
	TotalRevenue     int64   `json:"totalRevenue"`
	RecoveredRevenue int64   `json:"recoveredRevenue"`
	RecoveryRate     float64 `json:"recoveryRate"`
}

// RecoveryRate returns recovered/total as a percentage rounded to two
// decimals. It is exactly 0 when total is 0.
func RecoveryRate(recovered, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(recovered)/float64(total)*100*100) / 100
}

// DashboardStats is the stats payload: aggregates plus the newest rows.
type DashboardStats struct {
	Stats          RecoveryStats    `json:"stats"`
	RecentPayments []*FailedPayment `json:"recentPayments"`
}
