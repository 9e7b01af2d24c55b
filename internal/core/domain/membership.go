package domain

import "time"

// Membership is the external provider's subscription record.
type Membership struct {
	ID                  string
	Status              string
	Valid               bool
	LicenseKey          string
	UserID              string
	UserEmail           string
	PlanID              string
	ProductID           string
	InitialPrice        int64
	PaymentsFailedCount int
	CreatedAt           int64 // unix seconds
}

// HasPaymentIssue reports whether the membership shows payment distress.
func (m Membership) HasPaymentIssue() bool {
	return m.Status == "past_due" || m.PaymentsFailedCount > 0
}

// Cancelled reports whether the provider considers the membership cancelled.
func (m Membership) Cancelled() bool {
	return m.Status == "canceled" || m.Status == "cancelled"
}

// MembershipQuery is the provider-side filter for a membership listing.
type MembershipQuery struct {
	CompanyID         string
	First             int
	Order             string
	Direction         string
	MembershipStatus  string
	MostRecentActions []string
}

// NewMembershipQuery maps a dashboard status filter onto the provider filters.
func NewMembershipQuery(companyID, status string) MembershipQuery {
	q := MembershipQuery{
		CompanyID: companyID,
		First:     50,
		Order:     "created_at",
		Direction: "desc",
	}
	switch PaymentStatus(status) {
	case PaymentStatusActive:
		q.MembershipStatus = "past_due"
	case PaymentStatusCancelled:
		q.MostRecentActions = []string{"churned"}
	}
	return q
}

// MembershipData is the raw provider state attached to each joined row.
type MembershipData struct {
	Status     string `json:"status"`
	Valid      bool   `json:"valid"`
	LicenseKey string `json:"license_key"`
}

// MembershipPayment is a membership rendered in the failed-payment shape,
// enriched with locally tracked email fields when a local row exists.
type MembershipPayment struct {
	ID                  string         `json:"id"`
	UserEmail           string         `json:"user_email"`
	UserID              string         `json:"user_id"`
	MembershipID        string         `json:"membership_id"`
	Amount              int64          `json:"amount"`
	Currency            string         `json:"currency"`
	PaymentsFailedCount int            `json:"payments_failed_count"`
	Status              PaymentStatus  `json:"status"`
	EmailsSent          int            `json:"emails_sent"`
	LastEmailSent       *time.Time     `json:"last_email_sent"`
	AutoEmailEnabled    bool           `json:"auto_email_enabled"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	PlanID              string         `json:"plan_id"`
	ProductID           string         `json:"product_id"`
	WhopData            MembershipData `json:"whop_data"`
}

// NewMembershipPayment joins a membership with its local row (may be nil).
// Provider cancellation wins over the local status; a local "recovered"
// wins over the default "active".
func NewMembershipPayment(m Membership, local *FailedPayment, now time.Time) MembershipPayment {
	p := MembershipPayment{
		ID:                  m.ID,
		UserEmail:           m.UserEmail,
		UserID:              m.UserID,
		MembershipID:        m.ID,
		Amount:              m.InitialPrice,
		Currency:            "usd",
		PaymentsFailedCount: m.PaymentsFailedCount,
		Status:              PaymentStatusActive,
		CreatedAt:           now.UTC(),
		UpdatedAt:           now.UTC(),
		PlanID:              m.PlanID,
		ProductID:           m.ProductID,
		WhopData: MembershipData{
			Status:     m.Status,
			Valid:      m.Valid,
			LicenseKey: m.LicenseKey,
		},
	}
	if p.UserEmail == "" {
		p.UserEmail = "N/A"
	}
	if m.CreatedAt > 0 {
		p.CreatedAt = time.Unix(m.CreatedAt, 0).UTC()
	}

	if local != nil {
		p.EmailsSent = local.EmailsSent
		p.LastEmailSent = local.LastEmailSent
		p.AutoEmailEnabled = local.AutoEmailEnabled
		p.UpdatedAt = local.UpdatedAt
	}

	switch {
	case m.Cancelled():
		p.Status = PaymentStatusCancelled
	case local != nil && local.Status == PaymentStatusRecovered:
		p.Status = PaymentStatusRecovered
	}
	return p
}

// MembershipPage is the membership listing. It is never paginated server side.
type MembershipPage struct {
	Payments   []MembershipPayment `json:"payments"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
	Source     string              `json:"source"`
}
