package dto

import (
	"dunning-dashboard/internal/core/domain"
)

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// BulkUpdateRequest is the request body for PATCH /payments.
type BulkUpdateRequest struct {
	PaymentIDs []string      `json:"paymentIds"`
	Updates    PaymentFields `json:"updates"`
}

// PaymentFields are the operator-editable fields of a failed payment.
type PaymentFields struct {
	Status           *string `json:"status" binding:"omitempty,oneof=active recovered cancelled"`
	AutoEmailEnabled *bool   `json:"auto_email_enabled"`
}

// ToDomain converts the fields into a domain update.
func (f PaymentFields) ToDomain() domain.PaymentUpdate {
	u := domain.PaymentUpdate{AutoEmailEnabled: f.AutoEmailEnabled}
	if f.Status != nil {
		s := domain.PaymentStatus(*f.Status)
		u.Status = &s
	}
	return u
}

// BulkUpdateResponse reports the rows after a bulk update.
type BulkUpdateResponse struct {
	Success  bool                    `json:"success"`
	Updated  int                     `json:"updated"`
	Payments []*domain.FailedPayment `json:"payments"`
}

// SendEmailRequest is the request body for POST /emails/send.
// Presence of every field is checked by the email service.
type SendEmailRequest struct {
	To              string               `json:"to" binding:"omitempty,email,max=254"`
	Template        domain.EmailTemplate `json:"template"`
	FailedPaymentID string               `json:"failedPaymentId"`
	TemplateName    string               `json:"templateName" binding:"max=100"`
}

// EmailRuleFields is the template part of POST /emails/templates.
type EmailRuleFields struct {
	Days            *int   `json:"days" binding:"required,gte=0,lte=365"`
	Enabled         *bool  `json:"enabled"`
	TemplateName    string `json:"template_name" binding:"required,max=100"`
	TemplateSubject string `json:"template_subject" binding:"required,max=255"`
	TemplateBody    string `json:"template_body" binding:"required"`
}

// SaveEmailRuleRequest is the request body for POST /emails/templates.
type SaveEmailRuleRequest struct {
	CompanyID string          `json:"companyId" binding:"required,max=64,safe_id"`
	Template  EmailRuleFields `json:"template"`
}

// ToDomain converts the request into an email rule. Rules are enabled unless
// the caller says otherwise.
func (r SaveEmailRuleRequest) ToDomain() *domain.EmailRule {
	enabled := true
	if r.Template.Enabled != nil {
		enabled = *r.Template.Enabled
	}
	return &domain.EmailRule{
		CompanyID:       r.CompanyID,
		Days:            *r.Template.Days,
		Enabled:         enabled,
		TemplateName:    r.Template.TemplateName,
		TemplateSubject: r.Template.TemplateSubject,
		TemplateBody:    r.Template.TemplateBody,
	}
}

// SeedPaymentRequest is the request body for POST /test-data. Every field is optional.
type SeedPaymentRequest struct {
	PaymentID           string `json:"payment_id" binding:"omitempty,max=64,safe_id"`
	MembershipID        string `json:"membership_id" binding:"omitempty,max=64,safe_id"`
	UserID              string `json:"user_id" binding:"omitempty,max=64,safe_id"`
	UserEmail           string `json:"user_email" binding:"omitempty,email,max=254"`
	ProductID           string `json:"product_id" binding:"omitempty,max=64,safe_id"`
	CompanyID           string `json:"company_id" binding:"omitempty,max=64,safe_id"`
	Amount              *int64 `json:"amount" binding:"omitempty,gte=0"`
	Currency            string `json:"currency" binding:"omitempty,len=3"`
	PaymentsFailedCount *int   `json:"payments_failed_count" binding:"omitempty,gte=0"`
}

// TestDataListResponse is the response body for GET /test-data.
type TestDataListResponse struct {
	Count    int                     `json:"count"`
	Payments []*domain.FailedPayment `json:"payments"`
}
