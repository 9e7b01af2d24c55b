package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmailRule is a per-company recovery template bound to a day offset after failure.
// Subject and body carry {{variable}} placeholders which are filled by the caller.
type EmailRule struct {
	ID              uuid.UUID `json:"id"`
	CompanyID       string    `json:"company_id"`
	Days            int       `json:"days"`
	Enabled         bool      `json:"enabled"`
	TemplateName    string    `json:"template_name"`
	TemplateSubject string    `json:"template_subject"`
	TemplateBody    string    `json:"template_body"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EmailSequence links one send to a failed payment and an email type.
type EmailSequence struct {
	ID                uuid.UUID `json:"id"`
	FailedPaymentID   uuid.UUID `json:"failed_payment_id"`
	EmailType         string    `json:"email_type"`
	ProviderMessageID string    `json:"provider_message_id"`
	SentAt            time.Time `json:"sent_at"`
}

// SentEmailStatus is the delivery state recorded for a sent email.
type SentEmailStatus string

const SentEmailStatusSent SentEmailStatus = "sent"

// SentEmail is the audit copy of a delivered message. Never updated.
type SentEmail struct {
	ID                uuid.UUID       `json:"id"`
	FailedPaymentID   uuid.UUID       `json:"failed_payment_id"`
	EmailSequenceID   uuid.UUID       `json:"email_sequence_id"`
	TemplateName      string          `json:"template_name"`
	RecipientEmail    string          `json:"recipient_email"`
	Subject           string          `json:"subject"`
	Body              string          `json:"body"`
	ProviderMessageID string          `json:"provider_message_id"`
	Status            SentEmailStatus `json:"status"`
	SentAt            time.Time       `json:"sent_at"`
}

// EmailTemplate is the already-rendered content of one message.
type EmailTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OutboundEmail is what the email provider is asked to deliver.
type OutboundEmail struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// EmailSendResult acknowledges a completed send.
type EmailSendResult struct {
	Success    bool      `json:"success"`
	EmailID    string    `json:"emailId"`
	SequenceID uuid.UUID `json:"sequenceId"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// EmailType derives the sequence type from a template name:
// lower-cased, with every whitespace run replaced by "_".
func EmailType(templateName string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(templateName), "_")
}
