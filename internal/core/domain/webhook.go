package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Accepted action spellings. The provider has renamed these over time.
var (
	PaymentFailedActions = []string{
		"app_payment.failed",
		"payment.failed",
	}
	MembershipInvalidActions = []string{
		"app_membership_went_invalid",
		"app_membership.went_invalid",
		"membership.went_invalid",
		"membership_went_invalid",
	}
)

// IsPaymentFailedAction reports whether action announces a failed payment.
func IsPaymentFailedAction(action string) bool {
	return lo.Contains(PaymentFailedActions, action)
}

// IsMembershipInvalidAction reports whether action announces an invalidated membership.
func IsMembershipInvalidAction(action string) bool {
	return lo.Contains(MembershipInvalidActions, action)
}

var (
	ErrMissingPaymentID    = errors.New("payment id is required")
	ErrMissingMembershipID = errors.New("membership id is required")
)

// WebhookEvent is a decoded provider notification.
type WebhookEvent struct {
	Action string  `json:"action"`
	Data   Payload `json:"data"`
}

// DecodeWebhookEvent parses a raw webhook body, keeping numbers as json.Number
// so large ids survive intact.
func DecodeWebhookEvent(body []byte) (*WebhookEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var evt WebhookEvent
	if err := dec.Decode(&evt); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if evt.Data == nil {
		evt.Data = Payload{}
	}
	return &evt, nil
}

// Payload is the loosely shaped "data" object of a webhook event.
type Payload map[string]any

// String returns the value at path rendered as a string. Numbers are rendered
// in decimal; missing, null and non-scalar values yield "".
func (p Payload) String(path ...string) string {
	v, ok := p.lookup(path...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Int64 returns the numeric value at key, or 0. Fractional values are rounded.
func (p Payload) Int64(key string) int64 {
	v, ok := p.lookup(key)
	if !ok {
		return 0
	}
	var n json.Number
	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(t))
	case float64:
		return int64(math.Round(t))
	default:
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return int64(math.Round(f))
	}
	return 0
}

// Time returns the timestamp at key. Unix seconds, unix milliseconds and
// RFC 3339 strings are accepted; anything else yields nil.
func (p Payload) Time(key string) *time.Time {
	raw := p.String(key)
	if raw == "" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		var t time.Time
		if n > 1e12 {
			t = time.UnixMilli(n).UTC()
		} else {
			t = time.Unix(n, 0).UTC()
		}
		return &t
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}

func (p Payload) lookup(path ...string) (any, bool) {
	var cur any = map[string]any(p)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			if pm, isPayload := cur.(Payload); isPayload {
				m = pm
			} else {
				return nil, false
			}
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// MembershipIDStrategy extracts a membership id from one payload location.
type MembershipIDStrategy struct {
	Name    string
	Extract func(Payload) string
}

func fieldStrategy(path ...string) MembershipIDStrategy {
	return MembershipIDStrategy{
		Name:    strings.Join(path, "."),
		Extract: func(p Payload) string { return strings.TrimSpace(p.String(path...)) },
	}
}

// MembershipIDStrategies lists the payload locations tried in priority order.
var MembershipIDStrategies = []MembershipIDStrategy{
	fieldStrategy("membership_id"),
	fieldStrategy("membership", "id"),
	fieldStrategy("id"),
	fieldStrategy("membershipId"),
}

// ExtractMembershipID returns the first non-empty membership id and the
// name of the strategy that produced it.
func ExtractMembershipID(p Payload) (id string, strategy string) {
	for _, s := range MembershipIDStrategies {
		if v := s.Extract(p); v != "" {
			return v, s.Name
		}
	}
	return "", ""
}

// PaymentFailureFromPayload normalises a payment-failed payload into the row
// that will be upserted, applying placeholders for absent optional fields.
func PaymentFailureFromPayload(p Payload) (*FailedPayment, error) {
	paymentID := strings.TrimSpace(p.String("id"))
	if paymentID == "" {
		return nil, ErrMissingPaymentID
	}
	membershipID, _ := ExtractMembershipID(p)

	fp := &FailedPayment{
		PaymentID:           paymentID,
		MembershipID:        membershipID,
		UserID:              lo.CoalesceOrEmpty(p.String("user_id"), "unknown_user"),
		UserEmail:           lo.CoalesceOrEmpty(p.String("user", "email"), "test@example.com"),
		ProductID:           p.String("product_id"),
		CompanyID:           lo.CoalesceOrEmpty(p.String("company_id"), DefaultCompanyID),
		Amount:              p.Int64("final_amount"),
		Currency:            lo.CoalesceOrEmpty(strings.ToLower(p.String("currency")), "usd"),
		PaymentsFailedCount: int(p.Int64("payments_failed")),
		LastPaymentAttempt:  p.Time("last_payment_attempt"),
		NextPaymentAttempt:  p.Time("next_payment_attempt"),
		Status:              PaymentStatusActive,
	}
	return fp, nil
}

// UpsertResult reports the outcome of recording a payment failure.
type UpsertResult struct {
	ID       string `json:"id"`
	Inserted bool   `json:"-"`
}

// PaymentFailedAck is the acknowledgement of a processed payment-failed event.
type PaymentFailedAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
	Action  string `json:"action"` // created | updated
}

// MembershipInvalidAck is the acknowledgement of a processed membership-invalid event.
type MembershipInvalidAck struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	MembershipID         string `json:"membershipId"`
	UpdatedPaymentsCount int64  `json:"updatedPaymentsCount"`
	EventAction          string `json:"eventAction"`
}

// IgnoredEventAck is returned for events of an action the endpoint does not handle.
type IgnoredEventAck struct {
	Message        string   `json:"message"`
	ReceivedAction string   `json:"receivedAction,omitempty"`
	ValidActions   []string `json:"validActions,omitempty"`
}
