package handler

import (
	"context"

	"dunning-dashboard/internal/adapter/http/middleware"
	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/metrics"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler handles the provider webhooks. Signatures are verified by
// middleware.WebhookSignature before these handlers run.
type WebhookHandler struct {
	webhookSvc ports.WebhookService
	metrics    *metrics.Registry
}

// NewWebhookHandler creates a new WebhookHandler. m may be nil.
func NewWebhookHandler(webhookSvc ports.WebhookService, m *metrics.Registry) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc, metrics: m}
}

// PaymentFailed handles POST /api/v1/webhooks/payment-failed.
func (h *WebhookHandler) PaymentFailed(c *gin.Context) {
	h.handle(c, "payment_failed", h.webhookSvc.HandlePaymentFailed)
}

// MembershipInvalid handles POST /api/v1/webhooks/membership-invalid.
func (h *WebhookHandler) MembershipInvalid(c *gin.Context) {
	h.handle(c, "membership_invalid", h.webhookSvc.HandleMembershipInvalid)
}

type webhookFunc func(ctx context.Context, evt *domain.WebhookEvent) (any, error)

func (h *WebhookHandler) handle(c *gin.Context, endpoint string, process webhookFunc) {
	body, err := rawBody(c)
	if err != nil {
		h.metrics.WebhookEvent(endpoint, "invalid")
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	evt, err := domain.DecodeWebhookEvent(body)
	if err != nil {
		h.metrics.WebhookEvent(endpoint, "invalid")
		response.Error(c, apperror.Validation("Invalid JSON payload"))
		return
	}

	ack, err := process(c.Request.Context(), evt)
	if err != nil {
		h.metrics.WebhookEvent(endpoint, "failed")
		response.Error(c, err)
		return
	}

	if _, ignored := ack.(*domain.IgnoredEventAck); ignored {
		h.metrics.WebhookEvent(endpoint, "ignored")
	} else {
		h.metrics.WebhookEvent(endpoint, "processed")
	}
	response.OK(c, ack)
}

// rawBody prefers the body already read by the signature middleware.
func rawBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(middleware.CtxWebhookBody); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	return c.GetRawData()
}
