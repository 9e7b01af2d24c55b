package handler

import (
	"dunning-dashboard/internal/adapter/http/dto"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/metrics"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmailHandler handles recovery email sends and email rule management.
type EmailHandler struct {
	emailSvc ports.EmailService
	metrics  *metrics.Registry
}

// NewEmailHandler creates a new EmailHandler. m may be nil.
func NewEmailHandler(emailSvc ports.EmailService, m *metrics.Registry) *EmailHandler {
	return &EmailHandler{emailSvc: emailSvc, metrics: m}
}

// Send handles POST /api/v1/emails/send.
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var paymentID uuid.UUID
	if req.FailedPaymentID != "" {
		id, err := uuid.Parse(req.FailedPaymentID)
		if err != nil {
			response.Error(c, apperror.Validation("Invalid failedPaymentId"))
			return
		}
		paymentID = id
	}

	result, err := h.emailSvc.Send(c.Request.Context(), ports.SendEmailRequest{
		To:              req.To,
		Template:        req.Template,
		FailedPaymentID: paymentID,
		TemplateName:    req.TemplateName,
	})
	if err != nil {
		h.metrics.EmailSent("failed")
		response.Error(c, err)
		return
	}

	h.metrics.EmailSent("sent")
	response.OK(c, result)
}

// ListTemplates handles GET /api/v1/emails/templates.
func (h *EmailHandler) ListTemplates(c *gin.Context) {
	companyID, ok := companyParam(c, "")
	if !ok {
		return
	}

	rules, err := h.emailSvc.ListRules(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"templates": rules})
}

// SaveTemplate handles POST /api/v1/emails/templates.
func (h *EmailHandler) SaveTemplate(c *gin.Context) {
	var req dto.SaveEmailRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	rule, err := h.emailSvc.SaveRule(c.Request.Context(), req.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"template": rule})
}

// DeleteTemplate handles DELETE /api/v1/emails/templates.
func (h *EmailHandler) DeleteTemplate(c *gin.Context) {
	raw := c.Query("templateId")
	if raw == "" {
		response.Error(c, apperror.Validation("Template ID is required"))
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, apperror.Validation("Invalid template ID"))
		return
	}

	if err := h.emailSvc.DeleteRule(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
