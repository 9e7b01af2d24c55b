package handler

import (
	"fmt"
	"strconv"

	"dunning-dashboard/internal/adapter/http/dto"
	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles the failed-payment query API.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	companyID, ok := companyParam(c, domain.DefaultCompanyID)
	if !ok {
		return
	}

	status, valid := domain.ParseStatusFilter(c.Query("status"))
	if !valid {
		response.Error(c, apperror.Validation("Invalid status filter"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.paymentSvc.List(c.Request.Context(), domain.PaymentFilter{
		CompanyID: companyID,
		Status:    status,
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Stats handles GET /api/v1/stats.
func (h *PaymentHandler) Stats(c *gin.Context) {
	companyID, ok := companyParam(c, domain.DefaultCompanyID)
	if !ok {
		return
	}

	stats, err := h.paymentSvc.Stats(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// BulkUpdate handles PATCH /api/v1/payments.
func (h *PaymentHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if len(req.PaymentIDs) == 0 {
		response.Error(c, apperror.Validation("Payment IDs are required"))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.PaymentIDs))
	for _, raw := range req.PaymentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation(fmt.Sprintf("Invalid payment ID: %s", raw)))
			return
		}
		ids = append(ids, id)
	}

	payments, err := h.paymentSvc.BulkUpdate(c.Request.Context(), ids, req.Updates.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BulkUpdateResponse{
		Success:  true,
		Updated:  len(payments),
		Payments: payments,
	})
}

// EmailHistory handles GET /api/v1/payments/:id/emails.
func (h *PaymentHandler) EmailHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid payment ID"))
		return
	}

	emails, err := h.paymentSvc.EmailHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"emails": emails})
}

// companyParam reads ?companyId=, falling back to def when absent. An empty
// def makes the parameter required. On failure the error response is written.
func companyParam(c *gin.Context, def string) (string, bool) {
	companyID := c.Query("companyId")
	if companyID == "" {
		companyID = def
	}
	if companyID == "" {
		response.Error(c, apperror.Validation("Company ID is required"))
		return "", false
	}
	if !dto.ValidID(companyID) {
		response.Error(c, apperror.Validation("Invalid company ID"))
		return "", false
	}
	return companyID, true
}
