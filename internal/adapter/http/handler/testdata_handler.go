package handler

import (
	"dunning-dashboard/internal/adapter/http/dto"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// TestDataHandler seeds and purges synthetic failed payments. It is only
// routed in demo builds.
type TestDataHandler struct {
	testDataSvc ports.TestDataService
}

// NewTestDataHandler creates a new TestDataHandler.
func NewTestDataHandler(testDataSvc ports.TestDataService) *TestDataHandler {
	return &TestDataHandler{testDataSvc: testDataSvc}
}

// Seed handles POST /api/v1/test-data.
func (h *TestDataHandler) Seed(c *gin.Context) {
	var req dto.SeedPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
	}
	dto.SanitizeStruct(&req)

	fp, err := h.testDataSvc.Seed(c.Request.Context(), ports.SeedPaymentRequest{
		PaymentID:           req.PaymentID,
		MembershipID:        req.MembershipID,
		UserID:              req.UserID,
		UserEmail:           req.UserEmail,
		ProductID:           req.ProductID,
		CompanyID:           req.CompanyID,
		Amount:              req.Amount,
		Currency:            req.Currency,
		PaymentsFailedCount: req.PaymentsFailedCount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fp)
}

// List handles GET /api/v1/test-data.
func (h *TestDataHandler) List(c *gin.Context) {
	companyID := c.Query("companyId")
	if companyID != "" && !dto.ValidID(companyID) {
		response.Error(c, apperror.Validation("Invalid company ID"))
		return
	}

	payments, err := h.testDataSvc.List(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.TestDataListResponse{
		Count:    len(payments),
		Payments: payments,
	})
}

// Purge handles DELETE /api/v1/test-data.
func (h *TestDataHandler) Purge(c *gin.Context) {
	companyID := c.Query("companyId")
	if companyID != "" && !dto.ValidID(companyID) {
		response.Error(c, apperror.Validation("Invalid company ID"))
		return
	}

	n, err := h.testDataSvc.Purge(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": n})
}
