package handler

import (
	"dunning-dashboard/internal/adapter/http/middleware"
	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// MembershipHandler serves the membership-derived failed payment listing.
type MembershipHandler struct {
	membershipSvc ports.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipSvc ports.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipSvc: membershipSvc}
}

// List handles GET /api/v1/memberships.
func (h *MembershipHandler) List(c *gin.Context) {
	companyID, ok := companyParam(c, "")
	if !ok {
		return
	}

	op, _ := middleware.OperatorFrom(c)
	if !op.CanAccessCompany(companyID) {
		response.Error(c, apperror.ErrCompanyAccessDenied(companyID))
		return
	}

	status := c.Query("status")
	if _, valid := domain.ParseStatusFilter(status); !valid {
		response.Error(c, apperror.Validation("Invalid status filter"))
		return
	}

	page, err := h.membershipSvc.ListFailedMemberships(c.Request.Context(), companyID, status, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}
