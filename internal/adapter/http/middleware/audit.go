package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful operator writes.
// It maps route patterns and methods to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var actor string
		if op, ok := OperatorFrom(c); ok {
			actor = op.Username
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Actor:        actor,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/auth/login" && method == http.MethodPost:
		return domain.AuditActionLogin, "session"
	case route == "/api/v1/payments" && method == http.MethodPatch:
		return domain.AuditActionUpdatePayments, "failed_payment"
	case route == "/api/v1/emails/send" && method == http.MethodPost:
		return domain.AuditActionSendEmail, "sent_email"
	case route == "/api/v1/emails/templates" && method == http.MethodPost:
		return domain.AuditActionSaveEmailRule, "email_rule"
	case route == "/api/v1/emails/templates" && method == http.MethodDelete:
		return domain.AuditActionDeleteEmailRule, "email_rule"
	case route == "/api/v1/test-data" && method == http.MethodPost:
		return domain.AuditActionSeedTestData, "failed_payment"
	case route == "/api/v1/test-data" && method == http.MethodDelete:
		return domain.AuditActionPurgeTestData, "failed_payment"
	}
	return "", ""
}
