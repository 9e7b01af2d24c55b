package handler

import (
	"errors"
	"net/http"
	"time"

	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"
	"dunning-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DiagnosticsHandler exposes operator-facing connectivity probes. Unlike
// /health these always answer with a descriptive payload.
type DiagnosticsHandler struct {
	diagSvc ports.DiagnosticsService
	log     zerolog.Logger
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler.
func NewDiagnosticsHandler(diagSvc ports.DiagnosticsService, log zerolog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{diagSvc: diagSvc, log: log}
}

// Database handles GET /api/v1/diagnostics/database.
func (h *DiagnosticsHandler) Database(c *gin.Context) {
	report, err := h.diagSvc.CheckDatabase(c.Request.Context())
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		if errors.Is(err, ports.ErrStorageNotConfigured) {
			code = http.StatusServiceUnavailable
			msg = apperror.ErrStorageNotConfigured().Message
		} else {
			h.log.Error().Err(err).Msg("database probe failed")
		}
		response.Status(c, code, gin.H{
			"success": false,
			"error":   msg,
		})
		return
	}

	response.OK(c, gin.H{
		"success":        true,
		"message":        "Database connection successful",
		"server_time":    report.ServerTime,
		"tables":         report.Tables,
		"missing_tables": report.MissingTables,
		"timestamp":      time.Now().UTC(),
	})
}

// MembershipAPI handles GET /api/v1/diagnostics/membership-api.
func (h *DiagnosticsHandler) MembershipAPI(c *gin.Context) {
	report := h.diagSvc.CheckMembershipAPI()
	if !report.Initialized {
		response.Status(c, http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"error":     "SDK not initialized",
			"env_check": report.EnvCheck,
		})
		return
	}

	response.OK(c, gin.H{
		"success":    true,
		"sdk_status": "initialized",
		"env_check":  report.EnvCheck,
	})
}
