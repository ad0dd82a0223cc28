package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/jobs"
	"github.com/devinpereira/Flexin/internal/service"
)

// Regenerator runs a batch regeneration of stored profiles.
type Regenerator interface {
	RegenerateAll(ctx context.Context) (service.RegenerateSummary, error)
}

// AdminHandler exposes operator endpoints.
type AdminHandler struct {
	regenerator        Regenerator
	diagnosticsService service.DiagnosticsService
}

func NewAdminHandler(regenerator Regenerator, diagnosticsService service.DiagnosticsService) *AdminHandler {
	return &AdminHandler{regenerator: regenerator, diagnosticsService: diagnosticsService}
}

// RegenerateSchedules POST /api/v1/admin/schedules/regenerate
func (h *AdminHandler) RegenerateSchedules(c *gin.Context) {
	summary, err := h.regenerator.RegenerateAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, jobs.ErrAlreadyRunning) {
			abortWithError(c, http.StatusConflict, "A regeneration is already in progress.")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusAccepted, gin.H{"summary": summary, "error": err.Error()})
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to regenerate schedules.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// ListDiagnostics GET /api/v1/admin/diagnostics?limit=N
func (h *AdminHandler) ListDiagnostics(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	diagnostics, err := h.diagnosticsService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve diagnostics.")
		return
	}
	if diagnostics == nil {
		diagnostics = []domain.Diagnostic{}
	}
	c.JSON(http.StatusOK, gin.H{"diagnostics": diagnostics, "dropped": h.diagnosticsService.Dropped()})
}
