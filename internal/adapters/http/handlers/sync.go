package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/app"
)

// SyncHandler exposes reconciliation with the remote quote endpoint.
type SyncHandler struct {
	service *app.SyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(service *app.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// Sync handles POST /api/v1/sync. It runs one sync and answers with the
// resulting status. A failed sync answers with the error envelope; the
// status line message becomes the envelope message and the cause goes to
// details.
func (h *SyncHandler) Sync(c *gin.Context) {
	status, err := h.service.Sync(c.Request.Context())
	if err != nil {
		code, resp := dto.MapDomainError(err)
		resp.Error.Message = status.Message
		resp.Error.Details = map[string]string{"reason": status.Error}

		c.JSON(code, resp.WithTraceID(dto.GetTraceID(c)))

		return
	}

	c.JSON(http.StatusOK, status)
}

// Status handles GET /api/v1/sync/status.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}

// RegisterSyncRoutes registers the sync routes on rg. guard runs in front
// of the manual trigger.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	rg.GET("/sync/status", h.Status)
	rg.Group("", guard...).POST("/sync", h.Sync)
}
