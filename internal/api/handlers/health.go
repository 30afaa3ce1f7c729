package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/draftsheet/internal/services"
	"github.com/jstittsworth/draftsheet/pkg/database"
)

type HealthHandler struct {
	db     *database.DB
	sheets *services.SheetService
	hub    *services.WebSocketHub
}

func NewHealthHandler(db *database.DB, sheets *services.SheetService, hub *services.WebSocketHub) *HealthHandler {
	return &HealthHandler{
		db:     db,
		sheets: sheets,
		hub:    hub,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
// This is used for basic liveness probes
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "draftsheet",
	})
}

// GetReady returns readiness status - only returns 200 once the sessions
// database answers and a cheat sheet has been built. This is used for
// readiness probes in container orchestration.
func (h *HealthHandler) GetReady(c *gin.Context) {
	sqlDB, err := h.db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "database unreachable",
		})
		return
	}

	sheet, err := h.sheets.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "cheat sheet not built",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"profile":    sheet.Profile,
		"built_at":   sheet.BuiltAt,
		"players":    len(sheet.Overall),
		"ws_clients": h.hub.ClientCount(),
	})
}
