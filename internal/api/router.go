package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/draftsheet/internal/api/handlers"
	"github.com/jstittsworth/draftsheet/internal/api/middleware"
	"github.com/jstittsworth/draftsheet/internal/services"
	"github.com/jstittsworth/draftsheet/pkg/config"
	"github.com/jstittsworth/draftsheet/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *database.DB, sheets *services.SheetService, injuries *services.InjuryService, hub *services.WebSocketHub, cfg *config.Config, profileNames []string) {
	// Initialize handlers
	sheetHandler := handlers.NewSheetHandler(sheets, injuries, db, hub)
	exportHandler := handlers.NewExportHandler(sheets, injuries, db)
	draftHandler := handlers.NewDraftHandler(db, hub, cfg.SessionSecret, sheets.Profile().Name)
	configHandler := handlers.NewConfigHandler(sheets.Profile(), profileNames)
	glossaryHandler := handlers.NewGlossaryHandler()

	// Sheet reads; ?session= merges a draft session's picks and keepers
	group.GET("/sheet", sheetHandler.GetOverall)
	group.GET("/sheet/positions/:pos", sheetHandler.GetPosition)
	group.GET("/sheet/board", sheetHandler.GetBoard)
	group.GET("/sheet/warnings", sheetHandler.GetWarnings)
	group.GET("/sheet/export", exportHandler.ExportSheet)

	// Injury report
	group.GET("/injuries", sheetHandler.GetInjuries)

	// League configuration
	group.GET("/config", configHandler.GetProfile)
	group.GET("/config/profiles", configHandler.GetProfiles)

	// Column and tag definitions for dashboard tooltips
	group.GET("/glossary", glossaryHandler.GetGlossary)
	group.GET("/glossary/:term", glossaryHandler.GetGlossaryTerm)

	// Draft sessions
	group.POST("/drafts", draftHandler.CreateSession)
	group.GET("/drafts", draftHandler.ListSessions)
	group.GET("/drafts/:id", draftHandler.GetSession)

	// Mutating routes require the session bearer token
	auth := group.Group("")
	auth.Use(middleware.SessionAuth(cfg.SessionSecret))
	{
		auth.POST("/sheet/rebuild", sheetHandler.Rebuild)
		auth.POST("/drafts/:id/picks", draftHandler.RecordPick)
		auth.DELETE("/drafts/:id/picks/:pickID", draftHandler.DeletePick)
		auth.POST("/drafts/:id/reset", draftHandler.ResetSession)
	}
}
