package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/models"
	"github.com/jstittsworth/draftsheet/internal/services"
	"github.com/jstittsworth/draftsheet/pkg/database"
	"github.com/jstittsworth/draftsheet/pkg/utils"
)

type SheetHandler struct {
	sheets   *services.SheetService
	injuries *services.InjuryService
	db       *database.DB
	hub      *services.WebSocketHub
}

func NewSheetHandler(sheets *services.SheetService, injuries *services.InjuryService, db *database.DB, hub *services.WebSocketHub) *SheetHandler {
	return &SheetHandler{
		sheets:   sheets,
		injuries: injuries,
		db:       db,
		hub:      hub,
	}
}

// GetOverall returns the overall cheat sheet. An optional ?session= query
// greys out that draft session's picks and keepers.
func (h *SheetHandler) GetOverall(c *gin.Context) {
	sheet, ok := h.currentSheet(c)
	if !ok {
		return
	}
	drafted, ok := sessionDraftedKeys(c, h.db)
	if !ok {
		return
	}
	utils.SendSuccessWithMeta(c, decorate(sheet.Overall, drafted, h.injuries.Snapshot()), sheetMeta(sheet))
}

// GetPosition returns one position's sheet with scarcity context.
func (h *SheetHandler) GetPosition(c *gin.Context) {
	pos := draft.ParsePosition(c.Param("pos"))
	if pos == "" {
		utils.SendValidationError(c, "Unknown position", c.Param("pos"))
		return
	}

	sheet, ok := h.currentSheet(c)
	if !ok {
		return
	}
	drafted, ok := sessionDraftedKeys(c, h.db)
	if !ok {
		return
	}

	records := sheet.ByPosition[pos]
	if records == nil {
		records = []*draft.PlayerRecord{}
	}
	utils.SendSuccessWithMeta(c, decorate(records, drafted, h.injuries.Snapshot()), sheetMeta(sheet))
}

// GetBoard returns the priority-ordered draft board.
func (h *SheetHandler) GetBoard(c *gin.Context) {
	sheet, ok := h.currentSheet(c)
	if !ok {
		return
	}
	drafted, ok := sessionDraftedKeys(c, h.db)
	if !ok {
		return
	}
	utils.SendSuccessWithMeta(c, decorate(sheet.Board, drafted, h.injuries.Snapshot()), sheetMeta(sheet))
}

// GetWarnings returns the data-quality warnings from the active build.
func (h *SheetHandler) GetWarnings(c *gin.Context) {
	sheet, ok := h.currentSheet(c)
	if !ok {
		return
	}
	utils.SendSuccessWithMeta(c, sheet.Warnings, sheetMeta(sheet))
}

// Rebuild forces a rebuild from the source files and notifies every
// connected dashboard.
func (h *SheetHandler) Rebuild(c *gin.Context) {
	sheet, err := h.sheets.Rebuild()
	if err != nil {
		utils.SendBadData(c, "Sheet rebuild failed", err.Error())
		return
	}

	if h.hub != nil {
		h.hub.BroadcastAll(services.EventSheetUpdated, map[string]interface{}{
			"profile":  sheet.Profile,
			"built_at": sheet.BuiltAt,
			"players":  len(sheet.Overall),
		})
	}

	utils.SendSuccessWithMeta(c, gin.H{"rebuilt": true}, sheetMeta(sheet))
}

// GetInjuries returns the league-wide injury report keyed by clean player
// name, fetching from the feed when the snapshot is stale.
func (h *SheetHandler) GetInjuries(c *gin.Context) {
	report := h.injuries.Report(c.Request.Context())
	utils.SendSuccess(c, gin.H{
		"injuries":   report,
		"updated_at": h.injuries.LastUpdated(),
	})
}

func (h *SheetHandler) currentSheet(c *gin.Context) (*cheatsheet.Sheet, bool) {
	sheet, err := h.sheets.Current()
	if err != nil {
		utils.SendBadData(c, "Cheat sheet unavailable", err.Error())
		return nil, false
	}
	return sheet, true
}

// sessionDraftedKeys resolves the ?session= query into a drafted-key set
// covering both picks and keepers. A false return means a response was
// already sent.
func sessionDraftedKeys(c *gin.Context, db *database.DB) (map[string]bool, bool) {
	publicID := c.Query("session")
	if publicID == "" {
		return nil, true
	}

	session, err := models.GetDraftSessionByPublicID(db, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Draft session not found")
		} else {
			utils.SendInternalError(c, "Failed to load draft session")
		}
		return nil, false
	}

	drafted, err := models.PickedKeys(db, session.ID)
	if err != nil {
		utils.SendInternalError(c, "Failed to load session picks")
		return nil, false
	}
	for key := range session.KeeperKeys() {
		drafted[key] = true
	}
	return drafted, true
}

func decorate(records []*draft.PlayerRecord, drafted map[string]bool, injuries map[string]draft.InjuryStatus) []*draft.PlayerRecord {
	if len(drafted) == 0 && len(injuries) == 0 {
		return records
	}
	return services.DecorateRecords(records, drafted, injuries)
}

func sheetMeta(sheet *cheatsheet.Sheet) *utils.Meta {
	return &utils.Meta{
		Profile:  sheet.Profile,
		BuiltAt:  sheet.BuiltAt,
		Players:  len(sheet.Overall),
		Warnings: len(sheet.Warnings),
	}
}
