package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/services"
	"github.com/jstittsworth/draftsheet/pkg/database"
	"github.com/jstittsworth/draftsheet/pkg/utils"
)

type ExportHandler struct {
	sheets   *services.SheetService
	injuries *services.InjuryService
	db       *database.DB
}

func NewExportHandler(sheets *services.SheetService, injuries *services.InjuryService, db *database.DB) *ExportHandler {
	return &ExportHandler{
		sheets:   sheets,
		injuries: injuries,
		db:       db,
	}
}

// ExportSheet downloads one sheet view as CSV for printing.
// ?view=overall|board|position selects the view, ?pos= the position sheet,
// and ?session= pre-marks that session's drafted players on the board.
func (h *ExportHandler) ExportSheet(c *gin.Context) {
	sheet, err := h.sheets.Current()
	if err != nil {
		utils.SendBadData(c, "Cheat sheet unavailable", err.Error())
		return
	}

	drafted, ok := sessionDraftedKeys(c, h.db)
	if !ok {
		return
	}
	injuries := h.injuries.Snapshot()

	var buf bytes.Buffer
	var filename string

	switch view := c.DefaultQuery("view", "overall"); view {
	case "overall":
		err = cheatsheet.OverallCSV(&buf, decorate(sheet.Overall, drafted, injuries))
		filename = "overall.csv"
	case "board":
		err = cheatsheet.BoardCSV(&buf, decorate(sheet.Board, drafted, injuries))
		filename = "draft_board.csv"
	case "position":
		pos := draft.ParsePosition(c.Query("pos"))
		if pos == "" {
			utils.SendValidationError(c, "Unknown position", c.Query("pos"))
			return
		}
		records := sheet.ByPosition[pos]
		if records == nil {
			records = []*draft.PlayerRecord{}
		}
		err = cheatsheet.PositionCSV(&buf, decorate(records, drafted, injuries))
		filename = strings.ToLower(string(pos)) + ".csv"
	default:
		utils.SendValidationError(c, "Unknown export view", view)
		return
	}

	if err != nil {
		utils.SendInternalError(c, "Failed to render CSV")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
