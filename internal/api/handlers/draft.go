package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jstittsworth/draftsheet/internal/api/middleware"
	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/models"
	"github.com/jstittsworth/draftsheet/internal/services"
	"github.com/jstittsworth/draftsheet/pkg/database"
	"github.com/jstittsworth/draftsheet/pkg/utils"
)

type DraftHandler struct {
	db             *database.DB
	hub            *services.WebSocketHub
	sessionSecret  string
	defaultProfile string
}

func NewDraftHandler(db *database.DB, hub *services.WebSocketHub, sessionSecret, defaultProfile string) *DraftHandler {
	return &DraftHandler{
		db:             db,
		hub:            hub,
		sessionSecret:  sessionSecret,
		defaultProfile: defaultProfile,
	}
}

// KeeperInput names one keeper by player name and position.
type KeeperInput struct {
	Name     string `json:"name" binding:"required"`
	Position string `json:"position" binding:"required"`
}

// CreateSession starts a draft session and returns it with the bearer
// token that authorizes mutations on it.
func (h *DraftHandler) CreateSession(c *gin.Context) {
	var req struct {
		Name     string                 `json:"name" binding:"required"`
		Profile  string                 `json:"profile"`
		Teams    int                    `json:"teams"`
		Keepers  []KeeperInput          `json:"keepers"`
		Settings map[string]interface{} `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if req.Profile == "" {
		req.Profile = h.defaultProfile
	}

	keepers := make([]string, 0, len(req.Keepers))
	for _, k := range req.Keepers {
		pos := draft.ParsePosition(k.Position)
		if pos == "" {
			utils.SendValidationError(c, "Unknown keeper position", k.Position)
			return
		}
		clean, _ := cheatsheet.NormalizeName(k.Name)
		keepers = append(keepers, clean+":"+string(pos))
	}

	session := &models.DraftSession{
		Name:     req.Name,
		Profile:  req.Profile,
		Teams:    req.Teams,
		Keepers:  keepers,
		Settings: datatypes.JSONMap(req.Settings),
		IsActive: true,
	}
	if err := models.CreateDraftSession(h.db, session); err != nil {
		utils.SendInternalError(c, "Failed to create draft session")
		return
	}

	token, expiresAt, err := middleware.NewSessionToken(h.sessionSecret, session.PublicID)
	if err != nil {
		utils.SendInternalError(c, "Failed to sign session token")
		return
	}

	utils.SendSuccess(c, gin.H{
		"session":          session,
		"token":            token,
		"token_expires_at": expiresAt,
	})
}

// ListSessions returns every draft session, newest first.
func (h *DraftHandler) ListSessions(c *gin.Context) {
	sessions, err := models.ListDraftSessions(h.db)
	if err != nil {
		utils.SendInternalError(c, "Failed to list draft sessions")
		return
	}
	utils.SendSuccess(c, sessions)
}

// GetSession returns one session with its picks in draft order.
func (h *DraftHandler) GetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	utils.SendSuccess(c, session)
}

// RecordPick appends a pick to a session. Overall defaults to the next
// open slot; round and pick-in-round are derived from it.
func (h *DraftHandler) RecordPick(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Position string `json:"position" binding:"required"`
		Team     string `json:"team"`
		Overall  int    `json:"overall"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	pos := draft.ParsePosition(req.Position)
	if pos == "" {
		utils.SendValidationError(c, "Unknown position", req.Position)
		return
	}

	clean, _ := cheatsheet.NormalizeName(req.Name)
	pick := &models.DraftPick{
		Name:      strings.TrimSpace(req.Name),
		CleanName: clean,
		Position:  pos,
		Team:      strings.ToUpper(strings.TrimSpace(req.Team)),
		Overall:   req.Overall,
	}

	if err := models.RecordDraftPick(h.db, session, pick); err != nil {
		if strings.Contains(err.Error(), "already drafted") {
			utils.SendConflict(c, err.Error())
			return
		}
		utils.SendInternalError(c, "Failed to record pick")
		return
	}

	h.broadcast(session.PublicID, services.EventDraftPick, gin.H{
		"action": "recorded",
		"pick":   pick,
	})
	utils.SendSuccess(c, pick)
}

// DeletePick removes one pick. The literal pick ID undoes that pick;
// "last" undoes the most recent one.
func (h *DraftHandler) DeletePick(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var pick *models.DraftPick
	var err error

	if raw := c.Param("pickID"); raw == "last" {
		pick, err = models.UndoLastPick(h.db, session.ID)
	} else {
		id, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil {
			utils.SendValidationError(c, "Invalid pick ID", raw)
			return
		}
		pick, err = models.DeleteDraftPick(h.db, session.ID, uint(id))
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Pick not found")
			return
		}
		utils.SendInternalError(c, "Failed to delete pick")
		return
	}

	h.broadcast(session.PublicID, services.EventDraftPick, gin.H{
		"action": "undone",
		"pick":   pick,
	})
	utils.SendSuccess(c, pick)
}

// ResetSession clears every pick in a session. Keepers stay.
func (h *DraftHandler) ResetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	removed, err := models.ResetDraftPicks(h.db, session.ID)
	if err != nil {
		utils.SendInternalError(c, "Failed to reset session")
		return
	}

	h.broadcast(session.PublicID, services.EventDraftReset, gin.H{
		"removed": removed,
	})
	utils.SendSuccess(c, gin.H{"removed": removed})
}

func (h *DraftHandler) loadSession(c *gin.Context) (*models.DraftSession, bool) {
	session, err := models.GetDraftSessionByPublicID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Draft session not found")
		} else {
			utils.SendInternalError(c, "Failed to load draft session")
		}
		return nil, false
	}
	return session, true
}

func (h *DraftHandler) broadcast(sessionID, event string, data gin.H) {
	if h.hub != nil {
		h.hub.BroadcastToSession(sessionID, event, data)
	}
}
