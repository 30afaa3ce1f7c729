package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/pkg/database"
)

// DraftSession tracks one live draft against a league profile. Picks are
// recorded as they happen so the cheat sheet can grey out drafted players
// and keepers without rebuilding the sheet.
type DraftSession struct {
	ID       uint              `gorm:"primaryKey" json:"id"`
	PublicID string            `gorm:"type:uuid;uniqueIndex;not null" json:"public_id"`
	Name     string            `gorm:"not null" json:"name"`
	Profile  string            `gorm:"not null;index" json:"profile"`
	Teams    int               `gorm:"default:12" json:"teams"`
	Keepers  pq.StringArray    `gorm:"type:text[]" json:"keepers"`
	Settings datatypes.JSONMap `json:"settings"`
	IsActive bool              `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Picks []DraftPick `gorm:"foreignKey:SessionID" json:"picks,omitempty"`
}

// TableName specifies the table name for GORM
func (DraftSession) TableName() string {
	return "draft_sessions"
}

// BeforeCreate assigns the public identifier and backfills the team count.
// The hook runs on every database, unlike a column default bound to one
// dialect's UUID function.
func (s *DraftSession) BeforeCreate(tx *gorm.DB) error {
	if s.PublicID == "" {
		s.PublicID = uuid.NewString()
	}
	if s.Teams <= 0 {
		s.Teams = 12
	}
	return nil
}

// RoundOf converts an overall pick number into round and pick-in-round for
// this session's team count.
func (s *DraftSession) RoundOf(overall int) (int, int) {
	teams := s.Teams
	if teams <= 0 {
		teams = 12
	}
	if overall <= 0 {
		return 0, 0
	}
	return (overall-1)/teams + 1, (overall-1)%teams + 1
}

// KeeperKeys returns the keeper entries as a lookup set. Entries are
// stored in record key form, clean name and position joined by a colon.
func (s *DraftSession) KeeperKeys() map[string]bool {
	keys := make(map[string]bool, len(s.Keepers))
	for _, k := range s.Keepers {
		if k != "" {
			keys[k] = true
		}
	}
	return keys
}

// DraftPick records one selection inside a session.
type DraftPick struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SessionID uint           `gorm:"not null;index;uniqueIndex:idx_session_overall,priority:1" json:"session_id"`
	Overall   int            `gorm:"not null;uniqueIndex:idx_session_overall,priority:2" json:"overall"`
	Round     int            `json:"round"`
	Pick      int            `json:"pick"`
	Name      string         `gorm:"not null" json:"name"`
	CleanName string         `gorm:"not null;index" json:"clean_name"`
	Position  draft.Position `gorm:"type:varchar(10);not null" json:"position"`
	Team      string         `gorm:"size:10" json:"team"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (DraftPick) TableName() string {
	return "draft_picks"
}

// Key returns the record key this pick greys out on the sheet.
func (p *DraftPick) Key() string {
	return p.CleanName + ":" + string(p.Position)
}

// CreateDraftSession persists a new session
func CreateDraftSession(db *database.DB, session *DraftSession) error {
	return db.Create(session).Error
}

// GetDraftSessionByPublicID fetches a session with its picks in draft order
func GetDraftSessionByPublicID(db *database.DB, publicID string) (*DraftSession, error) {
	var session DraftSession
	err := db.Preload("Picks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("overall ASC")
	}).Where("public_id = ?", publicID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListDraftSessions fetches sessions newest first
func ListDraftSessions(db *database.DB) ([]DraftSession, error) {
	var sessions []DraftSession
	err := db.Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// RecordDraftPick appends a pick to a session. A zero Overall means "next
// pick"; round and pick-in-round are always derived from Overall. The same
// player cannot be drafted twice in one session.
func RecordDraftPick(db *database.DB, session *DraftSession, pick *DraftPick) error {
	var taken int64
	err := db.Model(&DraftPick{}).
		Where("session_id = ? AND clean_name = ? AND position = ?", session.ID, pick.CleanName, pick.Position).
		Count(&taken).Error
	if err != nil {
		return err
	}
	if taken > 0 {
		return fmt.Errorf("%s (%s) already drafted in session %s", pick.Name, pick.Position, session.PublicID)
	}

	if pick.Overall <= 0 {
		var current int
		err := db.Model(&DraftPick{}).
			Where("session_id = ?", session.ID).
			Select("COALESCE(MAX(overall), 0)").
			Scan(&current).Error
		if err != nil {
			return err
		}
		pick.Overall = current + 1
	}

	pick.SessionID = session.ID
	pick.Round, pick.Pick = session.RoundOf(pick.Overall)
	return db.Create(pick).Error
}

// UndoLastPick removes and returns the most recent pick in a session
func UndoLastPick(db *database.DB, sessionID uint) (*DraftPick, error) {
	var pick DraftPick
	err := db.Where("session_id = ?", sessionID).Order("overall DESC").First(&pick).Error
	if err != nil {
		return nil, err
	}
	if err := db.Delete(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

// DeleteDraftPick removes one pick by ID. Later picks keep their overall
// numbers; a gap in the order is how a voided pick looks.
func DeleteDraftPick(db *database.DB, sessionID, pickID uint) (*DraftPick, error) {
	var pick DraftPick
	err := db.Where("session_id = ? AND id = ?", sessionID, pickID).First(&pick).Error
	if err != nil {
		return nil, err
	}
	if err := db.Delete(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

// ResetDraftPicks clears every pick in a session and reports how many were
// removed
func ResetDraftPicks(db *database.DB, sessionID uint) (int64, error) {
	result := db.Where("session_id = ?", sessionID).Delete(&DraftPick{})
	return result.RowsAffected, result.Error
}

// PickedKeys returns the record keys of every pick in a session
func PickedKeys(db *database.DB, sessionID uint) (map[string]bool, error) {
	var picks []DraftPick
	err := db.Select("clean_name", "position").Where("session_id = ?", sessionID).Find(&picks).Error
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(picks))
	for i := range picks {
		keys[picks[i].Key()] = true
	}
	return keys, nil
}
