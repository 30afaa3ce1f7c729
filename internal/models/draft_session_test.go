package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/pkg/database"
)

func setupSessionDB(t *testing.T) *database.DB {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db := &database.DB{DB: gormDB}
	require.NoError(t, db.AutoMigrate(&DraftSession{}, &DraftPick{}))
	return db
}

// TestDraftSessionLifecycle tests creating a session, recording picks,
// and undoing the most recent one
func TestDraftSessionLifecycle(t *testing.T) {
	db := setupSessionDB(t)

	session := &DraftSession{
		Name:    "Home League 2026",
		Profile: "redraft_12team",
		Teams:   12,
		Keepers: pq.StringArray{"christian mccaffrey:RB"},
	}
	require.NoError(t, CreateDraftSession(db, session))

	_, err := uuid.Parse(session.PublicID)
	assert.NoError(t, err, "public ID should be a generated UUID")

	picks := []*DraftPick{
		{Name: "Ja'Marr Chase", CleanName: "jamarr chase", Position: draft.PositionWR, Team: "CIN"},
		{Name: "Bijan Robinson", CleanName: "bijan robinson", Position: draft.PositionRB, Team: "ATL"},
		{Name: "Justin Jefferson", CleanName: "justin jefferson", Position: draft.PositionWR, Team: "MIN"},
	}
	for _, p := range picks {
		require.NoError(t, RecordDraftPick(db, session, p))
	}

	assert.Equal(t, 1, picks[0].Overall)
	assert.Equal(t, 2, picks[1].Overall)
	assert.Equal(t, 3, picks[2].Overall)
	assert.Equal(t, 1, picks[2].Round)
	assert.Equal(t, 3, picks[2].Pick)

	// Same player twice is rejected.
	dup := &DraftPick{Name: "Bijan Robinson", CleanName: "bijan robinson", Position: draft.PositionRB}
	err = RecordDraftPick(db, session, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already drafted")

	keys, err := PickedKeys(db, session.ID)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.True(t, keys["bijan robinson:RB"])

	undone, err := UndoLastPick(db, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Justin Jefferson", undone.Name)

	keys, err = PickedKeys(db, session.ID)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.False(t, keys["justin jefferson:WR"])

	// The freed slot is reused by the next pick.
	next := &DraftPick{Name: "CeeDee Lamb", CleanName: "ceedee lamb", Position: draft.PositionWR, Team: "DAL"}
	require.NoError(t, RecordDraftPick(db, session, next))
	assert.Equal(t, 3, next.Overall)
}

// TestDraftSessionUndoEmpty tests undo on a session with no picks
func TestDraftSessionUndoEmpty(t *testing.T) {
	db := setupSessionDB(t)

	session := &DraftSession{Name: "Empty", Profile: "redraft_12team"}
	require.NoError(t, CreateDraftSession(db, session))

	_, err := UndoLastPick(db, session.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestDraftSessionRoundMath tests overall-to-round conversion
func TestDraftSessionRoundMath(t *testing.T) {
	tests := []struct {
		name     string
		teams    int
		overall  int
		expRound int
		expPick  int
	}{
		{name: "first overall", teams: 12, overall: 1, expRound: 1, expPick: 1},
		{name: "turn of round one", teams: 12, overall: 12, expRound: 1, expPick: 12},
		{name: "start of round two", teams: 12, overall: 13, expRound: 2, expPick: 1},
		{name: "third round pick one", teams: 12, overall: 25, expRound: 3, expPick: 1},
		{name: "ten team league", teams: 10, overall: 21, expRound: 3, expPick: 1},
		{name: "zero overall", teams: 12, overall: 0, expRound: 0, expPick: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &DraftSession{Teams: tt.teams}
			round, pick := s.RoundOf(tt.overall)
			assert.Equal(t, tt.expRound, round)
			assert.Equal(t, tt.expPick, pick)
		})
	}
}

// TestDraftSessionFetchByPublicID tests the public-ID lookup with picks
// preloaded in draft order
func TestDraftSessionFetchByPublicID(t *testing.T) {
	db := setupSessionDB(t)

	session := &DraftSession{Name: "Lookup", Profile: "superflex_12team", Teams: 10}
	require.NoError(t, CreateDraftSession(db, session))

	// Record out of order; fetch should come back sorted by overall.
	require.NoError(t, RecordDraftPick(db, session, &DraftPick{
		Name: "Josh Allen", CleanName: "josh allen", Position: draft.PositionQB, Overall: 2,
	}))
	require.NoError(t, RecordDraftPick(db, session, &DraftPick{
		Name: "Lamar Jackson", CleanName: "lamar jackson", Position: draft.PositionQB, Overall: 1,
	}))

	fetched, err := GetDraftSessionByPublicID(db, session.PublicID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, fetched.ID)
	require.Len(t, fetched.Picks, 2)
	assert.Equal(t, "Lamar Jackson", fetched.Picks[0].Name)
	assert.Equal(t, "Josh Allen", fetched.Picks[1].Name)

	_, err = GetDraftSessionByPublicID(db, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestDraftSessionKeeperKeys tests keeper parsing into a lookup set
func TestDraftSessionKeeperKeys(t *testing.T) {
	s := &DraftSession{Keepers: pq.StringArray{"breece hall:RB", "", "puka nacua:WR"}}

	keys := s.KeeperKeys()
	assert.Len(t, keys, 2)
	assert.True(t, keys["breece hall:RB"])
	assert.True(t, keys["puka nacua:WR"])
	assert.False(t, keys[""])
}
