package providers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// TestReadProjections tests stat parsing from a full projection export
func TestReadProjections(t *testing.T) {
	csv := strings.Join([]string{
		"Player,Team,POS,Pass Yds,Pass TDs,Pass Int,Rush Yds,Rush TDs,Rec,Rec Yds,Rec TDs,FL",
		"Josh Allen,BUF,QB,4300,29,15,520,12,0,0,0,4",
		"Bijan Robinson,ATL,RB,0,0,0,1450,11,58,480,4,1",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "fantasypros"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, warnings)

	allen := rows[0]
	assert.Equal(t, "Josh Allen", allen.Name)
	assert.Equal(t, "BUF", allen.Team)
	assert.Equal(t, draft.PositionQB, allen.Position)
	assert.Equal(t, "fantasypros", allen.Source)
	assert.Equal(t, map[string]float64{
		draft.StatPassYd:  4300,
		draft.StatPassTD:  29,
		draft.StatPassInt: 15,
		draft.StatRushYd:  520,
		draft.StatRushTD:  12,
		draft.StatFumLost: 4,
	}, allen.Stats)

	bijan := rows[1]
	assert.Equal(t, draft.PositionRB, bijan.Position)
	assert.Equal(t, map[string]float64{
		draft.StatRushYd:  1450,
		draft.StatRushTD:  11,
		draft.StatRec:     58,
		draft.StatRecYd:   480,
		draft.StatRecTD:   4,
		draft.StatFumLost: 1,
	}, bijan.Stats)

	// Zero cells never become stat entries.
	_, hasRec := allen.Stats[draft.StatRec]
	assert.False(t, hasRec)
}

// TestReadProjectionsFirstLastName tests name assembly from split columns
func TestReadProjectionsFirstLastName(t *testing.T) {
	csv := strings.Join([]string{
		"First Name,Last Name,Tm,Pos,Rush Yds",
		"Saquon,Barkley,PHI,RB,1800",
	}, "\n")

	rows, _, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "numberfire"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Saquon Barkley", rows[0].Name)
	assert.Equal(t, "PHI", rows[0].Team)
}

// TestReadProjectionsDefaultPosition tests single-position exports with no
// position column
func TestReadProjectionsDefaultPosition(t *testing.T) {
	csv := strings.Join([]string{
		"Player,Rec Yds",
		"Puka Nacua,1400",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{
		Source:          "wr-sheet",
		DefaultPosition: draft.PositionWR,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, draft.PositionWR, rows[0].Position)
	assert.Empty(t, warnings)

	// Without a default the row has no position and is skipped.
	rows, warnings, err = ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "wr-sheet"})
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.Len(t, warnings, 1)
	assert.Equal(t, draft.WarnSkippedRow, warnings[0].Kind)
}

// TestReadProjectionsDualColumns tests position-dependent column meanings
func TestReadProjectionsDualColumns(t *testing.T) {
	csv := strings.Join([]string{
		"Player,Pos,YDS,TDS,INT",
		"Patrick Mahomes,QB,4800,38,11",
		"CeeDee Lamb,WR,1650,12,0",
		"Micah Parsons,LB,0,0,2",
	}, "\n")

	rows, _, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "mixed"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, map[string]float64{
		draft.StatPassYd:  4800,
		draft.StatPassTD:  38,
		draft.StatPassInt: 11,
	}, rows[0].Stats)

	assert.Equal(t, map[string]float64{
		draft.StatRecYd: 1650,
		draft.StatRecTD: 12,
	}, rows[1].Stats)

	assert.Equal(t, map[string]float64{
		draft.StatDefInt: 2,
	}, rows[2].Stats)
}

// TestReadProjectionsRankingsOnly tests rankings exports without stat lines
func TestReadProjectionsRankingsOnly(t *testing.T) {
	csv := strings.Join([]string{
		"RK,Player Name,Team,Pos",
		"1,Justin Jefferson,MIN,WR1",
		"2,Ja'Marr Chase,CIN,WR2",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "ecr"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, warnings)

	assert.Equal(t, 1, rows[0].SourceRank)
	assert.Equal(t, 2, rows[1].SourceRank)
	assert.Equal(t, draft.PositionWR, rows[0].Position)
	assert.Nil(t, rows[0].Stats)
}

// TestReadProjectionsBadValues tests malformed cells degrading to warnings
func TestReadProjectionsBadValues(t *testing.T) {
	csv := strings.Join([]string{
		"Player,Pos,Rush Yds,RK",
		"Broken Row,RB,abc,xyz",
		"Fine Row,RB,900,12",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "messy"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].Stats)
	assert.Equal(t, 0, rows[0].SourceRank)
	assert.Equal(t, float64(900), rows[1].Stats[draft.StatRushYd])
	assert.Equal(t, 12, rows[1].SourceRank)

	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, draft.WarnBadValue, w.Kind)
		assert.Contains(t, w.Message, "Broken Row")
	}
}

// TestReadProjectionsSkipsUnknownPositions tests unknown position codes
func TestReadProjectionsSkipsUnknownPositions(t *testing.T) {
	csv := strings.Join([]string{
		"Player,Pos,Rush Yds",
		"Mystery Player,XX,500",
		"Real Player,RB,700",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "test"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Real Player", rows[0].Name)

	require.Len(t, warnings, 1)
	assert.Equal(t, draft.WarnSkippedRow, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, "Mystery Player")
}

// TestReadProjectionsUnknownColumn tests that unrecognized headers warn
// once and are otherwise ignored
func TestReadProjectionsUnknownColumn(t *testing.T) {
	csv := strings.Join([]string{
		"Player,Pos,Upside Grade,Rush Yds",
		"Jahmyr Gibbs,RB,A+,1200",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "test"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1200), rows[0].Stats[draft.StatRushYd])

	require.Len(t, warnings, 1)
	assert.Equal(t, draft.WarnUnknownStat, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, "Upside Grade")
}

// TestReadProjectionsHeaderErrors tests unusable headers
func TestReadProjectionsHeaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "no name column",
			csv:     "Team,Pos,Rush Yds\nDAL,RB,1000",
			wantErr: "no player name column",
		},
		{
			name:    "no stat or rank columns",
			csv:     "Player,Team,Pos\nDak Prescott,DAL,QB",
			wantErr: "no stat or rank columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadProjections(strings.NewReader(tt.csv), ProjectionOptions{Source: "test"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestReadProjectionsMessyCells tests BOM headers, quoted thousands
// separators, and dash placeholders
func TestReadProjectionsMessyCells(t *testing.T) {
	csv := strings.Join([]string{
		"\uFEFFPlayer,Pos,Rush Yds,Rec Yds",
		"Derrick Henry,RB,\"1,234\",--",
	}, "\n")

	rows, warnings, err := ReadProjections(strings.NewReader(csv), ProjectionOptions{Source: "test"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, warnings)

	assert.Equal(t, map[string]float64{draft.StatRushYd: 1234}, rows[0].Stats)
}
