package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/draftsheet/pkg/utils"
)

// GlossaryTerm explains one sheet column or tag for dashboard tooltips.
type GlossaryTerm struct {
	Term       string `json:"term"`
	Category   string `json:"category"`
	Definition string `json:"definition"`
}

// The terms are fixed by the ranking pipeline, so they live here instead
// of a table.
var glossaryTerms = []GlossaryTerm{
	{"Points", "scoring", "Projected fantasy points under the active profile's scoring weights."},
	{"Consensus", "scoring", "Weighted average of the configured projection sources, after outlier projections are discarded."},
	{"Replacement Level", "scoring", "Projected points of the best player expected to sit on waivers, derived from team count, starter slots, and the bench factor."},
	{"VORP", "scoring", "Value over replacement player: projected points minus the replacement level at the position."},
	{"ADP", "ranking", "Average draft position across real drafts. 999 marks players going undrafted."},
	{"ADP Diff", "ranking", "ADP minus our overall rank. Positive means the market lets the player fall past where we rank them."},
	{"Tier", "ranking", "Players within the configured VORP gap of each other at a position share a tier. A new tier starts where the drop exceeds the gap."},
	{"Overall Tier", "ranking", "Tiers recomputed across every position on the overall board."},
	{"Next Drop", "ranking", "VORP falloff to the next player at the position."},
	{"Scarcity", "strategy", "CLIFF flags a position about to fall off inside the draft window; DROP flags a steep falloff further out."},
	{"Value Tag", "strategy", "STEAL, VALUE, EARLY, or REACH depending on how far market ADP sits from our rank."},
	{"Draft Priority", "strategy", "VORP blended with the scarcity boost and round bonuses. The draft board sorts by it."},
	{"Draft Rank", "strategy", "Position on the draft board after priority sorting."},
	{"Superflex", "format", "A flex slot that accepts quarterbacks. QB projections carry the profile's superflex multiplier."},
	{"IDP", "format", "Individual defensive players, scored from tackles, sacks, and turnovers when the profile enables them."},
	{"Keeper", "format", "A player locked to a roster before the draft. Keepers show as drafted from pick one."},
}

type GlossaryHandler struct{}

func NewGlossaryHandler() *GlossaryHandler {
	return &GlossaryHandler{}
}

// GetGlossary returns the definitions behind the sheet columns
// GET /api/v1/glossary?category=strategy
func (h *GlossaryHandler) GetGlossary(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		utils.SendSuccess(c, glossaryTerms)
		return
	}

	validCategories := map[string]bool{
		"scoring":  true,
		"ranking":  true,
		"strategy": true,
		"format":   true,
	}
	if !validCategories[category] {
		utils.SendValidationError(c, "Invalid category", "Category must be one of: scoring, ranking, strategy, format")
		return
	}

	filtered := make([]GlossaryTerm, 0, len(glossaryTerms))
	for _, term := range glossaryTerms {
		if term.Category == category {
			filtered = append(filtered, term)
		}
	}
	utils.SendSuccess(c, filtered)
}

// GetGlossaryTerm returns a specific term by name, case insensitive
// GET /api/v1/glossary/:term
func (h *GlossaryHandler) GetGlossaryTerm(c *gin.Context) {
	wanted := strings.TrimSpace(c.Param("term"))

	for _, term := range glossaryTerms {
		if strings.EqualFold(term.Term, wanted) {
			utils.SendSuccess(c, term)
			return
		}
	}
	utils.SendNotFound(c, "Glossary term not found")
}
