package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/draftsheet/internal/league"
	"github.com/jstittsworth/draftsheet/pkg/utils"
)

type ConfigHandler struct {
	profile      *league.Profile
	profileNames []string
}

func NewConfigHandler(profile *league.Profile, profileNames []string) *ConfigHandler {
	return &ConfigHandler{
		profile:      profile,
		profileNames: profileNames,
	}
}

// GetProfile returns the active league profile so dashboards can label
// scoring, tiers, and strategy the way the sheet was built.
func (h *ConfigHandler) GetProfile(c *gin.Context) {
	utils.SendSuccess(c, gin.H{
		"name":      h.profile.Name,
		"league":    h.profile.League,
		"scoring":   h.profile.Scoring,
		"tiers":     h.profile.Tiers,
		"strategy":  h.profile.Strategy,
		"consensus": h.profile.Consensus,
	})
}

// GetProfiles returns the profile names available in the profiles file.
func (h *ConfigHandler) GetProfiles(c *gin.Context) {
	names := h.profileNames
	if len(names) == 0 {
		names = []string{h.profile.Name}
	}
	utils.SendSuccess(c, gin.H{
		"active":   h.profile.Name,
		"profiles": names,
	})
}
