package draft

// Canonical statistic keys. Providers map source-specific column names onto
// these; scoring weights in league profiles are keyed by them.
const (
	StatPassYd  = "pass_yd"
	StatPassTD  = "pass_td"
	StatPassInt = "pass_int"
	StatPass2Pt = "pass_2pt"
	StatRushYd  = "rush_yd"
	StatRushTD  = "rush_td"
	StatRec     = "rec"
	StatRecYd   = "rec_yd"
	StatRecTD   = "rec_td"
	StatRec2Pt  = "rec_2pt"
	StatFumLost = "fum_lost"

	// IDP
	StatTackleSolo = "tkl_solo"
	StatTackleAst  = "tkl_ast"
	StatTackleTot  = "tkl_tot"
	StatSack       = "sack"
	StatDefInt     = "def_int"
	StatForcedFum  = "ff"
	StatFumRec     = "fr"
	StatPassDef    = "pd"
	StatDefTD      = "def_td"
)
