package domain

// ReasonsMaxSelect caps how many reason codes one vote may carry.
const ReasonsMaxSelect = 3

// Reason is one selectable argument for a stance. Key is what gets
// stored on the vote and aggregated into the reason-count maps; Weight
// and Category only drive presentation.
type Reason struct {
	Key      string `json:"key"`
	Weight   string `json:"weight"`
	Category string `json:"category"`
}

// ReasonsByStance is the full stance-to-reasons matrix. A vote's reason
// codes must all come from its stance's row.
var ReasonsByStance = map[Stance][]Reason{
	StanceGoat: {
		{Key: "comeback_2016", Weight: "high", Category: "honors"},
		{Key: "411_first", Weight: "high", Category: "stats"},
		{Key: "eight_finals", Weight: "high", Category: "honors"},
		{Key: "death_stare_2012", Weight: "normal", Category: "legacy"},
		{Key: "ultimate_answer", Weight: "normal", Category: "legacy"},
	},
	StanceKing: {
		{Key: "highest_iq", Weight: "high", Category: "leadership"},
		{Key: "2018_solo", Weight: "high", Category: "honors"},
		{Key: "floor_general", Weight: "normal", Category: "leadership"},
		{Key: "oldest_allstar", Weight: "normal", Category: "stats"},
		{Key: "kid_from_akron", Weight: "normal", Category: "legacy"},
	},
	StanceMachine: {
		{Key: "body_investment", Weight: "high", Category: "stats"},
		{Key: "22_years_peak", Weight: "high", Category: "stats"},
		{Key: "27_7_7", Weight: "normal", Category: "stats"},
		{Key: "playoffs_pts_king", Weight: "normal", Category: "stats"},
		{Key: "the_block", Weight: "normal", Category: "honors"},
	},
	StanceFraud: {
		{Key: "2011_finals", Weight: "high", Category: "controversy"},
		{Key: "the_decision", Weight: "high", Category: "controversy"},
		{Key: "leflop", Weight: "normal", Category: "controversy"},
		{Key: "passing_clutch", Weight: "normal", Category: "controversy"},
		{Key: "finals_4_6", Weight: "high", Category: "stats"},
	},
	StanceMercenary: {
		{Key: "superteam_era", Weight: "high", Category: "controversy"},
		{Key: "legm", Weight: "high", Category: "controversy"},
		{Key: "ring_chaser", Weight: "normal", Category: "narrative"},
		{Key: "no_loyalty", Weight: "normal", Category: "narrative"},
		{Key: "coach_killer", Weight: "normal", Category: "controversy"},
	},
	StanceStatPadder: {
		{Key: "40k_hunter", Weight: "high", Category: "stats"},
		{Key: "garbage_time", Weight: "normal", Category: "stats"},
		{Key: "walking_defense", Weight: "normal", Category: "controversy"},
		{Key: "ball_dominant", Weight: "normal", Category: "narrative"},
		{Key: "stats_over_wins", Weight: "high", Category: "narrative"},
	},
}

// ValidReasonsFor reports whether every code in reasons belongs to the
// stance's row of the matrix. Duplicates are rejected too.
func ValidReasonsFor(stance Stance, reasons []string) bool {
	valid := make(map[string]bool, len(ReasonsByStance[stance]))
	for _, r := range ReasonsByStance[stance] {
		valid[r.Key] = true
	}

	seen := make(map[string]bool, len(reasons))
	for _, code := range reasons {
		if !valid[code] || seen[code] {
			return false
		}
		seen[code] = true
	}
	return true
}
