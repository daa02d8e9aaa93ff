package domain

import (
	"time"
)

// Profile is the per-user demographic document. CurrentVoteID is a weak
// back-reference to the vote the user holds: lookup only, never an
// ownership link, and it must be cleared explicitly on revoke.
type Profile struct {
	UserID         string    `json:"user_id"`
	AgeGroup       string    `json:"age_group"`
	Gender         string    `json:"gender"`
	WarzoneID      string    `json:"warzone_id"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	HasProfile     bool      `json:"has_profile"`
	HasVoted       bool      `json:"has_voted"`
	CurrentStance  Stance    `json:"current_stance,omitempty"`
	CurrentReasons []string  `json:"current_reasons"`
	CurrentVoteID  string    `json:"current_vote_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileRequest is the payload for profile creation and update.
type ProfileRequest struct {
	AgeGroup  string `json:"age_group"`
	Gender    string `json:"gender"`
	WarzoneID string `json:"warzone_id"`
	Country   string `json:"country"`
	City      string `json:"city"`
}

// AgeGroups is the closed set of selectable age brackets.
var AgeGroups = []string{"18-24", "25-34", "35-44", "45+"}

// Genders is the closed set of selectable gender values.
var Genders = []string{"m", "f", "o"}

// Warzones is the closed set of affiliation codes, fifteen city codes
// plus the catch-all.
var Warzones = []string{
	"LAL", "GSW", "BOS", "MIA", "CLE", "CHI", "NYK", "MIL",
	"PHX", "DAL", "DEN", "PHI", "TOR", "SAS", "OKC", "OTHER",
}

var warzoneSet = func() map[string]bool {
	set := make(map[string]bool, len(Warzones))
	for _, w := range Warzones {
		set[w] = true
	}
	return set
}()

// ValidWarzone reports whether id is a known affiliation code.
func ValidWarzone(id string) bool {
	return warzoneSet[id]
}
