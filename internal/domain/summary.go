package domain

import (
	"time"
)

// GlobalSummaryID is the fixed key of the single top-level aggregate row.
const GlobalSummaryID = "global_summary"

// RecentVotesCap bounds the most-recent-first ticker ring.
const RecentVotesCap = 10

// RecentVote is one entry of the global ticker ring.
type RecentVote struct {
	Status    Stance    `json:"status"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	WarzoneID string    `json:"warzone_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CountryCount splits a country's votes into the pro and anti camps.
// Neutral stances touch neither side; an entry whose both sides reach
// zero is removed from the map rather than kept at zero.
type CountryCount struct {
	Pro  int `json:"pro"`
	Anti int `json:"anti"`
}

// GlobalSummary is the single top-level aggregate document spanning all
// warzones. Map absence means zero; no zero-valued entries are stored.
type GlobalSummary struct {
	TotalVotes          int                     `json:"total_votes"`
	StanceCounts        map[Stance]int          `json:"stance_counts"`
	RecentVotes         []RecentVote            `json:"recent_votes"`
	ReasonCountsLike    map[string]int          `json:"reason_counts_like"`
	ReasonCountsDislike map[string]int          `json:"reason_counts_dislike"`
	CountryCounts       map[string]CountryCount `json:"country_counts"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// NewGlobalSummary returns the defined zero state: every stance counter
// present at zero, every map empty.
func NewGlobalSummary() *GlobalSummary {
	counts := make(map[Stance]int, len(Stances))
	for _, s := range Stances {
		counts[s] = 0
	}
	return &GlobalSummary{
		StanceCounts:        counts,
		RecentVotes:         []RecentVote{},
		ReasonCountsLike:    map[string]int{},
		ReasonCountsDislike: map[string]int{},
		CountryCounts:       map[string]CountryCount{},
	}
}

// Clone deep-copies the summary so pure functions can derive a new state
// without mutating a snapshot shared with the caller.
func (g *GlobalSummary) Clone() *GlobalSummary {
	out := &GlobalSummary{
		TotalVotes:          g.TotalVotes,
		StanceCounts:        make(map[Stance]int, len(g.StanceCounts)),
		RecentVotes:         make([]RecentVote, len(g.RecentVotes)),
		ReasonCountsLike:    make(map[string]int, len(g.ReasonCountsLike)),
		ReasonCountsDislike: make(map[string]int, len(g.ReasonCountsDislike)),
		CountryCounts:       make(map[string]CountryCount, len(g.CountryCounts)),
		UpdatedAt:           g.UpdatedAt,
	}
	for k, v := range g.StanceCounts {
		out.StanceCounts[k] = v
	}
	copy(out.RecentVotes, g.RecentVotes)
	for k, v := range g.ReasonCountsLike {
		out.ReasonCountsLike[k] = v
	}
	for k, v := range g.ReasonCountsDislike {
		out.ReasonCountsDislike[k] = v
	}
	for k, v := range g.CountryCounts {
		out.CountryCounts[k] = v
	}
	return out
}

// WarzoneStats is the per-affiliation rollup.
type WarzoneStats struct {
	WarzoneID    string         `json:"warzone_id"`
	TotalVotes   int            `json:"total_votes"`
	StanceCounts map[Stance]int `json:"stance_counts"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// WarzoneDelta carries the (negative) decrement amounts for one warzone,
// aggregated across a batch of votes being reversed.
type WarzoneDelta struct {
	TotalVotes   int            `json:"total_votes"`
	StanceCounts map[Stance]int `json:"stance_counts"`
}
