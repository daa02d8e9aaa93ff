package domain

import (
	"time"
)

// Vote is one submitted ballot. Demographic fields are a snapshot of the
// profile at submission time; the profile may change or disappear later
// without touching the vote. HadWarzoneStats marks whether this vote was
// counted into the per-warzone rollup, so decrements only reverse what
// was actually contributed.
type Vote struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	DeviceID        string    `json:"device_id"`
	Status          Stance    `json:"status"`
	Reasons         []string  `json:"reasons"`
	WarzoneID       string    `json:"warzone_id"`
	AgeGroup        string    `json:"age_group"`
	Gender          string    `json:"gender"`
	Country         string    `json:"country"`
	City            string    `json:"city"`
	HadWarzoneStats bool      `json:"had_warzone_stats"`
	CreatedAt       time.Time `json:"created_at"`
}

// SubmitVoteRequest is the payload for vote submission. The device id
// arrives via the X-Device-ID header, not the body.
type SubmitVoteRequest struct {
	Stance  string   `json:"stance"`
	Reasons []string `json:"reasons"`
}

// SubmitVoteResponse is returned after a successful submission.
type SubmitVoteResponse struct {
	VoteID    string    `json:"vote_id"`
	Stance    Stance    `json:"stance"`
	WarzoneID string    `json:"warzone_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RevokeVoteRequest is the payload for vote revocation.
type RevokeVoteRequest struct {
	ResetProfile bool `json:"reset_profile"`
}

// RevokeVoteResponse reports which vote document was removed. DeletedVoteID
// is empty when the profile was flagged as voted but carried no vote id
// (the recoverable-anomaly path).
type RevokeVoteResponse struct {
	DeletedVoteID string `json:"deleted_vote_id,omitempty"`
}

// DeleteAccountResponse reports the outcome of a full account wipe.
type DeleteAccountResponse struct {
	DeletedProfile bool     `json:"deleted_profile"`
	DeletedVoteIDs []string `json:"deleted_vote_ids"`
}

// VoteStatusResponse answers "has this user voted, and how".
type VoteStatusResponse struct {
	HasVoted bool     `json:"has_voted"`
	VoteID   string   `json:"vote_id,omitempty"`
	Stance   Stance   `json:"stance,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`
}
