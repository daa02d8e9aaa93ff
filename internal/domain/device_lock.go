package domain

import (
	"time"
)

// DeviceLock enforces at most one active vote per physical device. It is
// keyed by a client-generated stable device id. Unlocking is deletion of
// the row, not flipping Active, so a stale record cannot block reuse
// after its vote is gone.
type DeviceLock struct {
	DeviceID   string    `json:"device_id"`
	LastVoteID string    `json:"last_vote_id"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updated_at"`
}
