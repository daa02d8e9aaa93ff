package repository

import (
	"context"

	"goatmeter-be/internal/domain"
)

// Store is the document-store surface the vote/account core runs on.
// Every method is safe to call either standalone (pool) or inside a
// transaction obtained through TxStore.RunInTx; the transactional core
// only ever mutates aggregates through a transaction-bound Store.
type Store interface {
	// Profiles
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	MarkProfileVoted(ctx context.Context, userID string, stance domain.Stance, reasons []string, voteID string) error
	ClearProfileVote(ctx context.Context, userID string, resetProfile bool) error
	DeleteProfile(ctx context.Context, userID string) (bool, error)

	// Votes
	GetVote(ctx context.Context, voteID string) (*domain.Vote, error)
	CreateVote(ctx context.Context, vote *domain.Vote) error
	DeleteVote(ctx context.Context, voteID string) error
	ListVoteIDsByUser(ctx context.Context, userID string, limit int) ([]string, error)

	// Device locks
	GetDeviceLock(ctx context.Context, deviceID string) (*domain.DeviceLock, error)
	PutDeviceLock(ctx context.Context, lock *domain.DeviceLock) error
	DeleteDeviceLock(ctx context.Context, deviceID string) error

	// Warzone rollups
	GetWarzoneStats(ctx context.Context, warzoneID string) (*domain.WarzoneStats, error)
	IncrementWarzoneStats(ctx context.Context, warzoneID string, stance domain.Stance) error
	ApplyWarzoneDeltas(ctx context.Context, deltas map[string]domain.WarzoneDelta) error

	// Global summary (nil means the document does not exist yet)
	GetGlobalSummary(ctx context.Context) (*domain.GlobalSummary, error)
	PutGlobalSummary(ctx context.Context, summary *domain.GlobalSummary) error
}

// TxStore is a Store that can open an atomic scope. fn receives a Store
// bound to the transaction; if fn returns an error nothing is persisted.
type TxStore interface {
	Store
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
