package service

import (
	"context"
	"strings"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/repository"

	"go.uber.org/zap"
)

// accountVotesPageSize bounds the pre-transaction vote listing.
const accountVotesPageSize = 500

// AccountService owns full account deletion. It exists separately from
// revocation because a user may hold more than one vote record (data
// anomalies, future multi-subject voting) and deletion must reverse all
// of them in one commit. Deleting a profile while leaving aggregate
// counts behind would let a user delete-and-revote to inflate totals,
// so the whole operation is all-or-nothing.
type AccountService struct {
	store  repository.TxStore
	cache  *CacheService
	logger *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(store repository.TxStore, cache *CacheService, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, cache: cache, logger: logger}
}

// DeleteAccount removes the user's profile, every vote they hold, their
// device locks, and the votes' aggregate contributions, atomically.
//
// Two phases: the candidate vote ids are queried before the transaction
// (a vote submitted between the query and the transaction is simply
// picked up by a later pass), then the transaction reads
// each vote by id, applies the shared deduction arithmetic, and deletes
// everything.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) (*domain.DeleteAccountResponse, error) {
	idsToDelete, err := s.store.ListVoteIDsByUser(ctx, userID, accountVotesPageSize)
	if err != nil {
		return nil, err
	}

	deletedVoteIDs := []string{}
	warzoneIDs := []string{}
	deletedProfile := false

	err = s.store.RunInTx(ctx, func(tx repository.Store) error {
		deletedVoteIDs = deletedVoteIDs[:0]
		warzoneIDs = warzoneIDs[:0]
		deletedProfile = false

		profile, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		summary, err := tx.GetGlobalSummary(ctx)
		if err != nil {
			return err
		}

		votes := make([]*domain.Vote, 0, len(idsToDelete))
		for _, id := range idsToDelete {
			vote, err := tx.GetVote(ctx, id)
			if err != nil {
				return err
			}
			if vote != nil {
				votes = append(votes, vote)
			}
		}

		deltas := ComputeWarzoneDeltas(votes)
		if len(deltas) > 0 {
			if err := tx.ApplyWarzoneDeltas(ctx, deltas); err != nil {
				return err
			}
			for wid := range deltas {
				warzoneIDs = append(warzoneIDs, wid)
			}
		}

		if summary != nil && len(votes) > 0 {
			deducted := ComputeGlobalDeductions(summary, votes)
			if err := tx.PutGlobalSummary(ctx, deducted); err != nil {
				return err
			}
		}

		for _, vote := range votes {
			if deviceID := strings.TrimSpace(vote.DeviceID); deviceID != "" {
				if err := tx.DeleteDeviceLock(ctx, deviceID); err != nil {
					return err
				}
			}
		}

		for _, id := range idsToDelete {
			if err := tx.DeleteVote(ctx, id); err != nil {
				return err
			}
			deletedVoteIDs = append(deletedVoteIDs, id)
		}

		if profile != nil {
			if deletedProfile, err = tx.DeleteProfile(ctx, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateUserVoted(ctx, userID)
	s.cache.InvalidateAggregates(ctx, warzoneIDs...)

	s.logger.Info("account deleted",
		zap.String("user_id", userID),
		zap.Bool("deleted_profile", deletedProfile),
		zap.Int("deleted_votes", len(deletedVoteIDs)))

	return &domain.DeleteAccountResponse{
		DeletedProfile: deletedProfile,
		DeletedVoteIDs: deletedVoteIDs,
	}, nil
}
