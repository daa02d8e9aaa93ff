package service

import (
	"context"
	"strings"
	"time"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VoteService owns vote submission and revocation. Every mutation of the
// four persisted entities (vote, device lock, warzone rollup, global
// summary) happens inside one store transaction; either all of it
// commits or none of it does. Transient contention is retried by the
// store, so a failure surfacing from here is a real precondition
// violation or a real fault.
type VoteService struct {
	store  repository.TxStore
	cache  *CacheService
	logger *zap.Logger
}

// NewVoteService creates a new vote service.
func NewVoteService(store repository.TxStore, cache *CacheService, logger *zap.Logger) *VoteService {
	return &VoteService{store: store, cache: cache, logger: logger}
}

// SubmitVote casts the user's single stance vote.
//
// Preconditions checked inside the transaction: the profile exists, the
// user has not voted, the profile carries a warzone, and no active
// device lock holds the device. On success one vote document is created
// with a demographic snapshot, the device lock is taken, the warzone
// rollup and the global summary are incremented, and the profile is
// flagged as voted.
//
// A non-empty requestID is treated as a client idempotency token: a
// second delivery of the same token while the first is in flight (or
// within the lock TTL after success) is rejected with
// ErrDuplicateRequest. A failed submission releases the token so the
// client can retry with it.
func (s *VoteService) SubmitVote(ctx context.Context, userID string, req *domain.SubmitVoteRequest, deviceID, requestID string) (*domain.SubmitVoteResponse, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, domain.ErrDeviceIDRequired
	}

	stance, ok := domain.ParseStance(req.Stance)
	if !ok {
		return nil, domain.ErrInvalidStance
	}
	if len(req.Reasons) > domain.ReasonsMaxSelect || !domain.ValidReasonsFor(stance, req.Reasons) {
		return nil, domain.ErrInvalidReasons
	}

	requestID = strings.TrimSpace(requestID)
	var locked bool
	if requestID != "" {
		acquired, err := s.cache.TryIdempotencyLock(ctx, requestID)
		if err != nil {
			// Cache failure never blocks a vote; the database preconditions
			// still reject a true double submission.
			s.logger.Warn("idempotency lock unavailable, proceeding",
				zap.String("request_id", requestID),
				zap.Error(err))
		} else if !acquired {
			return nil, domain.ErrDuplicateRequest
		} else {
			locked = true
		}
	}

	var response *domain.SubmitVoteResponse
	var warzoneID string

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		profile, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrProfileNotFound
		}
		if profile.HasVoted {
			return domain.ErrAlreadyVoted
		}
		warzoneID = strings.TrimSpace(profile.WarzoneID)
		if warzoneID == "" {
			return domain.ErrWarzoneRequired
		}

		lock, err := tx.GetDeviceLock(ctx, deviceID)
		if err != nil {
			return err
		}
		if lock != nil && lock.Active {
			// A dangling lock (active but its vote is gone) still blocks
			// the device; surfaced in logs rather than silently healed.
			if v, verr := tx.GetVote(ctx, lock.LastVoteID); verr == nil && v == nil {
				s.logger.Warn("active device lock references a missing vote",
					zap.String("device_id", deviceID),
					zap.String("last_vote_id", lock.LastVoteID))
			}
			return domain.ErrDeviceAlreadyVoted
		}

		summary, err := tx.GetGlobalSummary(ctx)
		if err != nil {
			return err
		}
		if summary == nil {
			summary = domain.NewGlobalSummary()
		}

		vote := &domain.Vote{
			ID:              uuid.NewString(),
			UserID:          userID,
			DeviceID:        deviceID,
			Status:          stance,
			Reasons:         req.Reasons,
			WarzoneID:       warzoneID,
			AgeGroup:        profile.AgeGroup,
			Gender:          profile.Gender,
			Country:         profile.Country,
			City:            profile.City,
			HadWarzoneStats: true,
		}
		if err := tx.CreateVote(ctx, vote); err != nil {
			return err
		}

		if err := tx.PutDeviceLock(ctx, &domain.DeviceLock{
			DeviceID:   deviceID,
			LastVoteID: vote.ID,
			Active:     true,
		}); err != nil {
			return err
		}

		if err := tx.IncrementWarzoneStats(ctx, warzoneID, stance); err != nil {
			return err
		}

		applyGlobalIncrement(summary, vote, time.Now().UTC())
		if err := tx.PutGlobalSummary(ctx, summary); err != nil {
			return err
		}

		if err := tx.MarkProfileVoted(ctx, userID, stance, req.Reasons, vote.ID); err != nil {
			return err
		}

		response = &domain.SubmitVoteResponse{
			VoteID:    vote.ID,
			Stance:    stance,
			WarzoneID: warzoneID,
			Timestamp: vote.CreatedAt,
		}
		return nil
	})
	if err != nil {
		if locked {
			s.cache.ReleaseIdempotencyLock(ctx, requestID)
		}
		return nil, err
	}

	s.cache.CacheUserVoted(ctx, userID, response.VoteID)
	s.cache.InvalidateAggregates(ctx, warzoneID)

	s.logger.Info("vote submitted",
		zap.String("user_id", userID),
		zap.String("vote_id", response.VoteID),
		zap.String("stance", string(stance)),
		zap.String("warzone_id", warzoneID))

	return response, nil
}

// RevokeVote reverses the user's current vote so they can vote again.
// With resetProfile the demographic fields are wiped too and hasProfile
// drops back to false.
//
// A profile flagged as voted but carrying no vote id is a recoverable
// anomaly: the flags are still cleared, nothing is decremented, and a
// warning is logged.
func (s *VoteService) RevokeVote(ctx context.Context, userID string, resetProfile bool) (*domain.RevokeVoteResponse, error) {
	var deletedVoteID string
	var warzoneID string

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		profile, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrProfileNotFound
		}
		if !profile.HasVoted {
			return domain.ErrHasNotVoted
		}

		voteID := profile.CurrentVoteID
		var vote *domain.Vote
		var summary *domain.GlobalSummary
		if voteID != "" {
			if vote, err = tx.GetVote(ctx, voteID); err != nil {
				return err
			}
			if summary, err = tx.GetGlobalSummary(ctx); err != nil {
				return err
			}
		}

		if err := tx.ClearProfileVote(ctx, userID, resetProfile); err != nil {
			return err
		}

		if voteID == "" {
			s.logger.Warn("profile flagged as voted without a vote id, resetting profile only",
				zap.String("user_id", userID))
			return nil
		}
		deletedVoteID = voteID

		if vote != nil {
			if deviceID := strings.TrimSpace(vote.DeviceID); deviceID != "" {
				if err := tx.DeleteDeviceLock(ctx, deviceID); err != nil {
					return err
				}
			}
			warzoneID = strings.TrimSpace(vote.WarzoneID)
		}

		if err := tx.DeleteVote(ctx, voteID); err != nil {
			return err
		}
		if vote == nil {
			return nil
		}

		if deltas := ComputeWarzoneDeltas([]*domain.Vote{vote}); len(deltas) > 0 {
			if err := tx.ApplyWarzoneDeltas(ctx, deltas); err != nil {
				return err
			}
		}

		// A missing summary document means there is nothing to deduct
		// from; submission will recreate it from the zero state.
		if summary != nil && vote.Status.IsValid() {
			deducted := ComputeGlobalDeductions(summary, []*domain.Vote{vote})
			if err := tx.PutGlobalSummary(ctx, deducted); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateUserVoted(ctx, userID)
	s.cache.InvalidateAggregates(ctx, warzoneID)

	s.logger.Info("vote revoked",
		zap.String("user_id", userID),
		zap.String("deleted_vote_id", deletedVoteID),
		zap.Bool("reset_profile", resetProfile))

	return &domain.RevokeVoteResponse{DeletedVoteID: deletedVoteID}, nil
}

// GetVoteStatus answers whether the user currently holds a vote.
func (s *VoteService) GetVoteStatus(ctx context.Context, userID string) (*domain.VoteStatusResponse, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.HasVoted {
		return &domain.VoteStatusResponse{HasVoted: false}, nil
	}
	return &domain.VoteStatusResponse{
		HasVoted: true,
		VoteID:   profile.CurrentVoteID,
		Stance:   profile.CurrentStance,
		Reasons:  profile.CurrentReasons,
	}, nil
}

// applyGlobalIncrement folds one new vote into the global summary: total
// and stance counter up, ticker ring prepended and truncated, reason
// codes routed to the like or dislike map by the stance's camp, country
// counts bumped on the matching side. Neutral stances leave the maps
// alone so no zero-valued entries are ever created.
func applyGlobalIncrement(summary *domain.GlobalSummary, vote *domain.Vote, now time.Time) {
	summary.TotalVotes++
	summary.StanceCounts[vote.Status]++

	entry := domain.RecentVote{
		Status:    vote.Status,
		City:      vote.City,
		Country:   vote.Country,
		WarzoneID: vote.WarzoneID,
		CreatedAt: now,
	}
	summary.RecentVotes = append([]domain.RecentVote{entry}, summary.RecentVotes...)
	if len(summary.RecentVotes) > domain.RecentVotesCap {
		summary.RecentVotes = summary.RecentVotes[:domain.RecentVotesCap]
	}

	switch {
	case vote.Status.IsPro():
		for _, reason := range vote.Reasons {
			summary.ReasonCountsLike[reason]++
		}
	case vote.Status.IsAnti():
		for _, reason := range vote.Reasons {
			summary.ReasonCountsDislike[reason]++
		}
	}

	cc := countryCode(vote.Country)
	if cc == "" || (!vote.Status.IsPro() && !vote.Status.IsAnti()) {
		return
	}
	cur := summary.CountryCounts[cc]
	if vote.Status.IsPro() {
		cur.Pro++
	} else {
		cur.Anti++
	}
	summary.CountryCounts[cc] = cur
}
