package service

import (
	"context"
	"testing"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpsertProfile_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(repository.NewMemoryStore(), zap.NewNop())

	valid := domain.ProfileRequest{
		AgeGroup:  "25-34",
		Gender:    "m",
		WarzoneID: "LAL",
		Country:   "TW",
		City:      "Taipei",
	}

	tests := []struct {
		name    string
		mutate  func(r *domain.ProfileRequest)
		wantErr error
	}{
		{"bad age group", func(r *domain.ProfileRequest) { r.AgeGroup = "12-17" }, domain.ErrInvalidAgeGroup},
		{"bad gender", func(r *domain.ProfileRequest) { r.Gender = "x" }, domain.ErrInvalidGender},
		{"bad warzone", func(r *domain.ProfileRequest) { r.WarzoneID = "lal" }, domain.ErrInvalidWarzone},
		{"empty warzone", func(r *domain.ProfileRequest) { r.WarzoneID = "" }, domain.ErrInvalidWarzone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := svc.UpsertProfile(ctx, "user-1", &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpsertProfile_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewProfileService(store, zap.NewNop())

	profile, err := svc.UpsertProfile(ctx, "user-1", &domain.ProfileRequest{
		AgeGroup:  "18-24",
		Gender:    "f",
		WarzoneID: "BOS",
		Country:   " tw ",
		City:      "Taipei",
	})
	require.NoError(t, err)
	assert.True(t, profile.HasProfile)
	assert.False(t, profile.HasVoted)
	assert.Equal(t, "BOS", profile.WarzoneID)
	assert.Equal(t, "tw", profile.Country)

	// Voting, then updating demographics, must not clear the vote flags.
	voteSvc := newVoteService(store)
	submitted, err := voteSvc.SubmitVote(ctx, "user-1", &domain.SubmitVoteRequest{Stance: "king"}, "device-1", "")
	require.NoError(t, err)

	profile, err = svc.UpsertProfile(ctx, "user-1", &domain.ProfileRequest{
		AgeGroup:  "25-34",
		Gender:    "f",
		WarzoneID: "OTHER",
		Country:   "US",
	})
	require.NoError(t, err)
	assert.Equal(t, "OTHER", profile.WarzoneID)
	assert.True(t, profile.HasVoted)
	assert.Equal(t, submitted.VoteID, profile.CurrentVoteID)
}

func TestGetProfile_MissingIsNil(t *testing.T) {
	svc := NewProfileService(repository.NewMemoryStore(), zap.NewNop())

	profile, err := svc.GetProfile(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
