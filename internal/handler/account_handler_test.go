package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/repository"
	"goatmeter-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDeleteAccountHandler(t *testing.T) {
	store := repository.NewMemoryStore()
	log := zap.NewNop()
	cache := service.NewCacheService(nil, log)
	voteService := service.NewVoteService(store, cache, log)
	h := NewAccountHandler(service.NewAccountService(store, cache, log))

	ctx := context.Background()
	require.NoError(t, store.UpsertProfile(ctx, &domain.Profile{
		UserID: "user-1", AgeGroup: "25-34", Gender: "m", WarzoneID: "LAL", Country: "TW",
	}))
	submitted, err := voteService.SubmitVote(ctx, "user-1", &domain.SubmitVoteRequest{Stance: "goat"}, "device-1", "")
	require.NoError(t, err)

	r := authedRequest(http.MethodDelete, "/api/account", "", "user-1")
	w := httptest.NewRecorder()
	h.DeleteAccount(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.DeleteAccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.DeletedProfile)
	assert.Equal(t, []string{submitted.VoteID}, resp.DeletedVoteIDs)

	profile, err := store.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestDeleteAccountHandler_NoAccountIsOK(t *testing.T) {
	store := repository.NewMemoryStore()
	log := zap.NewNop()
	h := NewAccountHandler(service.NewAccountService(store, service.NewCacheService(nil, log), log))

	r := authedRequest(http.MethodDelete, "/api/account", "", "ghost")
	w := httptest.NewRecorder()
	h.DeleteAccount(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.DeleteAccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.DeletedProfile)
	assert.Empty(t, resp.DeletedVoteIDs)
}

func TestDeleteAccountHandler_Unauthenticated(t *testing.T) {
	store := repository.NewMemoryStore()
	log := zap.NewNop()
	h := NewAccountHandler(service.NewAccountService(store, service.NewCacheService(nil, log), log))

	r := authedRequest(http.MethodDelete, "/api/account", "", "")
	w := httptest.NewRecorder()
	h.DeleteAccount(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
