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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSummaryRouter(store *repository.MemoryStore) *chi.Mux {
	summaryService := service.NewSummaryService(store, nil, zap.NewNop())
	h := NewSummaryHandler(summaryService)

	r := chi.NewRouter()
	r.Get("/api/summary", h.GetGlobalSummary)
	r.Get("/api/ticker", h.GetTicker)
	r.Get("/api/warzones/{warzoneId}/stats", h.GetWarzoneStats)
	return r
}

func TestGetGlobalSummaryHandler_ZeroState(t *testing.T) {
	router := newSummaryRouter(repository.NewMemoryStore())

	r := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var summary domain.GlobalSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.TotalVotes)
	assert.Len(t, summary.StanceCounts, len(domain.Stances))
}

func TestGetWarzoneStatsHandler(t *testing.T) {
	store := repository.NewMemoryStore()
	require.NoError(t, store.IncrementWarzoneStats(context.Background(), "LAL", domain.StanceGoat))
	router := newSummaryRouter(store)

	r := httptest.NewRequest(http.MethodGet, "/api/warzones/LAL/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.WarzoneStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "LAL", stats.WarzoneID)
	assert.Equal(t, 1, stats.TotalVotes)
	assert.Equal(t, 1, stats.StanceCounts[domain.StanceGoat])
}

func TestGetWarzoneStatsHandler_UnknownWarzone(t *testing.T) {
	router := newSummaryRouter(repository.NewMemoryStore())

	r := httptest.NewRequest(http.MethodGet, "/api/warzones/ZZZ/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWarzoneStatsHandler_ZeroStateForQuietWarzone(t *testing.T) {
	router := newSummaryRouter(repository.NewMemoryStore())

	r := httptest.NewRequest(http.MethodGet, "/api/warzones/BOS/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.WarzoneStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalVotes)
	assert.Len(t, stats.StanceCounts, len(domain.Stances))
}

func TestGetTickerHandler(t *testing.T) {
	store := repository.NewMemoryStore()
	summary := domain.NewGlobalSummary()
	summary.RecentVotes = []domain.RecentVote{
		{Status: domain.StanceGoat, WarzoneID: "LAL", Country: "TW"},
	}
	require.NoError(t, store.PutGlobalSummary(context.Background(), summary))
	router := newSummaryRouter(store)

	r := httptest.NewRequest(http.MethodGet, "/api/ticker", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		RecentVotes []domain.RecentVote `json:"recentVotes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.RecentVotes, 1)
	assert.Equal(t, "LAL", resp.RecentVotes[0].WarzoneID)
}

func TestGetStancesHandler(t *testing.T) {
	h := NewStanceHandler()

	r := httptest.NewRequest(http.MethodGet, "/api/stances", nil)
	w := httptest.NewRecorder()
	h.GetStances(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Stances    []stanceInfo `json:"stances"`
		MaxReasons int          `json:"maxReasons"`
		Warzones   []string     `json:"warzones"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Stances, len(domain.Stances))
	assert.Equal(t, domain.ReasonsMaxSelect, resp.MaxReasons)
	assert.Len(t, resp.Warzones, 16)

	camps := map[string]string{}
	for _, s := range resp.Stances {
		camps[string(s.ID)] = s.Camp
		assert.Len(t, s.Reasons, 5, "stance %s", s.ID)
	}
	assert.Equal(t, "pro", camps["goat"])
	assert.Equal(t, "anti", camps["fraud"])
	assert.Equal(t, "neutral", camps["machine"])
}
