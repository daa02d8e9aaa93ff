package handler

import (
	"net/http"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/i18n"
	"goatmeter-be/internal/service"

	"github.com/go-chi/chi/v5"
)

// SummaryHandler exposes the public aggregate read endpoints. These are
// unauthenticated polling endpoints, so every response carries an ETag.
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetGlobalSummary handles GET /api/summary (polling endpoint).
func (h *SummaryHandler) GetGlobalSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaryService.GetGlobalSummary(r.Context())
	if err != nil {
		respondInternal(w, r)
		return
	}
	respondCacheable(w, r, summary, 10)
}

// GetWarzoneStats handles GET /api/warzones/{warzoneId}/stats.
func (h *SummaryHandler) GetWarzoneStats(w http.ResponseWriter, r *http.Request) {
	warzoneID := chi.URLParam(r, "warzoneId")
	if !domain.ValidWarzone(warzoneID) {
		respondError(w, r, http.StatusNotFound, i18n.KeyInternal)
		return
	}

	stats, err := h.summaryService.GetWarzoneStats(r.Context(), warzoneID)
	if err != nil {
		respondInternal(w, r)
		return
	}
	respondCacheable(w, r, stats, 15)
}

// GetTicker handles GET /api/ticker (polling endpoint).
func (h *SummaryHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	ring, err := h.summaryService.GetTicker(r.Context())
	if err != nil {
		respondInternal(w, r)
		return
	}
	respondCacheable(w, r, map[string]interface{}{"recentVotes": ring}, 5)
}
