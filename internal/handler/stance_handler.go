package handler

import (
	"net/http"

	"goatmeter-be/internal/domain"
)

// StanceHandler serves the static stance and reason catalog the voting
// form renders from.
type StanceHandler struct{}

// NewStanceHandler creates a new stance handler.
func NewStanceHandler() *StanceHandler {
	return &StanceHandler{}
}

type stanceInfo struct {
	ID      domain.Stance   `json:"id"`
	Camp    string          `json:"camp"`
	Reasons []domain.Reason `json:"reasons"`
}

// GetStances handles GET /api/stances. The catalog never changes while
// the process runs, so clients may cache it aggressively.
func (h *StanceHandler) GetStances(w http.ResponseWriter, r *http.Request) {
	stances := make([]stanceInfo, 0, len(domain.Stances))
	for _, stance := range domain.Stances {
		camp := "neutral"
		if stance.IsPro() {
			camp = "pro"
		} else if stance.IsAnti() {
			camp = "anti"
		}
		stances = append(stances, stanceInfo{
			ID:      stance,
			Camp:    camp,
			Reasons: domain.ReasonsByStance[stance],
		})
	}

	respondCacheable(w, r, map[string]interface{}{
		"stances":    stances,
		"maxReasons": domain.ReasonsMaxSelect,
		"warzones":   domain.Warzones,
		"ageGroups":  domain.AgeGroups,
		"genders":    domain.Genders,
	}, 3600)
}
