package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/i18n"
	"goatmeter-be/internal/service"
)

// ProfileHandler exposes the demographic profile endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpsertProfile handles PUT /api/profile.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := userID(r)
	if uid == "" {
		respondError(w, r, http.StatusUnauthorized, i18n.KeyInternal)
		return
	}

	var req domain.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, i18n.KeyInvalidProfileField)
		return
	}

	profile, err := h.profileService.UpsertProfile(ctx, uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAgeGroup),
			errors.Is(err, domain.ErrInvalidGender),
			errors.Is(err, domain.ErrInvalidWarzone):
			respondError(w, r, http.StatusBadRequest, i18n.KeyInvalidProfileField)
		default:
			respondInternal(w, r)
		}
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetMyProfile handles GET /api/profile/me.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := userID(r)
	if uid == "" {
		respondError(w, r, http.StatusUnauthorized, i18n.KeyInternal)
		return
	}

	profile, err := h.profileService.GetProfile(ctx, uid)
	if err != nil {
		respondInternal(w, r)
		return
	}
	if profile == nil {
		respondError(w, r, http.StatusNotFound, i18n.KeyProfileNotFound)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
