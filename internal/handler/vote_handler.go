package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/i18n"
	"goatmeter-be/internal/service"
)

// VoteHandler exposes vote submission, revocation and the caller's own
// vote status.
type VoteHandler struct {
	voteService *service.VoteService
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// SubmitVote handles POST /api/voting/vote. The device fingerprint
// travels in the X-Device-ID header, not the body.
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := userID(r)
	if uid == "" {
		respondError(w, r, http.StatusUnauthorized, i18n.KeyInternal)
		return
	}

	var req domain.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, i18n.KeyInvalidStance)
		return
	}

	deviceID := r.Header.Get("X-Device-ID")
	// A client-supplied X-Request-ID doubles as the idempotency token
	// for retried submissions.
	requestID := r.Header.Get("X-Request-ID")

	response, err := h.voteService.SubmitVote(ctx, uid, &req, deviceID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRequest):
			respondError(w, r, http.StatusConflict, i18n.KeyDuplicateRequest)
		case errors.Is(err, domain.ErrDeviceIDRequired):
			respondError(w, r, http.StatusBadRequest, i18n.KeyDeviceIDRequired)
		case errors.Is(err, domain.ErrInvalidStance):
			respondError(w, r, http.StatusBadRequest, i18n.KeyInvalidStance)
		case errors.Is(err, domain.ErrInvalidReasons):
			respondError(w, r, http.StatusBadRequest, i18n.KeyInvalidReasons)
		case errors.Is(err, domain.ErrProfileNotFound):
			respondError(w, r, http.StatusPreconditionFailed, i18n.KeyCompleteProfileFirst)
		case errors.Is(err, domain.ErrWarzoneRequired):
			respondError(w, r, http.StatusPreconditionFailed, i18n.KeyWarzoneRequired)
		case errors.Is(err, domain.ErrAlreadyVoted):
			respondError(w, r, http.StatusConflict, i18n.KeyAlreadyVoted)
		case errors.Is(err, domain.ErrDeviceAlreadyVoted):
			respondError(w, r, http.StatusConflict, i18n.KeyDeviceAlreadyVoted)
		default:
			respondInternal(w, r)
		}
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// RevokeVote handles POST /api/voting/revoke.
func (h *VoteHandler) RevokeVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := userID(r)
	if uid == "" {
		respondError(w, r, http.StatusUnauthorized, i18n.KeyInternal)
		return
	}

	// An empty body means revoke only, keeping the profile.
	var req domain.RevokeVoteRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	response, err := h.voteService.RevokeVote(ctx, uid, req.ResetProfile)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			respondError(w, r, http.StatusNotFound, i18n.KeyProfileNotFound)
		case errors.Is(err, domain.ErrHasNotVoted):
			respondError(w, r, http.StatusConflict, i18n.KeyHasNotVoted)
		default:
			respondInternal(w, r)
		}
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetMyStatus handles GET /api/voting/me (polling endpoint).
func (h *VoteHandler) GetMyStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := userID(r)
	if uid == "" {
		respondError(w, r, http.StatusUnauthorized, i18n.KeyInternal)
		return
	}

	status, err := h.voteService.GetVoteStatus(ctx, uid)
	if err != nil {
		respondInternal(w, r)
		return
	}

	respondCacheable(w, r, status, 10)
}
