package handler

import (
	"net/http"

	"goatmeter-be/internal/i18n"
	"goatmeter-be/internal/service"
)

// AccountHandler exposes full account deletion.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// DeleteAccount handles DELETE /api/account. Deleting an account that
// never had a profile or votes is a successful no-op.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := userID(r)
	if uid == "" {
		respondError(w, r, http.StatusUnauthorized, i18n.KeyInternal)
		return
	}

	response, err := h.accountService.DeleteAccount(ctx, uid)
	if err != nil {
		respondInternal(w, r)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
