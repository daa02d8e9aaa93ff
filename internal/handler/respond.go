package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"

	"goatmeter-be/internal/i18n"
	"goatmeter-be/internal/middleware"
)

// Shared response plumbing. Services surface sentinel errors; each
// handler maps them to a status code and an i18n message key here, so
// the copy the frontend shows follows the request's Accept-Language.

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes a localized error payload for a message key.
func respondError(w http.ResponseWriter, r *http.Request, status int, key string) {
	lang := i18n.MatchLanguage(r.Header.Get("Accept-Language"))
	respondJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"key":     key,
			"message": i18n.GetMessage(lang, key),
		},
	})
}

// respondInternal hides the cause behind a generic localized message.
func respondInternal(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusInternalServerError, i18n.KeyInternal)
}

// userID pulls the authenticated subject out of the request context.
func userID(r *http.Request) string {
	if identity := middleware.UserFromContext(r.Context()); identity != nil {
		return identity.Sub
	}
	return ""
}

// generateETag derives a content hash for the polling endpoints.
func generateETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}

// respondCacheable writes data with an ETag and honors If-None-Match so
// pollers mostly get 304s.
func respondCacheable(w http.ResponseWriter, r *http.Request, data interface{}, maxAgeSeconds int) {
	etag := generateETag(data)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
	respondJSON(w, http.StatusOK, data)
}
