package handler

import (
	"net/http"
	"time"

	"goatmeter-be/internal/service"
	"goatmeter-be/pkg/database"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db    *database.PostgresDB
	cache *service.CacheService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *database.PostgresDB, cache *service.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse reports overall status and per-dependency checks.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health. Redis is a cache, so a Redis failure
// degrades the status without failing the probe; the database is
// authoritative and does fail it.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	status := "healthy"
	code := http.StatusOK

	if err := h.db.Health(ctx); err != nil {
		checks["database"] = err.Error()
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	if err := h.cache.HealthCheck(ctx); err != nil {
		checks["redis"] = err.Error()
		if status == "healthy" {
			status = "degraded"
		}
	}

	respondJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   "goatmeter-be",
		Checks:    checks,
	})
}
