package handler

import (
	"net/http"
	"user_hub/internal/common"
	"user_hub/internal/platform/cache"
	"user_hub/internal/platform/database"

	"github.com/go-chi/chi/v5"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/app", h.checkApp)
	r.Get("/db", h.checkDB)
	r.Get("/cache", h.checkCache)
}

func (h *HealthHandler) checkApp(w http.ResponseWriter, r *http.Request) {
	common.RespondOK(w, http.StatusOK, map[string]string{"status": "up"})
}

func (h *HealthHandler) checkDB(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		common.RespondOK(w, http.StatusOK, map[string]string{"status": "not configured"})
		return
	}
	if err := database.DB.PingContext(r.Context()); err != nil {
		common.RespondWithError(w, http.StatusServiceUnavailable, "internal_error", "database unreachable")
		return
	}
	common.RespondOK(w, http.StatusOK, map[string]string{"status": "up"})
}

func (h *HealthHandler) checkCache(w http.ResponseWriter, r *http.Request) {
	if cache.RDB == nil {
		common.RespondOK(w, http.StatusOK, map[string]string{"status": "not configured"})
		return
	}
	if err := cache.RDB.Ping(r.Context()).Err(); err != nil {
		common.RespondWithError(w, http.StatusServiceUnavailable, "internal_error", "cache unreachable")
		return
	}
	common.RespondOK(w, http.StatusOK, map[string]string{"status": "up"})
}
