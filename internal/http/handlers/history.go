package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"videostudio/internal/domain"
	"videostudio/internal/history"
	"videostudio/internal/middleware"
)

type historyResponse struct {
	Success bool                      `json:"success"`
	Items   []domain.GenerationRecord `json:"items"`
}

func (a *App) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	if a.HistoryLimit > 0 && limit > a.HistoryLimit {
		limit = a.HistoryLimit
	}
	ctx := r.Context()
	items, err := a.History.List(ctx, middleware.SessionIDFromContext(ctx), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	a.json(w, http.StatusOK, historyResponse{Success: true, Items: items})
}

func (a *App) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	ctx := r.Context()
	rec, err := a.History.Get(ctx, middleware.SessionIDFromContext(ctx), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "Generation not found")
			return
		}
		a.Logger.Error().Err(err).Str("id", id).Msg("get history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load generation")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "item": rec})
}

func (a *App) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.History.Clear(ctx, middleware.SessionIDFromContext(ctx)); err != nil {
		a.Logger.Error().Err(err).Msg("clear history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
