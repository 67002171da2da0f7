package handlers

import (
	"context"
	"net/http"
	"time"

	"videostudio/internal/history"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status  string `json:"status"`
	History string `json:"history"`
}

// Health reports liveness plus the reachability of an external history
// backend. The in-memory store is always "ok".
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", History: "ok"}
	if p, ok := a.History.(history.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("history backend unreachable")
			resp = healthResponse{Status: "degraded", History: "unavailable"}
			a.json(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	a.json(w, http.StatusOK, resp)
}
