package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"videostudio/internal/domain"
	"videostudio/internal/history"
)

// Generator turns a request into a finished video.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

type App struct {
	Generator Generator
	History   history.Store
	Logger    zerolog.Logger
	Rules     domain.PromptRules
	// HistoryLimit caps ?limit on the history listing.
	HistoryLimit int

	newID func() string
	now   func() time.Time
}

func NewApp(gen Generator, store history.Store, rules domain.PromptRules, logger zerolog.Logger) *App {
	return &App{
		Generator: gen,
		History:   store,
		Logger:    logger,
		Rules:     rules,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, msg string) {
	a.json(w, status, errorResponse{Success: false, Error: msg, Code: code})
}

func (a *App) id() string {
	if a.newID == nil {
		return uuid.NewString()
	}
	return a.newID()
}

func (a *App) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}
