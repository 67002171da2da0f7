package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"videostudio/internal/domain"
	"videostudio/internal/middleware"
	"videostudio/internal/videogen"
)

const maxGenerateBody = 64 << 10

type generateResponse struct {
	domain.GenerationResult
	ID string `json:"id,omitempty"`
}

func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGenerateBody))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			a.error(w, http.StatusBadRequest, "bad_request", "Request body is required")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	ctx := r.Context()
	res, err := a.Generator.Generate(ctx, req)
	if err != nil {
		a.generationError(w, r, err)
		return
	}

	sessionID := middleware.SessionIDFromContext(ctx)
	out := generateResponse{GenerationResult: *res}
	if a.History != nil && sessionID != "" {
		rec := domain.NewCompletedRecord(a.id(), sessionID, res, a.clock())
		if err := a.History.Append(ctx, sessionID, rec); err != nil {
			a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(ctx)).Msg("failed to record generation history")
		} else {
			out.ID = rec.ID
		}
	}
	a.json(w, http.StatusOK, out)
}

func (a *App) generationError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr   *domain.ValidationError
		apiErr *videogen.APIError
	)
	switch {
	case errors.As(err, &vErr):
		code := "invalid_request"
		if vErr.Field == "prompt" {
			code = "invalid_prompt"
		}
		a.error(w, http.StatusBadRequest, code, vErr.Message)
		return
	case errors.As(err, &apiErr):
		a.error(w, http.StatusInternalServerError, "upstream_error", apiErr.Error())
		return
	case errors.Is(err, domain.ErrNoVideoURL):
		a.error(w, http.StatusInternalServerError, "no_video_url", err.Error())
		return
	case errors.Is(err, domain.ErrUnverifiedVideoURL):
		a.error(w, http.StatusInternalServerError, "unverified_video_url", err.Error())
		return
	}

	ctx := r.Context()
	a.Logger.Error().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(ctx)).
		Str("country", middleware.CountryFromContext(ctx)).
		Msg("video generation failed")
	msg := err.Error()
	if msg == "" {
		msg = "Internal server error"
	}
	code := "internal"
	if errors.Is(err, domain.ErrProviderFailure) {
		code = "upstream_error"
	}
	a.error(w, http.StatusInternalServerError, code, msg)
}
