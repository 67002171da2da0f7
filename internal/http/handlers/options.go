package handlers

import (
	"net/http"

	"videostudio/internal/domain"
	"videostudio/internal/videogen"
)

type optionsDefaults struct {
	Duration     int    `json:"duration"`
	AspectRatio  string `json:"aspectRatio"`
	Style        string `json:"style"`
	SystemPrompt string `json:"systemPrompt"`
}

type promptLimits struct {
	MinLength int `json:"minLength"`
	MaxLength int `json:"maxLength"`
}

type optionsResponse struct {
	Styles       []string                `json:"styles"`
	AspectRatios []domain.Option[string] `json:"aspectRatios"`
	Durations    []domain.Option[int]    `json:"durations"`
	Defaults     optionsDefaults         `json:"defaults"`
	Prompt       promptLimits            `json:"prompt"`
}

// Options describes the settings the generation form may offer.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	maxLen := a.Rules.MaxLength
	if maxLen <= 0 {
		maxLen = domain.DefaultPromptMaxLength
	}
	a.json(w, http.StatusOK, optionsResponse{
		Styles:       domain.VideoStyles,
		AspectRatios: domain.AspectRatios,
		Durations:    domain.Durations,
		Defaults: optionsDefaults{
			Duration:     domain.DefaultDuration,
			AspectRatio:  domain.DefaultAspectRatio,
			Style:        domain.DefaultStyle,
			SystemPrompt: videogen.DefaultSystemPrompt,
		},
		Prompt: promptLimits{MinLength: a.Rules.MinLength, MaxLength: maxLen},
	})
}
