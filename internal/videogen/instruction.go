package videogen

import (
	"fmt"
	"strings"

	"videostudio/internal/domain"
)

// DefaultSystemPrompt steers the model when the caller does not supply one.
const DefaultSystemPrompt = `You are an AI video generation assistant. Create high-quality, visually stunning videos based on user prompts. Focus on:
- Clear, smooth motion
- Professional cinematography
- Appropriate lighting and composition
- Coherent visual storytelling
- High production value

Ensure the generated video matches the specified duration, aspect ratio, and style requirements.`

// BuildPrompt renders the user message sent to the model. Missing settings
// are replaced with their defaults; no validation happens here.
func BuildPrompt(req domain.GenerationRequest) string {
	duration := req.Duration
	if duration <= 0 {
		duration = domain.DefaultDuration
	}
	aspect := strings.TrimSpace(req.AspectRatio)
	if aspect == "" {
		aspect = domain.DefaultAspectRatio
	}
	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = domain.DefaultStyle
	}
	return fmt.Sprintf("Generate a %d-second video in %s aspect ratio with %s style: %s", duration, aspect, style, req.Prompt)
}

// SystemPrompt returns custom unless it is blank.
func SystemPrompt(custom string) string {
	if strings.TrimSpace(custom) == "" {
		return DefaultSystemPrompt
	}
	return custom
}
