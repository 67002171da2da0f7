package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PromptRules bounds the prompt length. A zero MinLength disables the
// minimum check; a zero MaxLength falls back to DefaultPromptMaxLength.
type PromptRules struct {
	MinLength int
	MaxLength int
}

// DefaultPromptRules returns the limits enforced by the generation form.
func DefaultPromptRules() PromptRules {
	return PromptRules{MinLength: DefaultPromptMinLength, MaxLength: DefaultPromptMaxLength}
}

// Validate checks prompt against the rules. Lengths are counted in code
// points; the minimum applies to the trimmed prompt, the maximum to the raw one.
func (r PromptRules) Validate(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return &ValidationError{Field: "prompt", Message: "Prompt cannot be empty"}
	}
	if r.MinLength > 0 && utf8.RuneCountInString(trimmed) < r.MinLength {
		return &ValidationError{Field: "prompt", Message: fmt.Sprintf("Prompt must be at least %d characters long", r.MinLength)}
	}
	maxLen := r.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultPromptMaxLength
	}
	if utf8.RuneCountInString(prompt) > maxLen {
		return &ValidationError{Field: "prompt", Message: fmt.Sprintf("Prompt must be less than %d characters", maxLen)}
	}
	return nil
}

// Normalize applies defaults to the optional settings and rejects values
// outside the supported catalogue. The prompt itself is left untouched.
func (g *GenerationRequest) Normalize() error {
	if g == nil {
		return &ValidationError{Field: "request", Message: "Request body is required"}
	}
	if g.Duration == 0 {
		g.Duration = DefaultDuration
	}
	if !IsSupportedDuration(g.Duration) {
		return &ValidationError{Field: "duration", Message: "Duration must be one of 5, 10 or 15 seconds"}
	}

	g.AspectRatio = strings.TrimSpace(g.AspectRatio)
	if g.AspectRatio == "" {
		g.AspectRatio = DefaultAspectRatio
	}
	if !IsSupportedAspectRatio(g.AspectRatio) {
		return &ValidationError{Field: "aspectRatio", Message: "Aspect ratio must be one of 16:9, 9:16 or 1:1"}
	}

	style, ok := CanonicalStyle(g.Style)
	if !ok {
		return &ValidationError{Field: "style", Message: fmt.Sprintf("Style %q is not supported", style)}
	}
	g.Style = style

	if strings.TrimSpace(g.SystemPrompt) == "" {
		g.SystemPrompt = ""
	}
	return nil
}

// CanonicalStyle maps user input such as "sci-fi" onto the catalogue
// spelling. An empty style resolves to DefaultStyle. When the style is
// unknown the title-cased input is returned with ok=false.
func CanonicalStyle(style string) (string, bool) {
	style = strings.TrimSpace(style)
	if style == "" {
		return DefaultStyle, true
	}
	// cases.Caser keeps state between calls, so one per invocation.
	titled := cases.Title(language.English).String(style)
	for _, s := range VideoStyles {
		if strings.EqualFold(s, titled) {
			return s, true
		}
	}
	return titled, false
}
