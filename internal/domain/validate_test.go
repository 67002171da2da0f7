package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestPromptRulesValidate(t *testing.T) {
	rules := DefaultPromptRules()
	cases := []struct {
		name    string
		prompt  string
		wantErr string
	}{
		{name: "empty", prompt: "", wantErr: "Prompt cannot be empty"},
		{name: "whitespace", prompt: "   \n\t ", wantErr: "Prompt cannot be empty"},
		{name: "too_short", prompt: "  a cat  ", wantErr: "Prompt must be at least 10 characters long"},
		{name: "min_boundary", prompt: strings.Repeat("a", 10)},
		{name: "max_boundary", prompt: strings.Repeat("b", 500)},
		{name: "too_long", prompt: strings.Repeat("c", 501), wantErr: "Prompt must be less than 500 characters"},
		{name: "multibyte_counts_runes", prompt: strings.Repeat("é", 500)},
		{name: "regular", prompt: "A cat playing piano in a jazz bar at night"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := rules.Validate(tc.prompt)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate(%q) error = %v, want nil", tc.prompt, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want %q", tc.prompt, tc.wantErr)
			}
			if err.Error() != tc.wantErr {
				t.Fatalf("Validate(%q) = %q, want %q", tc.prompt, err.Error(), tc.wantErr)
			}
			if !errors.Is(err, ErrInvalidPrompt) {
				t.Fatalf("expected errors.Is(err, ErrInvalidPrompt)")
			}
		})
	}
}

func TestPromptRulesWithoutMinimum(t *testing.T) {
	rules := PromptRules{}
	if err := rules.Validate("short"); err != nil {
		t.Fatalf("Validate returned %v, want nil when minimum disabled", err)
	}
	if err := rules.Validate(strings.Repeat("x", 501)); err == nil {
		t.Fatal("expected max length to fall back to default")
	}
}

func TestPromptRulesValidateRange(t *testing.T) {
	rules := DefaultPromptRules()
	for n := 10; n <= 500; n += 49 {
		prompt := strings.Repeat("v", n)
		if err := rules.Validate(prompt); err != nil {
			t.Fatalf("length %d rejected: %v", n, err)
		}
	}
}

func TestGenerationRequestNormalizeDefaults(t *testing.T) {
	req := &GenerationRequest{Prompt: "A quiet harbour at dawn", SystemPrompt: "   "}
	if err := req.Normalize(); err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if req.Duration != DefaultDuration {
		t.Fatalf("Duration = %d, want %d", req.Duration, DefaultDuration)
	}
	if req.AspectRatio != DefaultAspectRatio {
		t.Fatalf("AspectRatio = %q, want %q", req.AspectRatio, DefaultAspectRatio)
	}
	if req.Style != DefaultStyle {
		t.Fatalf("Style = %q, want %q", req.Style, DefaultStyle)
	}
	if req.SystemPrompt != "" {
		t.Fatalf("SystemPrompt = %q, want empty", req.SystemPrompt)
	}
}

func TestGenerationRequestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name  string
		req   GenerationRequest
		field string
	}{
		{name: "duration", req: GenerationRequest{Duration: 7}, field: "duration"},
		{name: "aspect", req: GenerationRequest{AspectRatio: "4:3"}, field: "aspectRatio"},
		{name: "style", req: GenerationRequest{Style: "noir"}, field: "style"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Normalize()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Normalize error = %v, want ValidationError", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("Field = %q, want %q", vErr.Field, tc.field)
			}
			if errors.Is(err, ErrInvalidPrompt) {
				t.Fatalf("settings errors must not match ErrInvalidPrompt")
			}
		})
	}
}

func TestCanonicalStyle(t *testing.T) {
	cases := map[string]string{
		"":            "Cinematic",
		"animation":   "Animation",
		"DOCUMENTARY": "Documentary",
		" Urban ":     "Urban",
		"Sci-Fi":      "Sci-Fi",
		"sci-fi":      "Sci-Fi",
	}
	for in, want := range cases {
		got, ok := CanonicalStyle(in)
		if !ok {
			t.Fatalf("CanonicalStyle(%q) not ok", in)
		}
		if got != want {
			t.Fatalf("CanonicalStyle(%q) = %q, want %q", in, got, want)
		}
	}
	if _, ok := CanonicalStyle("watercolor"); ok {
		t.Fatal("expected unknown style to be rejected")
	}
}
