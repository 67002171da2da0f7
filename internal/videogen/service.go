package videogen

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"videostudio/internal/domain"
)

// Completer performs one chat-completions round trip.
type Completer interface {
	Complete(ctx context.Context, system, user string) (any, error)
}

type ServiceOptions struct {
	Completer Completer
	Rules     domain.PromptRules
	// Strict rejects URLs that do not match the video pattern, whichever
	// response field they were read from.
	Strict bool
	Model  string
	Logger zerolog.Logger
	Now    func() time.Time
}

// Service runs the validate, build, invoke and extract pipeline.
type Service struct {
	completer Completer
	rules     domain.PromptRules
	strict    bool
	model     string
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(opts ServiceOptions) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Service{
		completer: opts.Completer,
		rules:     opts.Rules,
		strict:    opts.Strict,
		model:     model,
		log:       opts.Logger,
		now:       now,
	}
}

// Rules exposes the prompt limits the service enforces.
func (s *Service) Rules() domain.PromptRules {
	return s.rules
}

// Generate validates req, calls the model and returns a successful result.
// No upstream request is made when validation fails.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := s.rules.Validate(req.Prompt); err != nil {
		return nil, err
	}
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if s.completer == nil {
		return nil, errors.New("video generator not configured")
	}

	userPrompt := BuildPrompt(req)
	systemPrompt := SystemPrompt(req.SystemPrompt)

	start := s.now()
	body, err := s.completer.Complete(ctx, systemPrompt, userPrompt)
	elapsed := s.now().Sub(start)
	if err != nil {
		evt := s.log.Error().Err(err).Str("model", s.model).Int64("elapsed_ms", elapsed.Milliseconds())
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			evt = evt.Int("status", apiErr.StatusCode).Str("body", apiErr.Body)
		}
		evt.Msg("video generation request failed")
		return nil, err
	}

	match, ok := ExtractVideoURL(body)
	if !ok {
		s.log.Warn().Str("model", s.model).Int64("elapsed_ms", elapsed.Milliseconds()).Msg("no video url in response")
		return nil, domain.ErrNoVideoURL
	}
	if !match.Verified {
		if s.strict {
			s.log.Warn().Str("source", string(match.Source)).Str("value", match.URL).Msg("rejected unverified video url")
			return nil, domain.ErrUnverifiedVideoURL
		}
		s.log.Warn().Str("source", string(match.Source)).Str("value", match.URL).Msg("accepting unverified video url")
	}

	s.log.Info().
		Str("model", s.model).
		Str("source", string(match.Source)).
		Int("duration", req.Duration).
		Str("aspect_ratio", req.AspectRatio).
		Str("style", req.Style).
		Int64("elapsed_ms", elapsed.Milliseconds()).
		Msg("video generated")

	return &domain.GenerationResult{
		Success:  true,
		VideoURL: match.URL,
		Metadata: &domain.GenerationMetadata{
			Duration:         req.Duration,
			AspectRatio:      req.AspectRatio,
			Style:            req.Style,
			GenerationTimeMs: elapsed.Milliseconds(),
			Prompt:           req.Prompt,
		},
	}, nil
}

// Run is Generate for callers that want a result value in every case.
func (s *Service) Run(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	res, err := s.Generate(ctx, req)
	if err != nil {
		return domain.FailedResult(err)
	}
	return *res
}
