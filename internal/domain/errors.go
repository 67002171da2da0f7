package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPrompt      = errors.New("invalid prompt")
	ErrProviderFailure    = errors.New("provider failure")
	ErrNoVideoURL         = errors.New("No video URL found in API response")
	ErrUnverifiedVideoURL = errors.New("API response did not contain a playable video URL")
)

// ValidationError reports a rejected request field. Message is returned to
// the caller verbatim.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidPrompt) match prompt validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPrompt && e.Field == "prompt"
}
