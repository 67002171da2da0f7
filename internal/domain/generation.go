package domain

import "time"

// GenerationStatus enumerates the lifecycle states of a generation record.
type GenerationStatus string

const (
	GenerationStatusGenerating GenerationStatus = "generating"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// GenerationRequest is the inbound contract for a text-to-video generation.
// Optional fields use their zero value to mean "use the default".
type GenerationRequest struct {
	Prompt       string `json:"prompt"`
	Duration     int    `json:"duration,omitempty"`
	AspectRatio  string `json:"aspectRatio,omitempty"`
	Style        string `json:"style,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// GenerationMetadata describes the settings a video was generated with.
type GenerationMetadata struct {
	Duration         int    `json:"duration"`
	AspectRatio      string `json:"aspectRatio"`
	Style            string `json:"style"`
	GenerationTimeMs int64  `json:"generationTime"`
	Prompt           string `json:"prompt"`
}

// GenerationResult is the structured outcome returned to clients.
type GenerationResult struct {
	Success  bool                `json:"success"`
	VideoURL string              `json:"videoUrl,omitempty"`
	Metadata *GenerationMetadata `json:"metadata,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// FailedResult folds err into a failure result.
func FailedResult(err error) GenerationResult {
	msg := "Unknown error occurred"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return GenerationResult{Success: false, Error: msg}
}

// GenerationRecord is one entry of a session's generation history. Records
// are immutable once appended.
type GenerationRecord struct {
	ID        string             `json:"id"`
	SessionID string             `json:"-"`
	Prompt    string             `json:"prompt"`
	VideoURL  string             `json:"videoUrl"`
	Status    GenerationStatus   `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	Metadata  GenerationMetadata `json:"metadata"`
}

// NewCompletedRecord builds the history entry for a successful result.
func NewCompletedRecord(id, sessionID string, res *GenerationResult, now time.Time) GenerationRecord {
	rec := GenerationRecord{
		ID:        id,
		SessionID: sessionID,
		VideoURL:  res.VideoURL,
		Status:    GenerationStatusCompleted,
		CreatedAt: now.UTC(),
	}
	if res.Metadata != nil {
		rec.Metadata = *res.Metadata
		rec.Prompt = res.Metadata.Prompt
	}
	return rec
}
