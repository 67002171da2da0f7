package domain

const (
	// DefaultDuration is applied when the request omits the duration.
	DefaultDuration = 10
	// DefaultAspectRatio is applied when the request omits the aspect ratio.
	DefaultAspectRatio = "16:9"
	// DefaultStyle is applied when the request omits the style.
	DefaultStyle = "Cinematic"
	// DefaultPromptMinLength is the minimum trimmed prompt length.
	DefaultPromptMinLength = 10
	// DefaultPromptMaxLength is the maximum raw prompt length.
	DefaultPromptMaxLength = 500
)

// Option is a labelled choice offered to clients.
type Option[T comparable] struct {
	Label string `json:"label"`
	Value T      `json:"value"`
}

var VideoStyles = []string{
	"Cinematic",
	"Documentary",
	"Animation",
	"Abstract",
	"Nature",
	"Urban",
	"Fantasy",
	"Sci-Fi",
}

var AspectRatios = []Option[string]{
	{Label: "Landscape (16:9)", Value: "16:9"},
	{Label: "Portrait (9:16)", Value: "9:16"},
	{Label: "Square (1:1)", Value: "1:1"},
}

var Durations = []Option[int]{
	{Label: "5 seconds", Value: 5},
	{Label: "10 seconds", Value: 10},
	{Label: "15 seconds", Value: 15},
}

func IsSupportedStyle(style string) bool {
	for _, s := range VideoStyles {
		if s == style {
			return true
		}
	}
	return false
}

func IsSupportedAspectRatio(ratio string) bool {
	for _, o := range AspectRatios {
		if o.Value == ratio {
			return true
		}
	}
	return false
}

func IsSupportedDuration(seconds int) bool {
	for _, o := range Durations {
		if o.Value == seconds {
			return true
		}
	}
	return false
}
