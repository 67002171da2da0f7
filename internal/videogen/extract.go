package videogen

import (
	"regexp"
)

// videoURLPattern stops at Unicode separators (NBSP, U+2028) and \v as
// well as ASCII whitespace.
var videoURLPattern = regexp.MustCompile(`(?i)https?://[^\s\v\p{Z}\x{FEFF}]+\.(mp4|mov|avi|webm)`)

// Source names the part of a response a video URL was taken from.
type Source string

const (
	SourceChatContent Source = "choices.message.content"
	SourceBody        Source = "body"
	SourceOutput      Source = "output"
	SourceURL         Source = "url"
)

// Match is the outcome of ExtractVideoURL. Verified is false when the value
// came from a loosely typed field and does not look like a video link.
type Match struct {
	URL      string
	Source   Source
	Verified bool
}

// IsVideoURL reports whether s contains a link to a known video container.
func IsVideoURL(s string) bool {
	return videoURLPattern.MatchString(s)
}

// ExtractVideoURL looks for a video URL in a decoded JSON body. Rules are
// tried in order: chat completion content, a bare string body, the "output"
// field, then the "url" field. The last two are returned verbatim.
func ExtractVideoURL(body any) (Match, bool) {
	if content, ok := chatContent(body); ok {
		if u := videoURLPattern.FindString(content); u != "" {
			return Match{URL: u, Source: SourceChatContent, Verified: true}, true
		}
	}
	if s, ok := body.(string); ok && videoURLPattern.MatchString(s) {
		return Match{URL: s, Source: SourceBody, Verified: true}, true
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return Match{}, false
	}
	for _, field := range []Source{SourceOutput, SourceURL} {
		if s, ok := obj[string(field)].(string); ok && s != "" {
			return Match{URL: s, Source: field, Verified: IsVideoURL(s)}, true
		}
	}
	return Match{}, false
}

func chatContent(body any) (string, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := msg["content"].(string)
	if !ok || content == "" {
		return "", false
	}
	return content, true
}
