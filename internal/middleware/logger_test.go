package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := RequestID(Country(nil)(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("oops"))
	}))))

	req := httptest.NewRequest(http.MethodPost, "/api/generate-video", nil)
	req.Header.Set("X-Request-ID", "req-1")
	req.Header.Set("CF-IPCountry", "nl")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" {
		t.Fatalf("level = %v, want error", entry["level"])
	}
	if entry["status"] != float64(http.StatusBadGateway) || entry["bytes"] != float64(4) {
		t.Fatalf("unexpected status/bytes: %v", entry)
	}
	if entry["request_id"] != "req-1" || entry["country"] != "NL" || entry["path"] != "/api/generate-video" {
		t.Fatalf("unexpected fields: %v", entry)
	}
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	var got string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", string(bytes.Repeat([]byte("a"), 200)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
	if rec.Header().Get("X-Request-ID") != got {
		t.Fatal("response header mismatch")
	}
}
