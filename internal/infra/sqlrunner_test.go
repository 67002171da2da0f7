package infra

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func TestSplitSQLMarker(t *testing.T) {
	query := "--sql 19d6820b-f7cb-46db-b8f3-1f18cf73e154\nselect 1;\n"
	marker, body, err := SplitSQLMarker(query)
	if err != nil {
		t.Fatalf("SplitSQLMarker error: %v", err)
	}
	if marker != "19d6820b-f7cb-46db-b8f3-1f18cf73e154" {
		t.Fatalf("marker = %q", marker)
	}
	if body != "select 1;" {
		t.Fatalf("body = %q", body)
	}
}

func TestSplitSQLMarkerRejects(t *testing.T) {
	cases := map[string]string{
		"missing":   "select 1;",
		"not_uuid":  "--sql abc\nselect 1;",
		"uppercase": "--sql 19D6820B-F7CB-46DB-B8F3-1F18CF73E154\nselect 1;",
		"empty":     "",
	}
	for name, query := range cases {
		if _, _, err := SplitSQLMarker(query); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("load: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped ErrNoRows not detected")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatal("unexpected match")
	}
}

func TestSQLRunnerDoneLevels(t *testing.T) {
	var buf bytes.Buffer
	r := &SQLRunner{Logger: zerolog.New(&buf), SlowQuery: 10 * time.Millisecond}

	r.done("m-fast", "exec", time.Now()).Msg("fast")
	r.done("m-slow", "exec", time.Now().Add(-time.Second)).Msg("slow")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"debug"`) || !strings.Contains(lines[0], `"marker":"m-fast"`) {
		t.Fatalf("fast line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"warn"`) || !strings.Contains(lines[1], `"op":"exec"`) {
		t.Fatalf("slow line = %s", lines[1])
	}
}
