package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.go")
	if err := os.WriteFile(path, []byte("package q\n\n"+body), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestLintFile(t *testing.T) {
	path := writeSource(t, "const QGood = `--sql 457b3447-1132-4008-9efc-db4f99a15ef4\nselect 1;`\n"+
		"const QMissing = `select 2;`\n"+
		"const QBad = `--sql nope\nselect 3;`\n"+
		"const QDup = `--sql 457b3447-1132-4008-9efc-db4f99a15ef4\nselect 4;`\n"+
		"const Message = \"Prompt cannot be empty\"\n")

	vs, err := lintFile(path, map[string]string{})
	if err != nil {
		t.Fatalf("lintFile error: %v", err)
	}
	got := map[string]string{}
	for _, v := range vs {
		got[v.name] = v.message
	}
	if len(got) != 3 {
		t.Fatalf("violations = %+v", vs)
	}
	if _, ok := got["QGood"]; ok {
		t.Fatal("valid query flagged")
	}
	if !strings.Contains(got["QMissing"], "missing") || !strings.Contains(got["QBad"], "missing") {
		t.Fatalf("unexpected messages: %+v", got)
	}
	if got["QDup"] != "marker already used by QGood" {
		t.Fatalf("duplicate message = %q", got["QDup"])
	}
}

func TestLintRepositoryQueries(t *testing.T) {
	seen := map[string]string{}
	entries, err := os.ReadDir("../../sqlinline")
	if err != nil {
		t.Fatalf("read sqlinline: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".go" {
			continue
		}
		vs, err := lintFile(filepath.Join("../../sqlinline", e.Name()), seen)
		if err != nil {
			t.Fatalf("lint %s: %v", e.Name(), err)
		}
		for _, v := range vs {
			t.Errorf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
		}
	}
	if len(seen) == 0 {
		t.Fatal("no queries found")
	}
}

func TestLintFilePlaceholderDialect(t *testing.T) {
	path := writeSource(t, "const QSQLiteOK = `--sql 0b0c1f5e-5b53-4f53-9d8b-1d9f0e6d7a01\nselect 1 where a = ?;`\n"+
		"const QSQLiteBad = `--sql 0b0c1f5e-5b53-4f53-9d8b-1d9f0e6d7a02\nselect 1 where a = $1;`\n"+
		"const QPostgresOK = `--sql 0b0c1f5e-5b53-4f53-9d8b-1d9f0e6d7a03\nselect 1 where a = $1;`\n"+
		"const QPostgresBad = `--sql 0b0c1f5e-5b53-4f53-9d8b-1d9f0e6d7a04\nselect 1 where a = ?;`\n")

	vs, err := lintFile(path, map[string]string{})
	if err != nil {
		t.Fatalf("lintFile error: %v", err)
	}
	got := map[string]string{}
	for _, v := range vs {
		got[v.name] = v.message
	}
	if len(got) != 2 {
		t.Fatalf("violations = %+v", vs)
	}
	if !strings.Contains(got["QSQLiteBad"], "$n") || !strings.Contains(got["QPostgresBad"], "?") {
		t.Fatalf("unexpected messages: %+v", got)
	}
}
