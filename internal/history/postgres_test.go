package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"videostudio/internal/domain"
	"videostudio/internal/sqlinline"
)

type execCall struct {
	query string
	args  []any
}

type stubExecutor struct {
	execs []execCall
	row   stubRow
	rows  *stubRows
	err   error
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, execCall{query: query, args: args})
	return pgconn.NewCommandTag("DELETE 2"), s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return s.row
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *[]byte:
			*d = v.([]byte)
		case *time.Time:
			*d = v.(time.Time)
		case *int64:
			*d = v.(int64)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

// stubRows embeds pgx.Rows so only the methods the store calls need bodies.
type stubRows struct {
	pgx.Rows
	data   [][]any
	idx    int
	closed bool
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error { return assign(r.data[r.idx-1], dest) }
func (r *stubRows) Err() error             { return nil }
func (r *stubRows) Close()                 { r.closed = true }

func rowValues(id string, created time.Time) []any {
	meta, _ := json.Marshal(domain.GenerationMetadata{Duration: 5, AspectRatio: "1:1", Style: "Nature", GenerationTimeMs: 42, Prompt: "p " + id})
	return []any{id, "p " + id, "https://cdn.test/" + id + ".mp4", "completed", meta, created}
}

func TestPostgresAppend(t *testing.T) {
	exec := &stubExecutor{}
	store := NewPostgres(exec, 20)
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	rec := record("a")
	rec.Metadata = domain.GenerationMetadata{Duration: 10, AspectRatio: "16:9", Style: "Cinematic"}
	if err := store.Append(context.Background(), "s1", rec); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if len(exec.execs) != 3 {
		t.Fatalf("expected insert, trim and touch, got %d execs", len(exec.execs))
	}
	if exec.execs[0].query != sqlinline.QInsertGeneration {
		t.Fatalf("first exec = %q", exec.execs[0].query)
	}
	if got := exec.execs[0].args[1]; got != "s1" {
		t.Fatalf("session arg = %v", got)
	}
	if exec.execs[1].query != sqlinline.QTrimSessionGenerations || exec.execs[1].args[1] != 20 {
		t.Fatalf("unexpected trim call: %+v", exec.execs[1])
	}
	touch := exec.execs[2]
	if seen, _ := touch.args[1].(time.Time); touch.query != sqlinline.QTouchSession || touch.args[0] != "s1" || !seen.Equal(now) {
		t.Fatalf("unexpected touch call: %+v", touch)
	}
}

func TestPostgresList(t *testing.T) {
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	rows := &stubRows{data: [][]any{rowValues("b", created), rowValues("a", created.Add(-time.Minute))}}
	exec := &stubExecutor{rows: rows}
	store := NewPostgres(exec, 0)
	got, err := store.List(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got[0].Metadata.Style != "Nature" || got[0].Metadata.GenerationTimeMs != 42 {
		t.Fatalf("metadata not decoded: %+v", got[0].Metadata)
	}
	if got[0].SessionID != "s1" || got[0].Status != domain.GenerationStatusCompleted {
		t.Fatalf("unexpected record: %+v", got[0])
	}
	if !rows.closed {
		t.Fatal("rows not closed")
	}
	if len(exec.execs) != 1 || exec.execs[0].query != sqlinline.QRefreshSession || exec.execs[0].args[0] != "s1" {
		t.Fatalf("list did not refresh session activity: %+v", exec.execs)
	}
}

func TestPostgresGetNotFound(t *testing.T) {
	store := NewPostgres(&stubExecutor{row: stubRow{err: pgx.ErrNoRows}}, 0)
	if _, err := store.Get(context.Background(), "s1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPostgresGet(t *testing.T) {
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	exec := &stubExecutor{row: stubRow{values: rowValues("x", created)}}
	store := NewPostgres(exec, 0)
	rec, err := store.Get(context.Background(), "s1", "x")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.ID != "x" || !rec.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(exec.execs) != 1 || exec.execs[0].query != sqlinline.QRefreshSession {
		t.Fatalf("get did not refresh session activity: %+v", exec.execs)
	}
}

func TestPostgresClearAndSweep(t *testing.T) {
	exec := &stubExecutor{}
	store := NewPostgres(exec, 0)
	if err := store.Clear(context.Background(), "s1"); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	n, err := store.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if n != 2 {
		t.Fatalf("Sweep = %d, want 2", n)
	}
	if len(exec.execs) != 3 ||
		exec.execs[0].query != sqlinline.QDeleteSessionGenerations ||
		exec.execs[1].query != sqlinline.QDeleteSession ||
		exec.execs[2].query != sqlinline.QDeleteIdleSessions {
		t.Fatalf("unexpected queries: %+v", exec.execs)
	}
}

func TestPostgresEnsureSchema(t *testing.T) {
	exec := &stubExecutor{}
	if err := NewPostgres(exec, 0).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if len(exec.execs) != 4 {
		t.Fatalf("expected 4 schema statements, got %d", len(exec.execs))
	}
	if exec.execs[3].query != sqlinline.QBackfillGenerationSessions {
		t.Fatalf("last schema statement = %q", exec.execs[3].query)
	}
}

func TestPostgresPing(t *testing.T) {
	ok := NewPostgres(&stubExecutor{row: stubRow{values: []any{int64(0)}}}, 5)
	if err := ok.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	down := NewPostgres(&stubExecutor{row: stubRow{err: errors.New("connection refused")}}, 5)
	if err := down.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
