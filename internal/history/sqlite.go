package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

// SQLite is a single-file durable store for local deployments.
type SQLite struct {
	db            *sql.DB
	maxPerSession int
	log           zerolog.Logger
	now           func() time.Time
}

func NewSQLite(db *sql.DB, maxPerSession int, logger zerolog.Logger) *SQLite {
	if maxPerSession <= 0 {
		maxPerSession = DefaultListLimit
	}
	return &SQLite{db: db, maxPerSession: maxPerSession, log: logger, now: time.Now}
}

// prepare strips the audit marker and logs it, as SQLRunner does for Postgres.
func (s *SQLite) prepare(query, op string) (string, error) {
	marker, body, err := infra.SplitSQLMarker(query)
	if err != nil {
		return "", err
	}
	s.log.Debug().Msgf("sqlite[%s] %s", marker, op)
	return body, nil
}

func (s *SQLite) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	body, err := s.prepare(query, "exec")
	if err != nil {
		return nil, err
	}
	return s.db.ExecContext(ctx, body, args...)
}

func (s *SQLite) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{
		sqlinline.QSQLiteCreateGenerationHistory,
		sqlinline.QSQLiteCreateGenerationHistoryIndex,
		sqlinline.QSQLiteCreateGenerationSessions,
		sqlinline.QSQLiteBackfillGenerationSessions,
	} {
		if _, err := s.exec(ctx, q); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Append(ctx context.Context, sessionID string, rec domain.GenerationRecord) error {
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if _, err := s.exec(ctx, sqlinline.QSQLiteInsertGeneration,
		rec.ID, sessionID, rec.Prompt, rec.VideoURL, string(rec.Status), string(meta), rec.CreatedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	if _, err := s.exec(ctx, sqlinline.QSQLiteTrimSessionGenerations, sessionID, sessionID, s.maxPerSession); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	if _, err := s.exec(ctx, sqlinline.QSQLiteTouchSession, sessionID, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *SQLite) refresh(ctx context.Context, sessionID string) error {
	if _, err := s.exec(ctx, sqlinline.QSQLiteRefreshSession, s.now().UnixMilli(), sessionID); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, sessionID string, limit int) ([]domain.GenerationRecord, error) {
	if err := s.refresh(ctx, sessionID); err != nil {
		return nil, err
	}
	body, err := s.prepare(sqlinline.QSQLiteListGenerations, "query")
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, body, sessionID, clampLimit(limit, s.maxPerSession))
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	out := []domain.GenerationRecord{}
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows, sessionID)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return out, nil
}

func (s *SQLite) Get(ctx context.Context, sessionID, id string) (domain.GenerationRecord, error) {
	if err := s.refresh(ctx, sessionID); err != nil {
		return domain.GenerationRecord{}, err
	}
	body, err := s.prepare(sqlinline.QSQLiteSelectGeneration, "query_row")
	if err != nil {
		return domain.GenerationRecord{}, err
	}
	rec, err := scanSQLiteRecord(s.db.QueryRowContext(ctx, body, sessionID, id), sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GenerationRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLite) Clear(ctx context.Context, sessionID string) error {
	for _, q := range []string{sqlinline.QSQLiteDeleteSessionGenerations, sqlinline.QSQLiteDeleteSession} {
		if _, err := s.exec(ctx, q, sessionID); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	return nil
}

// Sweep drops sessions whose last append, list or get was before idleBefore.
func (s *SQLite) Sweep(ctx context.Context, idleBefore time.Time) (int64, error) {
	historyBody, err := s.prepare(sqlinline.QSQLiteDeleteIdleHistory, "exec")
	if err != nil {
		return 0, err
	}
	sessionsBody, err := s.prepare(sqlinline.QSQLiteDeleteIdleSessions, "exec")
	if err != nil {
		return 0, err
	}
	cutoff := idleBefore.UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sweep history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, historyBody, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sessionsBody, cutoff); err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sweep history: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner, sessionID string) (domain.GenerationRecord, error) {
	var (
		rec     domain.GenerationRecord
		status  string
		meta    string
		created int64
	)
	if err := row.Scan(&rec.ID, &rec.Prompt, &rec.VideoURL, &status, &meta, &created); err != nil {
		return domain.GenerationRecord{}, err
	}
	rec.SessionID = sessionID
	rec.Status = domain.GenerationStatus(status)
	rec.CreatedAt = time.UnixMilli(created).UTC()
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return domain.GenerationRecord{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return rec, nil
}

var (
	_ Store   = (*SQLite)(nil)
	_ Sweeper = (*SQLite)(nil)
)
