package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

// Postgres stores history rows in the generation_history table. Session
// activity is tracked in generation_sessions.last_seen for Sweep.
type Postgres struct {
	sql           infra.SQLExecutor
	maxPerSession int
	now           func() time.Time
}

func NewPostgres(sql infra.SQLExecutor, maxPerSession int) *Postgres {
	if maxPerSession <= 0 {
		maxPerSession = DefaultListLimit
	}
	return &Postgres{sql: sql, maxPerSession: maxPerSession, now: time.Now}
}

// EnsureSchema creates the tables and index when missing and seeds
// last_seen for sessions written before activity tracking existed.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{
		sqlinline.QCreateGenerationHistory,
		sqlinline.QCreateGenerationHistoryIndex,
		sqlinline.QCreateGenerationSessions,
		sqlinline.QBackfillGenerationSessions,
	} {
		if _, err := p.sql.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// Ping checks that the table is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	var n int64
	if err := p.sql.QueryRow(ctx, sqlinline.QPingHistory).Scan(&n); err != nil {
		return fmt.Errorf("ping history: %w", err)
	}
	return nil
}

func (p *Postgres) Append(ctx context.Context, sessionID string, rec domain.GenerationRecord) error {
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if _, err := p.sql.Exec(ctx, sqlinline.QInsertGeneration,
		rec.ID, sessionID, rec.Prompt, rec.VideoURL, string(rec.Status), meta, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	if _, err := p.sql.Exec(ctx, sqlinline.QTrimSessionGenerations, sessionID, p.maxPerSession); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	if _, err := p.sql.Exec(ctx, sqlinline.QTouchSession, sessionID, p.now().UTC()); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (p *Postgres) refresh(ctx context.Context, sessionID string) error {
	if _, err := p.sql.Exec(ctx, sqlinline.QRefreshSession, sessionID, p.now().UTC()); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, sessionID string, limit int) ([]domain.GenerationRecord, error) {
	if err := p.refresh(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := p.sql.Query(ctx, sqlinline.QListGenerations, sessionID, clampLimit(limit, p.maxPerSession))
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	out := []domain.GenerationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows, sessionID)
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

func (p *Postgres) Get(ctx context.Context, sessionID, id string) (domain.GenerationRecord, error) {
	if err := p.refresh(ctx, sessionID); err != nil {
		return domain.GenerationRecord{}, err
	}
	row := p.sql.QueryRow(ctx, sqlinline.QSelectGeneration, sessionID, id)
	rec, err := scanRecord(row, sessionID)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.GenerationRecord{}, ErrNotFound
		}
		return domain.GenerationRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) Clear(ctx context.Context, sessionID string) error {
	for _, q := range []string{sqlinline.QDeleteSessionGenerations, sqlinline.QDeleteSession} {
		if _, err := p.sql.Exec(ctx, q, sessionID); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	return nil
}

// Sweep drops sessions whose last append, list or get was before idleBefore.
func (p *Postgres) Sweep(ctx context.Context, idleBefore time.Time) (int64, error) {
	tag, err := p.sql.Exec(ctx, sqlinline.QDeleteIdleSessions, idleBefore)
	if err != nil {
		return 0, fmt.Errorf("sweep history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row, sessionID string) (domain.GenerationRecord, error) {
	var (
		rec    domain.GenerationRecord
		status string
		meta   []byte
	)
	if err := row.Scan(&rec.ID, &rec.Prompt, &rec.VideoURL, &status, &meta, &rec.CreatedAt); err != nil {
		return domain.GenerationRecord{}, err
	}
	rec.SessionID = sessionID
	rec.Status = domain.GenerationStatus(status)
	rec.CreatedAt = rec.CreatedAt.UTC()
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &rec.Metadata); err != nil {
			return domain.GenerationRecord{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return rec, nil
}

var (
	_ Store   = (*Postgres)(nil)
	_ Sweeper = (*Postgres)(nil)
)
