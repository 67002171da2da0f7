package history

import (
	"context"
	"sync"
	"time"

	"videostudio/internal/domain"
)

type memorySession struct {
	records []domain.GenerationRecord // oldest first
	touched time.Time
}

// Memory is the default in-process store. Each session keeps at most
// maxPerSession records and is dropped after ttl without activity.
type Memory struct {
	mu            sync.Mutex
	sessions      map[string]*memorySession
	maxPerSession int
	ttl           time.Duration
	now           func() time.Time
}

func NewMemory(maxPerSession int, ttl time.Duration) *Memory {
	if maxPerSession <= 0 {
		maxPerSession = DefaultListLimit
	}
	return &Memory{
		sessions:      make(map[string]*memorySession),
		maxPerSession: maxPerSession,
		ttl:           ttl,
		now:           time.Now,
	}
}

func (m *Memory) Append(ctx context.Context, sessionID string, rec domain.GenerationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(sessionID, true)
	rec.SessionID = sessionID
	sess.records = append(sess.records, rec)
	if over := len(sess.records) - m.maxPerSession; over > 0 {
		sess.records = append([]domain.GenerationRecord(nil), sess.records[over:]...)
	}
	return nil
}

func (m *Memory) List(ctx context.Context, sessionID string, limit int) ([]domain.GenerationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(sessionID, false)
	if sess == nil {
		return []domain.GenerationRecord{}, nil
	}
	limit = clampLimit(limit, m.maxPerSession)
	out := make([]domain.GenerationRecord, 0, min(limit, len(sess.records)))
	for i := len(sess.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, sess.records[i])
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, sessionID, id string) (domain.GenerationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(sessionID, false)
	if sess == nil {
		return domain.GenerationRecord{}, ErrNotFound
	}
	for _, rec := range sess.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.GenerationRecord{}, ErrNotFound
}

func (m *Memory) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Sweep drops sessions idle since before idleBefore.
func (m *Memory) Sweep(ctx context.Context, idleBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, sess := range m.sessions {
		if sess.touched.Before(idleBefore) {
			n += int64(len(sess.records))
			delete(m.sessions, id)
		}
	}
	return n, nil
}

// session returns the live session, expiring it first when the ttl has
// elapsed. Callers hold m.mu.
func (m *Memory) session(id string, create bool) *memorySession {
	now := m.now()
	sess, ok := m.sessions[id]
	if ok && m.ttl > 0 && now.Sub(sess.touched) > m.ttl {
		delete(m.sessions, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		sess = &memorySession{}
		m.sessions[id] = sess
	}
	sess.touched = now
	return sess
}

var (
	_ Store   = (*Memory)(nil)
	_ Sweeper = (*Memory)(nil)
)
