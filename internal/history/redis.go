package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"videostudio/internal/domain"
)

const redisKeyPrefix = "videostudio:history:"

// Redis keeps each session as a list of JSON records, newest at the head.
// Append, List and Get refresh the key ttl.
type Redis struct {
	client        redis.UniversalClient
	maxPerSession int
	ttl           time.Duration
}

func NewRedis(client redis.UniversalClient, maxPerSession int, ttl time.Duration) *Redis {
	if maxPerSession <= 0 {
		maxPerSession = DefaultListLimit
	}
	return &Redis{client: client, maxPerSession: maxPerSession, ttl: ttl}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// redisRecord carries the session id, which GenerationRecord hides from JSON.
type redisRecord struct {
	domain.GenerationRecord
	Session string `json:"sessionId"`
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Append(ctx context.Context, sessionID string, rec domain.GenerationRecord) error {
	rec.SessionID = sessionID
	raw, err := json.Marshal(redisRecord{GenerationRecord: rec, Session: sessionID})
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	key := redisKey(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, raw)
		pipe.LTrim(ctx, key, 0, int64(r.maxPerSession-1))
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, sessionID string, limit int) ([]domain.GenerationRecord, error) {
	limit = clampLimit(limit, r.maxPerSession)
	raws, err := r.readRange(ctx, sessionID, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return decodeRecords(raws)
}

func (r *Redis) Get(ctx context.Context, sessionID, id string) (domain.GenerationRecord, error) {
	raws, err := r.readRange(ctx, sessionID, -1)
	if err != nil {
		return domain.GenerationRecord{}, fmt.Errorf("get history: %w", err)
	}
	recs, err := decodeRecords(raws)
	if err != nil {
		return domain.GenerationRecord{}, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.GenerationRecord{}, ErrNotFound
}

// readRange reads the head of the session list and refreshes its ttl in the
// same round trip. EXPIRE on a missing key is a no-op.
func (r *Redis) readRange(ctx context.Context, sessionID string, stop int64) ([]string, error) {
	key := redisKey(sessionID)
	var (
		lrange *redis.StringSliceCmd
		expire *redis.BoolCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, stop)
		if r.ttl > 0 {
			expire = pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expire != nil {
		if err := expire.Err(); err != nil {
			return nil, fmt.Errorf("refresh ttl: %w", err)
		}
	}
	return lrange.Result()
}

func (r *Redis) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func decodeRecords(raws []string) ([]domain.GenerationRecord, error) {
	out := make([]domain.GenerationRecord, 0, len(raws))
	for _, raw := range raws {
		var rr redisRecord
		if err := json.Unmarshal([]byte(raw), &rr); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		rec := rr.GenerationRecord
		rec.SessionID = rr.Session
		out = append(out, rec)
	}
	return out, nil
}

var _ Store = (*Redis)(nil)
