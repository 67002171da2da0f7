package history

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RunSweeper deletes sessions idle for longer than ttl every interval until
// ctx is done.
func RunSweeper(ctx context.Context, s Sweeper, ttl, interval time.Duration, logger zerolog.Logger) {
	if s == nil || ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = ttl / 4
		if interval < time.Minute {
			interval = time.Minute
		}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.Sweep(ctx, now.Add(-ttl))
			if err != nil {
				logger.Error().Err(err).Msg("history sweep failed")
				continue
			}
			if n > 0 {
				logger.Info().Int64("records", n).Msg("expired idle history")
			}
		}
	}
}
