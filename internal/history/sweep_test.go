package history

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep(ctx context.Context, idleBefore time.Time) (int64, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	sweeper := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, sweeper, time.Hour, 5*time.Millisecond, zerolog.Nop())
		close(done)
	}()
	deadline := time.After(2 * time.Second)
	for sweeper.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunSweeper did not return after cancel")
	}
}

func TestRunSweeperDisabledWithoutTTL(t *testing.T) {
	sweeper := &countingSweeper{}
	RunSweeper(context.Background(), sweeper, 0, time.Millisecond, zerolog.Nop())
	if sweeper.calls.Load() != 0 {
		t.Fatal("sweeper should not run without ttl")
	}
}
