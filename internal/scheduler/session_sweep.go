package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

// Sweeper is anything that drops expired entries and reports how many.
type Sweeper interface {
	Sweep() int
}

// SessionSweeper periodically removes idle sessions
type SessionSweeper struct {
	sessions Sweeper
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewSessionSweeper(sessions Sweeper, log logger.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		logger:   log.Named("sessions"),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (ss *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ss.Sweep()
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (ss *SessionSweeper) Stop() {
	close(ss.stopCh)
}

// Sweep runs a single pass
func (ss *SessionSweeper) Sweep() int {
	removed := ss.sessions.Sweep()
	if removed > 0 {
		ss.logger.Info("idle sessions removed", logger.Int("count", removed))
	} else {
		ss.logger.Debug("no idle sessions")
	}
	return removed
}
