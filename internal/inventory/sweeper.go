package inventory

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the background process that reclaims seats whose holds
// outlived their expiry without being finalized or released.  Sweeping
// is best-effort and idempotent: the hold records it deletes are exactly
// the ones every mutating inventory operation would skip anyway, so
// running it zero or many times over the same expired hold is safe.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	log      *slog.Logger
}

// NewSweeper builds a sweeper over the given manager.  A non-positive
// interval falls back to 30 seconds.
func NewSweeper(m *Manager, interval time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{manager: m, interval: interval, log: log}
}

// Run sweeps on a fixed ticker until the context is cancelled.  It is
// intended to be launched as a goroutine from main.  Nothing the sweep
// encounters is fatal; a tick that frees nothing is silent.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.Info("hold sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			if freed := s.manager.SweepExpired(); freed > 0 {
				s.log.Info("reclaimed expired holds", slog.Int("seats", freed))
			}
		}
	}
}
