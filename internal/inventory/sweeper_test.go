package inventory

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperReclaimsExpiredHolds(t *testing.T) {
	clk := newFakeClock()
	m := newTestManager(t, clk, "A1", "A2")

	_, err := m.RequestHold(1, []string{"A1", "A2"}, "buyer-x", time.Minute)
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)

	s := NewSweeper(m, 5*time.Millisecond, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Inspect the held map directly: reads reclaim lazily, so only the
	// sweeper itself can have emptied it while we merely look.
	inv, err := m.get(1)
	require.NoError(t, err)
	heldCount := func() int {
		inv.mu.Lock()
		defer inv.mu.Unlock()
		return len(inv.held)
	}

	deadline := time.After(2 * time.Second)
	for heldCount() > 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not reclaim expired holds in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}

	avail, err := m.AvailableSeats(1)
	require.NoError(t, err)
	assert.Len(t, avail, 2)
}
