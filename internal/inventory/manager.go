package inventory

import (
	"sync"
	"time"

	"github.com/rajat290/cinex-booking/internal/model"
)

// DefaultHoldTTL is the checkout window granted when a hold request does
// not specify its own duration.
const DefaultHoldTTL = 5 * time.Minute

// HoldResult reports a granted hold: the canonical deduplicated seat
// list actually claimed and the instant the claim lapses.
type HoldResult struct {
	Seats     []string
	ExpiresAt time.Time
}

// Manager owns one ShowInventory per registered show and exposes the
// hold / release / finalize operations on top of them.  The outer map is
// guarded by an RWMutex; seat mutation is delegated to the per-show
// mutex inside each ShowInventory, so concurrent operations on different
// shows never contend.
type Manager struct {
	mu    sync.RWMutex
	shows map[uint64]*ShowInventory

	defaultTTL time.Duration
	maxTTL     time.Duration
	now        func() time.Time
}

// Option customises a Manager at construction time.
type Option func(*Manager)

// WithHoldTTL overrides the default hold duration.
func WithHoldTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.defaultTTL = d
		}
	}
}

// WithMaxHoldTTL caps caller-supplied hold durations.
func WithMaxHoldTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.maxTTL = d
		}
	}
}

// WithClock replaces the time source; tests use this to make expiry
// deterministic.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager returns an empty Manager with a 5 minute default hold
// window and a 30 minute cap.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		shows:      make(map[uint64]*ShowInventory),
		defaultTTL: DefaultHoldTTL,
		maxTTL:     30 * time.Minute,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register creates the inventory for a show with the given seat layout.
// Registering an already-known show ID is a no-op so that startup
// rebuilds can be retried safely.
func (m *Manager) Register(showID uint64, layout []model.Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shows[showID]; ok {
		return
	}
	m.shows[showID] = newShowInventory(showID, layout)
}

// get returns the inventory for a show or ErrShowNotFound.
func (m *Manager) get(showID uint64) (*ShowInventory, error) {
	m.mu.RLock()
	inv, ok := m.shows[showID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrShowNotFound
	}
	return inv, nil
}

// RequestHold grants the holder a time-boxed exclusive claim on every
// requested seat, or fails entirely.  A zero ttl selects the configured
// default; negative or over-cap values are rejected with ErrInvalidTTL.
func (m *Manager) RequestHold(showID uint64, seats []string, holderToken string, ttl time.Duration) (HoldResult, error) {
	inv, err := m.get(showID)
	if err != nil {
		return HoldResult{}, err
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}
	if ttl < 0 || ttl > m.maxTTL {
		return HoldResult{}, ErrInvalidTTL
	}
	now := m.now()
	expiresAt := now.Add(ttl)
	held, err := inv.Hold(seats, holderToken, now, expiresAt)
	if err != nil {
		return HoldResult{}, err
	}
	return HoldResult{Seats: held, ExpiresAt: expiresAt}, nil
}

// ReleaseHold removes the holder's claims on the given seats.  Seats not
// held by the token are skipped silently; calling it twice is the same
// as calling it once.  It returns the labels actually released.
func (m *Manager) ReleaseHold(showID uint64, seats []string, holderToken string) ([]string, error) {
	inv, err := m.get(showID)
	if err != nil {
		return nil, err
	}
	return inv.Release(seats, holderToken), nil
}

// ValidateHold verifies that every seat carries an unexpired hold owned
// by the token and returns the captured seats plus the claim's expiry.
func (m *Manager) ValidateHold(showID uint64, seats []string, holderToken string) ([]model.Seat, time.Time, error) {
	inv, err := m.get(showID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return inv.ValidateHold(seats, holderToken, m.now())
}

// Commit converts the holder's claims on the given seats into sales,
// all-or-nothing.
func (m *Manager) Commit(showID uint64, seats []string, holderToken string) error {
	inv, err := m.get(showID)
	if err != nil {
		return err
	}
	return inv.Commit(seats, holderToken, m.now())
}

// AvailableSeats returns the derived available set for a show.
func (m *Manager) AvailableSeats(showID uint64) ([]string, error) {
	inv, err := m.get(showID)
	if err != nil {
		return nil, err
	}
	return inv.AvailableSeats(m.now()), nil
}

// SeatMap returns the display seat map for a show.
func (m *Manager) SeatMap(showID uint64) ([]SeatState, error) {
	inv, err := m.get(showID)
	if err != nil {
		return nil, err
	}
	return inv.SeatMap(m.now()), nil
}

// MarkSold forces seats into the sold partition when rebuilding from
// confirmed bookings at startup.
func (m *Manager) MarkSold(showID uint64, seats []string) error {
	inv, err := m.get(showID)
	if err != nil {
		return err
	}
	inv.MarkSold(seats)
	return nil
}

// SweepExpired reclaims expired holds across all shows and returns the
// number of seats freed.  Each show is locked independently; the sweep
// never holds a global lock while mutating seat state.
func (m *Manager) SweepExpired() int {
	m.mu.RLock()
	invs := make([]*ShowInventory, 0, len(m.shows))
	for _, inv := range m.shows {
		invs = append(invs, inv)
	}
	m.mu.RUnlock()

	now := m.now()
	freed := 0
	for _, inv := range invs {
		inv.mu.Lock()
		freed += len(inv.reclaimExpiredLocked(now))
		inv.mu.Unlock()
	}
	return freed
}
