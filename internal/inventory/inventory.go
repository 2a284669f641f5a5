package inventory

import (
	"sync"
	"time"

	"github.com/rajat290/cinex-booking/internal/model"
)

// Seat display statuses derived from the partition.  These mirror the
// values the frontend renders on the seat map.
const (
	StatusAvailable = "AVAILABLE"
	StatusHeld      = "HELD"
	StatusSold      = "SOLD"
)

// ShowInventory is the single source of truth for the seat state of one
// show.  Every seat label is, at any instant, in exactly one of three
// partitions: available (implicit), held or sold.  All methods take the
// per-show mutex so that check-then-act sequences are atomic for this
// show without contending with other shows.
type ShowInventory struct {
	mu sync.Mutex

	showID uint64
	order  []string              // seat labels in layout order
	seats  map[string]model.Seat // label -> seat (class, price)
	held   map[string]model.HoldRecord
	sold   map[string]struct{}
}

// newShowInventory builds the inventory for a freshly registered show.
// The layout is fixed for the lifetime of the show.
func newShowInventory(showID uint64, layout []model.Seat) *ShowInventory {
	inv := &ShowInventory{
		showID: showID,
		order:  make([]string, 0, len(layout)),
		seats:  make(map[string]model.Seat, len(layout)),
		held:   make(map[string]model.HoldRecord),
		sold:   make(map[string]struct{}),
	}
	for _, s := range layout {
		if _, dup := inv.seats[s.Label]; dup {
			continue
		}
		inv.order = append(inv.order, s.Label)
		inv.seats[s.Label] = s
	}
	return inv
}

// reclaimExpiredLocked deletes every hold whose expiry has passed and
// returns the freed labels.  Callers must hold mu.  Deleting is all that
// is needed: availability is derived, so the seat reappears in the
// available set on the next read.
func (inv *ShowInventory) reclaimExpiredLocked(now time.Time) []string {
	var freed []string
	for label, h := range inv.held {
		if h.Expired(now) {
			delete(inv.held, label)
			freed = append(freed, label)
		}
	}
	return freed
}

// validateLocked checks that the requested labels are non-empty, distinct
// and members of the layout.  It returns the deduplicated labels in
// request order.  Callers must hold mu.
func (inv *ShowInventory) validateLocked(labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, ErrNoSeats
	}
	seen := make(map[string]struct{}, len(labels))
	unique := make([]string, 0, len(labels))
	var unknown []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		if _, ok := inv.seats[l]; !ok {
			unknown = append(unknown, l)
			continue
		}
		unique = append(unique, l)
	}
	if len(unknown) > 0 {
		return nil, &InvalidSeatError{Seats: unknown}
	}
	if len(unique) == 0 {
		return nil, ErrNoSeats
	}
	return unique, nil
}

// AvailableSeats returns the labels currently in the available partition,
// in layout order.  Expired holds are reclaimed first so a lapsed hold
// never hides a seat.
func (inv *ShowInventory) AvailableSeats(now time.Time) []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.reclaimExpiredLocked(now)
	out := make([]string, 0, len(inv.order))
	for _, l := range inv.order {
		if _, sold := inv.sold[l]; sold {
			continue
		}
		if _, held := inv.held[l]; held {
			continue
		}
		out = append(out, l)
	}
	return out
}

// IsAvailable reports whether a single seat is currently available.
func (inv *ShowInventory) IsAvailable(label string, now time.Time) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, ok := inv.seats[label]; !ok {
		return false
	}
	if _, sold := inv.sold[label]; sold {
		return false
	}
	if h, held := inv.held[label]; held && !h.Expired(now) {
		return false
	}
	return true
}

// SeatState is one row of the public seat map.
type SeatState struct {
	Label      string `json:"label"`
	Class      string `json:"class"`
	PriceCents uint32 `json:"price_cents"`
	Status     string `json:"status"`
}

// SeatMap returns the full layout with the derived status of every seat,
// in layout order.  Intended for display reads only; hold and finalize
// decisions always go through the mutating methods below.
func (inv *ShowInventory) SeatMap(now time.Time) []SeatState {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.reclaimExpiredLocked(now)
	out := make([]SeatState, 0, len(inv.order))
	for _, l := range inv.order {
		s := inv.seats[l]
		st := StatusAvailable
		if _, sold := inv.sold[l]; sold {
			st = StatusSold
		} else if _, held := inv.held[l]; held {
			st = StatusHeld
		}
		out = append(out, SeatState{Label: s.Label, Class: s.Class, PriceCents: s.PriceCents, Status: st})
	}
	return out
}

// Hold grants the holder an exclusive claim on every requested seat until
// expiresAt, or fails entirely.  Expired holds are reclaimed before the
// availability check so a lapsed hold never blocks a new buyer.  It
// returns the deduplicated labels actually held, in request order; on
// failure it returns UnavailableError naming the seats that blocked the
// request, and zero seats from the call are held afterwards.
func (inv *ShowInventory) Hold(labels []string, holderToken string, now, expiresAt time.Time) ([]string, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	unique, err := inv.validateLocked(labels)
	if err != nil {
		return nil, err
	}
	inv.reclaimExpiredLocked(now)
	var blocked []string
	for _, l := range unique {
		if _, sold := inv.sold[l]; sold {
			blocked = append(blocked, l)
			continue
		}
		if _, held := inv.held[l]; held {
			blocked = append(blocked, l)
		}
	}
	if len(blocked) > 0 {
		return nil, &UnavailableError{Seats: blocked}
	}
	for _, l := range unique {
		inv.held[l] = model.HoldRecord{
			Seat:        l,
			HolderToken: holderToken,
			CreatedAt:   now,
			ExpiresAt:   expiresAt,
		}
	}
	return unique, nil
}

// Release removes the holds on the given seats that are owned by the
// token.  Seats not held by that token are silently skipped, making the
// call idempotent and safe to race against the sweeper.  It returns the
// labels actually released.
func (inv *ShowInventory) Release(labels []string, holderToken string) []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	released := make([]string, 0, len(labels))
	for _, l := range labels {
		if h, ok := inv.held[l]; ok && h.HolderToken == holderToken {
			delete(inv.held, l)
			released = append(released, l)
		}
	}
	return released
}

// ValidateHold checks that every seat carries an unexpired hold owned by
// the token and returns the captured seats (with class and price) on
// success.  On any mismatch it returns HoldInvalidError naming the
// offending seats.  The latest expiry among the holds is returned so
// callers can report when the claim lapses.
func (inv *ShowInventory) ValidateHold(labels []string, holderToken string, now time.Time) ([]model.Seat, time.Time, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	unique, err := inv.validateLocked(labels)
	if err != nil {
		return nil, time.Time{}, err
	}
	var bad []string
	var latest time.Time
	for _, l := range unique {
		h, ok := inv.held[l]
		if !ok || h.HolderToken != holderToken || h.Expired(now) {
			bad = append(bad, l)
			continue
		}
		if h.ExpiresAt.After(latest) {
			latest = h.ExpiresAt
		}
	}
	if len(bad) > 0 {
		return nil, time.Time{}, &HoldInvalidError{Seats: bad}
	}
	captured := make([]model.Seat, 0, len(unique))
	for _, l := range unique {
		captured = append(captured, inv.seats[l])
	}
	return captured, latest, nil
}

// Commit atomically converts the holds on the given seats into sales.
// Every seat must carry an unexpired hold owned by the token; otherwise
// the whole call fails with HoldInvalidError and zero seats move to sold.
func (inv *ShowInventory) Commit(labels []string, holderToken string, now time.Time) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	unique, err := inv.validateLocked(labels)
	if err != nil {
		return err
	}
	var bad []string
	for _, l := range unique {
		h, ok := inv.held[l]
		if !ok || h.HolderToken != holderToken || h.Expired(now) {
			bad = append(bad, l)
		}
	}
	if len(bad) > 0 {
		return &HoldInvalidError{Seats: bad}
	}
	for _, l := range unique {
		delete(inv.held, l)
		inv.sold[l] = struct{}{}
	}
	return nil
}

// MarkSold forces the given seats into the sold partition, dropping any
// holds on them.  Used only when rebuilding state from confirmed
// bookings at startup.
func (inv *ShowInventory) MarkSold(labels []string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, l := range labels {
		if _, ok := inv.seats[l]; !ok {
			continue
		}
		delete(inv.held, l)
		inv.sold[l] = struct{}{}
	}
}

// Counts returns the sizes of the held and sold partitions after
// reclaiming expired holds.  Used by the sweeper log line and tests.
func (inv *ShowInventory) Counts(now time.Time) (held, sold int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.reclaimExpiredLocked(now)
	return len(inv.held), len(inv.sold)
}
