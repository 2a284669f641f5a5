package model

import "time"

// HoldRecord represents a temporary, exclusive claim on a single seat
// during checkout.  Holds prevent concurrent buyers from grabbing the
// same seat while one of them is paying.  A hold is destroyed when it is
// converted to a sale, explicitly released by its holder, or reclaimed by
// the expiry sweeper after ExpiresAt has passed.
//
// Fields:
//
//	Seat        – label of the held seat.
//	HolderToken – opaque identity of whoever requested the hold; only the
//	              matching token may release or finalize it.
//	CreatedAt   – when the hold was created.
//	ExpiresAt   – when the hold lapses; never finalizable past this instant.
type HoldRecord struct {
	Seat        string
	HolderToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the hold has lapsed at the given instant.
func (h HoldRecord) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
