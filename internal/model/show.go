package model

import "time"

// Show represents a scheduled screening of a movie.  The catalog service
// owns movie/theatre metadata; this service only needs enough to identify
// the screening and to price its seats.  A show is created together with
// its full seat layout and is never deleted afterwards so that past
// bookings keep a valid reference.
//
// Fields:
//
//	ID             – primary key identifier.
//	Title          – movie title or an external catalog reference.
//	Screen         – name of the screen/hall where the show runs.
//	StartsAt       – when the show begins.
//	BasePriceCents – default price in cents for seats without an override.
//	CreatedAt      – creation timestamp.
type Show struct {
	ID             uint64    // shows.id
	Title          string    // shows.title
	Screen         string    // shows.screen
	StartsAt       time.Time // shows.starts_at
	BasePriceCents uint32    // shows.base_price_cents
	CreatedAt      time.Time // shows.created_at
}

// Seat describes one seat of a show's layout.  The label (e.g. "A12") is
// the seat's identity for the lifetime of the show; class and price are
// captured from the catalog when the show is registered and never change.
//
// Fields:
//
//	Label      – seat identifier, unique within a show (row letter + number).
//	Class      – seating class (e.g. REGULAR, PREMIUM, RECLINER).
//	PriceCents – price in cents for this seat.
type Seat struct {
	Label      string // show_seats.label
	Class      string // show_seats.class
	PriceCents uint32 // show_seats.price_cents
}
