package model

import "time"

// Booking status values.  A booking is created PENDING the instant a hold
// is accepted for checkout and only ever moves forward: to CONFIRMED when
// the payment callback succeeds, to CANCELLED when payment fails or the
// buyer abandons, or to EXPIRED when the underlying hold lapsed before
// the payment callback arrived.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingExpired   = "EXPIRED"
)

// Payment status values mirror what the external gateway reports.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// Booking records a finalized (or in-flight) purchase of one or more
// seats for a show.  The seat list with captured prices is immutable
// after creation; status transitions are the only permitted edits.
//
// Fields:
//
//	ID               – primary key identifier.
//	Code             – human-readable sequential booking code (e.g. CNX-000042),
//	                   unique across all shows.
//	ShowID           – show being booked.
//	HolderToken      – identity that owned the seat holds at checkout time.
//	Status           – one of the Booking* constants above.
//	PaymentStatus    – one of the Payment* constants above.
//	PaymentRef       – reference handed to the external payment gateway.
//	TotalAmountCents – sum of the captured seat prices.
//	Seats            – seats purchased, with price and class captured at
//	                   checkout; never retroactively edited.
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – last status transition timestamp.
type Booking struct {
	ID               uint64        // bookings.id
	Ordinal          uint64        // bookings.ordinal, unique; the number inside Code
	Code             string        // bookings.code
	ShowID           uint64        // bookings.show_id
	HolderToken      string        // bookings.holder_token
	Status           string        // bookings.status
	PaymentStatus    string        // bookings.payment_status
	PaymentRef       string        // bookings.payment_ref
	TotalAmountCents uint32        // bookings.total_amount_cents
	Seats            []BookingSeat // joined from booking_seats
	CreatedAt        time.Time     // bookings.created_at
	UpdatedAt        time.Time     // bookings.updated_at
}

// BookingSeat is one purchased seat within a booking, with the price and
// class frozen at checkout time.
type BookingSeat struct {
	Label      string // booking_seats.label
	Class      string // booking_seats.class
	PriceCents uint32 // booking_seats.price_cents
}

// SeatLabels returns the labels of all seats in the booking, in stored order.
func (b *Booking) SeatLabels() []string {
	labels := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		labels = append(labels, s.Label)
	}
	return labels
}
