// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is finalized after a
// successful payment.  It carries enough for downstream consumers (the
// notification service, analytics) to act without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	BookingCode      string   `json:"booking_code"`
	ShowID           uint64   `json:"show_id"`
	HolderToken      string   `json:"holder_token"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
