// Package repository provides MySQL persistence for shows and bookings.
// The live seat-state machine lives in the inventory package; this layer
// only stores the durable records it is rebuilt from.  Sentinel errors
// defined here let handlers distinguish failure scenarios without
// inspecting driver errors.
package repository

import "errors"

// ErrShowNotFound is returned when a show ID does not exist in the
// shows table.  Handlers should translate this into an HTTP 404.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound is returned when a booking ID does not exist.
// Handlers should translate this into an HTTP 404.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotPending is returned when a compare-and-set status transition
// finds the booking in a different status than expected, typically
// because a racing payment callback claimed it first.  Handlers should
// translate this into an HTTP 409.
var ErrNotPending = errors.New("booking is not pending")
