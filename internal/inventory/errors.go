// Package inventory implements the authoritative seat-state machine for
// scheduled shows: the available/held/sold partition, time-boxed holds,
// hold-to-sale conversion and expiry reclamation.  All seat mutation in
// the service goes through this package; nothing else may touch the
// partition directly.
package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShowNotFound is returned when an operation references a show ID that
// has never been registered.  Handlers should translate this into an HTTP
// 404 response.
var ErrShowNotFound = errors.New("show not found")

// ErrNoSeats is returned when a hold or finalize request names no seats.
var ErrNoSeats = errors.New("no seats requested")

// ErrInvalidTTL is returned when a caller supplies a non-positive hold
// duration or one exceeding the configured maximum.  Unbounded holds are
// never granted.
var ErrInvalidTTL = errors.New("invalid hold ttl")

// InvalidSeatError reports seat labels that are not part of the show's
// layout.  This is a client-side bug; handlers should translate it into a
// 400 response listing the offending labels.
type InvalidSeatError struct {
	Seats []string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("invalid seats: %s", strings.Join(e.Seats, ","))
}

// UnavailableError reports seats that blocked a hold request because they
// are sold or held by someone else.  The request fails entirely; no
// partial hold is ever granted.
type UnavailableError struct {
	Seats []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Seats, ","))
}

// HoldInvalidError reports seats whose holds could not be finalized or
// validated: the hold expired, belongs to another token, or never
// existed.  The whole operation fails; no partial conversion occurs.
type HoldInvalidError struct {
	Seats []string
}

func (e *HoldInvalidError) Error() string {
	return fmt.Sprintf("hold invalid for seats: %s", strings.Join(e.Seats, ","))
}
