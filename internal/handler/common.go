// Package handler contains the HTTP layer: request decoding, invoking
// the inventory and booking services, and mapping domain errors onto
// status codes.  Handlers never touch seat state directly.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rajat290/cinex-booking/internal/booking"
	"github.com/rajat290/cinex-booking/internal/inventory"
	"github.com/rajat290/cinex-booking/internal/repository"
)

// holderToken returns the authenticated caller's identity as stored by
// the JWT middleware.  Holds and bookings are keyed by this string.
func holderToken(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}

// pathID parses a numeric path parameter.  Echo gives us the raw string;
// anything that is not a positive integer is a client error.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// respondDomainError translates errors from the inventory and booking
// packages into JSON responses.  The typed seat errors carry the exact
// labels that caused the failure so clients can re-render the seat map
// without another round trip.  Unknown errors become a 500.
func respondDomainError(c echo.Context, err error) error {
	var invalidSeats *inventory.InvalidSeatError
	var unavailable *inventory.UnavailableError
	var holdInvalid *inventory.HoldInvalidError

	switch {
	case errors.Is(err, inventory.ErrShowNotFound) || errors.Is(err, repository.ErrShowNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show_not_found"})
	case errors.Is(err, booking.ErrBookingNotFound) || errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking_not_found"})
	case errors.Is(err, inventory.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no_seats_requested"})
	case errors.Is(err, inventory.ErrInvalidTTL):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_hold_ttl"})
	case errors.Is(err, booking.ErrNotPending) || errors.Is(err, repository.ErrNotPending):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking_not_pending"})
	case errors.As(err, &invalidSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_seats", "seats": invalidSeats.Seats})
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats_unavailable", "seats": unavailable.Seats})
	case errors.As(err, &holdInvalid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "hold_invalid", "seats": holdInvalid.Seats})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_server_error"})
	}
}
