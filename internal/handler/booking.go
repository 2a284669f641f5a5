package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rajat290/cinex-booking/internal/booking"
	"github.com/rajat290/cinex-booking/internal/model"
)

// BookingHandler serves checkout and the payment-gateway callbacks.
// Confirm and Fail are invoked by the gateway webhook, which delivers
// at-least-once; the service layer makes the second delivery a 409
// instead of a double finalize.
type BookingHandler struct {
	svc *booking.Service
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// checkoutRequest turns an existing hold into a pending booking.  Every
// listed seat must currently be held by the caller.
type checkoutRequest struct {
	ShowID  uint64   `json:"show_id"`
	SeatIDs []string `json:"seat_ids"`
}

// bookingJSON shapes a booking for the API.  The holder token and the
// internal payment reference stay server-side.
func bookingJSON(b *model.Booking) echo.Map {
	seats := make([]echo.Map, 0, len(b.Seats))
	for _, s := range b.Seats {
		seats = append(seats, echo.Map{
			"label":       s.Label,
			"class":       s.Class,
			"price_cents": s.PriceCents,
		})
	}
	return echo.Map{
		"id":                 b.ID,
		"code":               b.Code,
		"show_id":            b.ShowID,
		"status":             b.Status,
		"payment_status":     b.PaymentStatus,
		"total_amount_cents": b.TotalAmountCents,
		"seats":              seats,
		"created_at":         b.CreatedAt,
		"updated_at":         b.UpdatedAt,
	}
}

// Checkout creates a PENDING booking against the caller's live holds.
// The seats stay held while the buyer pays.  POST /v1/bookings.
func (h *BookingHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}

	b, err := h.svc.Checkout(c.Request().Context(), req.ShowID, req.SeatIDs, holderToken(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, bookingJSON(b))
}

// Confirm finalizes a booking after the gateway reports a successful
// payment: held seats become sold and the confirmation event is queued.
// POST /v1/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.svc.OnPaymentConfirmed(c.Request().Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, bookingJSON(b))
}

// Fail closes out a booking after a declined payment.  The seats go
// straight back to availability instead of waiting out the hold window.
// POST /v1/bookings/:id/fail.
func (h *BookingHandler) Fail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.svc.OnPaymentFailed(c.Request().Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, bookingJSON(b))
}

// Get returns one of the caller's bookings.  Bookings belonging to other
// holders answer 404, not 403, so IDs cannot be probed.
// GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.svc.GetForHolder(c.Request().Context(), id, holderToken(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, bookingJSON(b))
}

// ListMine returns all of the caller's bookings, newest first.
// GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	bookings, err := h.svc.ListForHolder(c.Request().Context(), holderToken(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookingJSON(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}
