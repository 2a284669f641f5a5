package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rajat290/cinex-booking/internal/inventory"
)

// HoldHandler serves the temporary seat claim endpoints.  Both routes
// require authentication; the JWT subject is the holder token and the
// only key that can later release or finalize the claim.
type HoldHandler struct {
	inv *inventory.Manager
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(inv *inventory.Manager) *HoldHandler {
	return &HoldHandler{inv: inv}
}

// holdRequest asks for a time-boxed claim on a set of seats.  TTLSeconds
// is optional; zero selects the server default and values above the
// configured cap are rejected.
type holdRequest struct {
	SeatIDs    []string `json:"seat_ids"`
	TTLSeconds int64    `json:"ttl_seconds"`
}

// releaseRequest gives seats back before the hold expires naturally.
type releaseRequest struct {
	SeatIDs []string `json:"seat_ids"`
}

// Hold claims every requested seat for the caller or fails entirely.
// On conflict the response lists the seats that blocked the request so
// the client can offer alternatives.  POST /v1/shows/:id/hold.
func (h *HoldHandler) Hold(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req holdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.TTLSeconds < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_hold_ttl"})
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	res, err := h.inv.RequestHold(showID, req.SeatIDs, holderToken(c), ttl)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"seat_ids":   res.Seats,
		"expires_at": res.ExpiresAt,
	})
}

// Release drops the caller's holds on the given seats.  Seats the caller
// does not hold are skipped, so retrying after a timeout is harmless;
// the response reports which labels were actually freed.
// POST /v1/shows/:id/release.
func (h *HoldHandler) Release(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req releaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	released, err := h.inv.ReleaseHold(showID, req.SeatIDs, holderToken(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}
