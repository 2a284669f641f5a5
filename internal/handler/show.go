package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rajat290/cinex-booking/internal/inventory"
	"github.com/rajat290/cinex-booking/internal/model"
	"github.com/rajat290/cinex-booking/internal/repository"
)

// ShowHandler serves the show catalog: registration of new screenings
// (admin only) and the public listing and seat-map reads.
type ShowHandler struct {
	shows *repository.ShowRepo
	inv   *inventory.Manager
}

// NewShowHandler constructs a ShowHandler.
func NewShowHandler(shows *repository.ShowRepo, inv *inventory.Manager) *ShowHandler {
	return &ShowHandler{shows: shows, inv: inv}
}

// layoutRow describes one row of seats in a show registration request.
// Labels are generated as row letter + 1-based seat number ("A1".."A10").
// Class defaults to REGULAR and price to the show's base price.
type layoutRow struct {
	Row        string `json:"row"`
	Seats      int    `json:"seats"`
	Class      string `json:"class"`
	PriceCents uint32 `json:"price_cents"`
}

// createShowRequest is the payload for registering a screening.  The
// catalog service hands over the layout; this service is the source of
// truth for seat state from that point on.
type createShowRequest struct {
	Title          string      `json:"title"`
	Screen         string      `json:"screen"`
	StartsAt       time.Time   `json:"starts_at"`
	BasePriceCents uint32      `json:"base_price_cents"`
	Rows           []layoutRow `json:"rows"`
}

// Create registers a show together with its seat layout, persists both
// and brings the in-memory inventory online.  POST /v1/shows (admin).
func (h *ShowHandler) Create(c echo.Context) error {
	var req createShowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == "" || req.Screen == "" || req.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, screen and starts_at are required"})
	}
	if len(req.Rows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat row is required"})
	}

	layout := make([]model.Seat, 0)
	seen := make(map[string]bool)
	for _, row := range req.Rows {
		if row.Row == "" || row.Seats <= 0 || row.Seats > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each row needs a name and 1-100 seats"})
		}
		class := row.Class
		if class == "" {
			class = "REGULAR"
		}
		price := row.PriceCents
		if price == 0 {
			price = req.BasePriceCents
		}
		for n := 1; n <= row.Seats; n++ {
			label := fmt.Sprintf("%s%d", row.Row, n)
			if seen[label] {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate row name: " + row.Row})
			}
			seen[label] = true
			layout = append(layout, model.Seat{Label: label, Class: class, PriceCents: price})
		}
	}

	show := &model.Show{
		Title:          req.Title,
		Screen:         req.Screen,
		StartsAt:       req.StartsAt.UTC(),
		BasePriceCents: req.BasePriceCents,
	}
	if err := h.shows.Create(c.Request().Context(), show, layout); err != nil {
		return respondDomainError(c, err)
	}
	h.inv.Register(show.ID, layout)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         show.ID,
		"title":      show.Title,
		"screen":     show.Screen,
		"starts_at":  show.StartsAt,
		"seat_count": len(layout),
	})
}

// List returns all registered shows ordered by start time.
// GET /v1/shows.
func (h *ShowHandler) List(c echo.Context) error {
	shows, err := h.shows.List(c.Request().Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(shows))
	for _, s := range shows {
		out = append(out, echo.Map{
			"id":               s.ID,
			"title":            s.Title,
			"screen":           s.Screen,
			"starts_at":        s.StartsAt,
			"base_price_cents": s.BasePriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

// SeatMap returns the per-seat display state for a show: every seat with
// its class, price and AVAILABLE/HELD/SOLD status.  The response is
// served through the Redis cache, so it may lag live state by the cache
// TTL; the hold endpoint is the only arbiter of availability.
// GET /v1/shows/:id/seats.
func (h *ShowHandler) SeatMap(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	seats, err := h.inv.SeatMap(showID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "seats": seats})
}
