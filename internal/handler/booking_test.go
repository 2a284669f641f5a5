package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajat290/cinex-booking/internal/booking"
	"github.com/rajat290/cinex-booking/internal/model"
	"github.com/rajat290/cinex-booking/internal/queue"
)

// memRepo is an in-memory booking.Repository for handler tests.
type memRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Booking
}

func newMemRepo() *memRepo { return &memRepo{rows: make(map[uint64]*model.Booking)} }

func (r *memRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) TransitionStatus(_ context.Context, id uint64, from, to, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != from {
		return booking.ErrNotPending
	}
	b.Status = to
	b.PaymentStatus = paymentStatus
	return nil
}

func (r *memRepo) ListByHolder(_ context.Context, holderToken string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range r.rows {
		if b.HolderToken == holderToken {
			out = append(out, *b)
		}
	}
	return out, nil
}

type memPublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
}

func (p *memPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func newBookingFixture(t *testing.T) (*BookingHandler, *HoldHandler, *memPublisher) {
	t.Helper()
	inv := newTestInventory(t)
	pub := &memPublisher{}
	svc := booking.NewService(newMemRepo(), inv, booking.NewCodeAllocator("CNX", 0), pub, nil)
	return NewBookingHandler(svc), NewHoldHandler(inv), pub
}

func TestCheckoutCreatesPendingBooking(t *testing.T) {
	bookings, holds, _ := newBookingFixture(t)

	rec := postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1","P1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-x",
		`{"show_id":1,"seat_ids":["A1","P1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Code   string `json:"code"`
		Status string `json:"status"`
		Total  uint32 `json:"total_amount_cents"`
		Seats  []struct {
			Label      string `json:"label"`
			PriceCents uint32 `json:"price_cents"`
		} `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CNX-000001", resp.Code)
	assert.Equal(t, model.BookingPending, resp.Status)
	assert.Equal(t, uint32(4000), resp.Total)
	require.Len(t, resp.Seats, 2)
}

func TestCheckoutRequiresOwnedHold(t *testing.T) {
	bookings, holds, _ := newBookingFixture(t)

	rec := postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-y",
		`{"show_id":1,"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "hold_invalid")
}

func TestConfirmFinalizesAndPublishes(t *testing.T) {
	bookings, holds, pub := newBookingFixture(t)

	rec := postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-x",
		`{"show_id":1,"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := bookingID(t, rec)

	rec = postJSON(t, bookings.Confirm, "/v1/bookings/1/confirm", fmt.Sprint(id), "user-x", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.BookingConfirmed)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	assert.Equal(t, []string{"A1"}, pub.events[0].SeatLabels)

	// Second webhook delivery must not finalize twice.
	rec = postJSON(t, bookings.Confirm, "/v1/bookings/1/confirm", fmt.Sprint(id), "user-x", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFailReleasesSeats(t *testing.T) {
	bookings, holds, _ := newBookingFixture(t)

	rec := postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-x",
		`{"show_id":1,"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := bookingID(t, rec)

	rec = postJSON(t, bookings.Fail, "/v1/bookings/1/fail", fmt.Sprint(id), "user-x", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.BookingCancelled)

	// The failed payment frees the seat for someone else immediately.
	rec = postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-y", `{"seat_ids":["A1"]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetHidesOtherHoldersBookings(t *testing.T) {
	bookings, holds, _ := newBookingFixture(t)

	rec := postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-x",
		`{"show_id":1,"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := bookingID(t, rec)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
	getRec := httptest.NewRecorder()
	c := e.NewContext(req, getRec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	c.Set("user_id", "someone-else")
	require.NoError(t, bookings.Get(c))
	assert.Equal(t, http.StatusNotFound, getRec.Code)
}

func TestCheckoutValidatesBody(t *testing.T) {
	bookings, _, _ := newBookingFixture(t)

	rec := postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-x", `{"seat_ids":["A1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, bookings.Checkout, "/v1/bookings", "", "user-x", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func bookingID(t *testing.T, rec *httptest.ResponseRecorder) uint64 {
	t.Helper()
	var resp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}
