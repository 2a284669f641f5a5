package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajat290/cinex-booking/internal/inventory"
	"github.com/rajat290/cinex-booking/internal/model"
)

func newTestInventory(t *testing.T) *inventory.Manager {
	t.Helper()
	m := inventory.NewManager()
	m.Register(1, []model.Seat{
		{Label: "A1", Class: "REGULAR", PriceCents: 1500},
		{Label: "A2", Class: "REGULAR", PriceCents: 1500},
		{Label: "P1", Class: "PREMIUM", PriceCents: 2500},
	})
	return m
}

// postJSON runs a handler against a synthetic request with the holder
// identity already injected, the way the JWT middleware would.
func postJSON(t *testing.T, h echo.HandlerFunc, path, paramID, holder, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	c.Set("user_id", holder)
	err := h(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHoldGrantsAllSeats(t *testing.T) {
	h := NewHoldHandler(newTestInventory(t))

	rec := postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x",
		`{"seat_ids":["A1","A2"]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		SeatIDs   []string `json:"seat_ids"`
		ExpiresAt string   `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A1", "A2"}, resp.SeatIDs)
	assert.NotEmpty(t, resp.ExpiresAt)
}

func TestHoldConflictListsBlockingSeats(t *testing.T) {
	inv := newTestInventory(t)
	h := NewHoldHandler(inv)

	rec := postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-y", `{"seat_ids":["A1","A2"]}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Error string   `json:"error"`
		Seats []string `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "seats_unavailable", resp.Error)
	assert.Equal(t, []string{"A1"}, resp.Seats)

	// The all-or-nothing failure must not have claimed A2 for user-y.
	rec = postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-z", `{"seat_ids":["A2"]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHoldReportsDeduplicatedSeats(t *testing.T) {
	h := NewHoldHandler(newTestInventory(t))

	rec := postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x",
		`{"seat_ids":["A1","A1","A2"]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		SeatIDs []string `json:"seat_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A1", "A2"}, resp.SeatIDs)
}

func TestHoldUnknownSeatsRejected(t *testing.T) {
	h := NewHoldHandler(newTestInventory(t))

	rec := postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["Z9"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Z9")
}

func TestHoldUnknownShow(t *testing.T) {
	h := NewHoldHandler(newTestInventory(t))

	rec := postJSON(t, h.Hold, "/v1/shows/99/hold", "99", "user-x", `{"seat_ids":["A1"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHoldTTLValidation(t *testing.T) {
	h := NewHoldHandler(newTestInventory(t))

	rec := postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x",
		`{"seat_ids":["A1"],"ttl_seconds":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Over the 30 minute cap.
	rec = postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x",
		`{"seat_ids":["A1"],"ttl_seconds":86400}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReleaseIsIdempotentAndOwnerScoped(t *testing.T) {
	inv := newTestInventory(t)
	h := NewHoldHandler(inv)

	rec := postJSON(t, h.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1","A2"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Another holder's release must not free the seats.
	rec = postJSON(t, h.Release, "/v1/shows/1/release", "1", "user-y", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"released":[]}`, rec.Body.String())

	rec = postJSON(t, h.Release, "/v1/shows/1/release", "1", "user-x", `{"seat_ids":["A1","A2"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"released":["A1","A2"]}`, rec.Body.String())

	// Releasing again finds nothing held but still succeeds.
	rec = postJSON(t, h.Release, "/v1/shows/1/release", "1", "user-x", `{"seat_ids":["A1","A2"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"released":[]}`, rec.Body.String())
}

func TestSeatMapReflectsPartition(t *testing.T) {
	inv := newTestInventory(t)
	holds := NewHoldHandler(inv)
	shows := NewShowHandler(nil, inv)

	rec := postJSON(t, holds.Hold, "/v1/shows/1/hold", "1", "user-x", `{"seat_ids":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/shows/1/seats", nil)
	mapRec := httptest.NewRecorder()
	c := e.NewContext(req, mapRec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, shows.SeatMap(c))

	require.Equal(t, http.StatusOK, mapRec.Code)
	var resp struct {
		ShowID uint64 `json:"show_id"`
		Seats  []struct {
			Label  string `json:"label"`
			Status string `json:"status"`
		} `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(mapRec.Body.Bytes(), &resp))
	require.Len(t, resp.Seats, 3)
	byLabel := make(map[string]string)
	for _, s := range resp.Seats {
		byLabel[s.Label] = s.Status
	}
	assert.Equal(t, "HELD", byLabel["A1"])
	assert.Equal(t, "AVAILABLE", byLabel["A2"])
	assert.Equal(t, "AVAILABLE", byLabel["P1"])
}
