package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rajat290/cinex-booking/internal/model"
)

// BookingRepo provides data access to the bookings and booking_seats
// tables.  A booking and its seat snapshot are written together in one
// transaction; afterwards only the status columns ever change.  All
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking and its seats within a single transaction and
// populates the generated ID and timestamps on the passed record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO bookings (ordinal, code, show_id, holder_token, status, payment_status, payment_ref, total_amount_cents)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.Ordinal, b.Code, b.ShowID, b.HolderToken, b.Status, b.PaymentStatus, b.PaymentRef, b.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(b.Seats) > 0 {
		query := `INSERT INTO booking_seats (booking_id, label, class, price_cents) VALUES `
		args := make([]interface{}, 0, len(b.Seats)*4)
		for i, s := range b.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, b.ID, s.Label, s.Class, s.PriceCents)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	// Query back the row to populate DB-assigned timestamps.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a booking with its seat snapshot.  ErrBookingNotFound
// is returned when the ID does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, ordinal, code, show_id, holder_token, status, payment_status, payment_ref, total_amount_cents, created_at, updated_at
               FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Ordinal, &b.Code, &b.ShowID, &b.HolderToken, &b.Status,
		&b.PaymentStatus, &b.PaymentRef, &b.TotalAmountCents, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Seats, err = r.seatsFor(ctx, b.ID); err != nil {
		return nil, err
	}
	return &b, nil
}

// TransitionStatus moves a booking's status columns from an expected
// status to a new one in a single compare-and-set statement.  The WHERE
// clause on the current status is what serializes racing payment
// callbacks: only one caller ever sees its row change.  The seat
// snapshot is never touched.
func (r *BookingRepo) TransitionStatus(ctx context.Context, id uint64, from, to, paymentStatus string) error {
	const q = `UPDATE bookings SET status = ?, payment_status = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, to, paymentStatus, id, from)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is missing or its status is no longer `from`.
		var cur string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&cur)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

// ListByHolder returns all bookings created by the token, newest first,
// each with its seat snapshot.
func (r *BookingRepo) ListByHolder(ctx context.Context, holderToken string) ([]model.Booking, error) {
	const q = `SELECT id, ordinal, code, show_id, holder_token, status, payment_status, payment_ref, total_amount_cents, created_at, updated_at
               FROM bookings WHERE holder_token = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, holderToken)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.Ordinal, &b.Code, &b.ShowID, &b.HolderToken, &b.Status,
			&b.PaymentStatus, &b.PaymentRef, &b.TotalAmountCents, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].Seats, err = r.seatsFor(ctx, bookings[i].ID); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// MaxOrdinal returns the highest booking ordinal ever assigned, zero
// when the table is empty.  Used to seed the code allocator at startup.
func (r *BookingRepo) MaxOrdinal(ctx context.Context) (uint64, error) {
	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(ordinal) FROM bookings`).Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return uint64(max.Int64), nil
}

// SoldSeatsByShow returns the labels of every seat belonging to a
// CONFIRMED booking, grouped by show.  Used at startup to rebuild the
// sold partition of the in-memory inventories.
func (r *BookingRepo) SoldSeatsByShow(ctx context.Context) (map[uint64][]string, error) {
	const q = `SELECT b.show_id, bs.label
               FROM bookings b
               JOIN booking_seats bs ON bs.booking_id = b.id
               WHERE b.status = ?`
	rows, err := r.db.QueryContext(ctx, q, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sold := make(map[uint64][]string)
	for rows.Next() {
		var showID uint64
		var label string
		if err := rows.Scan(&showID, &label); err != nil {
			return nil, err
		}
		sold[showID] = append(sold[showID], label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sold, nil
}

// seatsFor loads the seat snapshot for one booking in insertion order.
func (r *BookingRepo) seatsFor(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
	const q = `SELECT label, class, price_cents FROM booking_seats WHERE booking_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.BookingSeat, 0)
	for rows.Next() {
		var s model.BookingSeat
		if err := rows.Scan(&s.Label, &s.Class, &s.PriceCents); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
