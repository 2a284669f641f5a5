package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rajat290/cinex-booking/internal/model"
)

// ShowRepo provides data access to the shows and show_seats tables.  A
// show and its seat layout are written together in one transaction when
// the catalog registers a screening; the layout is immutable afterwards.
// All timestamps are stored in UTC.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a new ShowRepo bound to the provided database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Create inserts a show together with its full seat layout.  The
// generated ID is populated on the passed show.  Both inserts run in a
// single transaction so a show can never exist without its seats.
func (r *ShowRepo) Create(ctx context.Context, show *model.Show, layout []model.Seat) error {
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

	const q = `INSERT INTO shows (title, screen, starts_at, base_price_cents) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		show.Title, show.Screen, show.StartsAt.UTC().Format("2006-01-02 15:04:05"), show.BasePriceCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	show.ID = uint64(id)

	if len(layout) > 0 {
		query := `INSERT INTO show_seats (show_id, label, class, price_cents) VALUES `
		args := make([]interface{}, 0, len(layout)*4)
		for i, s := range layout {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, show.ID, s.Label, s.Class, s.PriceCents)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a single show.  ErrShowNotFound is returned when the
// ID does not exist.
func (r *ShowRepo) GetByID(ctx context.Context, showID uint64) (*model.Show, error) {
	const q = `SELECT id, title, screen, starts_at, base_price_cents, created_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, showID).Scan(
		&s.ID, &s.Title, &s.Screen, &s.StartsAt, &s.BasePriceCents, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all shows ordered by start time ascending.
func (r *ShowRepo) List(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT id, title, screen, starts_at, base_price_cents, created_at FROM shows ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.Title, &s.Screen, &s.StartsAt, &s.BasePriceCents, &s.CreatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

// LoadLayouts returns every show's seat layout keyed by show ID, in
// insertion order per show.  Used at startup to rebuild the in-memory
// inventories.
func (r *ShowRepo) LoadLayouts(ctx context.Context) (map[uint64][]model.Seat, error) {
	const q = `SELECT show_id, label, class, price_cents FROM show_seats ORDER BY show_id, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	layouts := make(map[uint64][]model.Seat)
	for rows.Next() {
		var showID uint64
		var s model.Seat
		if err := rows.Scan(&showID, &s.Label, &s.Class, &s.PriceCents); err != nil {
			return nil, err
		}
		layouts[showID] = append(layouts[showID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return layouts, nil
}
