// Show persistence. A Show is a scheduled screening of a movie on a screen;
// its seat ledger is created alongside it (see SeatRepo.CreateGridTx), so
// show creation always runs inside a transaction spanning both tables.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinetix/movie-ticket-booking/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions that
// span multiple repositories (show + seat grid creation, seat booking).
func (r *ShowRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new show within the caller's transaction and populates
// the generated ID and created_at on the given model. The caller must commit
// or roll back.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, starts_at, screen_number, total_seats, price_cents)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.StartsAt.UTC(), s.ScreenNumber, s.TotalSeats, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT created_at FROM shows WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt)
}

// GetByID retrieves a show by its ID. Returns ErrShowNotFound when there is
// no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, starts_at, screen_number, total_seats, price_cents, created_at
	           FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.StartsAt, &s.ScreenNumber, &s.TotalSeats, &s.PriceCents, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDTx is GetByID executed in the caller's transaction. The booking
// service reads the show's price inside the booking transaction so the total
// is computed against a consistent snapshot.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, starts_at, screen_number, total_seats, price_cents, created_at
	           FROM shows WHERE id = ?`
	var s model.Show
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.StartsAt, &s.ScreenNumber, &s.TotalSeats, &s.PriceCents, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListUpcomingByMovie returns future shows for a movie ordered by start time
// ascending. The cutoff is passed in explicitly so handlers and tests agree
// on what "now" means.
func (r *ShowRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64, after time.Time) ([]model.Show, error) {
	const q = `SELECT id, movie_id, starts_at, screen_number, total_seats, price_cents, created_at
	           FROM shows
	           WHERE movie_id = ? AND starts_at > ?
	           ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID, after.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(
			&s.ID, &s.MovieID, &s.StartsAt, &s.ScreenNumber, &s.TotalSeats, &s.PriceCents, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

// ListRecent returns the most recently created shows, newest first. Used by
// the admin dashboard.
func (r *ShowRepo) ListRecent(ctx context.Context, limit int) ([]model.Show, error) {
	const q = `SELECT id, movie_id, starts_at, screen_number, total_seats, price_cents, created_at
	           FROM shows ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(
			&s.ID, &s.MovieID, &s.StartsAt, &s.ScreenNumber, &s.TotalSeats, &s.PriceCents, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}
