package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cinetix/movie-ticket-booking/internal/model"
)

// BookingRepo provides persistence for bookings. A booking row is always
// created together with its seat assignments inside one transaction; the
// read methods assemble booking + movie + show + seat details for display.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within the caller's transaction, populating the
// generated ID and DB-default fields on the given model.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, show_id, total_amount_cents, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.ShowID, b.TotalAmountCents, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// BookedSeat is a seat entry inside a BookingDetail.
type BookedSeat struct {
	SeatID    uint64 `json:"seat_id"`
	SeatLabel string `json:"seat_label"`
}

// BookingDetail is a booking joined with its movie, show and seats, shaped
// for API responses.
type BookingDetail struct {
	ID               uint64       `json:"id"`
	ShowID           uint64       `json:"show_id"`
	Status           string       `json:"status"`
	TotalAmountCents uint32       `json:"total_amount_cents"`
	MovieTitle       string       `json:"movie_title"`
	StartsAt         time.Time    `json:"starts_at"`
	ScreenNumber     uint32       `json:"screen_number"`
	CreatedAt        time.Time    `json:"created_at"`
	Seats            []BookedSeat `json:"seats"`
}

const bookingDetailCols = `b.id, b.show_id, b.status, b.total_amount_cents,
	m.title, s.starts_at, s.screen_number, b.created_at`

const bookingDetailJoins = `FROM bookings b
	JOIN shows s ON s.id = b.show_id
	JOIN movies m ON m.id = s.movie_id`

// GetByIDForUser returns a single booking owned by the given user, with its
// seats ordered by row and number. sql.ErrNoRows covers both "no such
// booking" and "someone else's booking" so handlers answer 404 for both and
// never leak the existence of other users' bookings.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	q := `SELECT ` + bookingDetailCols + ` ` + bookingDetailJoins + `
	      WHERE b.id = ? AND b.user_id = ?`
	var det BookingDetail
	err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&det.ID, &det.ShowID, &det.Status, &det.TotalAmountCents,
		&det.MovieTitle, &det.StartsAt, &det.ScreenNumber, &det.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	det.Seats = []BookedSeat{}
	const seatQ = `SELECT id, seat_label FROM seats WHERE booking_id = ? ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, seatQ, det.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s BookedSeat
		if err := rows.Scan(&s.SeatID, &s.SeatLabel); err != nil {
			return nil, err
		}
		det.Seats = append(det.Seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// ListByUser returns all bookings of a user, newest first, with seats
// populated in one batched query rather than one query per booking.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	q := `SELECT ` + bookingDetailCols + ` ` + bookingDetailJoins + `
	      WHERE b.user_id = ?
	      ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.ShowID, &d.Status, &d.TotalAmountCents,
			&d.MovieTitle, &d.StartsAt, &d.ScreenNumber, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		d.Seats = []BookedSeat{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// One seat query for all bookings on the page.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	seatQ := `SELECT booking_id, id, seat_label
	          FROM seats
	          WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY booking_id, row_label, seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var s BookedSeat
		if err := srows.Scan(&bid, &s.SeatID, &s.SeatLabel); err != nil {
			return nil, err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Seats = append(details[idx].Seats, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListRecent returns the most recent bookings across all users for the admin
// dashboard, without seat details.
func (r *BookingRepo) ListRecent(ctx context.Context, limit int) ([]model.Booking, error) {
	const q = `SELECT id, user_id, show_id, total_amount_cents, status, created_at
	           FROM bookings ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ShowID, &b.TotalAmountCents, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
