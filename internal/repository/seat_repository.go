package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cinetix/movie-ticket-booking/internal/model"
)

// ErrGridTooSmall indicates a requested capacity too small to fill even one
// seat per row.
var ErrGridTooSmall = errors.New("seat grid capacity too small")

// seatGridRows is the number of rows a show's seat grid is split into.
// Capacity is distributed evenly across rows A..E, matching the fixed
// five-row auditorium layout of the seating page.
const seatGridRows = 5

// SeatRepo provides access to a show's seat ledger. Seat rows are created
// once, when the show is created, and afterwards only their booking_id
// column changes — and only through the booking transaction.
type SeatRepo struct {
	db *sql.DB
}

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// rowLabel converts a zero-based row index to an alphabetical label:
// 0 -> A, 25 -> Z, 26 -> AA. Plain base-26 with no zero digit.
func rowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var res []rune
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// CreateGridTx bulk-inserts the seat ledger for a freshly created show:
// totalSeats seats spread over seatGridRows rows, labelled A1..A<n>, B1.. and
// so on. Capacity that does not divide evenly is dropped, mirroring the
// original grid layout (a 52-seat request yields 50 seats). Runs in the
// caller's transaction so a failed insert rolls the show back too.
func (r *SeatRepo) CreateGridTx(ctx context.Context, tx *sql.Tx, showID uint64, totalSeats uint32) ([]model.Seat, error) {
	perRow := int(totalSeats) / seatGridRows
	if perRow == 0 {
		return nil, fmt.Errorf("%w: %d seats over %d rows", ErrGridTooSmall, totalSeats, seatGridRows)
	}
	seats := make([]model.Seat, 0, seatGridRows*perRow)
	query := `INSERT INTO seats (show_id, row_label, seat_number, seat_label) VALUES `
	args := make([]interface{}, 0, seatGridRows*perRow*4)
	for row := 0; row < seatGridRows; row++ {
		label := rowLabel(row)
		for col := 1; col <= perRow; col++ {
			if len(seats) > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			seatLabel := fmt.Sprintf("%s%d", label, col)
			args = append(args, showID, label, col, seatLabel)
			seats = append(seats, model.Seat{
				ShowID:     showID,
				RowLabel:   label,
				SeatNumber: uint32(col),
				SeatLabel:  seatLabel,
			})
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListByShow returns every seat of a show ordered by row and seat number,
// including which booking (if any) holds each one. This feeds the public
// seat map.
func (r *SeatRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Seat, error) {
	const q = `SELECT id, show_id, row_label, seat_number, seat_label, booking_id
	           FROM seats
	           WHERE show_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// LockByIDsTx loads the requested seats of a show and locks their rows with
// SELECT ... FOR UPDATE. The returned slice contains only seats that exist
// AND belong to the show; callers compare its length against the request to
// detect unknown or foreign seats. Holding the row locks until commit is
// what serializes concurrent bookings over the same seats.
func (r *SeatRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return []model.Seat{}, nil
	}
	placeholders := make([]string, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `SELECT id, show_id, row_label, seat_number, seat_label, booking_id
	      FROM seats
	      WHERE show_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY id
	      FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// AssignBookingTx points the given free seats of a show at a booking and
// returns how many rows changed. The booking_id IS NULL guard makes the
// free→held transition explicit in SQL; with the rows already locked the
// count can only fall short if a caller skipped LockByIDsTx.
func (r *SeatRepo) AssignBookingTx(ctx context.Context, tx *sql.Tx, bookingID, showID uint64, seatIDs []uint64) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+2)
	args = append(args, bookingID, showID)
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `UPDATE seats SET booking_id = ?
	      WHERE show_id = ? AND id IN (` + strings.Join(placeholders, ",") + `) AND booking_id IS NULL`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByShow returns the free and total seat counts for a show, for the
// availability figure on show listings.
func (r *SeatRepo) CountByShow(ctx context.Context, showID uint64) (free, total uint32, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(booking_id IS NULL), 0) FROM seats WHERE show_id = ?`
	err = r.db.QueryRowContext(ctx, q, showID).Scan(&total, &free)
	return free, total, err
}

func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		var bookingID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.ShowID, &s.RowLabel, &s.SeatNumber, &s.SeatLabel, &bookingID); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			bid := uint64(bookingID.Int64)
			s.BookingID = &bid
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
