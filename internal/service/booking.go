// Package service holds the booking workflow: turning a user's seat
// selection for a show into a persisted booking without ever double-booking
// a seat. Handlers stay thin; every multi-entity write lives here.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cinetix/movie-ticket-booking/internal/model"
	"github.com/cinetix/movie-ticket-booking/internal/queue"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
)

// Typed booking failures. Handlers map these onto HTTP statuses; none of
// them is ever retried internally.
var (
	// ErrEmptySelection: the request contained no usable seat IDs.
	ErrEmptySelection = errors.New("empty seat selection")
	// ErrSeatNotFound: a requested seat does not exist or belongs to a
	// different show.
	ErrSeatNotFound = errors.New("seat not found for show")
)

// SeatsUnavailableError reports which requested seats were already held by
// another booking when the transaction tried to commit.
type SeatsUnavailableError struct {
	Labels []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Labels, ","))
}

// Confirmation is the successful result of Create.
type Confirmation struct {
	BookingID        uint64   `json:"booking_id"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	SeatLabels       []string `json:"seats"`
}

// Booking orchestrates seat selection into a booking record. It is the only
// component that writes to more than one table at a time.
type Booking struct {
	db       *sql.DB
	movies   *repository.MovieRepo
	shows    *repository.ShowRepo
	seats    *repository.SeatRepo
	bookings *repository.BookingRepo

	// Publish sends a confirmation event after a successful booking. It is
	// best effort: failures are logged by the publisher and never surface
	// to the caller. Nil disables publishing (tests).
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBooking constructs the booking service. All repositories must be
// non-nil and share the given DB handle.
func NewBooking(db *sql.DB, movies *repository.MovieRepo, shows *repository.ShowRepo, seats *repository.SeatRepo, bookings *repository.BookingRepo) *Booking {
	if db == nil || movies == nil || shows == nil || seats == nil || bookings == nil {
		panic("nil dependency passed to NewBooking")
	}
	return &Booking{db: db, movies: movies, shows: shows, seats: seats, bookings: bookings}
}

// maxAttempts bounds retries of the booking transaction. Only storage-level
// lock conflicts (deadlock, lock wait timeout) are retried; a seat that is
// genuinely taken stays taken.
const maxAttempts = 3

// Create books the given seats of a show for a user.
//
// The check-then-update runs in one transaction with the seat rows locked
// via SELECT ... FOR UPDATE, so two concurrent calls over overlapping seats
// serialize: the second observes the first's booking_id and fails with
// SeatsUnavailableError. Either the booking row and all N seat updates
// commit together or nothing does.
func (s *Booking) Create(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*Confirmation, error) {
	ids := dedupe(seatIDs)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	var conf *Confirmation
	for attempt := 1; ; attempt++ {
		c, err := s.createOnce(ctx, userID, showID, ids)
		if err == nil {
			conf = c
			break
		}
		if isLockConflict(err) && attempt < maxAttempts {
			log.Printf("booking: lock conflict on show %d (attempt %d): %v", showID, attempt, err)
			continue
		}
		return nil, err
	}

	if s.Publish != nil {
		s.publishConfirmed(ctx, userID, showID, conf)
	}
	return conf, nil
}

// createOnce runs a single attempt of the booking transaction.
func (s *Booking) createOnce(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*Confirmation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	show, err := s.shows.GetByIDTx(ctx, tx, showID)
	if err != nil {
		return nil, err // repository.ErrShowNotFound or storage error
	}

	seats, err := s.seats.LockByIDsTx(ctx, tx, showID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, ErrSeatNotFound
	}
	var taken []string
	labels := make([]string, 0, len(seats))
	for _, seat := range seats {
		labels = append(labels, seat.SeatLabel)
		if !seat.Free() {
			taken = append(taken, seat.SeatLabel)
		}
	}
	if len(taken) > 0 {
		return nil, &SeatsUnavailableError{Labels: taken}
	}

	booking := &model.Booking{
		UserID:           userID,
		ShowID:           showID,
		TotalAmountCents: show.PriceCents * uint32(len(seats)),
		Status:           model.BookingConfirmed,
	}
	if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}
	affected, err := s.seats.AssignBookingTx(ctx, tx, booking.ID, showID, seatIDs)
	if err != nil {
		return nil, err
	}
	if affected != int64(len(seatIDs)) {
		// Locked rows flipped under us: only possible when a writer bypassed
		// LockByIDsTx. Refuse rather than book a partial selection.
		return nil, &SeatsUnavailableError{Labels: labels}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &Confirmation{
		BookingID:        booking.ID,
		TotalAmountCents: booking.TotalAmountCents,
		SeatLabels:       labels,
	}, nil
}

// publishConfirmed emits the booking.confirmed event. Lookup failures only
// degrade the event payload, never the booking.
func (s *Booking) publishConfirmed(ctx context.Context, userID, showID uint64, conf *Confirmation) {
	ev := queue.BookingConfirmedEvent{
		BookingID:        conf.BookingID,
		UserID:           userID,
		ShowID:           showID,
		SeatLabels:       conf.SeatLabels,
		TotalAmountCents: conf.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if show, err := s.shows.GetByID(ctx, showID); err == nil {
		ev.StartsAt = show.StartsAt.UTC().Format(time.RFC3339)
		ev.ScreenNumber = show.ScreenNumber
		if movie, err := s.movies.GetByID(ctx, show.MovieID); err == nil {
			ev.MovieTitle = movie.Title
		}
	}
	_ = s.Publish(ctx, ev)
}

// dedupe drops zero and repeated seat IDs while preserving order.
func dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// isLockConflict reports whether err is a MySQL deadlock (1213) or lock wait
// timeout (1205), the only error class worth retrying.
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1213") || strings.Contains(msg, "1205")
}
