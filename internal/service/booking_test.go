package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/movie-ticket-booking/internal/model"
	"github.com/cinetix/movie-ticket-booking/internal/queue"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
)

func newTestBooking(t *testing.T) (*Booking, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewBooking(
		db,
		repository.NewMovieRepo(db),
		repository.NewShowRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
	)
	return svc, mock
}

func showRows(id, movieID uint64, price uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "movie_id", "starts_at", "screen_number", "total_seats", "price_cents", "created_at"}).
		AddRow(id, movieID, now.Add(24*time.Hour), 1, 50, price, now)
}

func seatCols() []string {
	return []string{"id", "show_id", "row_label", "seat_number", "seat_label", "booking_id"}
}

func TestCreateBookingSuccess(t *testing.T) {
	svc, mock := newTestBooking(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11), uint64(12)).
		WillReturnRows(sqlmock.NewRows(seatCols()).
			AddRow(11, 5, "A", 1, "A1", nil).
			AddRow(12, 5, "A", 2, "A2", nil))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(9), uint64(5), uint32(50000), model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("UPDATE seats SET booking_id").
		WithArgs(uint64(77), uint64(5), uint64(11), uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	conf, err := svc.Create(context.Background(), 9, 5, []uint64{11, 12})
	require.NoError(t, err)
	assert.Equal(t, uint64(77), conf.BookingID)
	assert.Equal(t, uint32(50000), conf.TotalAmountCents)
	assert.Equal(t, []string{"A1", "A2"}, conf.SeatLabels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEmptySelection(t *testing.T) {
	svc, mock := newTestBooking(t)

	// Zero and duplicate IDs are dropped before the DB is touched.
	for _, ids := range [][]uint64{nil, {}, {0, 0}} {
		_, err := svc.Create(context.Background(), 9, 5, ids)
		assert.ErrorIs(t, err, ErrEmptySelection)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingDedupesSelection(t *testing.T) {
	svc, mock := newTestBooking(t)

	// {11, 11, 0} collapses to {11}: one locked row, one-seat total.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnRows(sqlmock.NewRows(seatCols()).AddRow(11, 5, "A", 1, "A1", nil))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(9), uint64(5), uint32(25000), model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(78, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings").
		WithArgs(uint64(78)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("UPDATE seats SET booking_id").
		WithArgs(uint64(78), uint64(5), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	conf, err := svc.Create(context.Background(), 9, 5, []uint64{11, 11, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, conf.SeatLabels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingShowNotFound(t *testing.T) {
	svc, mock := newTestBooking(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 404, []uint64{11})
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	svc, mock := newTestBooking(t)

	// Seat 99 belongs to another show, so the locked set comes back short.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11), uint64(99)).
		WillReturnRows(sqlmock.NewRows(seatCols()).AddRow(11, 5, "A", 1, "A1", nil))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 5, []uint64{11, 99})
	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeatsTaken(t *testing.T) {
	svc, mock := newTestBooking(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11), uint64(12)).
		WillReturnRows(sqlmock.NewRows(seatCols()).
			AddRow(11, 5, "A", 1, "A1", nil).
			AddRow(12, 5, "A", 2, "A2", 31)) // already held
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 5, []uint64{11, 12})

	var unavailable *SeatsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"A2"}, unavailable.Labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRetriesLockConflict(t *testing.T) {
	svc, mock := newTestBooking(t)

	// First attempt dies on a deadlock, second goes through.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnError(errors.New("Error 1213: Deadlock found when trying to get lock"))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnRows(sqlmock.NewRows(seatCols()).AddRow(11, 5, "A", 1, "A1", nil))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(9), uint64(5), uint32(25000), model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(79, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings").
		WithArgs(uint64(79)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("UPDATE seats SET booking_id").
		WithArgs(uint64(79), uint64(5), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	conf, err := svc.Create(context.Background(), 9, 5, []uint64{11})
	require.NoError(t, err)
	assert.Equal(t, uint64(79), conf.BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingGivesUpAfterMaxAttempts(t *testing.T) {
	svc, mock := newTestBooking(t)

	deadlock := errors.New("Error 1213: Deadlock found when trying to get lock")
	for i := 0; i < maxAttempts; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, movie_id, starts_at").
			WithArgs(uint64(5)).
			WillReturnRows(showRows(5, 3, 25000))
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(uint64(5), uint64(11)).
			WillReturnError(deadlock)
		mock.ExpectRollback()
	}

	_, err := svc.Create(context.Background(), 9, 5, []uint64{11})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1213")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingDoesNotRetryConflicts(t *testing.T) {
	svc, mock := newTestBooking(t)

	// A taken seat is a terminal answer: exactly one transaction, no retry.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 3, 25000))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnRows(sqlmock.NewRows(seatCols()).AddRow(11, 5, "A", 1, "A1", 31))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 5, []uint64{11})
	var unavailable *SeatsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingPublishesConfirmation(t *testing.T) {
	svc, mock := newTestBooking(t)

	var published []queue.BookingConfirmedEvent
	svc.Publish = func(_ context.Context, ev queue.BookingConfirmedEvent) error {
		published = append(published, ev)
		return nil
	}

	startsAt := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "starts_at", "screen_number", "total_seats", "price_cents", "created_at"}).
			AddRow(5, 3, startsAt, 2, 50, 25000, now))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnRows(sqlmock.NewRows(seatCols()).AddRow(11, 5, "A", 1, "A1", nil))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(uint64(9), uint64(5), uint32(25000), model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(80, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings").
		WithArgs(uint64(80)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("UPDATE seats SET booking_id").
		WithArgs(uint64(80), uint64(5), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Post-commit enrichment lookups.
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "starts_at", "screen_number", "total_seats", "price_cents", "created_at"}).
			AddRow(5, 3, startsAt, 2, 50, 25000, now))
	mock.ExpectQuery("SELECT id, title").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "duration_min", "genre", "rating", "poster_url", "created_at"}).
			AddRow(3, "Inception", "", 148, "Sci-Fi", "PG-13", "", now))

	conf, err := svc.Create(context.Background(), 9, 5, []uint64{11})
	require.NoError(t, err)
	require.Len(t, published, 1)
	ev := published[0]
	assert.Equal(t, conf.BookingID, ev.BookingID)
	assert.Equal(t, uint64(9), ev.UserID)
	assert.Equal(t, "Inception", ev.MovieTitle)
	assert.Equal(t, startsAt.Format(time.RFC3339), ev.StartsAt)
	assert.Equal(t, uint32(2), ev.ScreenNumber)
	assert.Equal(t, []string{"A1"}, ev.SeatLabels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsLockConflict(t *testing.T) {
	assert.True(t, isLockConflict(errors.New("Error 1213: Deadlock found")))
	assert.True(t, isLockConflict(errors.New("Error 1205: Lock wait timeout exceeded")))
	assert.False(t, isLockConflict(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, isLockConflict(nil))
}
