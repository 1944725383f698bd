package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/movie-ticket-booking/internal/repository"
	"github.com/cinetix/movie-ticket-booking/internal/service"
)

func newBookingTestHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := service.NewBooking(
		db,
		repository.NewMovieRepo(db),
		repository.NewShowRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
	)
	return NewBookingHandler(svc, repository.NewBookingRepo(db)), mock
}

func postBooking(t *testing.T, h *BookingHandler, userID interface{}, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	require.NoError(t, h.CreateBooking(c))
	return rec
}

func TestCreateBookingEndpointSuccess(t *testing.T) {
	h, mock := newBookingTestHandler(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "starts_at", "screen_number", "total_seats", "price_cents", "created_at"}).
			AddRow(5, 3, now.Add(24*time.Hour), 1, 50, 25000, now))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "show_id", "row_label", "seat_number", "seat_label", "booking_id"}).
			AddRow(11, 5, "A", 1, "A1", nil))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("UPDATE seats SET booking_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := postBooking(t, h, float64(9), `{"show_id":5,"seat_ids":[11]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booking_id":77`)
	assert.Contains(t, rec.Body.String(), `"A1"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpointRequiresAuth(t *testing.T) {
	h, _ := newBookingTestHandler(t)
	rec := postBooking(t, h, nil, `{"show_id":5,"seat_ids":[11]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBookingEndpointValidatesBody(t *testing.T) {
	h, _ := newBookingTestHandler(t)

	rec := postBooking(t, h, float64(9), `{"seat_ids":[11]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postBooking(t, h, float64(9), `{"show_id":5,"seat_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingEndpointShowNotFound(t *testing.T) {
	h, mock := newBookingTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	rec := postBooking(t, h, float64(9), `{"show_id":404,"seat_ids":[11]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpointSeatConflict(t *testing.T) {
	h, mock := newBookingTestHandler(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, movie_id, starts_at").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "starts_at", "screen_number", "total_seats", "price_cents", "created_at"}).
			AddRow(5, 3, now.Add(24*time.Hour), 1, 50, 25000, now))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(uint64(5), uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "show_id", "row_label", "seat_number", "seat_label", "booking_id"}).
			AddRow(11, 5, "A", 1, "A1", 31))
	mock.ExpectRollback()

	rec := postBooking(t, h, float64(9), `{"show_id":5,"seat_ids":[11]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	// The client learns which seats it lost.
	assert.Contains(t, rec.Body.String(), `"A1"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserIDVariants(t *testing.T) {
	e := echo.New()
	cases := []struct {
		in   interface{}
		want uint64
		ok   bool
	}{
		{uint64(7), 7, true},
		{int(7), 7, true},
		{int64(7), 7, true},
		{float64(7), 7, true},
		{"7", 7, true},
		{"abc", 0, false},
		{nil, 0, false},
		{-1, 0, false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if tc.in != nil {
			c.Set("user_id", tc.in)
		}
		got, ok := getUserID(c)
		assert.Equal(t, tc.ok, ok, "value %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "value %v", tc.in)
		}
	}
}
