package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/movie-ticket-booking/internal/monitoring"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
	"github.com/cinetix/movie-ticket-booking/internal/service"
)

// BookingHandler exposes the authenticated booking endpoints. Creation is
// delegated to the booking service; reads go straight to the repository.
type BookingHandler struct {
	Svc      *service.Booking
	Bookings *repository.BookingRepo
}

func NewBookingHandler(svc *service.Booking, bookings *repository.BookingRepo) *BookingHandler {
	if svc == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Bookings: bookings}
}

type createBookingReq struct {
	ShowID  uint64   `json:"show_id"`
	SeatIDs []uint64 `json:"seat_ids"`
}

// CreateBooking handles POST /v1/bookings. The service owns the transaction;
// this layer only translates its typed failures into response codes. A 409
// lists the seat labels the client lost so it can refresh just those.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id and seat_ids are required"})
	}

	conf, err := h.Svc.Create(c.Request().Context(), userID, req.ShowID, req.SeatIDs)
	if err != nil {
		var unavailable *service.SeatsUnavailableError
		switch {
		case errors.Is(err, service.ErrEmptySelection):
			monitoring.ObserveBooking("invalid", 0)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat must be selected"})
		case errors.Is(err, repository.ErrShowNotFound):
			monitoring.ObserveBooking("invalid", 0)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, service.ErrSeatNotFound):
			monitoring.ObserveBooking("invalid", 0)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "one or more seats do not exist for this show"})
		case errors.As(err, &unavailable):
			monitoring.ObserveBooking("conflict", 0)
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "some seats are no longer available",
				"seats": unavailable.Labels,
			})
		default:
			monitoring.ObserveBooking("error", 0)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
		}
	}

	monitoring.ObserveBooking("confirmed", len(conf.SeatLabels))
	return c.JSON(http.StatusCreated, echo.Map{"booking": conf})
}

// MyBookings handles GET /v1/my-bookings: the caller's booking history,
// newest first, each with its seat labels.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id. A booking owned by someone else
// looks identical to one that does not exist.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detail})
}
