package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/movie-ticket-booking/internal/model"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
)

// AdminHandler serves the management endpoints: movie and show creation plus
// a small dashboard. All routes require the ADMIN role.
type AdminHandler struct {
	Movies   *repository.MovieRepo
	Shows    *repository.ShowRepo
	Seats    *repository.SeatRepo
	Bookings *repository.BookingRepo
}

func NewAdminHandler(movies *repository.MovieRepo, shows *repository.ShowRepo, seats *repository.SeatRepo, bookings *repository.BookingRepo) *AdminHandler {
	if movies == nil || shows == nil || seats == nil || bookings == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Movies: movies, Shows: shows, Seats: seats, Bookings: bookings}
}

type createMovieReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin uint32 `json:"duration_min"`
	Genre       string `json:"genre"`
	Rating      string `json:"rating"`
	PosterURL   string `json:"poster_url"`
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
	}

	movie := model.Movie{
		Title:       req.Title,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Genre:       req.Genre,
		Rating:      req.Rating,
		PosterURL:   req.PosterURL,
	}
	if err := h.Movies.Create(c.Request().Context(), &movie); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"movie": toMovieJSON(movie)})
}

type createShowReq struct {
	MovieID      uint64 `json:"movie_id"`
	StartsAt     string `json:"starts_at"` // RFC 3339
	ScreenNumber uint32 `json:"screen_number"`
	TotalSeats   uint32 `json:"total_seats"`
	PriceCents   uint32 `json:"price_cents"`
}

// CreateShow handles POST /v1/admin/shows. The show row and its full seat
// grid are written in one transaction so a show is never visible without
// seats to sell.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}
	startsAt = startsAt.UTC()
	if !startsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}
	if req.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	if req.ScreenNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen_number must be positive"})
	}

	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
	}

	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	show := model.Show{
		MovieID:      req.MovieID,
		StartsAt:     startsAt,
		ScreenNumber: req.ScreenNumber,
		TotalSeats:   req.TotalSeats,
		PriceCents:   req.PriceCents,
	}
	if err := h.Shows.CreateTx(ctx, tx, &show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create show"})
	}
	seats, err := h.Seats.CreateGridTx(ctx, tx, show.ID, show.TotalSeats)
	if err != nil {
		if errors.Is(err, repository.ErrGridTooSmall) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats is too small for the seat grid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit show"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"show": showJSON{
			ID:             show.ID,
			MovieID:        show.MovieID,
			StartsAt:       show.StartsAt.UTC().Format(time.RFC3339),
			ScreenNumber:   show.ScreenNumber,
			TotalSeats:     show.TotalSeats,
			AvailableSeats: show.TotalSeats,
			PriceCents:     show.PriceCents,
		},
		"seats_created": len(seats),
	})
}

// Dashboard handles GET /v1/admin/dashboard: every movie plus the ten most
// recent shows and bookings, enough for a quick health glance.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	shows, err := h.Shows.ListRecent(ctx, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	bookings, err := h.Bookings.ListRecent(ctx, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}

	movieItems := make([]movieJSON, 0, len(movies))
	for _, m := range movies {
		movieItems = append(movieItems, toMovieJSON(m))
	}
	showItems := make([]showJSON, 0, len(shows))
	for _, s := range shows {
		showItems = append(showItems, showJSON{
			ID:           s.ID,
			MovieID:      s.MovieID,
			StartsAt:     s.StartsAt.UTC().Format(time.RFC3339),
			ScreenNumber: s.ScreenNumber,
			TotalSeats:   s.TotalSeats,
			PriceCents:   s.PriceCents,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"movies":          movieItems,
		"recent_shows":    showItems,
		"recent_bookings": bookings,
	})
}
