package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/movie-ticket-booking/internal/model"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: movie list,
// movie detail with upcoming shows, show detail and the per-show seat map.
// These routes sit behind the response cache.
type PublicHandler struct {
	Movies *repository.MovieRepo
	Shows  *repository.ShowRepo
	Seats  *repository.SeatRepo
}

func NewPublicHandler(movies *repository.MovieRepo, shows *repository.ShowRepo, seats *repository.SeatRepo) *PublicHandler {
	if movies == nil || shows == nil || seats == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Movies: movies, Shows: shows, Seats: seats}
}

type movieJSON struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin uint32 `json:"duration_min"`
	Genre       string `json:"genre"`
	Rating      string `json:"rating"`
	PosterURL   string `json:"poster_url"`
}

type showJSON struct {
	ID             uint64 `json:"id"`
	MovieID        uint64 `json:"movie_id"`
	StartsAt       string `json:"starts_at"`
	ScreenNumber   uint32 `json:"screen_number"`
	TotalSeats     uint32 `json:"total_seats"`
	AvailableSeats uint32 `json:"available_seats"`
	PriceCents     uint32 `json:"price_cents"`
}

func toMovieJSON(m model.Movie) movieJSON {
	return movieJSON{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DurationMin: m.DurationMin,
		Genre:       m.Genre,
		Rating:      m.Rating,
		PosterURL:   m.PosterURL,
	}
}

func (h *PublicHandler) toShowJSON(c echo.Context, s model.Show) showJSON {
	out := showJSON{
		ID:           s.ID,
		MovieID:      s.MovieID,
		StartsAt:     s.StartsAt.UTC().Format(time.RFC3339),
		ScreenNumber: s.ScreenNumber,
		TotalSeats:   s.TotalSeats,
		PriceCents:   s.PriceCents,
	}
	// Availability is display-only; the booking transaction re-checks under
	// lock, so a stale count here is harmless.
	if free, _, err := h.Seats.CountByShow(c.Request().Context(), s.ID); err == nil {
		out.AvailableSeats = free
	}
	return out
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	items := make([]movieJSON, 0, len(movies))
	for _, m := range movies {
		items = append(items, toMovieJSON(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id. The response includes only shows
// that have not started yet, ordered by start time.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
	}
	shows, err := h.Shows.ListUpcomingByMovie(ctx, movieID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	items := make([]showJSON, 0, len(shows))
	for _, s := range shows {
		items = append(items, h.toShowJSON(c, s))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie": toMovieJSON(*movie),
		"shows": items,
	})
}

// GetShow handles GET /v1/shows/:id and returns the show with its movie
// summary.
func (h *PublicHandler) GetShow(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load show"})
	}
	movie, err := h.Movies.GetByID(ctx, show.MovieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show":  h.toShowJSON(c, *show),
		"movie": toMovieJSON(*movie),
	})
}

// seatJSON is one seat in the public seat map. Which booking holds a seat is
// private; clients only learn free or held.
type seatJSON struct {
	ID         uint64 `json:"id"`
	SeatLabel  string `json:"seat_label"`
	SeatNumber uint32 `json:"seat_number"`
	Status     string `json:"status"` // FREE | HELD
}

// GetShowSeats handles GET /v1/shows/:id/seats, the data source for the
// seat-selection page: the full grid grouped by row plus the price.
func (h *PublicHandler) GetShowSeats(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	show, err := h.Shows.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load show"})
	}
	seats, err := h.Seats.ListByShow(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}

	// Group by row preserving the repository's row/number ordering.
	rowOrder := make([]string, 0)
	rows := make(map[string][]seatJSON)
	for _, s := range seats {
		status := "FREE"
		if !s.Free() {
			status = "HELD"
		}
		if _, seen := rows[s.RowLabel]; !seen {
			rowOrder = append(rowOrder, s.RowLabel)
		}
		rows[s.RowLabel] = append(rows[s.RowLabel], seatJSON{
			ID:         s.ID,
			SeatLabel:  s.SeatLabel,
			SeatNumber: s.SeatNumber,
			Status:     status,
		})
	}
	type rowJSON struct {
		Row   string     `json:"row"`
		Seats []seatJSON `json:"seats"`
	}
	grid := make([]rowJSON, 0, len(rowOrder))
	for _, r := range rowOrder {
		grid = append(grid, rowJSON{Row: r, Seats: rows[r]})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":     showID,
		"price_cents": show.PriceCents,
		"rows":        grid,
	})
}
