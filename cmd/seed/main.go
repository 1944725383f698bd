// Command seed loads a demo catalog into the database: a handful of movies,
// three days of shows per movie on two screens with their seat grids, and
// two ready-made accounts (admin/admin123, demo/demo1234). It is idempotent
// at the catalog level: an existing movie table short-circuits the run.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinetix/movie-ticket-booking/internal/config"
	"github.com/cinetix/movie-ticket-booking/internal/database"
	"github.com/cinetix/movie-ticket-booking/internal/model"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
)

var sampleMovies = []model.Movie{
	{
		Title:       "The Dark Knight",
		Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
		DurationMin: 152,
		Genre:       "Action, Crime, Drama",
		Rating:      "PG-13",
		PosterURL:   "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_.jpg",
	},
	{
		Title:       "Inception",
		Description: "A skilled thief is given a chance at redemption if he can pull off an impossible task: the implantation of another person's idea into a target's subconscious.",
		DurationMin: 148,
		Genre:       "Action, Sci-Fi, Thriller",
		Rating:      "PG-13",
		PosterURL:   "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_.jpg",
	},
	{
		Title:       "The Matrix",
		Description: "A computer hacker learns from mysterious rebels about the true nature of his reality and his role in the war against its controllers.",
		DurationMin: 136,
		Genre:       "Action, Sci-Fi",
		Rating:      "R",
		PosterURL:   "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZjNkYzNjNTc4L2ltYWdlXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_.jpg",
	},
	{
		Title:       "Interstellar",
		Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
		DurationMin: 169,
		Genre:       "Adventure, Drama, Sci-Fi",
		Rating:      "PG-13",
		PosterURL:   "https://m.media-amazon.com/images/M/MV5BZjdkOTU3MDktN2IxOS00OGEyLWFmMjktY2FiMmZkNWIyODZiXkEyXkFqcGdeQXVyMTMxODk2OTU@._V1_.jpg",
	},
	{
		Title:       "Pulp Fiction",
		Description: "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
		DurationMin: 154,
		Genre:       "Crime, Drama",
		Rating:      "R",
		PosterURL:   "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MTljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)
	seats := repository.NewSeatRepo(db)
	users := repository.NewUserRepo(db)

	existing, err := movies.List(ctx)
	if err != nil {
		log.Fatalf("list movies: %v", err)
	}
	if len(existing) > 0 {
		log.Println("sample data already present, skipping")
		return
	}

	seedUsers(ctx, users, cfg.BcryptCost)

	for i := range sampleMovies {
		if err := movies.Create(ctx, &sampleMovies[i]); err != nil {
			log.Fatalf("create movie %q: %v", sampleMovies[i].Title, err)
		}
	}
	log.Printf("added %d movies", len(sampleMovies))

	// Shows start at 10:00 UTC; skip to tomorrow once that slot has passed.
	base := time.Now().UTC().Truncate(24 * time.Hour).Add(10 * time.Hour)
	if base.Before(time.Now().UTC()) {
		base = base.Add(24 * time.Hour)
	}

	created := 0
	for _, m := range sampleMovies {
		for day := 0; day < 3; day++ {
			for screen := uint32(1); screen <= 2; screen++ {
				show := model.Show{
					MovieID:      m.ID,
					StartsAt:     base.Add(time.Duration(day)*24*time.Hour + time.Duration(screen)*3*time.Hour),
					ScreenNumber: screen,
					TotalSeats:   50,
					PriceCents:   25000 + screen*5000,
				}
				if err := createShow(ctx, db, shows, seats, &show); err != nil {
					log.Fatalf("create show: %v", err)
				}
				created++
			}
		}
	}
	log.Printf("added %d shows with seat grids", created)
}

func createShow(ctx context.Context, db *sql.DB, shows *repository.ShowRepo, seats *repository.SeatRepo, show *model.Show) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := shows.CreateTx(ctx, tx, show); err != nil {
		return err
	}
	if _, err := seats.CreateGridTx(ctx, tx, show.ID, show.TotalSeats); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func seedUsers(ctx context.Context, users *repository.UserRepo, cost int) {
	accounts := []struct{ username, email, password, role string }{
		{"admin", "admin@example.com", "admin123", "ADMIN"},
		{"demo", "demo@example.com", "demo1234", "CUSTOMER"},
	}
	for _, a := range accounts {
		if _, err := users.Create(ctx, a.username, a.email, a.password, a.role, cost); err != nil {
			log.Printf("user %s not created: %v", a.username, err)
			continue
		}
		log.Printf("created user %s (%s)", a.username, a.role)
	}
}
