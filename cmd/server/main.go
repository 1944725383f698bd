package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinetix/movie-ticket-booking/internal/config"
	"github.com/cinetix/movie-ticket-booking/internal/database"
	"github.com/cinetix/movie-ticket-booking/internal/handler"
	"github.com/cinetix/movie-ticket-booking/internal/middleware"
	"github.com/cinetix/movie-ticket-booking/internal/monitoring"
	"github.com/cinetix/movie-ticket-booking/internal/queue"
	"github.com/cinetix/movie-ticket-booking/internal/repository"
	"github.com/cinetix/movie-ticket-booking/internal/router"
	"github.com/cinetix/movie-ticket-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the cache and rate limiter become
	// pass-throughs, everything else keeps working.
	rdb := config.NewRedisClient()

	// Consumes booking confirmations off the queue in the background and
	// reconnects on its own; a missing broker must not block startup.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)

	bookingSvc := service.NewBooking(db, movies, shows, seats, bookings)
	bookingSvc.Publish = queue.PublishBookingConfirmed

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(movies, shows, seats)
	bookingH := handler.NewBookingHandler(bookingSvc, bookings)
	adminH := handler.NewAdminHandler(movies, shows, seats, bookings)

	e := echo.New()
	e.HideBanner = true
	e.Use(monitoring.Middleware())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
