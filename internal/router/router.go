// Package router wires handlers onto the Echo instance. Route groups mirror
// the access tiers: open (health, metrics, browse, auth), customer (booking)
// and admin (catalog management, dashboard).
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinetix/movie-ticket-booking/internal/handler"
	"github.com/cinetix/movie-ticket-booking/internal/middleware"
	"github.com/cinetix/movie-ticket-booking/internal/monitoring"
)

// RegisterRoutes registers the operational endpoints that carry no
// authentication: the health probe and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", monitoring.Handler())
}

// RegisterAuth registers the session endpoints. Register, login, refresh and
// logout live under /v1/auth and need no token; /v1/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so it works with an
	// expired access token as well.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: movie
// catalog, show details and seat maps. Guests use these to pick a show
// before signing in to book. The caching middleware (a no-op when Redis is
// absent) applies only here; everything else must stay fresh.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/shows/:id", p.GetShow)
	g.GET("/shows/:id/seats", p.GetShowSeats)
}

// RegisterBooking registers the customer booking endpoints under /v1. All of
// them require a valid access token; admins may book too.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("/bookings", b.CreateBooking)
	g.GET("/bookings/:id", b.GetBooking)
	g.GET("/my-bookings", b.MyBookings)
}

// RegisterAdmin registers the management endpoints under /v1/admin, limited
// to the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	g.POST("/movies", a.CreateMovie)
	g.POST("/shows", a.CreateShow)
	g.GET("/dashboard", a.Dashboard)
}
