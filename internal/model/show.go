package model

import "time"

// Show represents a single scheduled screening of a movie on a given screen.
// A show belongs to exactly one movie. Seat rows for the show are pre-created
// when the show is created, so TotalSeats is fixed for its lifetime.
//
// Fields:
//
//	ID           – primary key identifier.
//	MovieID      – movie being screened.
//	StartsAt     – when the screening begins (UTC).
//	ScreenNumber – auditorium number.
//	TotalSeats   – fixed seat capacity, distributed over the seat grid.
//	PriceCents   – ticket price per seat in cents.
//	CreatedAt    – creation timestamp.
type Show struct {
	ID           uint64    // shows.id
	MovieID      uint64    // shows.movie_id
	StartsAt     time.Time // shows.starts_at
	ScreenNumber uint32    // shows.screen_number
	TotalSeats   uint32    // shows.total_seats
	PriceCents   uint32    // shows.price_cents
	CreatedAt    time.Time // shows.created_at
}
