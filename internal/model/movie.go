package model

import "time"

// Movie describes a film in the catalog. Movies are created by admins and
// are read-mostly afterwards; shows reference them by ID.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – movie title.
//	Description – synopsis shown on the detail page.
//	DurationMin – running time in minutes.
//	Genre       – genre label (e.g. "Sci-Fi").
//	Rating      – certification rating (e.g. "PG-13").
//	PosterURL   – reference to the poster image.
//	CreatedAt   – creation timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	Genre       string    // movies.genre
	Rating      string    // movies.rating
	PosterURL   string    // movies.poster_url
	CreatedAt   time.Time // movies.created_at
}
