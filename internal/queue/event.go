// Package queue defines the message payloads exchanged over RabbitMQ and
// the background consumer/publisher for them.
package queue

// BookingConfirmedEvent is published when a booking commits. It carries
// enough detail for downstream consumers (logging, notifications, analytics)
// to act without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	UserID           uint64   `json:"user_id"`
	ShowID           uint64   `json:"show_id"`
	MovieTitle       string   `json:"movie_title"`
	StartsAt         string   `json:"starts_at"`
	ScreenNumber     uint32   `json:"screen_number"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
