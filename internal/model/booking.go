package model

import "time"

// Booking statuses. Bookings are created CONFIRMED; CANCELLED exists in the
// schema for administrative corrections but no user-facing cancellation path
// is exposed.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking is a user's confirmed reservation of one or more seats for one
// show. TotalAmountCents always equals the show's per-seat price multiplied
// by the number of seats referencing this booking; the booking service
// enforces that invariant inside the booking transaction.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – user who made the booking.
//	ShowID           – show the seats belong to.
//	TotalAmountCents – total charged, in cents.
//	Status           – CONFIRMED or CANCELLED.
//	CreatedAt        – when the booking was made.
type Booking struct {
	ID               uint64    // bookings.id
	UserID           uint64    // bookings.user_id
	ShowID           uint64    // bookings.show_id
	TotalAmountCents uint32    // bookings.total_amount_cents
	Status           string    // bookings.status
	CreatedAt        time.Time // bookings.created_at
}
