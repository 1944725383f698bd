package model

// Seat is one entry in a show's seat ledger. Seats belong to exactly one
// show and are identified within it by their label (row letter + column
// number, e.g. "A1"). BookingID is nil while the seat is free and points at
// exactly one booking once held; the booking service is the only writer of
// that field.
//
// Fields:
//
//	ID         – primary key identifier.
//	ShowID     – show this seat belongs to.
//	RowLabel   – row letter(s), A..Z then AA.. for very large halls.
//	SeatNumber – 1-based position within the row.
//	SeatLabel  – RowLabel + SeatNumber, unique per show.
//	BookingID  – booking currently holding the seat, nil when free.
type Seat struct {
	ID         uint64  // seats.id
	ShowID     uint64  // seats.show_id
	RowLabel   string  // seats.row_label
	SeatNumber uint32  // seats.seat_number
	SeatLabel  string  // seats.seat_label
	BookingID  *uint64 // seats.booking_id (nullable)
}

// Free reports whether the seat is not referenced by any booking.
func (s Seat) Free() bool { return s.BookingID == nil }
