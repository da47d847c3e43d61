package domain

import "time"

// Booking is created on a successful booking request and deleted on
// cancellation or privileged eviction. It is never updated in place.
type Booking struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id" validate:"required"`
	UserID    int64     `json:"user_id" validate:"required"`
	StartTime time.Time `json:"datetime_start" validate:"required"`
	EndTime   time.Time `json:"datetime_end" validate:"required"`
	Scenario  string    `json:"scenario"`
	Pax       int       `json:"pax"`
	CreatedAt time.Time `json:"created_at"`
}

// Overlaps reports whether the booking's window intersects [start, end].
// Boundaries are inclusive: a booking ending exactly when another starts
// still counts as a conflict.
func (b Booking) Overlaps(start, end time.Time) bool {
	return !b.StartTime.After(end) && !b.EndTime.Before(start)
}
