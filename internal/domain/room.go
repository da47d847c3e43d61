package domain

import "time"

// Room is immutable reference data. Rooms are created by the seeder or by
// operators directly in the database, never through the API.
type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
