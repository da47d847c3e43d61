package domain

import "time"

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	PasswordHash string `json:"-"`

	// DisplayName doubles as the lookup key for header-authenticated
	// clients: a request carrying a TG-ID header resolves to the user
	// whose display name equals the header value.
	DisplayName string `json:"display_name,omitempty"`

	// Privileged actors may evict conflicting bookings when creating
	// their own.
	Privileged bool `json:"privileged"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef is the id+username projection exposed by the aggregate read
// endpoints.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
