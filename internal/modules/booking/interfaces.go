package booking

import (
	"context"
	"time"

	"trainbook/internal/domain"
)

// BookingRepository is the store surface the conflict resolver needs.
// EvictAndCreate computes the victim set and removes it inside the same
// transaction as the insert, so the resolver never works from a stale
// overlap read.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	EvictAndCreate(ctx context.Context, b *domain.Booking, roomID *int64, excludeOwner int64) ([]domain.Booking, error)
	ListByOwnerFrom(ctx context.Context, userID int64, from time.Time) ([]domain.Booking, error)
	DeleteOwned(ctx context.Context, id, userID int64) (int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByDisplayName(ctx context.Context, name string) (*domain.User, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// MailSender delivers notification email. Failures are logged, never
// propagated: mail must not block or roll back a committed booking.
type MailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// EventSink receives booking lifecycle events after the store has
// committed them.
type EventSink interface {
	BookingCreated(b domain.Booking)
	BookingCancelled(id, userID int64)
	BookingsEvicted(bs []domain.Booking)
}
