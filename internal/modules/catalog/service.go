package catalog

import (
	"context"
	"time"

	"trainbook/internal/domain"
	"trainbook/internal/repository"
)

const (
	// trailingWindow keeps recently started bookings visible in the
	// aggregate feed.
	trailingWindow = 48 * time.Hour

	// detailHorizon bounds the room-detail view to the next four weeks.
	detailHorizon = 28 * 24 * time.Hour
)

type Service struct {
	rooms    *repository.RoomRepository
	users    *repository.UserRepository
	bookings *repository.BookingRepository
}

func NewService(
	rooms *repository.RoomRepository,
	users *repository.UserRepository,
	bookings *repository.BookingRepository,
) *Service {
	return &Service{rooms: rooms, users: users, bookings: bookings}
}

// Overview backs GET /api/all: every room, every user as id+username, and
// all bookings starting inside the trailing window or later.
func (s *Service) Overview(ctx context.Context) ([]domain.Room, []domain.Booking, []domain.UserRef, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	bookings, err := s.bookings.ListFrom(ctx, time.Now().Add(-trailingWindow))
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := s.users.ListRefs(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return rooms, bookings, users, nil
}

func (s *Service) Rooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

// RoomDetail returns one room with its bookings fully inside
// [now, now+detailHorizon], plus the user roster for rendering owner names.
func (s *Service) RoomDetail(ctx context.Context, roomID int64) (*domain.Room, []domain.Booking, []domain.UserRef, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, nil, nil, err
	}

	now := time.Now()
	bookings, err := s.bookings.ListForRoomWindow(ctx, roomID, now, now.Add(detailHorizon))
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := s.users.ListRefs(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return room, bookings, users, nil
}

// BlockedBookings returns the room's bookings starting inside the
// inclusive [from, to] date range, for external calendar tooling.
func (s *Service) BlockedBookings(ctx context.Context, roomID int64, from, to time.Time) ([]domain.Booking, error) {
	return s.bookings.ListForRoomDates(ctx, roomID, from, to)
}
