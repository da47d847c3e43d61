package repository

import (
	"context"
	"time"

	"trainbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	RoomID    int64     `gorm:"column:room_id;index"`
	UserID    int64     `gorm:"column:user_id;index"`
	StartTime time.Time `gorm:"column:datetime_start;index"`
	EndTime   time.Time `gorm:"column:datetime_end"`
	Scenario  string    `gorm:"column:scenario"`
	Pax       int       `gorm:"column:pax"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) domain.Booking {
	return domain.Booking{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Scenario:  m.Scenario,
		Pax:       m.Pax,
		CreatedAt: m.CreatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Scenario:  b.Scenario,
		Pax:       b.Pax,
		CreatedAt: b.CreatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = toDomainBooking(m)
	return nil
}

// overlapQuery selects the bookings whose window intersects [start, end],
// boundaries inclusive. A nil roomID means all rooms. excludeOwner, when
// non-zero, drops bookings owned by that user.
func overlapQuery(db *gorm.DB, roomID *int64, start, end time.Time, excludeOwner int64) *gorm.DB {
	q := db.Model(&bookingModel{}).
		Where("datetime_start <= ? AND datetime_end >= ?", end, start)
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}
	if excludeOwner != 0 {
		q = q.Where("user_id <> ?", excludeOwner)
	}
	return q.Order("datetime_start ASC")
}

// Overlapping is the read-only form of the overlap query.
func (r *BookingRepository) Overlapping(ctx context.Context, roomID *int64, start, end time.Time, excludeOwner int64) ([]domain.Booking, error) {
	var rows []bookingModel
	if tx := overlapQuery(r.db.WithContext(ctx), roomID, start, end, excludeOwner).Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// EvictAndCreate deletes every booking overlapping the new booking's window
// under the given scope and inserts the new one, all inside one transaction.
// The overlap read runs inside the same transaction, so two interleaved
// overrides cannot both capture the same victims: either every eviction and
// the insert land, or none do. Returns the evicted bookings; callers notify
// their owners only after this commits.
func (r *BookingRepository) EvictAndCreate(ctx context.Context, b *domain.Booking, roomID *int64, excludeOwner int64) ([]domain.Booking, error) {
	var evicted []bookingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res := overlapQuery(tx, roomID, b.StartTime, b.EndTime, excludeOwner).Find(&evicted); res.Error != nil {
			return res.Error
		}
		if len(evicted) > 0 {
			ids := make([]int64, 0, len(evicted))
			for _, m := range evicted {
				ids = append(ids, m.ID)
			}
			if res := tx.Where("id IN ?", ids).Delete(&bookingModel{}); res.Error != nil {
				return res.Error
			}
		}
		m := toBookingModel(b)
		if res := tx.Create(&m); res.Error != nil {
			return res.Error
		}
		*b = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainBookings(evicted), nil
}

// ListByOwnerFrom returns the user's bookings starting at or after from,
// ascending by start time.
func (r *BookingRepository) ListByOwnerFrom(ctx context.Context, userID int64, from time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND datetime_start >= ?", userID, from).
		Order("datetime_start ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// DeleteOwned removes the booking only if it belongs to userID. Ownership
// is part of the delete predicate, so a non-owned or unknown id deletes
// nothing and is not an error.
func (r *BookingRepository) DeleteOwned(ctx context.Context, id, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&bookingModel{})
	return tx.RowsAffected, tx.Error
}

// ListFrom returns all bookings starting at or after from, ascending.
func (r *BookingRepository) ListFrom(ctx context.Context, from time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("datetime_start >= ?", from).
		Order("datetime_start ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// ListForRoomWindow returns the room's bookings fully contained in
// [from, to]: starting at or after from and ending at or before to.
func (r *BookingRepository) ListForRoomWindow(ctx context.Context, roomID int64, from, to time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND datetime_start >= ? AND datetime_end <= ?", roomID, from, to).
		Order("datetime_start ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// ListForRoomDates returns the room's bookings whose start falls inside the
// inclusive [from, to] date range. Backs the blocked-window calendar query.
func (r *BookingRepository) ListForRoomDates(ctx context.Context, roomID int64, from, to time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND datetime_start >= ? AND datetime_start < ?", roomID, from, to.AddDate(0, 0, 1)).
		Order("datetime_start ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBooking(m))
	}
	return out
}
