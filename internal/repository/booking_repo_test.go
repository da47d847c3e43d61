package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainbook/internal/database"
	"trainbook/internal/domain"
)

func setupRepos(t *testing.T) (*BookingRepository, *RoomRepository, *UserRepository) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return NewBookingRepository(db), NewRoomRepository(db), NewUserRepository(db)
}

func seedBooking(t *testing.T, repo *BookingRepository, roomID, userID int64, start, end time.Time) domain.Booking {
	t.Helper()

	b := domain.Booking{RoomID: roomID, UserID: userID, StartTime: start, EndTime: end, Scenario: "test", Pax: 1}
	require.NoError(t, repo.Create(context.Background(), &b))
	return b
}

func TestOverlapping_InclusiveBoundaries(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	existing := seedBooking(t, bookings, 1, 5, base, base.Add(time.Hour)) // [10:00, 11:00]

	// A window starting exactly at the existing end still overlaps.
	got, err := bookings.Overlapping(ctx, nil, base.Add(time.Hour), base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, existing.ID, got[0].ID)
	assert.True(t, got[0].Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)),
		"SQL result must agree with the domain predicate")

	// A window ending exactly at the existing start still overlaps.
	got, err = bookings.Overlapping(ctx, nil, base.Add(-time.Hour), base, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Overlaps(base.Add(-time.Hour), base))

	// One minute clear of the boundary does not.
	got, err = bookings.Overlapping(ctx, nil, base.Add(time.Hour+time.Minute), base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, existing.Overlaps(base.Add(time.Hour+time.Minute), base.Add(2*time.Hour)))
}

func TestOverlapping_RoomScopeAndOwnerExclusion(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	inRoom := seedBooking(t, bookings, 1, 5, base.Add(30*time.Minute), base.Add(90*time.Minute))
	otherRoom := seedBooking(t, bookings, 2, 6, base.Add(30*time.Minute), base.Add(90*time.Minute))
	reserved := seedBooking(t, bookings, 1, 2, base, base.Add(time.Hour))

	roomID := int64(1)
	got, err := bookings.Overlapping(ctx, &roomID, base, base.Add(time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.NotEqual(t, otherRoom.ID, b.ID)
	}

	// Across all rooms, excluding the reserved owner.
	got, err = bookings.Overlapping(ctx, nil, base, base.Add(time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.NotEqual(t, reserved.ID, b.ID)
	}
	_ = inRoom
}

func TestEvictAndCreate_AtomicSuccess(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	victim1 := seedBooking(t, bookings, 1, 5, base, base.Add(time.Hour))
	victim2 := seedBooking(t, bookings, 1, 6, base.Add(time.Hour), base.Add(2*time.Hour))
	survivor := seedBooking(t, bookings, 2, 5, base, base.Add(time.Hour))

	roomID := int64(1)
	b := domain.Booking{RoomID: 1, UserID: 1, StartTime: base, EndTime: base.Add(2 * time.Hour), Scenario: "block", Pax: 1}
	evicted, err := bookings.EvictAndCreate(ctx, &b, &roomID, 0)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	require.Len(t, evicted, 2)
	evictedIDs := []int64{evicted[0].ID, evicted[1].ID}
	assert.Contains(t, evictedIDs, victim1.ID)
	assert.Contains(t, evictedIDs, victim2.ID)
	for _, e := range evicted {
		assert.True(t, e.Overlaps(b.StartTime, b.EndTime))
	}

	remaining, err := bookings.Overlapping(ctx, nil, base.Add(-24*time.Hour), base.Add(24*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, remaining, 2) // survivor + the new booking
	ids := []int64{remaining[0].ID, remaining[1].ID}
	assert.Contains(t, ids, survivor.ID)
	assert.Contains(t, ids, b.ID)
}

func TestEvictAndCreate_RollsBackOnFailure(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	victim := seedBooking(t, bookings, 1, 5, base, base.Add(time.Hour))
	blocker := seedBooking(t, bookings, 2, 6, base, base.Add(time.Hour))

	// Reusing an existing primary key makes the insert fail after the
	// delete, which must roll the delete back too.
	roomID := int64(1)
	bad := domain.Booking{ID: blocker.ID, RoomID: 1, UserID: 1, StartTime: base, EndTime: base.Add(time.Hour)}
	_, err := bookings.EvictAndCreate(ctx, &bad, &roomID, 0)
	require.Error(t, err)

	still, err := bookings.Overlapping(ctx, nil, base, base.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Len(t, still, 2, "evicted booking must survive a failed transaction")
	_ = victim
}

// Each override computes its victims from the committed state it runs
// against, not from a read taken before the transaction: a second override
// over the same window must evict the first override's booking rather than
// retarget the victim both of them saw initially. The store never ends up
// with two privileged bookings coexisting on one room.
func TestEvictAndCreate_VictimsComputedInTransaction(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	victim := seedBooking(t, bookings, 1, 5, base.Add(30*time.Minute), base.Add(90*time.Minute))

	roomID := int64(1)
	first := domain.Booking{RoomID: 1, UserID: 1, StartTime: base, EndTime: base.Add(time.Hour), Scenario: "block", Pax: 1}
	evicted, err := bookings.EvictAndCreate(ctx, &first, &roomID, 0)
	require.NoError(t, err)
	require.Len(t, evicted, 1)
	assert.Equal(t, victim.ID, evicted[0].ID)

	second := domain.Booking{RoomID: 1, UserID: 3, StartTime: base, EndTime: base.Add(time.Hour), Scenario: "block", Pax: 1}
	evicted, err = bookings.EvictAndCreate(ctx, &second, &roomID, 0)
	require.NoError(t, err)
	require.Len(t, evicted, 1)
	assert.Equal(t, first.ID, evicted[0].ID, "second override must evict the first override's booking, not the original victim")

	remaining, err := bookings.Overlapping(ctx, &roomID, base, base.Add(time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}

func TestDeleteOwned(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	mine := seedBooking(t, bookings, 1, 5, base, base.Add(time.Hour))
	theirs := seedBooking(t, bookings, 1, 6, base.Add(2*time.Hour), base.Add(3*time.Hour))

	// Wrong owner: nothing deleted, no error.
	n, err := bookings.DeleteOwned(ctx, theirs.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Unknown id: same.
	n, err = bookings.DeleteOwned(ctx, 9999, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = bookings.DeleteOwned(ctx, mine.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	remaining, err := bookings.ListFrom(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, theirs.ID, remaining[0].ID)
}

func TestListByOwnerFrom_OrderAndWindow(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	old := seedBooking(t, bookings, 1, 5, now.Add(-72*time.Hour), now.Add(-71*time.Hour))
	later := seedBooking(t, bookings, 1, 5, now.Add(4*time.Hour), now.Add(5*time.Hour))
	sooner := seedBooking(t, bookings, 1, 5, now.Add(time.Hour), now.Add(2*time.Hour))
	seedBooking(t, bookings, 1, 6, now.Add(time.Hour), now.Add(2*time.Hour)) // other owner

	got, err := bookings.ListByOwnerFrom(ctx, 5, now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sooner.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
	for _, b := range got {
		assert.NotEqual(t, old.ID, b.ID)
	}
}

func TestListForRoomWindow_ContainmentOnly(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	inside := seedBooking(t, bookings, 1, 5, now.Add(24*time.Hour), now.Add(25*time.Hour))
	seedBooking(t, bookings, 1, 5, now.Add(-2*time.Hour), now.Add(-time.Hour))            // past
	seedBooking(t, bookings, 1, 5, now.Add(29*24*time.Hour), now.Add(30*24*time.Hour))    // beyond horizon
	seedBooking(t, bookings, 2, 5, now.Add(24*time.Hour), now.Add(25*time.Hour))          // other room
	straddling := seedBooking(t, bookings, 1, 5, now.Add(-time.Hour), now.Add(time.Hour)) // started already

	got, err := bookings.ListForRoomWindow(ctx, 1, now, now.Add(28*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
	assert.NotEqual(t, straddling.ID, got[0].ID)
}

func TestListForRoomDates_InclusiveRange(t *testing.T) {
	bookings, _, _ := setupRepos(t)
	ctx := context.Background()

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	first := seedBooking(t, bookings, 1, 5, day.Add(9*time.Hour), day.Add(10*time.Hour))
	last := seedBooking(t, bookings, 1, 5, day.AddDate(0, 0, 2).Add(23*time.Hour), day.AddDate(0, 0, 3))
	seedBooking(t, bookings, 1, 5, day.AddDate(0, 0, 3).Add(time.Hour), day.AddDate(0, 0, 3).Add(2*time.Hour))

	got, err := bookings.ListForRoomDates(ctx, 1, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, last.ID, got[1].ID)
}
