package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/policy"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

func availabilityFixture(t *testing.T) (*AvailabilityService, *ReservationService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	reservations := NewReservationService(store, store, policy.DefaultRules(), fixedClock)
	return NewAvailabilityService(store, store), reservations, store
}

func TestIsAvailableMatchesPolicyOverlap(t *testing.T) {
	avail, reservations, store := availabilityFixture(t)
	table := store.AddTable(model.Table{Name: "Window 1", Seats: 4})
	ctx := context.Background()

	_, err := reservations.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	// Overlapping window is reported busy.
	free, err := avail.IsAvailable(ctx, table.ID, dayAt(3, 19, 0), dayAt(3, 21, 0))
	require.NoError(t, err)
	assert.False(t, free)

	// Back-to-back is free, matching what a create would decide.
	free, err = avail.IsAvailable(ctx, table.ID, dayAt(3, 20, 0), dayAt(3, 21, 0))
	require.NoError(t, err)
	assert.True(t, free)

	free, err = avail.IsAvailable(ctx, table.ID, dayAt(3, 17, 0), dayAt(3, 18, 0))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestIsAvailableUnknownTable(t *testing.T) {
	avail, _, _ := availabilityFixture(t)
	_, err := avail.IsAvailable(context.Background(), 42, dayAt(3, 18, 0), dayAt(3, 20, 0))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// Availability and the write path must agree: a window reported free is
// accepted by create, and a booked window is rejected with TABLE_BUSY.
func TestAvailabilityAgreesWithCreate(t *testing.T) {
	avail, reservations, store := availabilityFixture(t)
	table := store.AddTable(model.Table{Name: "Window 1", Seats: 4})
	ctx := context.Background()

	_, err := reservations.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	windows := []struct{ start, end int }{
		{17, 19}, {19, 21}, {18, 20}, {20, 22}, {16, 18}, {17, 21},
	}
	for _, w := range windows {
		start, end := dayAt(3, w.start, 0), dayAt(3, w.end, 0)
		free, err := avail.IsAvailable(ctx, table.ID, start, end)
		require.NoError(t, err)

		_, err = reservations.Create(ctx, 2, window(table.ID, 2, start, end))
		if free {
			require.NoErrorf(t, err, "window %02d:00-%02d:00 reported free but create rejected", w.start, w.end)
			// Undo so each window is probed against the same state.
			detail, lerr := reservations.List(ctx, 2, repository.ReservationFilter{})
			require.NoError(t, lerr)
			require.NoError(t, reservations.Delete(ctx, 2, detail[0].ID))
		} else {
			var rej *policy.Rejection
			require.ErrorAsf(t, err, &rej, "window %02d:00-%02d:00 reported busy but create accepted", w.start, w.end)
			assert.Equal(t, policy.ReasonTableBusy, rej.Reason)
		}
	}
}

func TestStatusForAllTables(t *testing.T) {
	avail, reservations, store := availabilityFixture(t)
	small := store.AddTable(model.Table{Name: "Nook", Seats: 2})
	store.AddTable(model.Table{Name: "Banquet", Seats: 8})
	ctx := context.Background()

	_, err := reservations.Create(ctx, 1, window(small.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	statuses, err := avail.StatusForAllTables(ctx, dayAt(3, 19, 0), dayAt(3, 21, 0))
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byName := make(map[string]string, len(statuses))
	for _, s := range statuses {
		byName[s.Name] = s.Status
	}
	assert.Equal(t, StatusBooked, byName["Nook"])
	assert.Equal(t, StatusAvailable, byName["Banquet"])

	// A later window frees the small table again.
	statuses, err = avail.StatusForAllTables(ctx, dayAt(3, 20, 0), dayAt(3, 22, 0))
	require.NoError(t, err)
	for _, s := range statuses {
		assert.Equal(t, StatusAvailable, s.Status)
	}
}
