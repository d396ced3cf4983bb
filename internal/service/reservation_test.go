package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/policy"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // a Monday

func fixedClock() time.Time { return fixedNow }

// dayAt builds a time on the given March 2026 day.
func dayAt(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func newFixture(t *testing.T) (*ReservationService, *repository.MemoryStore, *model.Table) {
	t.Helper()
	store := repository.NewMemoryStore()
	table := store.AddTable(model.Table{Name: "Window 1", Seats: 4})
	svc := NewReservationService(store, store, policy.DefaultRules(), fixedClock)
	return svc, store, table
}

func window(tableID uint64, party int, start, end time.Time) Candidate {
	return Candidate{TableID: tableID, PartySize: party, Start: start, End: end}
}

func TestCreateAcceptsAndPersists(t *testing.T) {
	svc, store, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 3, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)
	require.NotZero(t, res.ID)

	stored, err := store.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.UserID)
	assert.Equal(t, dayAt(3, 18, 0), stored.Start)
}

func TestCreateRejectsAndPersistsNothing(t *testing.T) {
	svc, store, table := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, window(table.ID, 5, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	var rej *policy.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, policy.ReasonPartyTooLarge, rej.Reason)

	existing, err := store.OverlapCandidates(ctx, table.ID)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestCreateUnknownTable(t *testing.T) {
	svc, _, _ := newFixture(t)
	_, err := svc.Create(context.Background(), 1, window(999, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateConflictAndBackToBack(t *testing.T) {
	svc, _, table := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	_, err = svc.Create(ctx, 2, window(table.ID, 2, dayAt(3, 19, 0), dayAt(3, 21, 0)))
	var rej *policy.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, policy.ReasonTableBusy, rej.Reason)

	// Starting exactly where the first ends is allowed.
	_, err = svc.Create(ctx, 2, window(table.ID, 2, dayAt(3, 20, 0), dayAt(3, 21, 0)))
	require.NoError(t, err)
}

func TestUpdateExcludesItselfFromOverlap(t *testing.T) {
	svc, _, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	// Re-submitting the identical window must not conflict with itself.
	_, err = svc.Update(ctx, 1, res.ID, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	// Shifting within its own old window is fine too.
	updated, err := svc.Update(ctx, 1, res.ID, window(table.ID, 3, dayAt(3, 19, 0), dayAt(3, 21, 0)))
	require.NoError(t, err)
	assert.Equal(t, 3, updated.PartySize)
	assert.Equal(t, dayAt(3, 19, 0), updated.Start)
}

func TestUpdateRejectionLeavesStoredUntouched(t *testing.T) {
	svc, store, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, res.ID, window(table.ID, 99, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	var rej *policy.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, policy.ReasonPartyTooLarge, rej.Reason)

	stored, err := store.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.PartySize)
	assert.Equal(t, dayAt(3, 18, 0), stored.Start)
}

func TestUpdateOwnership(t *testing.T) {
	svc, _, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	_, err = svc.Update(ctx, 2, res.ID, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = svc.Update(ctx, 1, 12345, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetIsOwnerScoped(t *testing.T) {
	svc, _, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	got, err := svc.Get(ctx, 1, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	_, err = svc.Get(ctx, 2, res.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestDeleteIsIdempotentOnlyOnce(t *testing.T) {
	svc, _, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, res.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, res.ID), repository.ErrNotFound)
}

func TestDeleteFreesTheWindow(t *testing.T) {
	svc, _, table := newFixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, 1, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, res.ID))

	_, err = svc.Create(ctx, 2, window(table.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)
}

func TestListFiltersAndPaginates(t *testing.T) {
	store := repository.NewMemoryStore()
	front := store.AddTable(model.Table{Name: "Front Booth", Seats: 4})
	patio := store.AddTable(model.Table{Name: "Patio", Seats: 4})
	svc := NewReservationService(store, store, policy.DefaultRules(), fixedClock)
	ctx := context.Background()

	for day := 3; day <= 5; day++ {
		_, err := svc.Create(ctx, 1, window(front.ID, 2, dayAt(day, 18, 0), dayAt(day, 20, 0)))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, 1, window(patio.ID, 2, dayAt(3, 18, 0), dayAt(3, 20, 0)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, window(patio.ID, 2, dayAt(4, 18, 0), dayAt(4, 20, 0)))
	require.NoError(t, err)

	// Owner scoping: user 1 sees only their four reservations.
	all, err := svc.List(ctx, 1, repository.ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	// Newest start first.
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].Start.Before(all[i].Start))
	}

	// Table name filter is a case-insensitive substring match.
	booths, err := svc.List(ctx, 1, repository.ReservationFilter{TableName: "booth"})
	require.NoError(t, err)
	require.Len(t, booths, 3)
	for _, r := range booths {
		assert.Equal(t, "Front Booth", r.TableName)
	}

	// Start date filter matches the calendar date.
	day4 := dayAt(4, 0, 0)
	onDay4, err := svc.List(ctx, 1, repository.ReservationFilter{StartDate: &day4})
	require.NoError(t, err)
	require.Len(t, onDay4, 1)
	assert.Equal(t, dayAt(4, 18, 0), onDay4[0].Start)

	// Pagination.
	page2, err := svc.List(ctx, 1, repository.ReservationFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestCreateWithClosedWeekday(t *testing.T) {
	store := repository.NewMemoryStore()
	table := store.AddTable(model.Table{Name: "Window 1", Seats: 4})
	sat := time.Saturday
	rules := policy.DefaultRules()
	rules.ClosedWeekday = &sat
	svc := NewReservationService(store, store, rules, fixedClock)

	// March 7th 2026 is a Saturday.
	_, err := svc.Create(context.Background(), 1, window(table.ID, 2, dayAt(7, 18, 0), dayAt(7, 20, 0)))
	var rej *policy.Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, policy.ReasonClosedDay, rej.Reason)
}
