package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// All scenarios run against a fixed clock so the past-start check is
// deterministic.
var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // a Monday

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func candidate(party int, start, end time.Time) Candidate {
	return Candidate{TableID: 1, PartySize: party, Start: start, End: end}
}

func reservationOn(id, tableID uint64, start, end time.Time) model.Reservation {
	return model.Reservation{ID: id, UserID: 7, TableID: tableID, PartySize: 2, Start: start, End: end}
}

func requireReason(t *testing.T, err error, want Reason) {
	t.Helper()
	var rej *Rejection
	require.Truef(t, errors.As(err, &rej), "expected a rejection, got %v", err)
	assert.Equal(t, want, rej.Reason)
	assert.NotEmpty(t, rej.Message)
}

func TestEvaluateAcceptsValidCandidate(t *testing.T) {
	err := DefaultRules().Evaluate(candidate(4, at(3, 18, 0), at(3, 20, 0)), nil, 6, testNow, 0)
	require.NoError(t, err)
}

func TestEvaluateInvalidRange(t *testing.T) {
	rules := DefaultRules()

	err := rules.Evaluate(candidate(2, at(3, 20, 0), at(3, 18, 0)), nil, 6, testNow, 0)
	requireReason(t, err, ReasonInvalidRange)

	// Zero-length windows are invalid too.
	err = rules.Evaluate(candidate(2, at(3, 18, 0), at(3, 18, 0)), nil, 6, testNow, 0)
	requireReason(t, err, ReasonInvalidRange)
}

func TestEvaluatePastStart(t *testing.T) {
	err := DefaultRules().Evaluate(candidate(2, at(1, 18, 0), at(1, 20, 0)), nil, 6, testNow, 0)
	requireReason(t, err, ReasonPastStart)
}

func TestEvaluateStartingExactlyNowIsAccepted(t *testing.T) {
	err := DefaultRules().Evaluate(candidate(2, testNow, testNow.Add(2*time.Hour)), nil, 6, testNow, 0)
	require.NoError(t, err)
}

func TestEvaluateOperatingHours(t *testing.T) {
	rules := DefaultRules()

	cases := []struct {
		name   string
		start  time.Time
		end    time.Time
		accept bool
	}{
		{"before opening", at(3, 7, 0), at(3, 9, 0), false},
		{"opens at eight", at(3, 8, 0), at(3, 10, 0), true},
		{"ends past midnight", at(3, 22, 0), at(4, 0, 30), false},
		{"late evening", at(3, 21, 0), at(3, 23, 30), true},
		{"start fine, end too early next day", at(3, 23, 0), at(4, 1, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := rules.Evaluate(candidate(2, tc.start, tc.end), nil, 6, testNow, 0)
			if tc.accept {
				require.NoError(t, err)
			} else {
				requireReason(t, err, ReasonOutsideHours)
			}
		})
	}
}

func TestEvaluateClosedWeekday(t *testing.T) {
	sat := time.Saturday
	rules := DefaultRules()
	rules.ClosedWeekday = &sat

	// March 7th 2026 is a Saturday.
	err := rules.Evaluate(candidate(2, at(7, 18, 0), at(7, 20, 0)), nil, 6, testNow, 0)
	requireReason(t, err, ReasonClosedDay)

	// A Friday window whose end slips into Saturday is rejected too.
	err = rules.Evaluate(candidate(2, at(6, 22, 0), at(7, 8, 30)), nil, 6, testNow, 0)
	requireReason(t, err, ReasonClosedDay)

	// Without the flag the same Saturday window is fine.
	err = DefaultRules().Evaluate(candidate(2, at(7, 18, 0), at(7, 20, 0)), nil, 6, testNow, 0)
	require.NoError(t, err)
}

func TestEvaluatePartyTooLarge(t *testing.T) {
	err := DefaultRules().Evaluate(candidate(7, at(3, 18, 0), at(3, 20, 0)), nil, 6, testNow, 0)
	requireReason(t, err, ReasonPartyTooLarge)

	// Exactly at capacity is accepted.
	err = DefaultRules().Evaluate(candidate(6, at(3, 18, 0), at(3, 20, 0)), nil, 6, testNow, 0)
	require.NoError(t, err)
}

func TestEvaluateTableBusy(t *testing.T) {
	rules := DefaultRules()
	existing := []model.Reservation{reservationOn(10, 1, at(3, 18, 0), at(3, 20, 0))}

	err := rules.Evaluate(candidate(2, at(3, 19, 0), at(3, 21, 0)), existing, 6, testNow, 0)
	requireReason(t, err, ReasonTableBusy)

	// Back-to-back: a window starting exactly at the other's end does
	// not conflict.
	err = rules.Evaluate(candidate(2, at(3, 20, 0), at(3, 21, 0)), existing, 6, testNow, 0)
	require.NoError(t, err)

	// Same the other way around.
	err = rules.Evaluate(candidate(2, at(3, 17, 0), at(3, 18, 0)), existing, 6, testNow, 0)
	require.NoError(t, err)

	// A containing window conflicts.
	err = rules.Evaluate(candidate(2, at(3, 17, 0), at(3, 21, 0)), existing, 6, testNow, 0)
	requireReason(t, err, ReasonTableBusy)
}

func TestEvaluateIgnoresOtherTables(t *testing.T) {
	existing := []model.Reservation{reservationOn(10, 2, at(3, 18, 0), at(3, 20, 0))}
	err := DefaultRules().Evaluate(candidate(2, at(3, 18, 0), at(3, 20, 0)), existing, 6, testNow, 0)
	require.NoError(t, err)
}

func TestEvaluateExcludesOwnReservationOnUpdate(t *testing.T) {
	existing := []model.Reservation{reservationOn(10, 1, at(3, 18, 0), at(3, 20, 0))}

	// Re-submitting the identical window for the same reservation must
	// not collide with itself.
	err := DefaultRules().Evaluate(candidate(2, at(3, 18, 0), at(3, 20, 0)), existing, 6, testNow, 10)
	require.NoError(t, err)

	// A different reservation with the same window still conflicts.
	err = DefaultRules().Evaluate(candidate(2, at(3, 18, 0), at(3, 20, 0)), existing, 6, testNow, 11)
	requireReason(t, err, ReasonTableBusy)
}

func TestEvaluateFirstFailureWins(t *testing.T) {
	// The candidate is in the past, outside hours, too large and
	// overlapping at once; the range check still decides.
	existing := []model.Reservation{reservationOn(10, 1, at(1, 3, 0), at(1, 5, 0))}
	err := DefaultRules().Evaluate(candidate(99, at(1, 5, 0), at(1, 3, 0)), existing, 6, testNow, 0)
	requireReason(t, err, ReasonInvalidRange)

	// Drop the range failure: the past check comes next.
	err = DefaultRules().Evaluate(candidate(99, at(1, 3, 0), at(1, 5, 0)), existing, 6, testNow, 0)
	requireReason(t, err, ReasonPastStart)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	existing := []model.Reservation{reservationOn(10, 1, at(3, 18, 0), at(3, 20, 0))}
	c := candidate(2, at(3, 19, 0), at(3, 21, 0))
	first := DefaultRules().Evaluate(c, existing, 6, testNow, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DefaultRules().Evaluate(c, existing, 6, testNow, 0))
	}
}

func TestOverlaps(t *testing.T) {
	a := at(3, 18, 0)
	b := at(3, 20, 0)
	c := at(3, 21, 0)

	assert.True(t, Overlaps(a, b, a.Add(30*time.Minute), b.Add(time.Hour)))
	assert.False(t, Overlaps(a, b, b, c), "touching endpoints do not overlap")
	assert.False(t, Overlaps(b, c, a, b))

	// Symmetry.
	assert.Equal(t, Overlaps(a, b, a.Add(time.Hour), c), Overlaps(a.Add(time.Hour), c, a, b))
}
