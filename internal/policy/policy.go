// Package policy is the single authority on whether a proposed table
// reservation is legal. Every mutation path (create, update) and both
// availability endpoints go through this package, so the operating-hours
// and overlap rules cannot drift between entry points.
//
// Evaluate is a pure function: it performs no I/O, reads no clocks and
// queries no storage. Callers supply the candidate, the existing
// reservations for the same table, the table's capacity and the current
// time explicitly.
package policy

import (
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Reason is a stable machine-readable code explaining a rejection.
type Reason string

const (
	ReasonInvalidRange  Reason = "INVALID_RANGE"
	ReasonPastStart     Reason = "PAST_START"
	ReasonOutsideHours  Reason = "OUTSIDE_HOURS"
	ReasonClosedDay     Reason = "CLOSED_DAY"
	ReasonPartyTooLarge Reason = "PARTY_TOO_LARGE"
	ReasonTableBusy     Reason = "TABLE_BUSY"
)

// Rejection is the error returned when a candidate fails a check. The
// Reason code is stable; Message is for humans.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Rules carries the restaurant's operating policy. OpenHour and
// CloseHour bound the hour-of-day of both the start and the end of a
// reservation, as a closed range: with the defaults, any timestamp from
// 08:00 up to 23:59 is inside hours, midnight is not. ClosedWeekday,
// when non-nil, rejects any reservation that starts or ends on that
// weekday.
type Rules struct {
	OpenHour      int
	CloseHour     int
	ClosedWeekday *time.Weekday
}

// DefaultRules returns the policy the restaurant has always operated
// under: open 08:00–23:00, no weekly closing day unless configured.
func DefaultRules() Rules {
	return Rules{OpenHour: 8, CloseHour: 23}
}

// Candidate is a proposed reservation under evaluation. It may describe
// a brand-new reservation or the new values for an existing one.
type Candidate struct {
	TableID   uint64
	PartySize int
	Start     time.Time
	End       time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap, so
// back-to-back reservations are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Evaluate decides whether the candidate may be persisted. Checks run
// in a fixed order and the first failure wins:
//
//  1. Start must precede End                      (INVALID_RANGE)
//  2. Start must not be before now                (PAST_START)
//  3. Start and End hours within operating hours  (OUTSIDE_HOURS)
//  4. Start and End not on the closed weekday     (CLOSED_DAY)
//  5. PartySize within the table's capacity       (PARTY_TOO_LARGE)
//  6. No overlap with another reservation         (TABLE_BUSY)
//
// existing must be the reservations currently persisted for the
// candidate's table. excludeID names the reservation being updated so
// it does not collide with itself; pass 0 on create.
//
// A nil return means ACCEPT. A non-nil return is always a *Rejection.
func (r Rules) Evaluate(c Candidate, existing []model.Reservation, capacity int, now time.Time, excludeID uint64) error {
	if !c.Start.Before(c.End) {
		return reject(ReasonInvalidRange, "reservation end must be after the start time")
	}
	if c.Start.Before(now) {
		return reject(ReasonPastStart, "reservation cannot be made in the past")
	}
	if !r.hourWithin(c.Start) || !r.hourWithin(c.End) {
		return reject(ReasonOutsideHours, "reservations are allowed only between %02d:00 and %02d:00", r.OpenHour, r.CloseHour)
	}
	if r.ClosedWeekday != nil {
		if c.Start.Weekday() == *r.ClosedWeekday || c.End.Weekday() == *r.ClosedWeekday {
			return reject(ReasonClosedDay, "the restaurant is closed on %ss", r.ClosedWeekday)
		}
	}
	if c.PartySize > capacity {
		return reject(ReasonPartyTooLarge, "party size %d exceeds the %d seats at this table", c.PartySize, capacity)
	}
	for i := range existing {
		other := &existing[i]
		if excludeID != 0 && other.ID == excludeID {
			continue
		}
		if other.TableID != c.TableID {
			continue
		}
		if Overlaps(c.Start, c.End, other.Start, other.End) {
			return reject(ReasonTableBusy, "the table is already reserved for the requested time")
		}
	}
	return nil
}

func (r Rules) hourWithin(t time.Time) bool {
	h := t.Hour()
	return h >= r.OpenHour && h <= r.CloseHour
}
