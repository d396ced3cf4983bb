package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/policy"
)

// Table status values reported by the all-tables availability view.
const (
	StatusAvailable = "Available"
	StatusBooked    = "Booked"
)

// TableStatus is one row of the all-tables availability answer.
type TableStatus struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AvailabilityService answers availability questions using the exact
// overlap predicate the policy engine applies on writes, so the two can
// never drift. The window checked is always the caller's: no default
// duration is ever substituted.
type AvailabilityService struct {
	store  ReservationStore
	tables TableStore
}

func NewAvailabilityService(store ReservationStore, tables TableStore) *AvailabilityService {
	return &AvailabilityService{store: store, tables: tables}
}

// IsAvailable reports whether the table is free for the half-open
// window [start, end). The table must exist.
func (s *AvailabilityService) IsAvailable(ctx context.Context, tableID uint64, start, end time.Time) (bool, error) {
	if _, err := s.tables.GetTable(ctx, tableID); err != nil {
		return false, err
	}
	existing, err := s.store.OverlapCandidates(ctx, tableID)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if policy.Overlaps(start, end, existing[i].Start, existing[i].End) {
			return false, nil
		}
	}
	return true, nil
}

// StatusForAllTables reports Available or Booked for every table over
// the window [start, end), in the catalog's listing order. One pass
// over the tables; reservations are prefetched for the window and
// grouped by table, then each table is checked with the shared overlap
// predicate.
func (s *AvailabilityService) StatusForAllTables(ctx context.Context, start, end time.Time) ([]TableStatus, error) {
	tables, err := s.tables.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	inWindow, err := s.store.ListInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byTable := make(map[uint64][]model.Reservation, len(inWindow))
	for _, r := range inWindow {
		byTable[r.TableID] = append(byTable[r.TableID], r)
	}
	out := make([]TableStatus, 0, len(tables))
	for _, t := range tables {
		status := StatusAvailable
		for _, r := range byTable[t.ID] {
			if policy.Overlaps(start, end, r.Start, r.End) {
				status = StatusBooked
				break
			}
		}
		out = append(out, TableStatus{ID: t.ID, Name: t.Name, Status: status})
	}
	return out, nil
}
