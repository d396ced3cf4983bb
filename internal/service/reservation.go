package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/policy"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Candidate carries the caller-supplied fields of a proposed
// reservation. The owner is taken from the authenticated request, never
// from the body.
type Candidate struct {
	TableID   uint64
	PartySize int
	Start     time.Time
	End       time.Time
	Note      *string
}

// ReservationService implements the reservation lifecycle: every write
// goes through the policy engine, ownership is enforced before any
// mutation, and the store keeps policy evaluation inside its per-table
// lock.
type ReservationService struct {
	store  ReservationStore
	tables TableStore
	rules  policy.Rules
	now    func() time.Time
}

// NewReservationService wires the lifecycle service. now may be nil, in
// which case the wall clock in UTC is used.
func NewReservationService(store ReservationStore, tables TableStore, rules policy.Rules, now func() time.Time) *ReservationService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ReservationService{store: store, tables: tables, rules: rules, now: now}
}

// Create evaluates the candidate and persists it on accept. The
// returned error is a *policy.Rejection for policy failures,
// repository.ErrNotFound for an unknown table, or a storage error.
func (s *ReservationService) Create(ctx context.Context, ownerID uint64, c Candidate) (*model.Reservation, error) {
	table, err := s.tables.GetTable(ctx, c.TableID)
	if err != nil {
		return nil, err
	}
	res := &model.Reservation{
		UserID:    ownerID,
		TableID:   c.TableID,
		PartySize: c.PartySize,
		Start:     c.Start,
		End:       c.End,
		Note:      c.Note,
	}
	now := s.now()
	err = s.store.Reserve(ctx, res, func(existing []model.Reservation) error {
		return s.rules.Evaluate(policy.Candidate{
			TableID:   c.TableID,
			PartySize: c.PartySize,
			Start:     c.Start,
			End:       c.End,
		}, existing, table.Seats, now, 0)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update re-runs the policy against the new values, excluding the
// reservation itself from the overlap check, and persists on accept.
// Returns repository.ErrNotFound when the reservation does not exist
// and repository.ErrForbidden when the caller is not its owner; the
// stored reservation is untouched on any rejection.
func (s *ReservationService) Update(ctx context.Context, callerID, reservationID uint64, c Candidate) (*model.Reservation, error) {
	current, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, repository.ErrForbidden
	}
	table, err := s.tables.GetTable(ctx, c.TableID)
	if err != nil {
		return nil, err
	}
	res := &model.Reservation{
		ID:        reservationID,
		UserID:    current.UserID,
		TableID:   c.TableID,
		PartySize: c.PartySize,
		Start:     c.Start,
		End:       c.End,
		Note:      c.Note,
	}
	now := s.now()
	err = s.store.Amend(ctx, res, func(existing []model.Reservation) error {
		return s.rules.Evaluate(policy.Candidate{
			TableID:   c.TableID,
			PartySize: c.PartySize,
			Start:     c.Start,
			End:       c.End,
		}, existing, table.Seats, now, reservationID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns one reservation, restricted to its owner.
func (s *ReservationService) Get(ctx context.Context, callerID, reservationID uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != callerID {
		return nil, repository.ErrForbidden
	}
	return res, nil
}

// Delete removes the caller's reservation; no policy gate applies to
// deletion. Deleting twice yields repository.ErrNotFound the second
// time.
func (s *ReservationService) Delete(ctx context.Context, callerID, reservationID uint64) error {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.UserID != callerID {
		return repository.ErrForbidden
	}
	return s.store.Delete(ctx, reservationID)
}

// List returns the caller's reservations, filtered and paginated,
// newest start first.
func (s *ReservationService) List(ctx context.Context, callerID uint64, f repository.ReservationFilter) ([]model.ReservationDetail, error) {
	return s.store.ListByOwner(ctx, callerID, f)
}
