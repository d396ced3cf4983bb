// Package service orchestrates the reservation lifecycle, availability
// queries and order attachment. Services are defined against small
// store interfaces so the SQL repositories and the in-memory store are
// interchangeable; all business decisions are delegated to the policy
// package.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// ReservationStore is the persistence contract the lifecycle service
// needs. Reserve and Amend hand the table's current reservations to the
// decide callback inside whatever lock the store uses for that table;
// the write happens only when decide returns nil.
type ReservationStore interface {
	Reserve(ctx context.Context, res *model.Reservation, decide func(existing []model.Reservation) error) error
	Amend(ctx context.Context, res *model.Reservation, decide func(existing []model.Reservation) error) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
	ListByOwner(ctx context.Context, ownerID uint64, f repository.ReservationFilter) ([]model.ReservationDetail, error)
	OverlapCandidates(ctx context.Context, tableID uint64) ([]model.Reservation, error)
	ListInWindow(ctx context.Context, start, end time.Time) ([]model.Reservation, error)
}

// TableStore exposes the table catalog reads the services need.
type TableStore interface {
	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	ListTables(ctx context.Context) ([]model.Table, error)
}

// MenuStore resolves menu items before they are attached to an order.
type MenuStore interface {
	GetItem(ctx context.Context, id uint64) (*model.MenuItem, error)
}

// OrderStore persists order lines for a reservation.
type OrderStore interface {
	AddLine(ctx context.Context, reservationID, menuItemID uint64, qty int) error
	AddLines(ctx context.Context, reservationID uint64, lines []model.CartItem) error
	LinesByReservation(ctx context.Context, reservationID uint64) ([]model.OrderLine, error)
}

// CartStore reads and clears a user's cart when it is moved onto a
// reservation.
type CartStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error)
	Clear(ctx context.Context, userID uint64) error
}
