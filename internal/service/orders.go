package service

import (
	"context"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// ErrEmptyCart is returned when a user tries to move an empty cart onto
// a reservation.
var ErrEmptyCart = errors.New("cart is empty")

// OrderService attaches menu items to reservations. Attachment never
// touches table availability, so there is no policy gate here — only
// existence and ownership checks.
type OrderService struct {
	reservations ReservationStore
	menu         MenuStore
	orders       OrderStore
	carts        CartStore
}

func NewOrderService(reservations ReservationStore, menu MenuStore, orders OrderStore, carts CartStore) *OrderService {
	return &OrderService{reservations: reservations, menu: menu, orders: orders, carts: carts}
}

// requireOwned loads the reservation and enforces that the caller owns
// it.
func (s *OrderService) requireOwned(ctx context.Context, callerID, reservationID uint64) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.UserID != callerID {
		return repository.ErrForbidden
	}
	return nil
}

// Attach adds quantity units of a menu item to the reservation's order.
// The order is created on first attachment; attaching the same item
// again increments the existing line.
func (s *OrderService) Attach(ctx context.Context, callerID, reservationID, menuItemID uint64, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if err := s.requireOwned(ctx, callerID, reservationID); err != nil {
		return err
	}
	if _, err := s.menu.GetItem(ctx, menuItemID); err != nil {
		return err
	}
	return s.orders.AddLine(ctx, reservationID, menuItemID, qty)
}

// Lines returns the reservation's order lines for its owner. An empty
// slice means no order has been attached yet.
func (s *OrderService) Lines(ctx context.Context, callerID, reservationID uint64) ([]model.OrderLine, error) {
	if err := s.requireOwned(ctx, callerID, reservationID); err != nil {
		return nil, err
	}
	return s.orders.LinesByReservation(ctx, reservationID)
}

// AttachCart moves the caller's entire cart onto the reservation's
// order, merging quantities with any existing lines, then clears the
// cart. The cart is an explicit argument of the operation (persisted
// per user), not ambient session state.
func (s *OrderService) AttachCart(ctx context.Context, callerID, reservationID uint64) ([]model.OrderLine, error) {
	if err := s.requireOwned(ctx, callerID, reservationID); err != nil {
		return nil, err
	}
	items, err := s.carts.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.orders.AddLines(ctx, reservationID, items); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, callerID); err != nil {
		return nil, err
	}
	return s.orders.LinesByReservation(ctx, reservationID)
}
