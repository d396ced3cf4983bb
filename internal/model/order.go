package model

import "time"

// Order groups the menu items attached to one reservation. A
// reservation owns at most one order; the order is created lazily when
// the first line is attached and cascade-deleted with the reservation.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation (unique).
//  CreatedAt     – creation timestamp.
type Order struct {
	ID            uint64    // orders.id
	ReservationID uint64    // orders.reservation_id
	CreatedAt     time.Time // orders.created_at
}

// OrderLine is one menu item within an order. The pair
// (order_id, menu_item_id) is unique: attaching the same item again
// increments Quantity instead of inserting a second line.
type OrderLine struct {
	ID           uint64 `json:"id"`            // order_lines.id
	OrderID      uint64 `json:"-"`             // order_lines.order_id
	MenuItemID   uint64 `json:"menu_item_id"`  // order_lines.menu_item_id
	MenuItemName string `json:"menu_item"`     // joined from menu_items.name
	Quantity     int    `json:"quantity"`      // order_lines.quantity (>= 1)
}
