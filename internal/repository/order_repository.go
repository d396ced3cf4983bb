package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// OrderRepo persists the order attached to a reservation. An order is
// created lazily on the first attached line; repeated attachment of the
// same menu item increments the existing line's quantity.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// AddLine attaches quantity units of a menu item to the reservation's
// order, creating the order if none exists yet. The unique key on
// (order_id, menu_item_id) turns a repeat attachment into an increment
// rather than a duplicate line.
func (r *OrderRepo) AddLine(ctx context.Context, reservationID, menuItemID uint64, qty int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	orderID, err := orderIDForReservationTx(ctx, tx, reservationID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO order_lines (order_id, menu_item_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		orderID, menuItemID, qty); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AddLines attaches several lines in one transaction. Used when a cart
// is moved onto a reservation.
func (r *OrderRepo) AddLines(ctx context.Context, reservationID uint64, lines []model.CartItem) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	orderID, err := orderIDForReservationTx(ctx, tx, reservationID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, menu_item_id, quantity) VALUES (?,?,?)
			 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
			orderID, l.MenuItemID, l.Quantity); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// orderIDForReservationTx returns the reservation's order ID, creating
// the order row if this is the first attachment.
func orderIDForReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (uint64, error) {
	var orderID uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM orders WHERE reservation_id=? LIMIT 1", reservationID).Scan(&orderID)
	if err == nil {
		return orderID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (reservation_id) VALUES (?)", reservationID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LinesByReservation returns the reservation's order lines with menu
// item names, oldest line first. An empty slice means no order exists
// yet, which is not an error.
func (r *OrderRepo) LinesByReservation(ctx context.Context, reservationID uint64) ([]model.OrderLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ol.id, ol.order_id, ol.menu_item_id, m.name, ol.quantity
		 FROM order_lines ol
		 JOIN orders o ON o.id = ol.order_id
		 JOIN menu_items m ON m.id = ol.menu_item_id
		 WHERE o.reservation_id = ?
		 ORDER BY ol.id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.OrderLine, 0)
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.MenuItemName, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
