package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// CartRepo persists each user's cart. The cart is a durable entity
// keyed by user, not session state, so it is passed explicitly to the
// order-attachment path.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// Add puts a menu item in the user's cart. Re-adding an item increments
// its quantity via the unique key on (user_id, menu_item_id).
func (r *CartRepo) Add(ctx context.Context, userID, menuItemID uint64, qty int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, menu_item_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, menuItemID, qty)
	return err
}

// ListByUser returns the user's cart with menu item names.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ci.id, ci.user_id, ci.menu_item_id, m.name, ci.quantity
		 FROM cart_items ci
		 JOIN menu_items m ON m.id = ci.menu_item_id
		 WHERE ci.user_id = ?
		 ORDER BY ci.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CartItem, 0)
	for rows.Next() {
		var ci model.CartItem
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.MenuItemID, &ci.MenuItemName, &ci.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

// Remove deletes one cart line owned by the user. ErrNotFound when the
// line does not exist or belongs to someone else.
func (r *CartRepo) Remove(ctx context.Context, userID, cartItemID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id=? AND user_id=?", cartItemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear empties the user's cart. Called after the cart has been moved
// onto a reservation's order.
func (r *CartRepo) Clear(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	return err
}
