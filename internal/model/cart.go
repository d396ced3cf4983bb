package model

// CartItem is one menu item a user has set aside before attaching it to
// a reservation. The cart is persisted per user rather than kept in
// session state, so it survives across devices and restarts. The pair
// (user_id, menu_item_id) is unique; re-adding an item increments
// Quantity.
type CartItem struct {
	ID           uint64 `json:"id"`           // cart_items.id
	UserID       uint64 `json:"-"`            // cart_items.user_id
	MenuItemID   uint64 `json:"menu_item_id"` // cart_items.menu_item_id
	MenuItemName string `json:"menu_item"`    // joined from menu_items.name
	Quantity     int    `json:"quantity"`     // cart_items.quantity (>= 1)
}
