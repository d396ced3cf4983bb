package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// CartHandler manages the caller's persisted cart. Cart lines are
// staged menu items; they become order lines when moved onto a
// reservation.
type CartHandler struct {
	Carts *repository.CartRepo
	Menu  *repository.MenuRepo
}

func NewCartHandler(carts *repository.CartRepo, menu *repository.MenuRepo) *CartHandler {
	return &CartHandler{Carts: carts, Menu: menu}
}

type cartAddReq struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// Add handles POST /v1/cart/items. Re-adding an item increments its
// quantity.
func (h *CartHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cartAddReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	if req.MenuItemID == 0 {
		return badRequest(c, reasonMalformedInput, "menu_item_id is required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	ctx := c.Request().Context()
	if _, err := h.Menu.GetItem(ctx, req.MenuItemID); err != nil {
		return respondDomainErr(c, err)
	}
	if err := h.Carts.Add(ctx, uid, req.MenuItemID, req.Quantity); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// List handles GET /v1/cart.
func (h *CartHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Carts.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Remove handles DELETE /v1/cart/items/:id. Only the owner's own lines
// can be removed.
func (h *CartHandler) Remove(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	if err := h.Carts.Remove(c.Request().Context(), uid, id); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
