package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// OrderHandler attaches menu items to a reservation's order. All routes
// are owner-scoped through the service.
type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type attachItemReq struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// AttachItem handles POST /v1/reservations/:id/order/items. Attaching
// the same item twice increments the existing line.
func (h *OrderHandler) AttachItem(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	var req attachItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	if req.MenuItemID == 0 {
		return badRequest(c, reasonMalformedInput, "menu_item_id is required")
	}

	if err := h.Orders.Attach(c.Request().Context(), uid, resID, req.MenuItemID, req.Quantity); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// Lines handles GET /v1/reservations/:id/order. An empty list means no
// order has been attached yet.
func (h *OrderHandler) Lines(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	lines, err := h.Orders.Lines(c.Request().Context(), uid, resID)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": lines})
}

// FromCart handles POST /v1/reservations/:id/order/from-cart: the
// caller's whole cart becomes order lines and the cart is cleared.
func (h *OrderHandler) FromCart(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	lines, err := h.Orders.AttachCart(c.Request().Context(), uid, resID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			return badRequest(c, reasonMalformedInput, "cart is empty")
		}
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": lines})
}
