package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// MenuHandler exposes the read-only menu catalog. These routes sit
// behind the response cache; the admin write paths bypass it.
type MenuHandler struct {
	Menu *repository.MenuRepo
}

func NewMenuHandler(menu *repository.MenuRepo) *MenuHandler {
	return &MenuHandler{Menu: menu}
}

// List handles GET /v1/menu with an optional category_id filter.
func (h *MenuHandler) List(c echo.Context) error {
	var categoryID uint64
	if s := c.QueryParam("category_id"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n == 0 {
			return badRequest(c, reasonMalformedInput, "invalid category_id")
		}
		categoryID = n
	}
	items, err := h.Menu.List(c.Request().Context(), categoryID)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/menu/:id.
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	item, err := h.Menu.GetItem(c.Request().Context(), id)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Search handles GET /v1/menu/search?query=. Empty queries return an
// empty result rather than the full menu.
func (h *MenuHandler) Search(c echo.Context) error {
	items, err := h.Menu.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Categories handles GET /v1/menu/categories.
func (h *MenuHandler) Categories(c echo.Context) error {
	cats, err := h.Menu.Categories(c.Request().Context())
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}
