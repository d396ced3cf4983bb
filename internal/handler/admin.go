package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// AdminHandler holds the staff-only write paths for tables and the
// menu, plus the all-reservations view. Routes using it sit behind
// RequireRole(ADMIN).
type AdminHandler struct {
	Tables       *repository.TableRepo
	Menu         *repository.MenuRepo
	Reservations *repository.ReservationRepo
}

func NewAdminHandler(tables *repository.TableRepo, menu *repository.MenuRepo, reservations *repository.ReservationRepo) *AdminHandler {
	return &AdminHandler{Tables: tables, Menu: menu, Reservations: reservations}
}

type tableReq struct {
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

// CreateTable handles POST /v1/admin/tables.
func (h *AdminHandler) CreateTable(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	t := model.Table{Name: req.Name, Seats: req.Seats}
	if err := h.Tables.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, model.ErrSeatCountOutOfRange) || t.Name == "" {
			return badRequest(c, reasonMalformedInput, err.Error())
		}
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTableResp(t))
}

// UpdateTable handles PUT /v1/admin/tables/:id. Shrinking capacity does
// not re-validate existing reservations; the policy applies to new
// writes only.
func (h *AdminHandler) UpdateTable(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	t := model.Table{ID: id, Name: req.Name, Seats: req.Seats}
	if err := h.Tables.Update(c.Request().Context(), &t); err != nil {
		if errors.Is(err, model.ErrSeatCountOutOfRange) || t.Name == "" {
			return badRequest(c, reasonMalformedInput, err.Error())
		}
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toTableResp(t))
}

type menuItemReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Ingredients string  `json:"ingredients"`
	ImageURL    *string `json:"image_url"`
	CategoryID  uint64  `json:"category_id"`
}

func (req menuItemReq) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	if req.CategoryID == 0 {
		return "category_id is required"
	}
	return ""
}

// CreateMenuItem handles POST /v1/admin/menu. The price is rounded to
// two decimals before it is stored.
func (h *AdminHandler) CreateMenuItem(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, reasonMalformedInput, msg)
	}
	m := model.MenuItem{
		Name:        req.Name,
		Price:       req.Price,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}
	if err := h.Menu.Create(c.Request().Context(), &m); err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// UpdateMenuItem handles PUT /v1/admin/menu/:id.
func (h *AdminHandler) UpdateMenuItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, reasonMalformedInput, msg)
	}
	m := model.MenuItem{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}
	if err := h.Menu.Update(c.Request().Context(), &m); err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListReservations handles GET /v1/admin/reservations: every
// reservation in the system, newest start first.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	all, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return respondDomainErr(c, err)
	}
	out := make([]reservationResp, 0, len(all))
	for i := range all {
		out = append(out, toReservationResp(&all[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}
