package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableHandler exposes the table catalog to authenticated users.
type TableHandler struct {
	Tables *repository.TableRepo
}

func NewTableHandler(tables *repository.TableRepo) *TableHandler {
	return &TableHandler{Tables: tables}
}

type tableResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

func toTableResp(t model.Table) tableResp {
	return tableResp{ID: t.ID, Name: t.Name, Seats: t.Seats}
}

// List handles GET /v1/tables, smallest capacity first.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.ListTables(c.Request().Context())
	if err != nil {
		return respondDomainErr(c, err)
	}
	out := make([]tableResp, 0, len(tables))
	for _, t := range tables {
		out = append(out, toTableResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}

// Autocomplete handles GET /v1/tables/autocomplete?term=. Returns the
// distinct table names matching the term as a substring, for the
// reservation list's filter box.
func (h *TableHandler) Autocomplete(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("term"))
	if term == "" {
		return c.JSON(http.StatusOK, echo.Map{"names": []string{}})
	}
	names, err := h.Tables.SearchNames(c.Request().Context(), term)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"names": names})
}
