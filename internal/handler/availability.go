package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// AvailabilityHandler answers read-only availability queries. Both
// endpoints require the caller's full window; there is no implied
// duration.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

func NewAvailabilityHandler(a *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: a}
}

// Check handles GET /v1/availability?table_id&date&time&end_time[&end_date].
// Responds with whether the one table is free for the window.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	tableID, err := strconv.ParseUint(c.QueryParam("table_id"), 10, 64)
	if err != nil || tableID == 0 {
		return badRequest(c, reasonMalformedInput, "table_id is required")
	}
	start, end, err := parseWindow(c)
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	if !start.Before(end) {
		return badRequest(c, reasonMalformedInput, "end must be after start")
	}

	free, err := h.Availability.IsAvailable(c.Request().Context(), tableID, start, end)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"table_id":  tableID,
		"start":     start,
		"end":       end,
		"available": free,
	})
}

// CheckAll handles GET /v1/availability/all?date&time&end_time[&end_date].
// Responds with an Available/Booked status for every table.
func (h *AvailabilityHandler) CheckAll(c echo.Context) error {
	start, end, err := parseWindow(c)
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	if !start.Before(end) {
		return badRequest(c, reasonMalformedInput, "end must be after start")
	}

	statuses, err := h.Availability.StatusForAllTables(c.Request().Context(), start, end)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"start":  start,
		"end":    end,
		"tables": statuses,
	})
}
