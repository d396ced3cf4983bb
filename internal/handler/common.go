// Package handler implements the HTTP layer. Handlers bind and validate
// input, call the services or repositories, and translate the error
// taxonomy to status codes: policy rejections and malformed input are
// 400 with a stable reason code, missing rows are 404, ownership
// failures are 403, everything else is a generic 500.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/policy"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Reason codes for failures that happen before or outside the policy
// engine. Policy rejections carry their own codes.
const (
	reasonMalformedInput = "MALFORMED_INPUT"
	reasonNotFound       = "NOT_FOUND"
	reasonForbidden      = "FORBIDDEN"
)

// getUserID extracts the authenticated user's ID stored by the JWT
// middleware. The claim arrives as whatever type the JSON decoder
// produced, so every plausible numeric shape is accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case int:
		return uint64(v), nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	case nil:
		return 0, errors.New("no user in context")
	default:
		return 0, fmt.Errorf("unexpected user_id type %T", v)
	}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// badRequest responds 400 with a stable reason code and a message.
func badRequest(c echo.Context, reason, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": message, "reason": reason})
}

// domainError maps service and repository errors onto HTTP responses.
// It reports true when the error was handled.
func domainError(c echo.Context, err error) (bool, error) {
	var rej *policy.Rejection
	if errors.As(err, &rej) {
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": rej.Message, "reason": string(rej.Reason)})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return true, c.JSON(http.StatusNotFound, echo.Map{"error": "not found", "reason": reasonNotFound})
	}
	if errors.Is(err, repository.ErrForbidden) {
		return true, c.JSON(http.StatusForbidden, echo.Map{"error": "you do not own this resource", "reason": reasonForbidden})
	}
	return false, nil
}

// respondDomainErr is domainError with a 500 fallback for storage and
// other unexpected failures.
func respondDomainErr(c echo.Context, err error) error {
	if handled, resp := domainError(c, err); handled {
		return resp
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// contextWithPublishTimeout bounds background event publishing, which
// outlives the request's own context.
func contextWithPublishTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// parseWindow combines date/time query parameters into a half-open
// [start, end) window. date and time are required; end_time is required
// as well because no default duration is ever substituted for the
// caller's window. end_date is optional and defaults to the start date,
// covering windows that cross midnight.
func parseWindow(c echo.Context) (start, end time.Time, err error) {
	const (
		dateLayout = "2006-01-02"
		timeLayout = "15:04"
	)
	dateStr := c.QueryParam("date")
	timeStr := c.QueryParam("time")
	endTimeStr := c.QueryParam("end_time")
	if dateStr == "" || timeStr == "" {
		return start, end, errors.New("date and time are required")
	}
	if endTimeStr == "" {
		return start, end, errors.New("end_time is required")
	}
	start, err = time.Parse(dateLayout+" "+timeLayout, dateStr+" "+timeStr)
	if err != nil {
		return start, end, fmt.Errorf("invalid date/time: %v", err)
	}
	endDateStr := c.QueryParam("end_date")
	if endDateStr == "" {
		endDateStr = dateStr
	}
	end, err = time.Parse(dateLayout+" "+timeLayout, endDateStr+" "+endTimeStr)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date/time: %v", err)
	}
	return start.UTC(), end.UTC(), nil
}
