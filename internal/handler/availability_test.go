package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func availabilityFixture(t *testing.T) (*AvailabilityHandler, *repository.MemoryStore, *model.Table) {
	t.Helper()
	store := repository.NewMemoryStore()
	table := store.AddTable(model.Table{Name: "Window 1", Seats: 4})

	// Seed one reservation directly through the store; the policy is
	// exercised elsewhere.
	res := &model.Reservation{
		UserID:    1,
		TableID:   table.ID,
		PartySize: 2,
		Start:     time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC),
	}
	err := store.Reserve(context.Background(), res, func([]model.Reservation) error { return nil })
	require.NoError(t, err)

	h := NewAvailabilityHandler(service.NewAvailabilityService(store, store))
	return h, store, table
}

func getJSON(t *testing.T, handlerFn echo.HandlerFunc, path string, query url.Values) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlerFn(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestCheckReportsBookedAndFree(t *testing.T) {
	h, _, _ := availabilityFixture(t)

	q := url.Values{}
	q.Set("table_id", "1")
	q.Set("date", "2026-03-03")
	q.Set("time", "19:00")
	q.Set("end_time", "21:00")
	rec, body := getJSON(t, h.Check, "/v1/availability", q)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["available"])

	// Back-to-back with the existing booking is free.
	q.Set("time", "20:00")
	q.Set("end_time", "22:00")
	rec, body = getJSON(t, h.Check, "/v1/availability", q)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["available"])
}

func TestCheckRequiresExplicitEndTime(t *testing.T) {
	h, _, _ := availabilityFixture(t)

	q := url.Values{}
	q.Set("table_id", "1")
	q.Set("date", "2026-03-03")
	q.Set("time", "19:00")
	rec, body := getJSON(t, h.Check, "/v1/availability", q)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, reasonMalformedInput, body["reason"])
}

func TestCheckRejectsInvertedWindow(t *testing.T) {
	h, _, _ := availabilityFixture(t)

	q := url.Values{}
	q.Set("table_id", "1")
	q.Set("date", "2026-03-03")
	q.Set("time", "21:00")
	q.Set("end_time", "19:00")
	rec, body := getJSON(t, h.Check, "/v1/availability", q)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, reasonMalformedInput, body["reason"])
}

func TestCheckUnknownTable(t *testing.T) {
	h, _, _ := availabilityFixture(t)

	q := url.Values{}
	q.Set("table_id", "99")
	q.Set("date", "2026-03-03")
	q.Set("time", "19:00")
	q.Set("end_time", "21:00")
	rec, body := getJSON(t, h.Check, "/v1/availability", q)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, reasonNotFound, body["reason"])
}

func TestCheckAllWindowCrossingMidnight(t *testing.T) {
	h, store, _ := availabilityFixture(t)
	store.AddTable(model.Table{Name: "Patio", Seats: 6})

	q := url.Values{}
	q.Set("date", "2026-03-03")
	q.Set("time", "19:00")
	q.Set("end_time", "01:00")
	q.Set("end_date", "2026-03-04")
	rec, body := getJSON(t, h.CheckAll, "/v1/availability/all", q)
	assert.Equal(t, http.StatusOK, rec.Code)

	tables, ok := body["tables"].([]any)
	require.True(t, ok)
	require.Len(t, tables, 2)

	statuses := make(map[string]string, len(tables))
	for _, raw := range tables {
		row := raw.(map[string]any)
		statuses[row["name"].(string)] = row["status"].(string)
	}
	assert.Equal(t, service.StatusBooked, statuses["Window 1"])
	assert.Equal(t, service.StatusAvailable, statuses["Patio"])
}

func TestParseWindowDefaultsEndDate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?date=2026-03-03&time=18:00&end_time=20:30", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	start, end, err := parseWindow(c)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 3, 20, 30, 0, 0, time.UTC), end)
}
