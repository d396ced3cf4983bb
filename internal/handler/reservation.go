package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// ReservationHandler exposes the reservation lifecycle. The owner is
// always the authenticated caller; it never comes from the body.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Tables       service.TableStore
}

func NewReservationHandler(reservations *service.ReservationService, tables service.TableStore) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations, Tables: tables}
}

type reservationReq struct {
	TableID   uint64  `json:"table_id"`
	PartySize int     `json:"party_size"`
	Start     string  `json:"start"` // RFC 3339
	End       string  `json:"end"`   // RFC 3339
	Note      *string `json:"note"`
}

type reservationResp struct {
	ID        uint64    `json:"id"`
	TableID   uint64    `json:"table_id"`
	PartySize int       `json:"party_size"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Note      *string   `json:"note,omitempty"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:        r.ID,
		TableID:   r.TableID,
		PartySize: r.PartySize,
		Start:     r.Start,
		End:       r.End,
		Note:      r.Note,
	}
}

// candidate validates the request body and converts it. Party size is
// checked against the shared seat bound here so an absurd value never
// reaches storage; the per-table capacity check belongs to the policy.
func (req reservationReq) candidate() (service.Candidate, string) {
	if req.TableID == 0 {
		return service.Candidate{}, "table_id is required"
	}
	if err := model.ValidateSeatCount(req.PartySize); err != nil {
		return service.Candidate{}, "party_size " + err.Error()
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return service.Candidate{}, "start must be an RFC 3339 timestamp"
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return service.Candidate{}, "end must be an RFC 3339 timestamp"
	}
	note := req.Note
	if note != nil && strings.TrimSpace(*note) == "" {
		note = nil
	}
	return service.Candidate{
		TableID:   req.TableID,
		PartySize: req.PartySize,
		Start:     start.UTC(),
		End:       end.UTC(),
		Note:      note,
	}, ""
}

// Create handles POST /v1/reservations. 201 with the reservation on
// accept; 400 with the rejection's reason code otherwise.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	cand, msg := req.candidate()
	if msg != "" {
		return badRequest(c, reasonMalformedInput, msg)
	}

	res, err := h.Reservations.Create(c.Request().Context(), uid, cand)
	if err != nil {
		return respondDomainErr(c, err)
	}
	h.publishConfirmed(c, res)
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// Update handles PUT /v1/reservations/:id. The whole candidate is
// re-evaluated; nothing is persisted on rejection.
func (h *ReservationHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, reasonMalformedInput, "invalid body")
	}
	cand, msg := req.candidate()
	if msg != "" {
		return badRequest(c, reasonMalformedInput, msg)
	}

	res, err := h.Reservations.Update(c.Request().Context(), uid, id, cand)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Get handles GET /v1/reservations/:id, owner only.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	res, err := h.Reservations.Get(c.Request().Context(), uid, id)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Delete handles DELETE /v1/reservations/:id. The reservation's order
// and its lines go with it.
func (h *ReservationHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, reasonMalformedInput, err.Error())
	}
	if err := h.Reservations.Delete(c.Request().Context(), uid, id); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/reservations with optional table_name and
// start_date filters plus page/page_size, newest start first.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	f := repository.ReservationFilter{TableName: strings.TrimSpace(c.QueryParam("table_name"))}
	if s := c.QueryParam("start_date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badRequest(c, reasonMalformedInput, "start_date must be YYYY-MM-DD")
		}
		f.StartDate = &d
	}
	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return badRequest(c, reasonMalformedInput, "page must be a positive integer")
		}
		f.Page = n
	}
	if s := c.QueryParam("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return badRequest(c, reasonMalformedInput, "page_size must be a positive integer")
		}
		f.PageSize = n
	}

	items, err := h.Reservations.List(c.Request().Context(), uid, f)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// publishConfirmed emits the confirmation event in the background. A
// broker outage never fails the request; the reservation is already
// persisted.
func (h *ReservationHandler) publishConfirmed(c echo.Context, res *model.Reservation) {
	tableName := ""
	if t, err := h.Tables.GetTable(c.Request().Context(), res.TableID); err == nil {
		tableName = t.Name
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		TableID:       res.TableID,
		TableName:     tableName,
		PartySize:     res.PartySize,
		Start:         res.Start.Format(time.RFC3339),
		End:           res.End.Format(time.RFC3339),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := contextWithPublishTimeout()
		defer cancel()
		_ = queue.PublishReservationConfirmed(ctx, ev)
	}()
}
