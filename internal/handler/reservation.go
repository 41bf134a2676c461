package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/validation"
)

// Reservations is implemented by *service.ReservationService.
type Reservations interface {
	AvailableRooms(ctx context.Context, checkInRaw, checkOutRaw string, excludeID uint64) (*service.Availability, error)
	Get(ctx context.Context, id uint64) (*service.ReservationDetail, error)
	Create(ctx context.Context, sessionID string, userID uint64, in validation.ReservationInput) (*service.Result, error)
	Update(ctx context.Context, sessionID string, id uint64, in validation.ReservationInput) (*service.Result, error)
	Cancel(ctx context.Context, id uint64) error
	Calendar(ctx context.Context, sessionID string, today time.Time) (*service.Calendar, error)
	ClearWarnings(ctx context.Context, sessionID string) error
	Statistics(ctx context.Context, now time.Time) (*service.Statistics, error)
}

// ReservationHandler serves reservation, calendar and statistics
// endpoints for staff.
type ReservationHandler struct {
	Svc     Reservations
	Log     logrus.FieldLogger
	Timeout time.Duration
	Now     func() time.Time
}

func NewReservationHandler(svc Reservations, log logrus.FieldLogger, timeout time.Duration) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Log: log, Timeout: timeout, Now: time.Now}
}

// AvailableRooms handles GET /v1/rooms/available?check_in&check_out&exclude.
func (h *ReservationHandler) AvailableRooms(c echo.Context) error {
	var exclude uint64
	if raw := c.QueryParam("exclude"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude"})
		}
		exclude = n
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	res, err := h.Svc.AvailableRooms(ctx, c.QueryParam("check_in"), c.QueryParam("check_out"), exclude)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in validation.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	uid, _ := middleware.UserID(c)
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	res, err := h.Svc.Create(ctx, middleware.SessionID(c), uid, in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	res, err := h.Svc.Get(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in validation.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	res, err := h.Svc.Update(ctx, middleware.SessionID(c), id, in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	if err := h.Svc.Cancel(ctx, id); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Calendar handles GET /v1/calendar.
func (h *ReservationHandler) Calendar(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	cal, err := h.Svc.Calendar(ctx, middleware.SessionID(c), h.Now())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, cal)
}

// ClearWarnings handles DELETE /v1/calendar/messages.
func (h *ReservationHandler) ClearWarnings(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	if err := h.Svc.ClearWarnings(ctx, middleware.SessionID(c)); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Statistics handles GET /v1/statistics.
func (h *ReservationHandler) Statistics(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	st, err := h.Svc.Statistics(ctx, h.Now())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Dashboard handles GET /v1/dashboard.
func (h *ReservationHandler) Dashboard(c echo.Context) error {
	tiles, err := service.Dashboard(middleware.Role(c))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"role": middleware.Role(c), "tiles": tiles})
}
