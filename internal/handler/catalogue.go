package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Catalogue is implemented by *service.CatalogueService.
type Catalogue interface {
	Rooms(ctx context.Context) ([]model.Room, error)
	Services(ctx context.Context) ([]model.Service, error)
	CreateRoom(ctx context.Context, number int, typ model.RoomType) (*model.Room, error)
	CreateService(ctx context.Context, name model.ServiceName, priceCents *uint32) (*model.Service, error)
}

// CatalogueHandler serves the room and service lists.
type CatalogueHandler struct {
	Svc     Catalogue
	Log     logrus.FieldLogger
	Timeout time.Duration
}

func NewCatalogueHandler(svc Catalogue, log logrus.FieldLogger, timeout time.Duration) *CatalogueHandler {
	return &CatalogueHandler{Svc: svc, Log: log, Timeout: timeout}
}

type createRoomReq struct {
	Number int            `json:"number"`
	Type   model.RoomType `json:"type"`
}

type createServiceReq struct {
	Name       model.ServiceName `json:"name"`
	PriceCents *uint32           `json:"price_cents"`
}

func (h *CatalogueHandler) ListRooms(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	rooms, err := h.Svc.Rooms(ctx)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *CatalogueHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	room, err := h.Svc.CreateRoom(ctx, req.Number, req.Type)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *CatalogueHandler) ListServices(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	services, err := h.Svc.Services(ctx)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, services)
}

func (h *CatalogueHandler) CreateService(c echo.Context) error {
	var req createServiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	sv, err := h.Svc.CreateService(ctx, req.Name, req.PriceCents)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sv)
}
