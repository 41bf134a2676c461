package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/validation"
)

// CatalogueService manages rooms and add-on services.
type CatalogueService struct {
	store Store
	// onChange runs after a successful write, for cache invalidation.
	onChange func(ctx context.Context)
}

func NewCatalogueService(store Store, onChange func(ctx context.Context)) *CatalogueService {
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	return &CatalogueService{store: store, onChange: onChange}
}

func (s *CatalogueService) Rooms(ctx context.Context) ([]model.Room, error) {
	return s.store.ListRooms(ctx)
}

func (s *CatalogueService) Services(ctx context.Context) ([]model.Service, error) {
	return s.store.ListServices(ctx)
}

// CreateRoom adds a room.  Duplicate numbers surface as
// repository.ErrConflict.
func (s *CatalogueService) CreateRoom(ctx context.Context, number int, typ model.RoomType) (*model.Room, error) {
	errs := validation.Errors{}
	if number <= 0 {
		errs["number"] = "must be positive"
	}
	if !typ.Valid() {
		errs["type"] = "must be one of: single double suite"
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}
	room := &model.Room{Number: number, Type: typ}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.onChange(ctx)
	return room, nil
}

// CreateService adds a catalogue entry.  When priceCents is nil the
// default price for the name is used.
func (s *CatalogueService) CreateService(ctx context.Context, name model.ServiceName, priceCents *uint32) (*model.Service, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"name": "unknown service"})
	}
	sv := &model.Service{Name: name, PriceCents: name.DefaultPriceCents()}
	if priceCents != nil {
		sv.PriceCents = *priceCents
	}
	if err := s.store.CreateService(ctx, sv); err != nil {
		return nil, err
	}
	s.onChange(ctx)
	return sv, nil
}
