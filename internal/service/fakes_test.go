package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/warnings"
)

// memStore is an in-memory Store.  RunInTx restores the previous state
// when fn fails.
type memStore struct {
	rooms        []model.Room
	services     []model.Service
	reservations []model.Reservation
	statuses     map[uint64]string
	nextID       uint64
	failList     error
}

func newMemStore(rooms []model.Room, services []model.Service) *memStore {
	return &memStore{rooms: rooms, services: services, statuses: map[uint64]string{}, nextID: 1}
}

func (m *memStore) RunInTx(_ context.Context, fn func(q repository.Querier) error) error {
	saved := append([]model.Reservation(nil), m.reservations...)
	savedNext := m.nextID
	if err := fn(m); err != nil {
		m.reservations = saved
		m.nextID = savedNext
		return err
	}
	return nil
}

func (m *memStore) ListRooms(context.Context) ([]model.Room, error) {
	return append([]model.Room{}, m.rooms...), nil
}

func (m *memStore) CreateRoom(_ context.Context, room *model.Room) error {
	for _, r := range m.rooms {
		if r.Number == room.Number {
			return repository.ErrConflict
		}
	}
	room.ID = uint64(len(m.rooms) + 1000)
	m.rooms = append(m.rooms, *room)
	return nil
}

func (m *memStore) LockRooms(_ context.Context, ids []uint64) ([]model.Room, error) {
	want := map[uint64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []model.Room{}
	for _, r := range m.rooms {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListServices(context.Context) ([]model.Service, error) {
	return append([]model.Service{}, m.services...), nil
}

func (m *memStore) CreateService(_ context.Context, s *model.Service) error {
	s.ID = uint64(len(m.services) + 1000)
	m.services = append(m.services, *s)
	return nil
}

func (m *memStore) ServicesByIDs(_ context.Context, ids []uint64) ([]model.Service, error) {
	want := map[uint64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []model.Service{}
	for _, s := range m.services {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListReservations(context.Context) ([]model.Reservation, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	return m.filter(func(model.Reservation) bool { return true }), nil
}

func (m *memStore) ListReservationsTouching(_ context.Context, from, to time.Time) ([]model.Reservation, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	return m.filter(func(r model.Reservation) bool {
		return r.CheckIn.Before(to) && !r.CheckOut.Before(from)
	}), nil
}

func (m *memStore) ListReservationsCheckInBetween(_ context.Context, from, to time.Time) ([]model.Reservation, error) {
	return m.filter(func(r model.Reservation) bool {
		return !r.CheckIn.Before(from) && r.CheckIn.Before(to)
	}), nil
}

func (m *memStore) filter(keep func(model.Reservation) bool) []model.Reservation {
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) GetReservation(_ context.Context, id uint64) (*model.Reservation, error) {
	for _, r := range m.reservations {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateReservation(_ context.Context, r *model.Reservation) error {
	r.ID = m.nextID
	m.nextID++
	m.reservations = append(m.reservations, *r)
	return nil
}

func (m *memStore) UpdateReservation(_ context.Context, r *model.Reservation) error {
	for i := range m.reservations {
		if m.reservations[i].ID == r.ID {
			m.reservations[i] = *r
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DeleteReservation(_ context.Context, id uint64) error {
	for i := range m.reservations {
		if m.reservations[i].ID == id {
			m.reservations = append(m.reservations[:i], m.reservations[i+1:]...)
			delete(m.statuses, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateStatus(_ context.Context, reservationID uint64, status string) error {
	m.statuses[reservationID] = status
	return nil
}

// seed inserts a reservation directly, bypassing validation.
func (m *memStore) seed(checkIn, checkOut string, rooms ...model.Room) uint64 {
	r := model.Reservation{
		GuestName:     "Seed",
		GuestSurname:  "Guest",
		GuestEmail:    "seed@example.com",
		GuestCount:    1,
		CheckIn:       day(checkIn),
		CheckOut:      day(checkOut),
		PaymentMethod: model.PaymentCash,
		Rooms:         rooms,
		Services:      []model.Service{},
	}
	_ = m.CreateReservation(context.Background(), &r)
	return r.ID
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) kinds() []queue.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventKind, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Kind
	}
	return out
}

var errBoom = errors.New("boom")

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var (
	room101 = model.Room{ID: 1, Number: 101, Type: model.RoomSingle}
	room102 = model.Room{ID: 2, Number: 102, Type: model.RoomDouble}
	room201 = model.Room{ID: 3, Number: 201, Type: model.RoomSuite}
	spa     = model.Service{ID: 1, Name: model.ServiceSpa, PriceCents: 20000}
	parking = model.Service{ID: 2, Name: model.ServiceParking, PriceCents: 1500}
)

type fixture struct {
	store    *memStore
	events   *recordingPublisher
	warnings *warnings.MemoryStore
	svc      *ReservationService
}

func newFixture() *fixture {
	store := newMemStore([]model.Room{room201, room101, room102}, []model.Service{spa, parking})
	events := &recordingPublisher{}
	warns := warnings.NewMemoryStore()
	svc := NewReservationService(store, events, warns, quietLogger())
	svc.dispatch = func(f func()) { f() }
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }
	return &fixture{store: store, events: events, warnings: warns, svc: svc}
}
