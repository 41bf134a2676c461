package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/availability"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/validation"
	"github.com/iliyamo/hotel-reservation/internal/warnings"
)

// ReservationService creates, edits and cancels reservations and
// answers availability, calendar and statistics queries.
type ReservationService struct {
	store     Store
	events    Publisher
	warnings  warnings.Store
	log       logrus.FieldLogger
	metrics   Recorder
	threshold int
	now       func() time.Time
	dispatch  func(func())
}

func NewReservationService(store Store, events Publisher, warns warnings.Store, log logrus.FieldLogger) *ReservationService {
	return &ReservationService{
		store:     store,
		events:    events,
		warnings:  warns,
		log:       log,
		metrics:   nopRecorder{},
		threshold: availability.DefaultThreshold,
		now:       time.Now,
		dispatch:  func(f func()) { go f() },
	}
}

// WithThreshold overrides the overbooking threshold.
func (s *ReservationService) WithThreshold(n int) *ReservationService {
	if n > 0 {
		s.threshold = n
	}
	return s
}

// WithMetrics attaches a metrics recorder.
func (s *ReservationService) WithMetrics(r Recorder) *ReservationService {
	if r != nil {
		s.metrics = r
	}
	return s
}

// Availability is the result of an availability query.  Message is set
// when the dates could not be parsed and every room is returned.
type Availability struct {
	Rooms   []model.Room `json:"rooms"`
	Message string       `json:"message,omitempty"`
}

// MsgDateOrder is the availability message for a range whose check-out
// is not after its check-in.
const MsgDateOrder = "Error parsing dates: check_out must be after check_in"

// AvailableRooms returns the rooms free between the raw YYYY-MM-DD dates.
// When either date is missing every room is returned.  When a date does
// not parse, or check-out is not after check-in, every room is returned
// together with a message; the caller can still proceed.  excludeID
// ignores the reservation being edited.
func (s *ReservationService) AvailableRooms(ctx context.Context, checkInRaw, checkOutRaw string, excludeID uint64) (*Availability, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	checkInRaw, checkOutRaw = strings.TrimSpace(checkInRaw), strings.TrimSpace(checkOutRaw)
	if checkInRaw == "" || checkOutRaw == "" {
		return &Availability{Rooms: rooms}, nil
	}
	checkIn, errIn := time.Parse(availability.DateFormat, checkInRaw)
	checkOut, errOut := time.Parse(availability.DateFormat, checkOutRaw)
	if perr := errors.Join(errIn, errOut); perr != nil {
		return &Availability{Rooms: rooms, Message: "Error parsing dates: " + perr.Error()}, nil
	}
	if !checkOut.After(checkIn) {
		return &Availability{Rooms: rooms, Message: MsgDateOrder}, nil
	}
	existing, err := s.store.ListReservationsTouching(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return &Availability{Rooms: availability.FindAvailableRooms(rooms, existing, checkIn, checkOut, excludeID)}, nil
}

// ReservationDetail is a reservation together with the rooms that could
// be added to it without a conflict.
type ReservationDetail struct {
	Reservation    *model.Reservation `json:"reservation"`
	AvailableRooms []model.Room       `json:"available_rooms"`
}

// Get returns a reservation and the rooms free for its own dates,
// ignoring the reservation itself.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*ReservationDetail, error) {
	r, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListReservationsTouching(ctx, r.CheckIn, availability.OccupiedUntil(r.CheckIn, r.CheckOut))
	if err != nil {
		return nil, err
	}
	return &ReservationDetail{
		Reservation:    r,
		AvailableRooms: availability.FindAvailableRooms(rooms, existing, r.CheckIn, r.CheckOut, r.ID),
	}, nil
}

// Result is returned by Create and Update.  Warnings lists the
// overbooking messages raised by this change; they are also appended to
// the session's warning list.
type Result struct {
	Reservation *model.Reservation `json:"reservation"`
	Warnings    []string           `json:"warnings"`
}

// Create validates in, books the chosen rooms and records the
// reservation with status "new".  A room that is already taken for the
// dates yields ErrRoomsUnavailable.
func (s *ReservationService) Create(ctx context.Context, sessionID string, userID uint64, in validation.ReservationInput) (*Result, error) {
	r, err := validation.Reservation(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r.CreatedBy = userID

	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		if err := s.claimRooms(ctx, q, r, 0); err != nil {
			return err
		}
		if err := q.CreateReservation(ctx, r); err != nil {
			return err
		}
		return q.CreateStatus(ctx, r.ID, model.StatusNew)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ReservationChanged("create")
	s.log.WithFields(logrus.Fields{"reservation_id": r.ID, "user_id": userID, "rooms": r.RoomIDs()}).Info("reservation created")

	s.notify(queue.NewReservationEvent(queue.EventCreated, r, s.now()))
	return &Result{Reservation: r, Warnings: s.raiseWarnings(ctx, sessionID, r)}, nil
}

// Update replaces the guest data, dates, rooms and services of an
// existing reservation.  The reservation's own bookings never block it.
func (s *ReservationService) Update(ctx context.Context, sessionID string, id uint64, in validation.ReservationInput) (*Result, error) {
	r, err := validation.Reservation(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r.ID = id

	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		current, err := q.GetReservation(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReservationNotFound
		}
		if err != nil {
			return err
		}
		r.CreatedBy = current.CreatedBy
		if err := s.claimRooms(ctx, q, r, id); err != nil {
			return err
		}
		err = q.UpdateReservation(ctx, r)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReservationNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ReservationChanged("update")
	s.log.WithFields(logrus.Fields{"reservation_id": r.ID, "rooms": r.RoomIDs()}).Info("reservation updated")

	s.notify(queue.NewReservationEvent(queue.EventUpdated, r, s.now()))
	return &Result{Reservation: r, Warnings: s.raiseWarnings(ctx, sessionID, r)}, nil
}

// Cancel deletes a reservation and notifies the guest.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) error {
	var r *model.Reservation
	err := s.store.RunInTx(ctx, func(q repository.Querier) error {
		var err error
		r, err = q.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		return q.DeleteReservation(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	s.metrics.ReservationChanged("cancel")
	s.log.WithField("reservation_id", id).Info("reservation cancelled")

	s.notify(queue.NewReservationEvent(queue.EventCancelled, r, s.now()))
	return nil
}

// claimRooms locks the requested rooms, resolves the requested services
// and checks that no other reservation holds any of the rooms during
// r's stay.  On success r carries the full room and service rows.
func (s *ReservationService) claimRooms(ctx context.Context, q repository.Querier, r *model.Reservation, excludeID uint64) error {
	ids := r.RoomIDs()
	rooms, err := q.LockRooms(ctx, ids)
	if err != nil {
		return err
	}
	if len(rooms) != len(ids) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"room_ids": "unknown room"})
	}

	serviceIDs := make([]uint64, 0, len(r.Services))
	for _, sv := range r.Services {
		serviceIDs = append(serviceIDs, sv.ID)
	}
	services, err := q.ServicesByIDs(ctx, serviceIDs)
	if err != nil {
		return err
	}
	if len(services) != len(serviceIDs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"service_ids": "unknown service"})
	}

	existing, err := q.ListReservationsTouching(ctx, r.CheckIn, r.CheckOut)
	if err != nil {
		return err
	}
	free := availability.FindAvailableRooms(rooms, existing, r.CheckIn, r.CheckOut, excludeID)
	if len(free) != len(rooms) {
		return fmt.Errorf("%w: %s", ErrRoomsUnavailable, takenNumbers(rooms, free))
	}
	r.Rooms = rooms
	r.Services = services
	return nil
}

func takenNumbers(requested, free []model.Room) string {
	ok := make(map[uint64]bool, len(free))
	for _, f := range free {
		ok[f.ID] = true
	}
	var nums []int
	for _, room := range requested {
		if !ok[room.ID] {
			nums = append(nums, room.Number)
		}
	}
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return "rooms " + strings.Join(parts, ", ")
}

// raiseWarnings computes the hotel-wide load on the days of r's stay
// and appends a message for every day over the threshold to the
// session's list.  Failures are logged; they never fail the request.
func (s *ReservationService) raiseWarnings(ctx context.Context, sessionID string, r *model.Reservation) []string {
	msgs := make([]string, 0)
	existing, err := s.store.ListReservationsTouching(ctx, r.CheckIn, availability.OccupiedUntil(r.CheckIn, r.CheckOut))
	if err != nil {
		s.log.WithError(err).WithField("reservation_id", r.ID).Warn("overbooking check skipped")
		return msgs
	}
	load := availability.ComputeDailyRoomLoad(existing)
	stay := make(map[string]bool)
	for _, d := range availability.StayDays(r.CheckIn, r.CheckOut) {
		stay[d] = true
	}
	for _, d := range availability.OverbookedDays(load, s.threshold) {
		if stay[d] {
			msgs = append(msgs, availability.WarningMessage(d, s.threshold))
		}
	}
	s.appendWarnings(ctx, sessionID, msgs)
	return msgs
}

func (s *ReservationService) appendWarnings(ctx context.Context, sessionID string, msgs []string) {
	if len(msgs) == 0 {
		return
	}
	s.metrics.Overbooked(len(msgs))
	if sessionID == "" {
		return
	}
	if err := s.warnings.Append(ctx, sessionID, msgs...); err != nil {
		s.log.WithError(err).Warn("warning store append failed")
	}
}

// notify publishes ev in the background.  A broker outage is logged and
// counted but never surfaces to the caller.
func (s *ReservationService) notify(ev queue.ReservationEvent) {
	if s.events == nil {
		return
	}
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		err := s.events.Publish(ctx, ev)
		s.metrics.Notification("publish", err)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"kind": ev.Kind, "reservation_id": ev.ReservationID}).
				Warn("notification not published")
		}
	})
}
