package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/availability"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// calendarDays is how many days, starting today, the calendar grid shows.
const calendarDays = 30

// CalendarEvent is one room of one reservation.  End is exclusive.
type CalendarEvent struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Calendar is the data behind the staff calendar view.
type Calendar struct {
	Events   []CalendarEvent `json:"events"`
	Rooms    []model.Room    `json:"rooms"`
	Today    string          `json:"current_date"`
	Days     []string        `json:"days"`
	Warnings []string        `json:"warnings"`
}

// Calendar builds the calendar for today.  Every render recomputes the
// daily load over all reservations and appends one warning per
// overbooked day to the session's list; the returned Warnings is the
// whole accumulated list, duplicates included, until ClearWarnings.
func (s *ReservationService) Calendar(ctx context.Context, sessionID string, today time.Time) (*Calendar, error) {
	reservations, err := s.store.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })

	s.appendWarnings(ctx, sessionID, availability.Warnings(availability.ComputeDailyRoomLoad(reservations), s.threshold))
	msgs, err := s.warnings.List(ctx, sessionID)
	if err != nil {
		s.log.WithError(err).Warn("warning store list failed")
		msgs = []string{}
	}

	start := availability.Day(today)
	days := make([]string, calendarDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i).Format(availability.DateFormat)
	}
	return &Calendar{
		Events:   calendarEvents(reservations),
		Rooms:    rooms,
		Today:    start.Format(availability.DateFormat),
		Days:     days,
		Warnings: msgs,
	}, nil
}

// ClearWarnings empties the session's warning list.
func (s *ReservationService) ClearWarnings(ctx context.Context, sessionID string) error {
	return s.warnings.Clear(ctx, sessionID)
}

func calendarEvents(reservations []model.Reservation) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		end := availability.OccupiedUntil(r.CheckIn, r.CheckOut)
		for _, room := range r.Rooms {
			events = append(events, CalendarEvent{
				Title:       r.GuestName + " " + r.GuestSurname,
				Start:       availability.Day(r.CheckIn).Format(availability.DateFormat),
				End:         end.Format(availability.DateFormat),
				Description: fmt.Sprintf("Pokój: %d (%s), Liczba gości: %d", room.Number, room.Type.Label(), r.GuestCount),
				URL:         fmt.Sprintf("/v1/reservations/%d", r.ID),
			})
		}
	}
	return events
}
