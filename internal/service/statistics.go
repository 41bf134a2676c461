package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomNightPricePLN is the flat per-room amount used for the revenue
// estimate.
const RoomNightPricePLN = 100

// MonthlyComparison holds reservation counts per month (index 0 is
// January) for two consecutive years.
type MonthlyComparison struct {
	CurrentYear  [12]int `json:"current_year"`
	PreviousYear [12]int `json:"previous_year"`
}

// Statistics summarizes reservations by check-in date.  Everything but
// MonthlyReservations.PreviousYear covers the current year only.
type Statistics struct {
	Year                int               `json:"year"`
	MonthlyReservations MonthlyComparison `json:"monthly_stats"`
	MonthlyGuests       [12]int           `json:"monthly_guest_counts"`
	MonthlyRevenue      [12]int           `json:"monthly_revenue"`
	PaymentMethods      map[string]int    `json:"payment_methods"`
	Rooms               map[int]int       `json:"room_stats"`
	Services            map[string]int    `json:"service_stats"`
}

// Statistics loads the current and previous year's reservations and
// aggregates them.
func (s *ReservationService) Statistics(ctx context.Context, now time.Time) (*Statistics, error) {
	year := now.Year()
	from := time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	reservations, err := s.store.ListReservationsCheckInBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	st := BuildStatistics(year, reservations, rooms, services)
	return &st, nil
}

// BuildStatistics aggregates reservations for year.  Every payment
// method, room and service gets a key even when its count is zero.
// Reservations outside year and year-1 are ignored.
func BuildStatistics(year int, reservations []model.Reservation, rooms []model.Room, services []model.Service) Statistics {
	st := Statistics{
		Year:           year,
		PaymentMethods: make(map[string]int, len(model.PaymentMethods)),
		Rooms:          make(map[int]int, len(rooms)),
		Services:       make(map[string]int, len(services)),
	}
	for _, pm := range model.PaymentMethods {
		st.PaymentMethods[string(pm)] = 0
	}
	for _, room := range rooms {
		st.Rooms[room.Number] = 0
	}
	for _, sv := range services {
		st.Services[string(sv.Name)] = 0
	}

	for i := range reservations {
		r := &reservations[i]
		m := int(r.CheckIn.Month()) - 1
		switch r.CheckIn.Year() {
		case year - 1:
			st.MonthlyReservations.PreviousYear[m]++
		case year:
			st.MonthlyReservations.CurrentYear[m]++
			st.MonthlyGuests[m] += r.GuestCount
			st.MonthlyRevenue[m] += len(r.Rooms) * RoomNightPricePLN
			st.PaymentMethods[string(r.PaymentMethod)]++
			for _, room := range r.Rooms {
				st.Rooms[room.Number]++
			}
			for _, sv := range r.Services {
				st.Services[string(sv.Name)]++
			}
		}
	}
	return st
}
