// Package availability decides which rooms are free for a date range
// and how many room-nights are booked on each day.
//
// A stay occupies the half-open day range [check-in, check-out): the
// check-out day is free for the next guest.  Both the conflict test and
// the daily load counter use this rule.  A stay whose check-out is not
// after its check-in occupies its check-in day only.
package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// DefaultThreshold is the number of room-nights per day above which a
// day is reported as overbooked.
const DefaultThreshold = 10

// DateFormat is the layout used for day keys and user-facing dates.
const DateFormat = "2006-01-02"

// Day truncates t to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OccupiedUntil returns the first free day after a stay.  It is the
// exclusive end used for calendar events.
func OccupiedUntil(checkIn, checkOut time.Time) time.Time {
	in, out := Day(checkIn), Day(checkOut)
	if !out.After(in) {
		return in.AddDate(0, 0, 1)
	}
	return out
}

// Overlaps reports whether an existing stay conflicts with the
// candidate range [checkIn, checkOut).  Touching ranges do not
// conflict, and an empty candidate range conflicts with nothing.
func Overlaps(r *model.Reservation, checkIn, checkOut time.Time) bool {
	in, out := Day(checkIn), Day(checkOut)
	if !out.After(in) {
		return false
	}
	return Day(r.CheckIn).Before(out) && OccupiedUntil(r.CheckIn, r.CheckOut).After(in)
}

// FindAvailableRooms returns the rooms from all that are not occupied
// by any of the existing reservations during [checkIn, checkOut).
// When excludeID is non-zero the reservation with that id is ignored,
// so an edited reservation does not block its own rooms.  The result
// is ordered by room number.  The range is not validated: a range
// whose check-out is not after its check-in conflicts with nothing.
func FindAvailableRooms(all []model.Room, existing []model.Reservation, checkIn, checkOut time.Time, excludeID uint64) []model.Room {
	taken := make(map[uint64]struct{})
	for i := range existing {
		r := &existing[i]
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if !Overlaps(r, checkIn, checkOut) {
			continue
		}
		for _, room := range r.Rooms {
			taken[room.ID] = struct{}{}
		}
	}
	free := make([]model.Room, 0, len(all))
	for _, room := range all {
		if _, ok := taken[room.ID]; !ok {
			free = append(free, room)
		}
	}
	sort.SliceStable(free, func(i, j int) bool { return free[i].Number < free[j].Number })
	return free
}

// ComputeDailyRoomLoad sums, for every day occupied by any of the
// reservations, the number of rooms booked that day.  Keys are days
// formatted with DateFormat.
func ComputeDailyRoomLoad(reservations []model.Reservation) map[string]int {
	load := make(map[string]int)
	for i := range reservations {
		r := &reservations[i]
		rooms := len(r.Rooms)
		end := OccupiedUntil(r.CheckIn, r.CheckOut)
		for d := Day(r.CheckIn); d.Before(end); d = d.AddDate(0, 0, 1) {
			load[d.Format(DateFormat)] += rooms
		}
	}
	return load
}

// StayDays lists the days a stay occupies, formatted with DateFormat.
func StayDays(checkIn, checkOut time.Time) []string {
	end := OccupiedUntil(checkIn, checkOut)
	days := make([]string, 0)
	for d := Day(checkIn); d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateFormat))
	}
	return days
}

// OverbookedDays returns, in ascending order, the days whose load is
// strictly greater than threshold.
func OverbookedDays(load map[string]int, threshold int) []string {
	days := make([]string, 0)
	for day, n := range load {
		if n > threshold {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// WarningMessage is the text shown to staff for an overbooked day.
func WarningMessage(day string, threshold int) string {
	return fmt.Sprintf("Sprawdź stan magazynowy hotelu, liczba zarezerwowanych pokoi na dzień %s przekroczyła %d.", day, threshold)
}

// Warnings returns one message per overbooked day in load.
func Warnings(load map[string]int, threshold int) []string {
	days := OverbookedDays(load, threshold)
	msgs := make([]string, 0, len(days))
	for _, d := range days {
		msgs = append(msgs, WarningMessage(d, threshold))
	}
	return msgs
}
