// Package queue defines the reservation notification messages and the
// RabbitMQ publisher and consumer that carry them.
package queue

import (
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// EventKind tells the consumer which notification to send.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventUpdated   EventKind = "updated"
	EventCancelled EventKind = "cancelled"
)

// ReservationEvent is published after a reservation is created, edited
// or cancelled.  It carries enough guest data to send the email without
// querying the database, which matters for cancellations where the row
// is already gone.
type ReservationEvent struct {
	Kind          EventKind `json:"kind"`
	ReservationID uint64    `json:"reservation_id"`
	GuestEmail    string    `json:"guest_email"`
	GuestName     string    `json:"guest_name"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	OccurredAt    string    `json:"occurred_at"`
}

// NewReservationEvent builds the event for r.
func NewReservationEvent(kind EventKind, r *model.Reservation, now time.Time) ReservationEvent {
	return ReservationEvent{
		Kind:          kind,
		ReservationID: r.ID,
		GuestEmail:    r.GuestEmail,
		GuestName:     r.GuestName + " " + r.GuestSurname,
		CheckIn:       r.CheckIn.Format("2006-01-02"),
		CheckOut:      r.CheckOut.Format("2006-01-02"),
		OccurredAt:    now.UTC().Format(time.RFC3339),
	}
}
