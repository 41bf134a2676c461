// Package notify turns reservation events into guest emails and sends
// them.
package notify

import (
	"context"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// Message is a rendered plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Render builds the guest email for ev.
func Render(ev queue.ReservationEvent) (Message, error) {
	if ev.GuestEmail == "" {
		return Message{}, fmt.Errorf("event %s for reservation %d has no recipient", ev.Kind, ev.ReservationID)
	}
	m := Message{To: ev.GuestEmail}
	switch ev.Kind {
	case queue.EventCreated:
		m.Subject = "Potwierdzenie rezerwacji"
		m.Body = fmt.Sprintf("Twoja rezerwacja została dokonana na termin od %s do %s.", ev.CheckIn, ev.CheckOut)
	case queue.EventUpdated:
		m.Subject = "Aktualizacja rezerwacji"
		m.Body = fmt.Sprintf("Twoja rezerwacja została zaktualizowana na termin od %s do %s.", ev.CheckIn, ev.CheckOut)
	case queue.EventCancelled:
		m.Subject = "Anulacja rezerwacji"
		m.Body = fmt.Sprintf("Twoja rezerwacja na termin od %s do %s została anulowana.", ev.CheckIn, ev.CheckOut)
	default:
		return Message{}, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return m, nil
}

// Handler adapts a Mailer to queue.Handler.
func Handler(mailer Mailer) queue.Handler {
	return func(ctx context.Context, ev queue.ReservationEvent) error {
		m, err := Render(ev)
		if err != nil {
			return err
		}
		return mailer.Send(ctx, m)
	}
}
