package model

import "time"

// PaymentMethod tags how a reservation is paid for.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentDebitCard  PaymentMethod = "debit_card"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentPayPal, PaymentDebitCard}

// StatusNew is the label recorded for every freshly created reservation.
const StatusNew = "new"

// DefaultGuestPhone is stored when no phone number is supplied.
const DefaultGuestPhone = "000000000"

// Reservation is a guest's stay in one or more rooms.  CheckIn and
// CheckOut are calendar days at UTC midnight; the stay occupies the
// nights from CheckIn up to, but not including, CheckOut.
//
// Fields:
//
//	ID            – primary key identifier.
//	GuestName     – first name of the guest.
//	GuestSurname  – last name of the guest.
//	GuestEmail    – address used for notifications.
//	GuestPhone    – contact number.
//	GuestCount    – party size.
//	CheckIn       – arrival day.
//	CheckOut      – departure day.
//	PaymentMethod – payment tag.
//	CreatedBy     – staff user who created the reservation.
//	Rooms         – rooms occupied by the stay.
//	Services      – add-ons purchased with the stay.
type Reservation struct {
	ID            uint64        `json:"id"`             // reservations.id
	GuestName     string        `json:"guest_name"`     // reservations.guest_name
	GuestSurname  string        `json:"guest_surname"`  // reservations.guest_surname
	GuestEmail    string        `json:"guest_email"`    // reservations.guest_email
	GuestPhone    string        `json:"guest_phone"`    // reservations.guest_phone
	GuestCount    int           `json:"guest_count"`    // reservations.guest_count
	CheckIn       time.Time     `json:"check_in"`       // reservations.check_in
	CheckOut      time.Time     `json:"check_out"`      // reservations.check_out
	PaymentMethod PaymentMethod `json:"payment_method"` // reservations.payment_method
	CreatedBy     uint64        `json:"created_by"`     // reservations.created_by
	Rooms         []Room        `json:"rooms"`          // reservation_rooms
	Services      []Service     `json:"services"`       // reservation_services
}

// RoomIDs returns the ids of the rooms occupied by the reservation.
func (r *Reservation) RoomIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Rooms))
	for _, room := range r.Rooms {
		ids = append(ids, room.ID)
	}
	return ids
}

// ReservationStatus records a lifecycle label for a reservation.  It
// is removed together with its reservation.
type ReservationStatus struct {
	ID            uint64 // reservation_statuses.id
	ReservationID uint64 // reservation_statuses.reservation_id
	Status        string // reservation_statuses.status
}
