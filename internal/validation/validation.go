// Package validation checks reservation form input before it reaches
// the service layer.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/hotel-reservation/internal/availability"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReservationInput is the request body for creating or editing a
// reservation.
type ReservationInput struct {
	GuestName     string   `json:"guest_name" validate:"required,max=100"`
	GuestSurname  string   `json:"guest_surname" validate:"required,max=100"`
	GuestEmail    string   `json:"guest_email" validate:"required,email,max=254"`
	GuestPhone    string   `json:"guest_phone" validate:"omitempty,max=15"`
	GuestCount    int      `json:"guest_count" validate:"required,min=1"`
	CheckIn       string   `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut      string   `json:"check_out" validate:"required,datetime=2006-01-02"`
	PaymentMethod string   `json:"payment_method" validate:"omitempty,oneof=cash credit_card paypal debit_card"`
	RoomIDs       []uint64 `json:"room_ids" validate:"required,min=1,dive,gt=0"`
	ServiceIDs    []uint64 `json:"service_ids" validate:"omitempty,dive,gt=0"`
}

// Errors maps a JSON field name to a human readable problem.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var jsonNames = map[string]string{
	"GuestName":     "guest_name",
	"GuestSurname":  "guest_surname",
	"GuestEmail":    "guest_email",
	"GuestPhone":    "guest_phone",
	"GuestCount":    "guest_count",
	"CheckIn":       "check_in",
	"CheckOut":      "check_out",
	"PaymentMethod": "payment_method",
	"RoomIDs":       "room_ids",
	"ServiceIDs":    "service_ids",
}

// normalize trims the text fields and lowercases the email so that the
// tag rules see what will be stored.
func normalize(in ReservationInput) ReservationInput {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestSurname = strings.TrimSpace(in.GuestSurname)
	in.GuestEmail = strings.ToLower(strings.TrimSpace(in.GuestEmail))
	in.GuestPhone = strings.TrimSpace(in.GuestPhone)
	in.CheckIn = strings.TrimSpace(in.CheckIn)
	in.CheckOut = strings.TrimSpace(in.CheckOut)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	return in
}

// Reservation validates in and converts it into a model.Reservation
// with rooms and services carrying only their IDs.  The returned error
// is of type Errors when the input is rejected.
func Reservation(in ReservationInput) (*model.Reservation, error) {
	in = normalize(in)
	errs := Errors{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			name := jsonNames[strings.SplitN(fe.StructField(), "[", 2)[0]]
			if _, seen := errs[name]; !seen {
				errs[name] = message(fe)
			}
		}
	}

	var checkIn, checkOut time.Time
	if _, bad := errs["check_in"]; !bad {
		checkIn, _ = time.Parse(availability.DateFormat, in.CheckIn)
	}
	if _, bad := errs["check_out"]; !bad {
		checkOut, _ = time.Parse(availability.DateFormat, in.CheckOut)
	}
	if !checkIn.IsZero() && !checkOut.IsZero() && !checkOut.After(checkIn) {
		errs["check_out"] = "must be after check_in"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	r := &model.Reservation{
		GuestName:     in.GuestName,
		GuestSurname:  in.GuestSurname,
		GuestEmail:    in.GuestEmail,
		GuestPhone:    in.GuestPhone,
		GuestCount:    in.GuestCount,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		PaymentMethod: model.PaymentMethod(in.PaymentMethod),
		Rooms:         make([]model.Room, 0, len(in.RoomIDs)),
		Services:      make([]model.Service, 0, len(in.ServiceIDs)),
	}
	if r.GuestPhone == "" {
		r.GuestPhone = model.DefaultGuestPhone
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = model.PaymentCash
	}
	for _, id := range dedupe(in.RoomIDs) {
		r.Rooms = append(r.Rooms, model.Room{ID: id})
	}
	for _, id := range dedupe(in.ServiceIDs) {
		r.Services = append(r.Services, model.Service{ID: id})
	}
	return r, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must contain positive ids"
	default:
		return "is invalid"
	}
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
