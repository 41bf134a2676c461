package model

// ServiceName identifies an add-on that can be purchased with a stay.
type ServiceName string

const (
	ServiceNone        ServiceName = "none"
	ServiceSpa         ServiceName = "spa"
	ServiceRoomService ServiceName = "room_service"
	ServiceParking     ServiceName = "parking"
	ServiceGastronomy  ServiceName = "gastronomy"
)

// ServiceNames lists every known add-on in display order.
var ServiceNames = []ServiceName{
	ServiceNone,
	ServiceSpa,
	ServiceRoomService,
	ServiceParking,
	ServiceGastronomy,
}

// Label returns the display name of the service.
func (n ServiceName) Label() string {
	switch n {
	case ServiceNone:
		return "Brak"
	case ServiceSpa:
		return "Spa"
	case ServiceRoomService:
		return "Room Service"
	case ServiceParking:
		return "Parking"
	case ServiceGastronomy:
		return "Gastronomia"
	}
	return string(n)
}

// Valid reports whether n is one of the known service names.
func (n ServiceName) Valid() bool {
	for _, s := range ServiceNames {
		if s == n {
			return true
		}
	}
	return false
}

// DefaultPriceCents returns the list price of n in grosze.
func (n ServiceName) DefaultPriceCents() uint32 {
	switch n {
	case ServiceSpa:
		return 20000
	case ServiceRoomService:
		return 5000
	case ServiceParking:
		return 1500
	case ServiceGastronomy:
		return 10000
	}
	return 0
}

// Service is a priced add-on, one row of the `services` table.
// PriceCents holds the price in grosze (1/100 PLN).
type Service struct {
	ID         uint64      `json:"id"`          // services.id
	Name       ServiceName `json:"name"`        // services.name
	PriceCents uint32      `json:"price_cents"` // services.price_cents
}
