package service

import "github.com/iliyamo/hotel-reservation/internal/model"

// Tile is one entry of the staff dashboard.  A disabled tile has no URL.
type Tile struct {
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Enabled bool   `json:"enabled"`
}

// Dashboard returns the tiles for role.  Roles that may not manage
// reservations get ErrForbidden.
func Dashboard(role model.Role) ([]Tile, error) {
	if !role.CanManageReservations() {
		return nil, ErrForbidden
	}
	stats := Tile{Title: "Statystyki hotelu"}
	if role.CanViewStatistics() {
		stats.URL = "/v1/statistics"
		stats.Enabled = true
	}
	return []Tile{
		{Title: "Kalendarz", URL: "/v1/calendar", Enabled: true},
		{Title: "Dodaj rezerwację", URL: "/v1/reservations", Enabled: true},
		stats,
	}, nil
}
