package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func resv(checkIn string, guests int, pm model.PaymentMethod, rooms []model.Room, services ...model.Service) model.Reservation {
	return model.Reservation{
		CheckIn:       day(checkIn),
		CheckOut:      day(checkIn).AddDate(0, 0, 1),
		GuestCount:    guests,
		PaymentMethod: pm,
		Rooms:         rooms,
		Services:      services,
	}
}

func TestBuildStatistics(t *testing.T) {
	reservations := []model.Reservation{
		resv("2024-01-15", 2, model.PaymentCash, []model.Room{room101, room102}, spa),
		resv("2024-01-20", 1, model.PaymentPayPal, []model.Room{room101}),
		resv("2024-07-01", 3, model.PaymentCash, []model.Room{room201}, spa, parking),
		resv("2023-01-05", 4, model.PaymentDebitCard, []model.Room{room102}),
		resv("2022-03-01", 4, model.PaymentDebitCard, []model.Room{room102}),
	}
	st := BuildStatistics(2024, reservations, []model.Room{room101, room102, room201}, []model.Service{spa, parking})

	assert.Equal(t, 2, st.MonthlyReservations.CurrentYear[0])
	assert.Equal(t, 1, st.MonthlyReservations.CurrentYear[6])
	assert.Equal(t, 1, st.MonthlyReservations.PreviousYear[0])
	assert.Equal(t, 0, st.MonthlyReservations.PreviousYear[2])
	assert.Equal(t, 3, st.MonthlyGuests[0])
	assert.Equal(t, 300, st.MonthlyRevenue[0])
	assert.Equal(t, 100, st.MonthlyRevenue[6])
	assert.Equal(t, map[string]int{"cash": 2, "credit_card": 0, "paypal": 1, "debit_card": 0}, st.PaymentMethods)
	assert.Equal(t, map[int]int{101: 2, 102: 1, 201: 1}, st.Rooms)
	assert.Equal(t, map[string]int{"spa": 2, "parking": 1}, st.Services)
}

func TestBuildStatisticsEmpty(t *testing.T) {
	st := BuildStatistics(2024, nil, nil, nil)
	assert.Len(t, st.PaymentMethods, 4)
	assert.Empty(t, st.Rooms)

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"monthly_stats":{"current_year":[0,0,0,0,0,0,0,0,0,0,0,0]`)
}

func TestStatisticsLoadsTwoYears(t *testing.T) {
	f := newFixture()
	f.store.seed("2024-03-01", "2024-03-02", room101)
	f.store.seed("2023-03-01", "2023-03-02", room101)
	f.store.seed("2022-03-01", "2022-03-02", room101)

	st, err := f.svc.Statistics(context.Background(), time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2024, st.Year)
	assert.Equal(t, 1, st.MonthlyReservations.CurrentYear[2])
	assert.Equal(t, 1, st.MonthlyReservations.PreviousYear[2])
	assert.Equal(t, 1, st.Rooms[101])
	assert.Equal(t, 0, st.Rooms[201])
}

func TestDashboard(t *testing.T) {
	admin, err := Dashboard(model.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admin, 3)
	assert.True(t, admin[2].Enabled)
	assert.Equal(t, "/v1/statistics", admin[2].URL)

	reception, err := Dashboard(model.RoleReception)
	require.NoError(t, err)
	assert.False(t, reception[2].Enabled)
	assert.Empty(t, reception[2].URL)
	assert.Equal(t, "Kalendarz", reception[0].Title)

	_, err = Dashboard(model.RoleGuest)
	assert.ErrorIs(t, err, ErrForbidden)
}
