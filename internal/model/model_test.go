package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageReservations())
	assert.True(t, RoleAdmin.CanViewStatistics())
	assert.True(t, RoleReception.CanManageReservations())
	assert.False(t, RoleReception.CanViewStatistics())
	assert.False(t, RoleGuest.CanManageReservations())
	assert.False(t, Role("OWNER").Valid())
}

func TestServiceCatalogue(t *testing.T) {
	prices := map[ServiceName]uint32{}
	for _, n := range ServiceNames {
		assert.True(t, n.Valid())
		prices[n] = n.DefaultPriceCents()
	}
	assert.Equal(t, map[ServiceName]uint32{
		ServiceNone:        0,
		ServiceSpa:         20000,
		ServiceRoomService: 5000,
		ServiceParking:     1500,
		ServiceGastronomy:  10000,
	}, prices)
	assert.Equal(t, "Gastronomia", ServiceGastronomy.Label())
	assert.False(t, ServiceName("sauna").Valid())
}

func TestRoomString(t *testing.T) {
	assert.Equal(t, "Room 101 (Suite)", Room{Number: 101, Type: RoomSuite}.String())
	assert.False(t, RoomType("penthouse").Valid())
}

func TestRoomIDs(t *testing.T) {
	r := Reservation{Rooms: []Room{{ID: 2}, {ID: 5}}}
	assert.Equal(t, []uint64{2, 5}, r.RoomIDs())
}
