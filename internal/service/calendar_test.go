package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestCalendar(t *testing.T) {
	f := newFixture()
	id := f.store.seed("2024-05-01", "2024-05-03", room201, room101)

	cal, err := f.svc.Calendar(context.Background(), "sid", time.Date(2024, 4, 30, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []int{101, 102, 201}, roomNumbers(cal.Rooms))
	assert.Equal(t, "2024-04-30", cal.Today)
	require.Len(t, cal.Days, 30)
	assert.Equal(t, "2024-04-30", cal.Days[0])
	assert.Equal(t, "2024-05-29", cal.Days[29])
	assert.Empty(t, cal.Warnings)

	require.Len(t, cal.Events, 2)
	ev := cal.Events[0]
	assert.Equal(t, "Seed Guest", ev.Title)
	assert.Equal(t, "2024-05-01", ev.Start)
	assert.Equal(t, "2024-05-03", ev.End)
	assert.Equal(t, "Pokój: 201 (Suite), Liczba gości: 1", ev.Description)
	assert.Equal(t, "/v1/reservations/1", ev.URL)
	assert.Equal(t, uint64(1), id)
}

func TestCalendarSameDayStayEndsNextDay(t *testing.T) {
	f := newFixture()
	f.store.seed("2024-05-01", "2024-05-01", room101)
	cal, err := f.svc.Calendar(context.Background(), "sid", day("2024-05-01"))
	require.NoError(t, err)
	require.Len(t, cal.Events, 1)
	assert.Equal(t, "2024-05-02", cal.Events[0].End)
}

func TestCalendarWarningsAccumulateUntilCleared(t *testing.T) {
	f := newFixture()
	f.svc.WithThreshold(10)
	rooms := make([]model.Room, 0, 11)
	for i := 0; i < 11; i++ {
		room := model.Room{ID: uint64(100 + i), Number: 300 + i, Type: model.RoomSingle}
		f.store.rooms = append(f.store.rooms, room)
		rooms = append(rooms, room)
	}
	for _, room := range rooms {
		f.store.seed("2024-06-10", "2024-06-11", room)
	}
	ctx := context.Background()
	want := "Sprawdź stan magazynowy hotelu, liczba zarezerwowanych pokoi na dzień 2024-06-10 przekroczyła 10."

	cal, err := f.svc.Calendar(ctx, "sid", day("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{want}, cal.Warnings)

	cal, err = f.svc.Calendar(ctx, "sid", day("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{want, want}, cal.Warnings)

	other, err := f.svc.Calendar(ctx, "other-session", day("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{want}, other.Warnings)

	require.NoError(t, f.svc.ClearWarnings(ctx, "sid"))
	left, _ := f.warnings.List(ctx, "sid")
	assert.Empty(t, left)
}

func TestCalendarPropagatesStoreError(t *testing.T) {
	f := newFixture()
	f.store.failList = errBoom
	_, err := f.svc.Calendar(context.Background(), "sid", day("2024-06-01"))
	assert.ErrorIs(t, err, errBoom)
}
