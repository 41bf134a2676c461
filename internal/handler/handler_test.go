package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/utils"
	"github.com/iliyamo/hotel-reservation/internal/validation"
)

const testSecret = "handler-secret"

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func bearer(t *testing.T, role model.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 42, role, "sid-42", 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func call(e *echo.Echo, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// fakeReservations records the arguments it was called with.
type fakeReservations struct {
	err error

	gotSession string
	gotUser    uint64
	gotID      uint64
	gotExclude uint64
	gotInput   validation.ReservationInput
	cleared    string
}

func (f *fakeReservations) AvailableRooms(_ context.Context, in, out string, exclude uint64) (*service.Availability, error) {
	f.gotExclude = exclude
	return &service.Availability{Rooms: []model.Room{{ID: 1, Number: 101, Type: model.RoomSingle}}}, f.err
}

func (f *fakeReservations) Get(_ context.Context, id uint64) (*service.ReservationDetail, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &service.ReservationDetail{Reservation: &model.Reservation{ID: id}}, nil
}

func (f *fakeReservations) Create(_ context.Context, sid string, uid uint64, in validation.ReservationInput) (*service.Result, error) {
	f.gotSession, f.gotUser, f.gotInput = sid, uid, in
	if f.err != nil {
		return nil, f.err
	}
	return &service.Result{Reservation: &model.Reservation{ID: 9, GuestName: in.GuestName}, Warnings: []string{"w1"}}, nil
}

func (f *fakeReservations) Update(_ context.Context, sid string, id uint64, in validation.ReservationInput) (*service.Result, error) {
	f.gotSession, f.gotID, f.gotInput = sid, id, in
	if f.err != nil {
		return nil, f.err
	}
	return &service.Result{Reservation: &model.Reservation{ID: id}, Warnings: []string{}}, nil
}

func (f *fakeReservations) Cancel(_ context.Context, id uint64) error {
	f.gotID = id
	return f.err
}

func (f *fakeReservations) Calendar(_ context.Context, sid string, today time.Time) (*service.Calendar, error) {
	f.gotSession = sid
	return &service.Calendar{Today: today.Format("2006-01-02"), Warnings: []string{"a", "a"}}, f.err
}

func (f *fakeReservations) ClearWarnings(_ context.Context, sid string) error {
	f.cleared = sid
	return f.err
}

func (f *fakeReservations) Statistics(_ context.Context, now time.Time) (*service.Statistics, error) {
	return &service.Statistics{Year: now.Year()}, f.err
}

func reservationApp(f *fakeReservations) *echo.Echo {
	h := NewReservationHandler(f, quietLogger(), time.Second)
	h.Now = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }
	e := echo.New()
	g := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RoleAdmin, model.RoleReception))
	g.GET("/rooms/available", h.AvailableRooms)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/reservations", h.Create)
	g.GET("/reservations/:id", h.Get)
	g.PUT("/reservations/:id", h.Update)
	g.DELETE("/reservations/:id", h.Cancel)
	g.GET("/calendar", h.Calendar)
	g.DELETE("/calendar/messages", h.ClearWarnings)
	g.GET("/statistics", h.Statistics, middleware.RequireRole(model.RoleAdmin))
	return e
}

const reservationBody = `{"guest_name":"Jan","guest_surname":"Kowalski","guest_email":"jan@example.com",
"guest_count":2,"check_in":"2024-05-01","check_out":"2024-05-04","room_ids":[1]}`

func TestCreate_PassesIdentity(t *testing.T) {
	f := &fakeReservations{}
	rec := call(reservationApp(f), http.MethodPost, "/v1/reservations", reservationBody, bearer(t, model.RoleReception))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "sid-42", f.gotSession)
	assert.EqualValues(t, 42, f.gotUser)
	assert.Equal(t, "Jan", f.gotInput.GuestName)
	assert.Equal(t, []uint64{1}, f.gotInput.RoomIDs)
	assert.Contains(t, rec.Body.String(), `"warnings":["w1"]`)
}

func TestCreate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", fmt.Errorf("%w: %w", service.ErrInvalidInput, validation.Errors{"email": "must be a valid email"}), http.StatusBadRequest},
		{"invalid", service.ErrInvalidInput, http.StatusBadRequest},
		{"taken", fmt.Errorf("%w: rooms 101", service.ErrRoomsUnavailable), http.StatusConflict},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeReservations{err: tc.err}
			rec := call(reservationApp(f), http.MethodPost, "/v1/reservations", reservationBody, bearer(t, model.RoleAdmin))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCreate_ValidationFields(t *testing.T) {
	f := &fakeReservations{err: fmt.Errorf("%w: %w", service.ErrInvalidInput, validation.Errors{"check_out": "must be after check_in"})}
	rec := call(reservationApp(f), http.MethodPost, "/v1/reservations", reservationBody, bearer(t, model.RoleAdmin))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"check_out":"must be after check_in"`)
}

func TestCreate_BadBody(t *testing.T) {
	rec := call(reservationApp(&fakeReservations{}), http.MethodPost, "/v1/reservations", "{", bearer(t, model.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservations_RequireStaff(t *testing.T) {
	e := reservationApp(&fakeReservations{})
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodGet, "/v1/calendar", "", "").Code)
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodGet, "/v1/calendar", "", bearer(t, model.RoleGuest)).Code)
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodGet, "/v1/statistics", "", bearer(t, model.RoleReception)).Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/v1/statistics", "", bearer(t, model.RoleAdmin)).Code)
}

func TestGet(t *testing.T) {
	f := &fakeReservations{}
	e := reservationApp(f)

	rec := call(e, http.MethodGet, "/v1/reservations/5", "", bearer(t, model.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, f.gotID)

	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodGet, "/v1/reservations/abc", "", bearer(t, model.RoleAdmin)).Code)
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodGet, "/v1/reservations/0", "", bearer(t, model.RoleAdmin)).Code)

	f.err = service.ErrReservationNotFound
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodGet, "/v1/reservations/5", "", bearer(t, model.RoleAdmin)).Code)
}

func TestUpdate(t *testing.T) {
	f := &fakeReservations{}
	rec := call(reservationApp(f), http.MethodPut, "/v1/reservations/7", reservationBody, bearer(t, model.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, f.gotID)
	assert.Equal(t, "sid-42", f.gotSession)
	assert.Contains(t, rec.Body.String(), `"warnings":[]`)
}

func TestCancel(t *testing.T) {
	f := &fakeReservations{}
	e := reservationApp(f)
	assert.Equal(t, http.StatusNoContent, call(e, http.MethodDelete, "/v1/reservations/3", "", bearer(t, model.RoleReception)).Code)
	assert.EqualValues(t, 3, f.gotID)

	f.err = service.ErrReservationNotFound
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodDelete, "/v1/reservations/3", "", bearer(t, model.RoleReception)).Code)
}

func TestAvailableRooms_Exclude(t *testing.T) {
	f := &fakeReservations{}
	e := reservationApp(f)

	rec := call(e, http.MethodGet, "/v1/rooms/available?check_in=2024-05-01&check_out=2024-05-03&exclude=11", "", bearer(t, model.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 11, f.gotExclude)
	assert.Contains(t, rec.Body.String(), `"number":101`)

	rec = call(e, http.MethodGet, "/v1/rooms/available?exclude=x", "", bearer(t, model.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarAndClear(t *testing.T) {
	f := &fakeReservations{}
	e := reservationApp(f)

	rec := call(e, http.MethodGet, "/v1/calendar", "", bearer(t, model.RoleReception))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_date":"2024-05-10"`)
	assert.Contains(t, rec.Body.String(), `"warnings":["a","a"]`)

	rec = call(e, http.MethodDelete, "/v1/calendar/messages", "", bearer(t, model.RoleReception))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "sid-42", f.cleared)
}

func TestDashboard(t *testing.T) {
	e := reservationApp(&fakeReservations{})
	rec := call(e, http.MethodGet, "/v1/dashboard", "", bearer(t, model.RoleReception))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"RECEPTION"`)
	assert.Contains(t, rec.Body.String(), `"title":"Statystyki hotelu"`)
}

type fakeCatalogue struct {
	rooms []model.Room
	err   error
}

func (f *fakeCatalogue) Rooms(context.Context) ([]model.Room, error) { return f.rooms, f.err }
func (f *fakeCatalogue) Services(context.Context) ([]model.Service, error) {
	return []model.Service{{ID: 1, Name: model.ServiceSpa, PriceCents: 20000}}, f.err
}

func (f *fakeCatalogue) CreateRoom(_ context.Context, number int, typ model.RoomType) (*model.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := model.Room{ID: uint64(len(f.rooms) + 1), Number: number, Type: typ}
	f.rooms = append(f.rooms, r)
	return &r, nil
}

func (f *fakeCatalogue) CreateService(_ context.Context, name model.ServiceName, price *uint32) (*model.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Service{ID: 2, Name: name, PriceCents: name.DefaultPriceCents()}, nil
}

func catalogueApp(f *fakeCatalogue) *echo.Echo {
	h := NewCatalogueHandler(f, quietLogger(), time.Second)
	e := echo.New()
	e.GET("/rooms", h.ListRooms)
	e.POST("/rooms", h.CreateRoom)
	e.GET("/services", h.ListServices)
	e.POST("/services", h.CreateService)
	return e
}

func TestCatalogue(t *testing.T) {
	f := &fakeCatalogue{}
	e := catalogueApp(f)

	rec := call(e, http.MethodPost, "/rooms", `{"number":101,"type":"single"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = call(e, http.MethodGet, "/rooms", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"number":101`)

	rec = call(e, http.MethodPost, "/services", `{"name":"parking"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price_cents":1500`)
	assert.Contains(t, call(e, http.MethodGet, "/services", "", "").Body.String(), `"name":"spa"`)

	f.err = repository.ErrConflict
	assert.Equal(t, http.StatusConflict, call(e, http.MethodPost, "/rooms", `{"number":101,"type":"single"}`, "").Code)
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthAndReady(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health)
	e.GET("/readyz", Ready(pinger{}))
	e.GET("/down", Ready(pinger{err: errors.New("gone")}))

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/readyz", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, call(e, http.MethodGet, "/down", "", "").Code)
}
