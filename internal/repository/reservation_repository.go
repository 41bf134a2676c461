package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

var reservationColumns = []string{
	"r.id", "r.guest_name", "r.guest_surname", "r.guest_email", "r.guest_phone",
	"r.guest_count", "r.check_in", "r.check_out", "r.payment_method", "r.created_by",
}

func listReservationsQuery() sq.SelectBuilder {
	return builder.Select(reservationColumns...).From("reservations r").OrderBy("r.check_in", "r.id")
}

// ListReservations returns every reservation with its rooms and
// services attached.
func (q *Queries) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return q.selectReservations(ctx, listReservationsQuery())
}

// ListReservationsTouching returns reservations whose stay may occupy
// a day in [from, to).  The filter is deliberately loose at the
// check-out edge so that same-day stays are included; callers apply the
// exact overlap rule.
func (q *Queries) ListReservationsTouching(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	return q.selectReservations(ctx, touchingQuery(from, to))
}

func touchingQuery(from, to time.Time) sq.SelectBuilder {
	return listReservationsQuery().Where(sq.And{
		sq.Lt{"r.check_in": to},
		sq.GtOrEq{"r.check_out": from},
	})
}

// ListReservationsCheckInBetween returns reservations whose check-in
// falls in [from, to).
func (q *Queries) ListReservationsCheckInBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	return q.selectReservations(ctx, checkInBetweenQuery(from, to))
}

func checkInBetweenQuery(from, to time.Time) sq.SelectBuilder {
	return listReservationsQuery().Where(sq.And{
		sq.GtOrEq{"r.check_in": from},
		sq.Lt{"r.check_in": to},
	})
}

// GetReservation returns a single reservation with its rooms and
// services.  ErrNotFound is returned when no row matches.
func (q *Queries) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	list, err := q.selectReservations(ctx, listReservationsQuery().Where(sq.Eq{"r.id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// CreateReservation inserts the reservation row and its room and
// service links.  The generated ID is set on r.  Callers run it inside
// RunInTx.
func (q *Queries) CreateReservation(ctx context.Context, r *model.Reservation) error {
	query, args, err := builder.Insert("reservations").
		Columns("guest_name", "guest_surname", "guest_email", "guest_phone",
			"guest_count", "check_in", "check_out", "payment_method", "created_by").
		Values(r.GuestName, r.GuestSurname, r.GuestEmail, r.GuestPhone,
			r.GuestCount, r.CheckIn, r.CheckOut, r.PaymentMethod, r.CreatedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("reservations: build insert: %w", err)
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reservations: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reservations: last insert id: %w", err)
	}
	r.ID = uint64(id)
	return q.insertLinks(ctx, r)
}

// UpdateReservation overwrites the guest, date, payment and link data of
// an existing reservation.  ErrNotFound is returned when the row does
// not exist.
func (q *Queries) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	query, args, err := builder.Update("reservations").SetMap(map[string]any{
		"guest_name":     r.GuestName,
		"guest_surname":  r.GuestSurname,
		"guest_email":    r.GuestEmail,
		"guest_phone":    r.GuestPhone,
		"guest_count":    r.GuestCount,
		"check_in":       r.CheckIn,
		"check_out":      r.CheckOut,
		"payment_method": r.PaymentMethod,
	}).Where(sq.Eq{"id": r.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("reservations: build update: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reservations: update: %w", err)
	}
	// MySQL reports zero affected rows for an unchanged row, so existence
	// is checked separately.
	var exists int
	err = q.db.QueryRowContext(ctx, "SELECT 1 FROM reservations WHERE id = ?", r.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reservations: check exists: %w", err)
	}
	for _, table := range []string{"reservation_rooms", "reservation_services"} {
		query, args, err := builder.Delete(table).Where(sq.Eq{"reservation_id": r.ID}).ToSql()
		if err != nil {
			return fmt.Errorf("reservations: build unlink %s: %w", table, err)
		}
		if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("reservations: unlink %s: %w", table, err)
		}
	}
	return q.insertLinks(ctx, r)
}

// DeleteReservation removes a reservation.  Room, service and status
// rows are removed by ON DELETE CASCADE.
func (q *Queries) DeleteReservation(ctx context.Context, id uint64) error {
	query, args, err := builder.Delete("reservations").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("reservations: build delete: %w", err)
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reservations: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reservations: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateStatus records a status for a reservation.
func (q *Queries) CreateStatus(ctx context.Context, reservationID uint64, status string) error {
	query, args, err := builder.Insert("reservation_statuses").
		Columns("reservation_id", "status").
		Values(reservationID, status).
		ToSql()
	if err != nil {
		return fmt.Errorf("statuses: build insert: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("statuses: insert: %w", err)
	}
	return nil
}

func (q *Queries) insertLinks(ctx context.Context, r *model.Reservation) error {
	if len(r.Rooms) > 0 {
		ins := builder.Insert("reservation_rooms").Columns("reservation_id", "room_id")
		for _, room := range r.Rooms {
			ins = ins.Values(r.ID, room.ID)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("reservations: build room links: %w", err)
		}
		if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("reservations: insert room links: %w", err)
		}
	}
	if len(r.Services) > 0 {
		ins := builder.Insert("reservation_services").Columns("reservation_id", "service_id")
		for _, s := range r.Services {
			ins = ins.Values(r.ID, s.ID)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("reservations: build service links: %w", err)
		}
		if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("reservations: insert service links: %w", err)
		}
	}
	return nil
}

func (q *Queries) selectReservations(ctx context.Context, b sq.SelectBuilder) ([]model.Reservation, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("reservations: build select: %w", err)
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reservations: query: %w", err)
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		var r model.Reservation
		if err := rows.Scan(&r.ID, &r.GuestName, &r.GuestSurname, &r.GuestEmail, &r.GuestPhone,
			&r.GuestCount, &r.CheckIn, &r.CheckOut, &r.PaymentMethod, &r.CreatedBy); err != nil {
			return nil, fmt.Errorf("reservations: scan: %w", err)
		}
		r.Rooms = []model.Room{}
		r.Services = []model.Service{}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservations: rows: %w", err)
	}
	rows.Close()
	if len(list) == 0 {
		return list, nil
	}
	if err := q.attachLinks(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachLinks loads rooms and services for all reservations in list
// with one query per link table.
func (q *Queries) attachLinks(ctx context.Context, list []model.Reservation) error {
	ids := make([]uint64, len(list))
	index := make(map[uint64]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
	}

	query, args, err := builder.Select("rr.reservation_id", "rm.id", "rm.number", "rm.type").
		From("reservation_rooms rr").
		Join("rooms rm ON rm.id = rr.room_id").
		Where(sq.Eq{"rr.reservation_id": ids}).
		OrderBy("rm.number").
		ToSql()
	if err != nil {
		return fmt.Errorf("reservations: build rooms: %w", err)
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reservations: query rooms: %w", err)
	}
	for rows.Next() {
		var rid uint64
		var room model.Room
		if err := rows.Scan(&rid, &room.ID, &room.Number, &room.Type); err != nil {
			rows.Close()
			return fmt.Errorf("reservations: scan room: %w", err)
		}
		if i, ok := index[rid]; ok {
			list[i].Rooms = append(list[i].Rooms, room)
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("reservations: rooms rows: %w", err)
	}

	query, args, err = builder.Select("rs.reservation_id", "s.id", "s.name", "s.price_cents").
		From("reservation_services rs").
		Join("services s ON s.id = rs.service_id").
		Where(sq.Eq{"rs.reservation_id": ids}).
		OrderBy("s.id").
		ToSql()
	if err != nil {
		return fmt.Errorf("reservations: build services: %w", err)
	}
	rows, err = q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reservations: query services: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rid uint64
		var s model.Service
		if err := rows.Scan(&rid, &s.ID, &s.Name, &s.PriceCents); err != nil {
			return fmt.Errorf("reservations: scan service: %w", err)
		}
		if i, ok := index[rid]; ok {
			list[i].Services = append(list[i].Services, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reservations: services rows: %w", err)
	}
	return nil
}
