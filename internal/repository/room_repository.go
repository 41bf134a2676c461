package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func listRoomsQuery() sq.SelectBuilder {
	return builder.Select("id", "number", "type").From("rooms").OrderBy("number")
}

// ListRooms returns every room ordered by number.
func (q *Queries) ListRooms(ctx context.Context) ([]model.Room, error) {
	query, args, err := listRoomsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("rooms: build list: %w", err)
	}
	return q.queryRooms(ctx, query, args...)
}

// LockRooms loads the given rooms and locks their rows until the
// surrounding transaction ends.  Two concurrent bookings touching the
// same room are serialized here.
func (q *Queries) LockRooms(ctx context.Context, ids []uint64) ([]model.Room, error) {
	if len(ids) == 0 {
		return []model.Room{}, nil
	}
	query, args, err := listRoomsQuery().Where(sq.Eq{"id": ids}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("rooms: build lock: %w", err)
	}
	return q.queryRooms(ctx, query, args...)
}

// CreateRoom inserts a room and sets its generated ID.  A duplicate
// room number yields ErrConflict.
func (q *Queries) CreateRoom(ctx context.Context, room *model.Room) error {
	query, args, err := builder.Insert("rooms").
		Columns("number", "type").
		Values(room.Number, room.Type).
		ToSql()
	if err != nil {
		return fmt.Errorf("rooms: build insert: %w", err)
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("rooms: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("rooms: last insert id: %w", err)
	}
	room.ID = uint64(id)
	return nil
}

func (q *Queries) queryRooms(ctx context.Context, query string, args ...any) ([]model.Room, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rooms: query: %w", err)
	}
	defer rows.Close()
	rooms := make([]model.Room, 0)
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.ID, &r.Number, &r.Type); err != nil {
			return nil, fmt.Errorf("rooms: scan: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rooms: rows: %w", err)
	}
	return rooms, nil
}
