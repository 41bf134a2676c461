package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func listServicesQuery() sq.SelectBuilder {
	return builder.Select("id", "name", "price_cents").From("services").OrderBy("id")
}

// ListServices returns the add-on catalogue.
func (q *Queries) ListServices(ctx context.Context) ([]model.Service, error) {
	query, args, err := listServicesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("services: build list: %w", err)
	}
	return q.queryServices(ctx, query, args...)
}

// ServicesByIDs returns the services with the given ids.  Unknown ids
// are silently skipped; callers compare lengths.
func (q *Queries) ServicesByIDs(ctx context.Context, ids []uint64) ([]model.Service, error) {
	if len(ids) == 0 {
		return []model.Service{}, nil
	}
	query, args, err := listServicesQuery().Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("services: build by ids: %w", err)
	}
	return q.queryServices(ctx, query, args...)
}

// CreateService inserts a catalogue entry and sets its generated ID.
func (q *Queries) CreateService(ctx context.Context, s *model.Service) error {
	query, args, err := builder.Insert("services").
		Columns("name", "price_cents").
		Values(s.Name, s.PriceCents).
		ToSql()
	if err != nil {
		return fmt.Errorf("services: build insert: %w", err)
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("services: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("services: last insert id: %w", err)
	}
	s.ID = uint64(id)
	return nil
}

func (q *Queries) queryServices(ctx context.Context, query string, args ...any) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("services: query: %w", err)
	}
	defer rows.Close()
	out := make([]model.Service, 0)
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.PriceCents); err != nil {
			return nil, fmt.Errorf("services: scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("services: rows: %w", err)
	}
	return out, nil
}
