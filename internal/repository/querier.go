package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Querier lists the hotel data operations.  It is implemented by
// *Queries, bound either to the pool or to a transaction.
type Querier interface {
	ListRooms(ctx context.Context) ([]model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) error
	LockRooms(ctx context.Context, ids []uint64) ([]model.Room, error)

	ListServices(ctx context.Context) ([]model.Service, error)
	CreateService(ctx context.Context, s *model.Service) error
	ServicesByIDs(ctx context.Context, ids []uint64) ([]model.Service, error)

	ListReservations(ctx context.Context) ([]model.Reservation, error)
	ListReservationsTouching(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
	ListReservationsCheckInBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	DeleteReservation(ctx context.Context, id uint64) error
	CreateStatus(ctx context.Context, reservationID uint64, status string) error
}

// Queries implements Querier on top of a DBTX.
type Queries struct {
	db DBTX
}

// NewQueries binds the hotel queries to db.
func NewQueries(db DBTX) *Queries { return &Queries{db: db} }

var _ Querier = (*Queries)(nil)

// builder produces MySQL-style "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Store owns the connection pool and runs transactions.
type Store struct {
	*Queries
	db *sql.DB
}

// NewStore returns a Store whose embedded Queries run outside any
// transaction.
func NewStore(db *sql.DB) *Store {
	return &Store{Queries: NewQueries(db), db: db}
}

// DB exposes the underlying pool for repositories that are not part of
// Querier, such as users and refresh tokens.
func (s *Store) DB() *sql.DB { return s.db }

// RunInTx executes fn inside a transaction.  The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *Store) RunInTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(NewQueries(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
