// Package sqlitestore is the embedded order store used for local runs and
// tests. It implements the same contract as the PostgreSQL repository.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/reybrally/pedidos-service/internal/domain/order"
)

const driverName = "sqlite"

//go:embed schema.sql
var schemaSQL string

// querier is implemented by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection serialises writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

type orderRow struct {
	id       int64
	clientID int64
	fecha    string
	total    string
}

func (r orderRow) toDomain() (order.Order, error) {
	date, err := order.ParseDate(r.fecha)
	if err != nil {
		return order.Order{}, fmt.Errorf("pedido %d: bad fecha %q: %w", r.id, r.fecha, err)
	}
	total, err := decimal.NewFromString(r.total)
	if err != nil {
		return order.Order{}, fmt.Errorf("pedido %d: bad total %q: %w", r.id, r.total, err)
	}
	return order.Order{
		ID:       r.id,
		ClientID: r.clientID,
		Date:     date,
		Total:    total,
		Items:    make([]order.LineItem, 0, 4),
	}, nil
}
