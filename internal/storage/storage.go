// Package storage opens the order store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/adapters/repo"
	"github.com/reybrally/pedidos-service/internal/adapters/sqlitestore"
	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/config"
	"github.com/reybrally/pedidos-service/internal/logging"
)

type Store interface {
	orders.OrderRepo
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and applies its schema.
func Open(ctx context.Context, cfg config.DB) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %q or %q)", cfg.Driver, config.DriverPostgres, config.DriverSQLite)
	}
}

func openPostgres(ctx context.Context, cfg config.DB) (Store, error) {
	fields := logrus.Fields{"driver": cfg.Driver}
	if cfg.URL != "" {
		fields["source"] = "DATABASE_URL"
	} else {
		fields["source"] = "env/defaults"
		fields["host"] = cfg.Host
		fields["port"] = cfg.Port
		fields["db_name"] = cfg.Name
		fields["user"] = cfg.User
		fields["sslmode"] = cfg.SSLMode
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		logging.LogError("pgxpool.New failed", err, fields)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	r := repo.NewOrderRepo(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logging.LogInfo("pgx pool created", fields)
	return r, nil
}

func openSQLite(ctx context.Context, cfg config.DB) (Store, error) {
	s, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	logging.LogInfo("sqlite store opened", logrus.Fields{"driver": cfg.Driver, "path": cfg.SQLitePath})
	return s, nil
}
