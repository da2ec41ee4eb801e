// Package dbmanager provides functionality for managing the PostgreSQL
// database connection pool used by the catalog store.
package dbmanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog/log"
)

// postgresConn represents a connection to the PostgreSQL database.
type postgresConn struct {
	conn   *sql.Conn
	cancel context.CancelFunc
	pool   *postgresPool
}

// postgresPool represents a pool of PostgreSQL database connections.
type postgresPool struct {
	connRequests uint64
	connReturns  uint64
	db           *sql.DB
}

// NewPostgresqlDb creates a new PostgreSQL database connection pool for the
// given DSN. It returns the Pool and an error, if any.
func NewPostgresqlDb(dsn string) (Pool, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to open db")
		return nil, err
	}

	err = sqlDB.Ping()
	if err != nil {
		log.Error().Err(err).Msg("failed to ping db")
		return nil, err
	}

	return &postgresPool{
		db: sqlDB,
	}, nil
}

// Conn returns a new connection to the PostgreSQL database from the pool.
func (p *postgresPool) Conn(ctx context.Context) (Conn, error) {
	ctx, cancel := context.WithCancel(ctx)

	conn, err := p.db.Conn(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to obtain connection")
		cancel()
		return nil, err
	}

	// Bound per-statement time so a stuck merge cannot wedge a sync run.
	_, err = conn.ExecContext(ctx, "SET lock_timeout = '5s'")
	if err != nil {
		log.Error().Err(err).Msg("failed to set lock timeout")
		cancel()
		conn.Close()
		return nil, err
	}
	_, err = conn.ExecContext(ctx, "SET statement_timeout = '30s'")
	if err != nil {
		log.Error().Err(err).Msg("failed to set statement timeout")
		cancel()
		conn.Close()
		return nil, err
	}

	h := &postgresConn{
		cancel: cancel,
		pool:   p,
		conn:   conn,
	}

	p.connRequests++
	return h, nil
}

// Ping verifies the database is reachable.
func (p *postgresPool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Stats returns the number of connection requests and returns.
func (p *postgresPool) Stats() (requests, returns uint64) {
	return p.connRequests, p.connReturns
}

// Close returns the connection back to the pool.
func (h *postgresConn) Close(ctx context.Context) {
	if h.cancel != nil {
		h.cancel()
	}
	if h.conn != nil {
		h.conn.Close()
	}
	h.pool.connReturns++
}

// Conn returns the underlying connection.
func (h *postgresConn) Conn() *sql.Conn {
	return h.conn
}
