package dbmanager

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
)

// Pool hands out connections to the catalog database.
type Pool interface {
	// Conn returns a new connection to the database.
	Conn(ctx context.Context) (Conn, error)
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error
	// Stats returns the number of connection requests and returns.
	Stats() (requests, returns uint64)
}

// Conn is a single database connection checked out of the pool.
type Conn interface {
	// Conn returns the underlying sql connection.
	Conn() *sql.Conn
	// Close returns the connection back to the pool.
	Close(ctx context.Context)
}

func NewPool(ctx context.Context, dbtype string, dsn string) Pool {
	switch dbtype {
	case "postgresql":
		db, err := NewPostgresqlDb(dsn)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to create PostgreSQL DB")
			return nil
		}
		return db
	}
	return nil
}
