package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dbmanager"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/postgresql"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// The store interface is split by concern: the reconciler only needs
// CatalogManager and SyncManager, the API surface only QueryManager. Each
// interface can be faked independently in tests.

// CatalogManager merges normalized upstream records into the store. All
// operations are idempotent upserts sized to one logical record.
type CatalogManager interface {
	// UpsertCatalogObject inserts or merges an object. Only non-nil incoming
	// fields overwrite existing ones. Returns true when a new row was created.
	UpsertCatalogObject(ctx context.Context, obj *models.CatalogObject) (bool, apperrors.Error)
	// InsertElementSet appends an element set keyed by (norad_id, epoch).
	// Returns false when the row already existed; existing rows are never
	// modified.
	InsertElementSet(ctx context.Context, es *models.ElementSet) (bool, apperrors.Error)
	// UpsertTransmitter inserts or replaces a transmitter by external ID.
	// Returns true when a new row was created.
	UpsertTransmitter(ctx context.Context, tr *models.Transmitter) (bool, apperrors.Error)
	// UpsertClassificationTag inserts or refreshes a tag, unique on
	// (norad_id, tag_type, tag_value).
	UpsertClassificationTag(ctx context.Context, tag *models.ClassificationTag) apperrors.Error
}

// SyncManager tracks per-source ingestion watermarks.
type SyncManager interface {
	// GetWatermark returns the watermark row for the source, or ErrNotFound
	// when the source has never completed a run.
	GetWatermark(ctx context.Context, source string) (*models.SyncWatermark, apperrors.Error)
	// RecordSyncSuccess advances the watermark and records the fetched count.
	RecordSyncSuccess(ctx context.Context, source string, at time.Time, fetched int) apperrors.Error
	// RecordSyncFailure records the error without touching the success
	// timestamp.
	RecordSyncFailure(ctx context.Context, source string, at time.Time, errMsg string) apperrors.Error
}

// QueryManager serves reads for external consumers.
type QueryManager interface {
	ListObjects(ctx context.Context, filter models.ObjectFilter) ([]models.ObjectSummary, apperrors.Error)
	GetObject(ctx context.Context, noradID int64) (*models.ObjectDetail, apperrors.Error)
	// CountObjects counts the objects matching the filter's constraint
	// fields; Limit and Offset are ignored.
	CountObjects(ctx context.Context, filter models.ObjectFilter) (int64, apperrors.Error)
}

// ConnectionManager manages the lifecycle of the underlying connection.
type ConnectionManager interface {
	Close(ctx context.Context)
}

type DB_ interface {
	CatalogManager
	SyncManager
	QueryManager
	ConnectionManager
}

var pool dbmanager.Pool

// Init opens the connection pool and applies the schema. Must be called once
// at startup before any use of Conn or DB.
func Init(ctx context.Context, dsn string) error {
	pg := dbmanager.NewPool(ctx, "postgresql", dsn)
	if pg == nil {
		return apperrors.New("unable to create db pool")
	}
	pool = pg
	return postgresql.ApplySchema(ctx, pg)
}

// Ping reports store reachability for the health endpoint.
func Ping(ctx context.Context) error {
	if pool == nil {
		return apperrors.New("db pool not initialized")
	}
	return pool.Ping(ctx)
}

func Conn(ctx context.Context) dbmanager.Conn {
	if pool != nil {
		conn, err := pool.Conn(ctx)
		if err == nil {
			return conn
		}
		log.Ctx(ctx).Error().Err(err).Msg("unable to get db connection")
	}
	return nil
}

type ctxDbKeyType string

const ctxDbKey ctxDbKeyType = "AetherLinkCatalogDb"

// ConnCtx checks out a connection and stashes it in the context for DB.
func ConnCtx(ctx context.Context) context.Context {
	conn := Conn(ctx)
	return context.WithValue(ctx, ctxDbKey, conn)
}

type catalogDb struct {
	CatalogManager
	SyncManager
	QueryManager
	ConnectionManager
}

func DB(ctx context.Context) DB_ {
	if conn, ok := ctx.Value(ctxDbKey).(dbmanager.Conn); ok {
		cm, sm, qm, xm := postgresql.NewCatalogDb(conn)
		return &catalogDb{
			CatalogManager:    cm,
			SyncManager:       sm,
			QueryManager:      qm,
			ConnectionManager: xm,
		}
	}
	log.Ctx(ctx).Error().Msg("unable to get db connection from context")
	return nil
}
