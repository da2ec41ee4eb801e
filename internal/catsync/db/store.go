package db

import (
	"context"
	"time"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// PooledStore is a connection-per-operation view of the store for
// long-running background work, where a request-scoped connection does not
// exist. Each call checks a connection out of the pool and returns it when
// the operation completes.
type PooledStore struct{}

func (PooledStore) withConn(ctx context.Context) (DB_, context.Context, apperrors.Error) {
	cctx := ConnCtx(ctx)
	d := DB(cctx)
	if d == nil {
		return nil, ctx, dberror.ErrUnavailable.Msg("unable to get db connection")
	}
	return d, cctx, nil
}

func (s PooledStore) UpsertCatalogObject(ctx context.Context, obj *models.CatalogObject) (bool, apperrors.Error) {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return false, err
	}
	defer d.Close(cctx)
	return d.UpsertCatalogObject(cctx, obj)
}

func (s PooledStore) InsertElementSet(ctx context.Context, es *models.ElementSet) (bool, apperrors.Error) {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return false, err
	}
	defer d.Close(cctx)
	return d.InsertElementSet(cctx, es)
}

func (s PooledStore) UpsertTransmitter(ctx context.Context, tr *models.Transmitter) (bool, apperrors.Error) {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return false, err
	}
	defer d.Close(cctx)
	return d.UpsertTransmitter(cctx, tr)
}

func (s PooledStore) UpsertClassificationTag(ctx context.Context, tag *models.ClassificationTag) apperrors.Error {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return err
	}
	defer d.Close(cctx)
	return d.UpsertClassificationTag(cctx, tag)
}

func (s PooledStore) GetWatermark(ctx context.Context, source string) (*models.SyncWatermark, apperrors.Error) {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return nil, err
	}
	defer d.Close(cctx)
	return d.GetWatermark(cctx, source)
}

func (s PooledStore) RecordSyncSuccess(ctx context.Context, source string, at time.Time, fetched int) apperrors.Error {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return err
	}
	defer d.Close(cctx)
	return d.RecordSyncSuccess(cctx, source, at, fetched)
}

func (s PooledStore) RecordSyncFailure(ctx context.Context, source string, at time.Time, errMsg string) apperrors.Error {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return err
	}
	defer d.Close(cctx)
	return d.RecordSyncFailure(cctx, source, at, errMsg)
}

func (s PooledStore) CountObjects(ctx context.Context) (int64, apperrors.Error) {
	d, cctx, err := s.withConn(ctx)
	if err != nil {
		return 0, err
	}
	defer d.Close(cctx)
	return d.CountObjects(cctx, models.ObjectFilter{})
}
