package postgresql

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// GetWatermark retrieves the watermark row for an upstream source. Returns
// ErrNotFound when the source has never completed a run, which signals the
// reconciler to perform a full fetch.
func (sm *syncManager) GetWatermark(ctx context.Context, source string) (*models.SyncWatermark, apperrors.Error) {
	if source == "" {
		return nil, dberror.ErrInvalidInput.Msg("missing source name")
	}

	query := `
		SELECT source, last_success, last_run, fetched_count, last_error
		FROM sync_watermarks
		WHERE source = $1;
	`

	wm := &models.SyncWatermark{}
	err := sm.conn().QueryRowContext(ctx, query, source).Scan(
		&wm.Source, &wm.LastSuccess, &wm.LastRun, &wm.FetchedCount, &wm.LastError,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("no watermark for source")
		}
		log.Ctx(ctx).Error().Err(err).Str("source", source).Msg("failed to retrieve watermark")
		return nil, dberror.ErrDatabase.Err(err)
	}

	return wm, nil
}

// RecordSyncSuccess advances the source's watermark to at and records the
// fetched count. A prior error message is cleared.
func (sm *syncManager) RecordSyncSuccess(ctx context.Context, source string, at time.Time, fetched int) apperrors.Error {
	if source == "" {
		return dberror.ErrInvalidInput.Msg("missing source name")
	}

	query := `
		INSERT INTO sync_watermarks (source, last_success, last_run, fetched_count, last_error)
		VALUES ($1, $2, $2, $3, NULL)
		ON CONFLICT (source) DO UPDATE SET
			last_success  = EXCLUDED.last_success,
			last_run      = EXCLUDED.last_run,
			fetched_count = EXCLUDED.fetched_count,
			last_error    = NULL;
	`

	_, err := sm.conn().ExecContext(ctx, query, source, at, fetched)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("source", source).Msg("failed to record sync success")
		return dberror.ErrDatabase.Err(err)
	}

	return nil
}

// RecordSyncFailure records the error for the source's last run. The success
// timestamp is deliberately left untouched so the next delta query resumes
// from the last good watermark.
func (sm *syncManager) RecordSyncFailure(ctx context.Context, source string, at time.Time, errMsg string) apperrors.Error {
	if source == "" {
		return dberror.ErrInvalidInput.Msg("missing source name")
	}

	query := `
		INSERT INTO sync_watermarks (source, last_success, last_run, fetched_count, last_error)
		VALUES ($1, NULL, $2, 0, $3)
		ON CONFLICT (source) DO UPDATE SET
			last_run   = EXCLUDED.last_run,
			last_error = EXCLUDED.last_error;
	`

	_, err := sm.conn().ExecContext(ctx, query, source, at, errMsg)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("source", source).Msg("failed to record sync failure")
		return dberror.ErrDatabase.Err(err)
	}

	return nil
}
