package postgresql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// InsertElementSet appends an element set keyed by (norad_id, epoch). Element
// history is append-only: an existing row for the same epoch is left untouched
// and the call reports false. Returns an error if the parent object is missing
// or there is a database error.
func (im *ingestManager) InsertElementSet(ctx context.Context, es *models.ElementSet) (bool, apperrors.Error) {
	if es.NoradID <= 0 {
		return false, dberror.ErrInvalidInput.Msg("missing norad id")
	}
	if es.Line1 == "" || es.Line2 == "" {
		return false, dberror.ErrInvalidInput.Msg("missing element lines")
	}
	if es.Epoch.IsZero() {
		return false, dberror.ErrInvalidInput.Msg("missing epoch")
	}

	query := `
		INSERT INTO element_sets (norad_id, line1, line2, epoch, element_set_no)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (norad_id, epoch) DO NOTHING
		RETURNING id, fetched_at;
	`

	err := im.conn().QueryRowContext(ctx, query,
		es.NoradID, es.Line1, es.Line2, es.Epoch, es.ElementSetNo,
	).Scan(&es.ID, &es.FetchedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// already ingested for this epoch
			return false, nil
		}
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23503" {
				log.Ctx(ctx).Info().Int64("norad_id", es.NoradID).Msg("element set references unknown catalog object")
				return false, dberror.ErrInvalidInput.Msg("unknown catalog object")
			}
		}
		log.Ctx(ctx).Error().Err(err).Int64("norad_id", es.NoradID).Msg("failed to insert element set")
		return false, dberror.ErrDatabase.Err(err)
	}

	return true, nil
}
