package postgresql

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// UpsertClassificationTag inserts or refreshes a classification tag, unique
// on (norad_id, tag_type, tag_value). Repeating the upsert with the same tag
// only refreshes confidence and provenance.
func (im *ingestManager) UpsertClassificationTag(ctx context.Context, tag *models.ClassificationTag) apperrors.Error {
	if tag.NoradID <= 0 {
		return dberror.ErrInvalidInput.Msg("missing norad id")
	}
	if tag.TagType == "" || tag.TagValue == "" {
		return dberror.ErrInvalidInput.Msg("missing tag type or value")
	}

	query := `
		INSERT INTO classification_tags (norad_id, tag_type, tag_value, confidence, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (norad_id, tag_type, tag_value) DO UPDATE SET
			confidence = EXCLUDED.confidence,
			source     = EXCLUDED.source
		RETURNING created_at;
	`

	err := im.conn().QueryRowContext(ctx, query,
		tag.NoradID, tag.TagType, tag.TagValue, tag.Confidence, tag.Source,
	).Scan(&tag.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23503" {
				log.Ctx(ctx).Info().Int64("norad_id", tag.NoradID).Msg("tag references unknown catalog object")
				return dberror.ErrInvalidInput.Msg("unknown catalog object")
			}
		}
		log.Ctx(ctx).Error().Err(err).Int64("norad_id", tag.NoradID).Str("tag_type", tag.TagType).Msg("failed to upsert classification tag")
		return dberror.ErrDatabase.Err(err)
	}

	return nil
}
