package postgresql

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// UpsertCatalogObject inserts or merges a catalog object keyed by NORAD ID.
// On conflict only non-null incoming fields overwrite the stored row, so a
// partial upstream payload never clobbers previously-ingested data. Returns
// true when a new row was inserted.
func (im *ingestManager) UpsertCatalogObject(ctx context.Context, obj *models.CatalogObject) (bool, apperrors.Error) {
	if obj.NoradID <= 0 {
		return false, dberror.ErrInvalidInput.Msg("missing norad id")
	}
	if obj.ObjectName == "" {
		return false, dberror.ErrInvalidInput.Msg("missing object name")
	}

	query := `
		INSERT INTO catalog_objects
			(norad_id, object_name, country, launch_date, decay_date, object_type,
			 orbit_class, period_min, inclination_deg, apogee_km, perigee_km)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (norad_id) DO UPDATE SET
			object_name     = COALESCE(NULLIF(EXCLUDED.object_name, ''), catalog_objects.object_name),
			country         = COALESCE(EXCLUDED.country, catalog_objects.country),
			launch_date     = COALESCE(EXCLUDED.launch_date, catalog_objects.launch_date),
			decay_date      = COALESCE(EXCLUDED.decay_date, catalog_objects.decay_date),
			object_type     = COALESCE(EXCLUDED.object_type, catalog_objects.object_type),
			orbit_class     = COALESCE(EXCLUDED.orbit_class, catalog_objects.orbit_class),
			period_min      = COALESCE(EXCLUDED.period_min, catalog_objects.period_min),
			inclination_deg = COALESCE(EXCLUDED.inclination_deg, catalog_objects.inclination_deg),
			apogee_km       = COALESCE(EXCLUDED.apogee_km, catalog_objects.apogee_km),
			perigee_km      = COALESCE(EXCLUDED.perigee_km, catalog_objects.perigee_km),
			updated_at      = now()
		RETURNING (xmax = 0), created_at, updated_at;
	`

	var inserted bool
	err := im.conn().QueryRowContext(ctx, query,
		obj.NoradID, obj.ObjectName, obj.Country, obj.LaunchDate, obj.DecayDate,
		obj.ObjectType, obj.OrbitClass, obj.PeriodMin, obj.InclinationDeg,
		obj.ApogeeKm, obj.PerigeeKm,
	).Scan(&inserted, &obj.CreatedAt, &obj.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23514" {
				log.Ctx(ctx).Error().Int64("norad_id", obj.NoradID).Msg("catalog object violates check constraint")
				return false, dberror.ErrInvalidInput.Msg("invalid catalog object")
			}
		}
		log.Ctx(ctx).Error().Err(err).Int64("norad_id", obj.NoradID).Msg("failed to upsert catalog object")
		return false, dberror.ErrDatabase.Err(err)
	}

	return inserted, nil
}
