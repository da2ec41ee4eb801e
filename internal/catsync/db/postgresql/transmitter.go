package postgresql

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// UpsertTransmitter inserts or replaces a transmitter record keyed by the
// upstream's external identifier. Unlike element sets, transmitters are
// mutable: re-ingestion overwrites the stored row. Returns true when a new
// row was inserted.
func (im *ingestManager) UpsertTransmitter(ctx context.Context, tr *models.Transmitter) (bool, apperrors.Error) {
	if tr.ExternalID == "" {
		return false, dberror.ErrInvalidInput.Msg("missing external id")
	}
	if tr.NoradID <= 0 {
		return false, dberror.ErrInvalidInput.Msg("missing norad id")
	}

	query := `
		INSERT INTO transmitters
			(external_id, norad_id, description, uplink_low_hz, downlink_low_hz,
			 band, mode, direction, alive, status, service, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (external_id) DO UPDATE SET
			norad_id        = EXCLUDED.norad_id,
			description     = EXCLUDED.description,
			uplink_low_hz   = EXCLUDED.uplink_low_hz,
			downlink_low_hz = EXCLUDED.downlink_low_hz,
			band            = EXCLUDED.band,
			mode            = EXCLUDED.mode,
			direction       = EXCLUDED.direction,
			alive           = EXCLUDED.alive,
			status          = EXCLUDED.status,
			service         = EXCLUDED.service,
			payload         = EXCLUDED.payload,
			updated_at      = now()
		RETURNING (xmax = 0), updated_at;
	`

	var inserted bool
	err := im.conn().QueryRowContext(ctx, query,
		tr.ExternalID, tr.NoradID, tr.Description, tr.UplinkLowHz, tr.DownlinkLowHz,
		tr.Band, tr.Mode, tr.Direction, tr.Alive, tr.Status, tr.Service, tr.Payload,
	).Scan(&inserted, &tr.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23503" {
				log.Ctx(ctx).Info().Str("external_id", tr.ExternalID).Int64("norad_id", tr.NoradID).Msg("transmitter references unknown catalog object")
				return false, dberror.ErrInvalidInput.Msg("unknown catalog object")
			}
		}
		log.Ctx(ctx).Error().Err(err).Str("external_id", tr.ExternalID).Msg("failed to upsert transmitter")
		return false, dberror.ErrDatabase.Err(err)
	}

	return inserted, nil
}
