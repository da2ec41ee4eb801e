package postgresql

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dbmanager"
)

// The schema is applied idempotently at startup. The catalog tables are the
// durable product of ingestion; watermarks survive process restarts.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS catalog_objects (
		norad_id        BIGINT PRIMARY KEY,
		object_name     VARCHAR(128) NOT NULL,
		country         VARCHAR(64),
		launch_date     DATE,
		decay_date      DATE,
		object_type     VARCHAR(32),
		orbit_class     VARCHAR(16),
		period_min      DOUBLE PRECISION,
		inclination_deg DOUBLE PRECISION,
		apogee_km       DOUBLE PRECISION,
		perigee_km      DOUBLE PRECISION,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS element_sets (
		id             BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		norad_id       BIGINT NOT NULL REFERENCES catalog_objects (norad_id) ON DELETE CASCADE,
		line1          VARCHAR(70) NOT NULL,
		line2          VARCHAR(70) NOT NULL,
		epoch          TIMESTAMPTZ NOT NULL,
		element_set_no INTEGER,
		fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (norad_id, epoch)
	)`,
	`CREATE INDEX IF NOT EXISTS element_sets_norad_epoch_idx
		ON element_sets (norad_id, epoch DESC)`,
	`CREATE TABLE IF NOT EXISTS transmitters (
		external_id     VARCHAR(64) PRIMARY KEY,
		norad_id        BIGINT NOT NULL REFERENCES catalog_objects (norad_id) ON DELETE CASCADE,
		description     VARCHAR(256),
		uplink_low_hz   BIGINT,
		downlink_low_hz BIGINT,
		band            VARCHAR(8),
		mode            VARCHAR(32),
		direction       VARCHAR(32),
		alive           BOOLEAN NOT NULL DEFAULT true,
		status          VARCHAR(32),
		service         VARCHAR(32),
		payload         JSONB,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS transmitters_norad_idx ON transmitters (norad_id)`,
	`CREATE INDEX IF NOT EXISTS transmitters_band_idx ON transmitters (band) WHERE alive`,
	`CREATE TABLE IF NOT EXISTS classification_tags (
		norad_id   BIGINT NOT NULL REFERENCES catalog_objects (norad_id) ON DELETE CASCADE,
		tag_type   VARCHAR(32) NOT NULL,
		tag_value  VARCHAR(128) NOT NULL,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		source     VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (norad_id, tag_type, tag_value)
	)`,
	`CREATE TABLE IF NOT EXISTS sync_watermarks (
		source        VARCHAR(32) PRIMARY KEY,
		last_success  TIMESTAMPTZ,
		last_run      TIMESTAMPTZ NOT NULL DEFAULT now(),
		fetched_count INTEGER NOT NULL DEFAULT 0,
		last_error    TEXT
	)`,
}

// ApplySchema creates the catalog tables if they do not exist.
func ApplySchema(ctx context.Context, pool dbmanager.Pool) error {
	conn, err := pool.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	for _, stmt := range schemaStatements {
		if _, err := conn.Conn().ExecContext(ctx, stmt); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to apply schema statement")
			return err
		}
	}
	return nil
}
