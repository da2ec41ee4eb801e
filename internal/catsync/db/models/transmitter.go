package models

import (
	"time"

	"github.com/jackc/pgtype"
)

/*
   Column        |          Type           | Collation | Nullable | Default
-----------------+-------------------------+-----------+----------+---------
 external_id     | character varying(64)   |           | not null |
 norad_id        | bigint                  |           | not null |
 description     | character varying(256)  |           |          |
 uplink_low_hz   | bigint                  |           |          |
 downlink_low_hz | bigint                  |           |          |
 band            | character varying(8)    |           |          |
 mode            | character varying(32)   |           |          |
 direction       | character varying(32)   |           |          |
 alive           | boolean                 |           | not null | true
 status          | character varying(32)   |           |          |
 service         | character varying(32)   |           |          |
 payload         | jsonb                   |           |          |
 updated_at      | timestamptz             |           | not null | now()
*/

// Transmitter is one RF transmitter/receiver description for a CatalogObject,
// keyed by the upstream's external identifier. Unlike element sets these rows
// are mutable: re-ingestion updates in place. Payload carries the raw upstream
// record for forward compatibility.
type Transmitter struct {
	ExternalID    string       `db:"external_id" json:"external_id"`
	NoradID       int64        `db:"norad_id" json:"norad_id"`
	Description   *string      `db:"description" json:"description,omitempty"`
	UplinkLowHz   *int64       `db:"uplink_low_hz" json:"uplink_low_hz,omitempty"`
	DownlinkLowHz *int64       `db:"downlink_low_hz" json:"downlink_low_hz,omitempty"`
	Band          *string      `db:"band" json:"band,omitempty"`
	Mode          *string      `db:"mode" json:"mode,omitempty"`
	Direction     *string      `db:"direction" json:"direction,omitempty"`
	Alive         bool         `db:"alive" json:"alive"`
	Status        *string      `db:"status" json:"status,omitempty"`
	Service       *string      `db:"service" json:"service,omitempty"`
	Payload       pgtype.JSONB `db:"payload" json:"payload,omitempty"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}
