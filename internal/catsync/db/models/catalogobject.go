package models

import (
	"time"
)

/*
   Column          |          Type           | Collation | Nullable | Default
-------------------+-------------------------+-----------+----------+---------
 norad_id          | bigint                  |           | not null |
 object_name       | character varying(128)  |           | not null |
 country           | character varying(64)   |           |          |
 launch_date       | date                    |           |          |
 decay_date        | date                    |           |          |
 object_type       | character varying(32)   |           |          |
 orbit_class       | character varying(16)   |           |          |
 period_min        | double precision        |           |          |
 inclination_deg   | double precision        |           |          |
 apogee_km         | double precision        |           |          |
 perigee_km        | double precision        |           |          |
 created_at        | timestamptz             |           | not null | now()
 updated_at        | timestamptz             |           | not null | now()
*/

// Object classifications as reported by the catalog upstream.
const (
	ObjectTypePayload    = "PAYLOAD"
	ObjectTypeRocketBody = "ROCKET BODY"
	ObjectTypeDebris     = "DEBRIS"
	ObjectTypeUnknown    = "UNKNOWN"
)

// Orbit class labels derived from orbital geometry.
const (
	OrbitClassLEO     = "LEO"
	OrbitClassMEO     = "MEO"
	OrbitClassGEO     = "GEO"
	OrbitClassHEO     = "HEO"
	OrbitClassUnknown = "UNKNOWN"
)

// CatalogObject is one tracked orbiting object, keyed by its NORAD catalog
// identifier. Nullable columns are pointers so that merges can distinguish
// "absent upstream" from a real value.
type CatalogObject struct {
	NoradID        int64      `db:"norad_id" json:"norad_id"`
	ObjectName     string     `db:"object_name" json:"object_name"`
	Country        *string    `db:"country" json:"country,omitempty"`
	LaunchDate     *time.Time `db:"launch_date" json:"launch_date,omitempty"`
	DecayDate      *time.Time `db:"decay_date" json:"decay_date,omitempty"`
	ObjectType     *string    `db:"object_type" json:"object_type,omitempty"`
	OrbitClass     *string    `db:"orbit_class" json:"orbit_class,omitempty"`
	PeriodMin      *float64   `db:"period_min" json:"period_min,omitempty"`
	InclinationDeg *float64   `db:"inclination_deg" json:"inclination_deg,omitempty"`
	ApogeeKm       *float64   `db:"apogee_km" json:"apogee_km,omitempty"`
	PerigeeKm      *float64   `db:"perigee_km" json:"perigee_km,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
