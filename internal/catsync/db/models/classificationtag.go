package models

import (
	"time"
)

/*
   Column     |          Type           | Collation | Nullable | Default
--------------+-------------------------+-----------+----------+---------
 norad_id     | bigint                  |           | not null |
 tag_type     | character varying(32)   |           | not null |
 tag_value    | character varying(128)  |           | not null |
 confidence   | double precision        |           | not null | 1.0
 source       | character varying(64)   |           | not null |
 created_at   | timestamptz             |           | not null | now()
*/

// ClassificationTag is a (type, value) label attached to a CatalogObject, e.g.
// purpose=communications, with a confidence score and provenance. Unique on
// (norad_id, tag_type, tag_value); upserts are idempotent.
type ClassificationTag struct {
	NoradID    int64     `db:"norad_id" json:"norad_id"`
	TagType    string    `db:"tag_type" json:"tag_type"`
	TagValue   string    `db:"tag_value" json:"tag_value"`
	Confidence float64   `db:"confidence" json:"confidence"`
	Source     string    `db:"source" json:"source"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
