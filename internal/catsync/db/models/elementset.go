package models

import (
	"time"
)

/*
   Column        |          Type           | Collation | Nullable | Default
-----------------+-------------------------+-----------+----------+----------------------
 id              | bigint                  |           | not null | generated by default
 norad_id        | bigint                  |           | not null |
 line1           | character varying(70)   |           | not null |
 line2           | character varying(70)   |           | not null |
 epoch           | timestamptz             |           | not null |
 element_set_no  | integer                 |           |          |
 fetched_at      | timestamptz             |           | not null | now()
*/

// ElementSet is one orbital element set (TLE) for a CatalogObject at a given
// epoch. Rows are append-only: the history is retained and the "current"
// elements for an object are the row with the latest epoch.
type ElementSet struct {
	ID           int64     `db:"id" json:"id"`
	NoradID      int64     `db:"norad_id" json:"norad_id"`
	Line1        string    `db:"line1" json:"line1"`
	Line2        string    `db:"line2" json:"line2"`
	Epoch        time.Time `db:"epoch" json:"epoch"`
	ElementSetNo *int      `db:"element_set_no" json:"element_set_no,omitempty"`
	FetchedAt    time.Time `db:"fetched_at" json:"fetched_at"`
}
