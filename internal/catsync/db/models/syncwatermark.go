package models

import (
	"time"
)

/*
   Column        |          Type           | Collation | Nullable | Default
-----------------+-------------------------+-----------+----------+---------
 source          | character varying(32)   |           | not null |
 last_success    | timestamptz             |           |          |
 last_run        | timestamptz             |           | not null | now()
 fetched_count   | integer                 |           | not null | 0
 last_error      | text                    |           |          |
*/

// SyncWatermark is the durable record of the last sync outcome for one
// upstream source. Only a successful run advances LastSuccess; failures
// record LastError and leave the watermark untouched.
type SyncWatermark struct {
	Source       string     `db:"source" json:"source"`
	LastSuccess  *time.Time `db:"last_success" json:"last_success,omitempty"`
	LastRun      time.Time  `db:"last_run" json:"last_run"`
	FetchedCount int        `db:"fetched_count" json:"fetched_count"`
	LastError    *string    `db:"last_error" json:"last_error,omitempty"`
}
