package models

import "time"

// IngestRecord is one normalized record produced by a source adapter. Any
// subset of the parts may be set; the reconciler merges whatever is present.
type IngestRecord struct {
	Object      *CatalogObject
	Elements    *ElementSet
	Transmitter *Transmitter
	Tags        []ClassificationTag

	// ObservedAt is the upstream timestamp of the record, used by the
	// latest_record watermark policy.
	ObservedAt time.Time
}

// IngestBatch is the result of one source fetch. Skipped counts records the
// adapter dropped as malformed.
type IngestBatch struct {
	Records []IngestRecord
	Skipped int
}
