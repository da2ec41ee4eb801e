package models

// Result caps for catalog listings. A caller-supplied limit of zero or one
// beyond MaxListLimit is clamped to the default/maximum.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ObjectFilter is the set of composable constraints for catalog listings.
// Zero values impose no constraint.
type ObjectFilter struct {
	OrbitClass string
	Country    string
	// Band restricts to objects with at least one alive transmitter in the
	// given frequency band.
	Band     string
	TagType  string
	TagValue string
	Limit    int
	Offset   int
}

// Clamp normalizes the limit to the allowed range.
func (f *ObjectFilter) Clamp() {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	} else if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ObjectSummary is one row of a catalog listing: the object plus its current
// (latest-epoch) element set, when one exists.
type ObjectSummary struct {
	Object   CatalogObject `json:"object"`
	Elements *ElementSet   `json:"elements,omitempty"`
}

// ObjectDetail is the full view of one object: summary fields plus all alive
// transmitters and classification tags grouped by tag type.
type ObjectDetail struct {
	Object       CatalogObject                  `json:"object"`
	Elements     *ElementSet                    `json:"elements,omitempty"`
	Transmitters []Transmitter                  `json:"transmitters"`
	Tags         map[string][]ClassificationTag `json:"tags"`
}
