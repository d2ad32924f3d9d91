// internal/types/raw.go
package types

// RawExtraction is the per-source intermediate record a parser hands to the
// canonicalization engine. It carries whatever fields the source naturally
// provides, keyed by source field path, plus the canonical fields the source
// cannot supply so the engine knows what to default.
type RawExtraction struct {
	SourceName string
	Platform   Platform // empty when the source does not identify a platform
	Fields     map[string]any
	Messages   []RawMessage
	RoleMap    map[string]Role
	Missing    []string
}

// MissingField reports whether the named canonical field was declared missing
// by the parser.
func (r *RawExtraction) MissingField(name string) bool {
	for _, m := range r.Missing {
		if m == name {
			return true
		}
	}
	return false
}

// RawMessage is a single message as extracted from the source, before
// canonicalization. Timestamp holds the raw source value (epoch number,
// ISO string, locale string) or nil when the source has none.
type RawMessage struct {
	SourceID       string
	Role           string
	Content        string
	Timestamp      any
	ParentSourceID string
	Extra          map[string]any
}
