// internal/types/errors.go
package types

import (
	"fmt"
	"strings"
)

// previewLimit bounds how much source content an UnrecognizedSourceError
// carries for diagnostics.
const previewLimit = 200

// UnrecognizedSourceError reports that no registered parser's source
// predicate matched the input document.
type UnrecognizedSourceError struct {
	Attempted []string
	Preview   string
}

// NewUnrecognizedSourceError builds the error from the encodings that were
// attempted and the raw document, truncating the preview to 200 bytes.
func NewUnrecognizedSourceError(attempted []string, data []byte) *UnrecognizedSourceError {
	preview := string(data)
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	return &UnrecognizedSourceError{Attempted: attempted, Preview: preview}
}

func (e *UnrecognizedSourceError) Error() string {
	return fmt.Sprintf("unrecognized source: no parser matched (attempted %s); content starts: %q",
		strings.Join(e.Attempted, ", "), e.Preview)
}

// SchemaViolation reports that a required canonical field could not be
// populated, or that post-canonicalization validation failed. FieldPath
// names the exact field, e.g. "messages[0].content".
type SchemaViolation struct {
	FieldPath string
	Reason    string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.FieldPath, e.Reason)
}

// Violation is a convenience constructor for SchemaViolation.
func Violation(fieldPath, reason string) *SchemaViolation {
	return &SchemaViolation{FieldPath: fieldPath, Reason: reason}
}

// Warning records a soft default: an optional field that was filled by
// policy rather than read from the source. Warnings are values, not errors.
type Warning struct {
	FieldPath string `json:"field_path"`
	Reason    string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.FieldPath, w.Reason)
}
