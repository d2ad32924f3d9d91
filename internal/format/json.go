// internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"github.com/user/chatconv/internal/types"
)

// JSON emits the canonical serialization: the record marshalled with
// two-space indentation. parse(format(R)) reproduces R field-for-field.
type JSON struct{}

func (JSON) Name() string { return string(types.EncodingJSON) }

func (JSON) Format(record *types.ChatRecord) ([]byte, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseCanonical is the v2.0-native parse: the inverse of the JSON
// formatter. It is what round-trip identity is asserted against.
func ParseCanonical(data []byte) (*types.ChatRecord, error) {
	var record types.ChatRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &record, nil
}
