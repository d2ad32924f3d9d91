// internal/format/yaml.go
package format

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/user/chatconv/internal/types"
)

// YAML emits the same structure as the JSON formatter in YAML syntax.
type YAML struct{}

func (YAML) Name() string { return string(types.EncodingYAML) }

func (YAML) Format(record *types.ChatRecord) ([]byte, error) {
	data, err := yaml.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}
