// internal/canon/tables.go
package canon

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/chatconv/internal/types"
)

// fieldMapping routes one source field path into one canonical field path.
// A nil transform passes the value through unchanged. Tables are declarative
// so each parser stays a pure extractor and the engine stays the single
// place canonical semantics live.
type fieldMapping struct {
	source    string
	target    string
	transform func(any) (any, error)
}

// mappingTables holds one table per source, keyed by parser source name.
var mappingTables = map[string][]fieldMapping{
	"chatgpt": {
		{"conversation_id", "metadata.chat_id", asString},
		{"title", "metadata.title", asString},
		{"exporter", "metadata.exporter", asString},
		{"create_time", "metadata.created_at", asTime},
		{"update_time", "metadata.updated_at", asTime},
	},
	"claude-cli": {
		{"session_id", "metadata.chat_id", asString},
		{"title", "metadata.title", asString},
		{"exporter", "metadata.exporter", asString},
		{"session_info", "metadata.session_info", asMap},
	},
	"pipeline": {
		{"conversation_id", "metadata.chat_id", asString},
		{"title", "metadata.title", asString},
		{"exporter", "metadata.exporter", asString},
		{"platform", "metadata.platform", asPlatform},
		{"create_time", "metadata.created_at", asTime},
		{"update_time", "metadata.updated_at", asTime},
		{"export_time", "metadata.exported_at", asTime},
		{"tags", "metadata.tags", asTags},
		{"session_info", "metadata.session_info", asMap},
	},
	"savemychatbot": {
		{"title", "metadata.title", asString},
		{"exporter", "metadata.exporter", asString},
		{"exported_on", "metadata.exported_at", asTime},
		{"platform_hint", "metadata.platform", asPlatformHint},
	},
	"gemini": {
		{"title", "metadata.title", asString},
		{"exporter", "metadata.exporter", asString},
	},
}

func asString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asTime(v any) (any, error) {
	t, err := NormalizeTimestamp(v)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, fmt.Errorf("empty timestamp")
	}
	return t, nil
}

func asMap(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	return m, nil
}

// asTags accepts either a native string slice or a decoded []any.
func asTags(v any) (any, error) {
	switch tags := v.(type) {
	case []string:
		return tags, nil
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			s, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("expected string tag, got %T", t)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected tag sequence, got %T", v)
}

// asPlatform maps an explicit source platform declaration onto the
// canonical enumeration, rejecting unknown values.
func asPlatform(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	p := types.Platform(strings.ToLower(s))
	if !p.Valid() {
		return nil, fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// asPlatformHint maps the free-text platform name of a Markdown export
// ("from ChatGPT") onto the canonical enumeration.
func asPlatformHint(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	switch strings.ToLower(s) {
	case "chatgpt":
		return types.PlatformChatGPT, nil
	case "claude":
		return types.PlatformClaudeDesktop, nil
	case "gemini":
		return types.PlatformGemini, nil
	}
	return nil, fmt.Errorf("unknown platform hint %q", s)
}

// setMetadataField assigns a transformed value to its canonical field path.
func setMetadataField(meta *types.Metadata, target string, value any) error {
	switch target {
	case "metadata.chat_id":
		meta.ChatID = value.(string)
	case "metadata.title":
		meta.Title = value.(string)
	case "metadata.exporter":
		meta.Exporter = value.(string)
	case "metadata.platform":
		meta.Platform = value.(types.Platform)
	case "metadata.created_at":
		meta.CreatedAt = value.(time.Time)
	case "metadata.updated_at":
		meta.UpdatedAt = value.(time.Time)
	case "metadata.exported_at":
		meta.ExportedAt = value.(time.Time)
	case "metadata.tags":
		meta.Tags = value.([]string)
	case "metadata.session_info":
		meta.SessionInfo = value.(map[string]any)
	default:
		return fmt.Errorf("unknown canonical field path %q", target)
	}
	return nil
}
