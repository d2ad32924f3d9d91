// internal/types/models.go
package types

import "time"

// SchemaVersion identifies the canonical chat schema produced by this module.
const SchemaVersion = "2.0"

// Role is the canonical author role of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
	RoleThinking  Role = "thinking"
)

// Valid reports whether the role is one of the canonical enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool, RoleThinking:
		return true
	}
	return false
}

// Platform identifies the originating chat platform of a record.
type Platform string

const (
	PlatformChatGPT       Platform = "chatgpt"
	PlatformClaudeCLI     Platform = "claude-cli"
	PlatformClaudeDesktop Platform = "claude-desktop"
	PlatformGemini        Platform = "gemini"
	PlatformUnknown       Platform = "unknown"
)

// Valid reports whether the platform is one of the canonical enumeration values.
func (p Platform) Valid() bool {
	switch p {
	case PlatformChatGPT, PlatformClaudeCLI, PlatformClaudeDesktop, PlatformGemini, PlatformUnknown:
		return true
	}
	return false
}

// Encoding is the serialization syntax of a document, orthogonal to platform.
type Encoding string

const (
	EncodingJSON     Encoding = "json"
	EncodingYAML     Encoding = "yaml"
	EncodingMarkdown Encoding = "markdown"
	EncodingHTML     Encoding = "html"
)

// Statistics holds counts recomputed from the message sequence on every
// conversion. Source-provided counts are never trusted.
type Statistics struct {
	MessageCount    int     `json:"message_count" yaml:"message_count"`
	WordCount       int     `json:"word_count" yaml:"word_count"`
	TokenCount      int     `json:"token_count" yaml:"token_count"`
	TokenCountExact int     `json:"token_count_exact,omitempty" yaml:"token_count_exact,omitempty"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
}

// Metadata is the record-level portion of the canonical schema.
type Metadata struct {
	ChatID      string         `json:"chat_id" yaml:"chat_id"`
	Title       string         `json:"title" yaml:"title"`
	Platform    Platform       `json:"platform" yaml:"platform"`
	Exporter    string         `json:"exporter" yaml:"exporter"`
	CreatedAt   time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" yaml:"updated_at"`
	ExportedAt  time.Time      `json:"exported_at" yaml:"exported_at"`
	SessionInfo map[string]any `json:"session_info" yaml:"session_info"`
	Tags        []string       `json:"tags" yaml:"tags"`
	Statistics  Statistics     `json:"statistics" yaml:"statistics"`
}

// Message is a single canonical message. ParentMessageID, when non-empty,
// references a MessageID that appears earlier in the same record.
type Message struct {
	MessageID        string         `json:"message_id" yaml:"message_id"`
	Role             Role           `json:"role" yaml:"role"`
	Content          string         `json:"content" yaml:"content"`
	Timestamp        time.Time      `json:"timestamp" yaml:"timestamp"`
	ParentMessageID  string         `json:"parent_message_id,omitempty" yaml:"parent_message_id,omitempty"`
	PlatformSpecific map[string]any `json:"platform_specific,omitempty" yaml:"platform_specific,omitempty"`
}

// ChatRecord is the canonical v2.0 chat record, the only entity that crosses
// component boundaries. Message order is source-document order.
type ChatRecord struct {
	SchemaVersion string    `json:"schema_version" yaml:"schema_version"`
	Metadata      Metadata  `json:"metadata" yaml:"metadata"`
	Messages      []Message `json:"messages" yaml:"messages"`
}
