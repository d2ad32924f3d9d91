// internal/schema/validator.go

// Package schema enforces the v2.0 canonical schema. Validation runs
// unconditionally after canonicalization unless the caller explicitly opts
// out, and uses the same error taxonomy as canonicalization failures.
package schema

import (
	"fmt"
	"strconv"

	"github.com/user/chatconv/internal/types"
)

// Validate checks the canonical record's shape: schema version, required
// metadata, enumerations, non-empty message array, per-message required
// fields, message ID uniqueness, and the parent-reference invariant. The
// first violation found is returned as a SchemaViolation naming the exact
// field path.
func Validate(record *types.ChatRecord) error {
	if record == nil {
		return types.Violation("record", "record is nil")
	}
	if record.SchemaVersion != types.SchemaVersion {
		return types.Violation("schema_version", fmt.Sprintf("expected %q, got %q", types.SchemaVersion, record.SchemaVersion))
	}
	if err := validateMetadata(&record.Metadata); err != nil {
		return err
	}
	return validateMessages(record.Messages)
}

func validateMetadata(meta *types.Metadata) error {
	if meta.ChatID == "" {
		return types.Violation("metadata.chat_id", "chat id is required")
	}
	if !meta.Platform.Valid() {
		return types.Violation("metadata.platform", fmt.Sprintf("invalid platform %q", meta.Platform))
	}
	if meta.CreatedAt.IsZero() {
		return types.Violation("metadata.created_at", "timestamp is required")
	}
	if meta.UpdatedAt.IsZero() {
		return types.Violation("metadata.updated_at", "timestamp is required")
	}
	if meta.ExportedAt.IsZero() {
		return types.Violation("metadata.exported_at", "timestamp is required")
	}
	return nil
}

func validateMessages(messages []types.Message) error {
	if len(messages) == 0 {
		return types.Violation("messages", "at least one message is required")
	}
	seen := make(map[string]bool, len(messages))
	for i, m := range messages {
		path := func(field string) string {
			return "messages[" + strconv.Itoa(i) + "]." + field
		}
		if m.MessageID == "" {
			return types.Violation(path("message_id"), "message id is required")
		}
		if seen[m.MessageID] {
			return types.Violation(path("message_id"), fmt.Sprintf("duplicate message id %q", m.MessageID))
		}
		if !m.Role.Valid() {
			return types.Violation(path("role"), fmt.Sprintf("invalid role %q", m.Role))
		}
		if m.Content == "" {
			return types.Violation(path("content"), "message content must be non-empty")
		}
		if m.Timestamp.IsZero() {
			return types.Violation(path("timestamp"), "timestamp is required")
		}
		if m.ParentMessageID != "" && !seen[m.ParentMessageID] {
			return types.Violation(path("parent_message_id"), fmt.Sprintf("parent %q does not appear earlier in the record", m.ParentMessageID))
		}
		seen[m.MessageID] = true
	}
	return nil
}
