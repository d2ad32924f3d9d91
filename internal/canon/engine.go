// internal/canon/engine.go

// Package canon turns per-source raw extractions into canonical v2.0 chat
// records. It is driven by declarative per-source mapping tables executed by
// one shared engine; no canonicalization logic lives in the parsers.
package canon

import (
	"strconv"
	"strings"
	"time"

	"github.com/user/chatconv/internal/stats"
	"github.com/user/chatconv/internal/types"
)

// Options tunes one canonicalization run. The zero value is usable: the
// wall clock supplies the final timestamp fallback and statistics use the
// documented approximation.
type Options struct {
	// Now supplies the conversion-time clock; defaults to time.Now.
	Now func() time.Time
	// FileModTime, when non-zero, is preferred over the clock when no
	// message carries a timestamp.
	FileModTime time.Time
	// Stats overrides the statistics function; defaults to stats.Compute.
	Stats func([]types.Message) types.Statistics
}

// Canonicalize maps a raw extraction onto a fresh canonical record and
// returns it together with any soft-default warnings. Missing required
// fields (at least one message, non-empty content per message) abort with a
// SchemaViolation; missing optional fields are defaulted silently per
// policy, each default recorded as a warning.
func Canonicalize(raw *types.RawExtraction, opts Options) (*types.ChatRecord, []types.Warning, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stats == nil {
		opts.Stats = stats.Compute
	}

	var warnings []types.Warning
	warn := func(path, reason string) {
		warnings = append(warnings, types.Warning{FieldPath: path, Reason: reason})
	}

	meta := types.Metadata{Platform: raw.Platform}
	for _, m := range mappingTables[raw.SourceName] {
		value, ok := raw.Fields[m.source]
		if !ok || value == nil || value == "" {
			continue
		}
		if m.transform != nil {
			transformed, err := m.transform(value)
			if err != nil {
				warn(m.target, err.Error())
				continue
			}
			value = transformed
		}
		if err := setMetadataField(&meta, m.target, value); err != nil {
			warn(m.target, err.Error())
		}
	}

	messages, msgWarnings, err := buildMessages(raw)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, msgWarnings...)

	warnings = append(warnings, defaultTimestamps(&meta, messages, opts)...)
	if raw.MissingField("messages.timestamp") || noTimestamps(messages) {
		interpolateTimestamps(messages, meta.CreatedAt, meta.UpdatedAt)
	} else {
		for i := range messages {
			if messages[i].Timestamp.IsZero() {
				messages[i].Timestamp = meta.CreatedAt
				warn(msgPath(i, "timestamp"), "missing; defaulted to metadata.created_at")
			}
		}
	}

	if meta.Platform == "" || meta.Platform == types.PlatformUnknown {
		meta.Platform = guessPlatform(messages)
		warn("metadata.platform", "no parser identified a platform; resolved by content heuristic to "+string(meta.Platform))
	}

	if meta.ChatID == "" {
		meta.ChatID = types.NewChatID(meta.Platform, meta.CreatedAt, contentFingerprint(messages))
		warn("metadata.chat_id", "source provides no chat id; generated")
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}

	meta.Statistics = opts.Stats(messages)

	return &types.ChatRecord{
		SchemaVersion: types.SchemaVersion,
		Metadata:      meta,
		Messages:      messages,
	}, warnings, nil
}

// buildMessages converts raw messages in source-document order, assigning
// canonical IDs, mapping roles, and resolving parent pointers. Parents may
// only reference messages that appeared earlier; a pointer that cannot be
// resolved that way is dropped with a warning rather than violating the
// invariant.
func buildMessages(raw *types.RawExtraction) ([]types.Message, []types.Warning, error) {
	if len(raw.Messages) == 0 {
		return nil, nil, types.Violation("messages", "at least one message is required")
	}

	var warnings []types.Warning

	// Native source IDs are kept only when every message has one; a single
	// gap switches the whole record to deterministic index-based IDs.
	useNative := true
	for _, m := range raw.Messages {
		if m.SourceID == "" {
			useNative = false
			break
		}
	}

	assigned := make(map[string]string, len(raw.Messages))
	messages := make([]types.Message, 0, len(raw.Messages))
	for i, rm := range raw.Messages {
		if strings.TrimSpace(rm.Content) == "" {
			return nil, nil, types.Violation(msgPath(i, "content"), "message content must be non-empty")
		}

		id := types.NewMessageID(i)
		if useNative {
			id = rm.SourceID
		}

		msg := types.Message{
			MessageID: id,
			Content:   rm.Content,
		}

		role, extra := mapRole(rm.Role, raw.RoleMap)
		msg.Role = role
		if extra != "" {
			msg.PlatformSpecific = map[string]any{"original_role": extra}
			warnings = append(warnings, types.Warning{
				FieldPath: msgPath(i, "role"),
				Reason:    "unmapped source role " + extra + "; canonicalized to tool",
			})
		}
		for k, v := range rm.Extra {
			if msg.PlatformSpecific == nil {
				msg.PlatformSpecific = make(map[string]any)
			}
			msg.PlatformSpecific[k] = v
		}

		ts, err := NormalizeTimestamp(rm.Timestamp)
		if err != nil {
			if msg.PlatformSpecific == nil {
				msg.PlatformSpecific = make(map[string]any)
			}
			msg.PlatformSpecific["raw_timestamp"] = rm.Timestamp
			warnings = append(warnings, types.Warning{
				FieldPath: msgPath(i, "timestamp"),
				Reason:    err.Error() + "; raw value passed through",
			})
		} else {
			msg.Timestamp = ts
		}

		if rm.ParentSourceID != "" {
			if parentID, ok := assigned[rm.ParentSourceID]; ok {
				msg.ParentMessageID = parentID
			} else {
				warnings = append(warnings, types.Warning{
					FieldPath: msgPath(i, "parent_message_id"),
					Reason:    "parent " + rm.ParentSourceID + " does not appear earlier in the record; pointer dropped",
				})
			}
		}

		if rm.SourceID != "" {
			assigned[rm.SourceID] = id
		}
		messages = append(messages, msg)
	}
	return messages, warnings, nil
}

// mapRole resolves a source role through the per-source role map, falling
// back to the canonical enumeration and finally to tool with the original
// role preserved.
func mapRole(source string, roleMap map[string]types.Role) (types.Role, string) {
	key := strings.ToLower(strings.TrimSpace(source))
	if r, ok := roleMap[key]; ok {
		return r, ""
	}
	if r := types.Role(key); r.Valid() {
		return r, ""
	}
	return types.RoleTool, source
}

// defaultTimestamps fills missing record-level timestamps: created_at and
// updated_at fall back to the first/last message timestamp, then to
// exported_at, then to the file modification time, then to the conversion
// clock. exported_at falls back to updated_at.
func defaultTimestamps(meta *types.Metadata, messages []types.Message, opts Options) []types.Warning {
	var warnings []types.Warning
	warn := func(path, reason string) {
		warnings = append(warnings, types.Warning{FieldPath: path, Reason: reason})
	}

	first, last := timestampSpan(messages)
	fallback := func() (time.Time, string) {
		if !meta.ExportedAt.IsZero() {
			return meta.ExportedAt, "metadata.exported_at"
		}
		if !opts.FileModTime.IsZero() {
			return opts.FileModTime.UTC().Truncate(time.Second), "file modification time"
		}
		return opts.Now().UTC().Truncate(time.Second), "conversion-time clock"
	}

	if meta.CreatedAt.IsZero() {
		if !first.IsZero() {
			meta.CreatedAt = first
			warn("metadata.created_at", "missing; defaulted to first message timestamp")
		} else {
			t, source := fallback()
			meta.CreatedAt = t
			warn("metadata.created_at", "missing; defaulted to "+source)
		}
	}
	if meta.UpdatedAt.IsZero() {
		if !last.IsZero() {
			meta.UpdatedAt = last
			warn("metadata.updated_at", "missing; defaulted to last message timestamp")
		} else {
			t, source := fallback()
			meta.UpdatedAt = t
			warn("metadata.updated_at", "missing; defaulted to "+source)
		}
	}
	if meta.ExportedAt.IsZero() {
		meta.ExportedAt = meta.UpdatedAt
		warn("metadata.exported_at", "missing; defaulted to metadata.updated_at")
	}
	return warnings
}

// interpolateTimestamps spreads message timestamps evenly between created_at
// and updated_at. With fewer than two messages every message receives
// created_at.
func interpolateTimestamps(messages []types.Message, created, updated time.Time) {
	n := len(messages)
	if n == 0 {
		return
	}
	if n == 1 || !updated.After(created) {
		for i := range messages {
			messages[i].Timestamp = created
		}
		return
	}
	step := updated.Sub(created) / time.Duration(n-1)
	for i := range messages {
		messages[i].Timestamp = created.Add(time.Duration(i) * step).Truncate(time.Second)
	}
}

func noTimestamps(messages []types.Message) bool {
	for _, m := range messages {
		if !m.Timestamp.IsZero() {
			return false
		}
	}
	return true
}

// timestampSpan returns the first and last non-zero message timestamps in
// sequence order.
func timestampSpan(messages []types.Message) (first, last time.Time) {
	for _, m := range messages {
		if m.Timestamp.IsZero() {
			continue
		}
		if first.IsZero() {
			first = m.Timestamp
		}
		last = m.Timestamp
	}
	return first, last
}

// guessPlatform is the documented ambiguity heuristic: assistant text
// containing "ChatGPT" resolves to chatgpt, "Claude" to claude-desktop,
// anything else to unknown.
func guessPlatform(messages []types.Message) types.Platform {
	for _, m := range messages {
		if m.Role != types.RoleAssistant {
			continue
		}
		if strings.Contains(m.Content, "ChatGPT") {
			return types.PlatformChatGPT
		}
		if strings.Contains(m.Content, "Claude") {
			return types.PlatformClaudeDesktop
		}
	}
	return types.PlatformUnknown
}

// contentFingerprint joins message contents for chat_id hashing. An empty
// result routes chat_id generation to the random-suffix path.
func contentFingerprint(messages []types.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}

func msgPath(i int, field string) string {
	return "messages[" + strconv.Itoa(i) + "]." + field
}
