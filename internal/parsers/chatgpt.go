// internal/parsers/chatgpt.go
package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/user/chatconv/internal/types"
)

// ChatGPT parses the conversations.json export format. Its native
// representation is a pointer graph: a flat "mapping" keyed by node id where
// each node holds a parent pointer and a possibly-null message. Exports may
// wrap a single conversation in a one-element array; only the first
// conversation of an array is converted.
type ChatGPT struct{}

// NewChatGPT creates the ChatGPT export parser.
func NewChatGPT() *ChatGPT {
	return &ChatGPT{}
}

func (p *ChatGPT) SourceName() string { return "chatgpt" }

type chatgptConversation struct {
	Title          string                 `json:"title"`
	CreateTime     *float64               `json:"create_time"`
	UpdateTime     *float64               `json:"update_time"`
	Mapping        map[string]chatgptNode `json:"mapping"`
	CurrentNode    string                 `json:"current_node"`
	ConversationID string                 `json:"conversation_id"`
	ID             string                 `json:"id"`
}

type chatgptNode struct {
	ID       string          `json:"id"`
	Message  *chatgptMessage `json:"message"`
	Parent   *string         `json:"parent"`
	Children []string        `json:"children"`
}

type chatgptMessage struct {
	ID     string `json:"id"`
	Author struct {
		Role string `json:"role"`
	} `json:"author"`
	CreateTime *float64 `json:"create_time"`
	Content    struct {
		ContentType string `json:"content_type"`
		Parts       []any  `json:"parts"`
	} `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

func (p *ChatGPT) decode(data []byte) (*chatgptConversation, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var convs []chatgptConversation
		if err := json.Unmarshal(data, &convs); err != nil {
			return nil, err
		}
		if len(convs) == 0 {
			return nil, fmt.Errorf("empty conversation array")
		}
		return &convs[0], nil
	}
	var conv chatgptConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ValidateSource checks for the mapping pointer-graph structure no other
// source carries.
func (p *ChatGPT) ValidateSource(data []byte) bool {
	conv, err := p.decode(data)
	return err == nil && len(conv.Mapping) > 0
}

// Parse flattens the mapping graph into source-document order. Traversal is
// top-down depth-first from the graph roots (nodes with a null parent),
// following each node's children array so sibling order is deterministic.
// Nodes with a null message are structural and are skipped; their descendants
// resolve parents through them to the nearest message-bearing ancestor.
func (p *ChatGPT) Parse(data []byte) (*types.RawExtraction, error) {
	conv, err := p.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode chatgpt export: %w", err)
	}

	roots := make([]string, 0, 1)
	for id, node := range conv.Mapping {
		if node.Parent == nil || *node.Parent == "" {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	var messages []types.RawMessage
	var visit func(id, parentEmitted string)
	visit = func(id, parentEmitted string) {
		node, ok := conv.Mapping[id]
		if !ok {
			return
		}
		emitted := parentEmitted
		if msg := node.Message; msg != nil {
			content, extra := joinChatGPTParts(msg)
			// ChatGPT roots often carry an empty hidden system message;
			// treat those like structural nodes.
			if content != "" || msg.Author.Role != "system" {
				raw := types.RawMessage{
					SourceID:       id,
					Role:           msg.Author.Role,
					Content:        content,
					ParentSourceID: parentEmitted,
					Extra:          extra,
				}
				if msg.CreateTime != nil {
					raw.Timestamp = *msg.CreateTime
				}
				messages = append(messages, raw)
				emitted = id
			}
		}
		for _, child := range node.Children {
			visit(child, emitted)
		}
	}
	for _, root := range roots {
		visit(root, "")
	}

	fields := map[string]any{
		"title":    conv.Title,
		"exporter": "ChatGPT export",
	}
	if conv.CreateTime != nil {
		fields["create_time"] = *conv.CreateTime
	}
	if conv.UpdateTime != nil {
		fields["update_time"] = *conv.UpdateTime
	}
	if conv.ConversationID != "" {
		fields["conversation_id"] = conv.ConversationID
	} else if conv.ID != "" {
		fields["conversation_id"] = conv.ID
	}

	return &types.RawExtraction{
		SourceName: p.SourceName(),
		Platform:   types.PlatformChatGPT,
		Fields:     fields,
		Messages:   messages,
		RoleMap: map[string]types.Role{
			"user":      types.RoleUser,
			"assistant": types.RoleAssistant,
			"system":    types.RoleSystem,
			"tool":      types.RoleTool,
		},
		Missing: []string{"metadata.exported_at", "metadata.tags", "metadata.session_info"},
	}, nil
}

// joinChatGPTParts joins string parts with newlines. Non-string parts
// (images, widgets) are preserved opaquely in the extras map rather than
// reconstructed.
func joinChatGPTParts(msg *chatgptMessage) (string, map[string]any) {
	var buf bytes.Buffer
	var opaque []any
	for _, part := range msg.Content.Parts {
		if s, ok := part.(string); ok {
			if s == "" {
				continue
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		} else if part != nil {
			opaque = append(opaque, part)
		}
	}
	extra := make(map[string]any)
	if len(opaque) > 0 {
		extra["opaque_parts"] = opaque
	}
	if msg.Content.ContentType != "" && msg.Content.ContentType != "text" {
		extra["content_type"] = msg.Content.ContentType
	}
	if model, ok := msg.Metadata["model_slug"].(string); ok && model != "" {
		extra["model"] = model
	}
	if len(extra) == 0 {
		extra = nil
	}
	return buf.String(), extra
}
