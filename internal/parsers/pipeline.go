// internal/parsers/pipeline.go
package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/user/chatconv/internal/types"
)

// Pipeline parses the internal staging format: flat JSON with a top-level
// pipeline_version marker and an ordered messages array. It is the closest
// source to the canonical shape; most canonical fields map through directly
// and messages frequently lack native IDs.
type Pipeline struct{}

// NewPipeline creates the staged-JSON parser.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) SourceName() string { return "pipeline" }

type pipelineDoc struct {
	PipelineVersion string            `json:"pipeline_version"`
	Platform        string            `json:"platform"`
	Title           string            `json:"title"`
	Exporter        string            `json:"exporter"`
	ChatID          string            `json:"chat_id"`
	CreatedAt       any               `json:"created_at"`
	UpdatedAt       any               `json:"updated_at"`
	ExportedAt      any               `json:"exported_at"`
	Tags            []string          `json:"tags"`
	SessionInfo     map[string]any    `json:"session_info"`
	Messages        []pipelineMessage `json:"messages"`
}

type pipelineMessage struct {
	MessageID string `json:"message_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp any    `json:"timestamp"`
	ParentID  string `json:"parent_message_id"`
}

// ValidateSource checks for the pipeline_version marker plus a messages
// array; no other source grammar carries that pair.
func (p *Pipeline) ValidateSource(data []byte) bool {
	var doc pipelineDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	return doc.PipelineVersion != "" && doc.Messages != nil
}

func (p *Pipeline) Parse(data []byte) (*types.RawExtraction, error) {
	var doc pipelineDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode staged document: %w", err)
	}

	messages := make([]types.RawMessage, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		messages = append(messages, types.RawMessage{
			SourceID:       m.MessageID,
			Role:           m.Role,
			Content:        m.Content,
			Timestamp:      m.Timestamp,
			ParentSourceID: m.ParentID,
		})
	}

	fields := map[string]any{
		"title":            doc.Title,
		"pipeline_version": doc.PipelineVersion,
	}
	if doc.Exporter != "" {
		fields["exporter"] = doc.Exporter
	} else {
		fields["exporter"] = "staging pipeline"
	}
	if doc.ChatID != "" {
		fields["conversation_id"] = doc.ChatID
	}
	if doc.Platform != "" {
		fields["platform"] = doc.Platform
	}
	if doc.CreatedAt != nil {
		fields["create_time"] = doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		fields["update_time"] = doc.UpdatedAt
	}
	if doc.ExportedAt != nil {
		fields["export_time"] = doc.ExportedAt
	}
	if len(doc.Tags) > 0 {
		fields["tags"] = doc.Tags
	}
	if len(doc.SessionInfo) > 0 {
		fields["session_info"] = doc.SessionInfo
	}

	// Staged documents declare their platform explicitly or not at all; an
	// absent field is resolved downstream by the content heuristic.
	return &types.RawExtraction{
		SourceName: p.SourceName(),
		Fields:     fields,
		Messages:   messages,
		RoleMap: map[string]types.Role{
			"user":      types.RoleUser,
			"human":     types.RoleUser,
			"assistant": types.RoleAssistant,
			"gpt":       types.RoleAssistant,
			"system":    types.RoleSystem,
			"tool":      types.RoleTool,
			"thinking":  types.RoleThinking,
		},
	}, nil
}
