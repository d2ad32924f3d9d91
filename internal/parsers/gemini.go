// internal/parsers/gemini.go
package parsers

import (
	"strings"

	"github.com/user/chatconv/internal/types"
)

// Gemini parses Gemini Markdown exports: an H1 title followed by repeating
// "## Prompt:" / "## Response:" sections. Like SaveMyChatbot exports the
// messages carry no timestamps, so the engine interpolates them.
type Gemini struct{}

// NewGemini creates the Gemini Markdown parser.
func NewGemini() *Gemini {
	return &Gemini{}
}

func (p *Gemini) SourceName() string { return "gemini" }

// ValidateSource checks for the "## Prompt:" header pattern unique to
// Gemini exports among the Markdown sources.
func (p *Gemini) ValidateSource(data []byte) bool {
	return strings.Contains(string(data), "## Prompt:")
}

func (p *Gemini) Parse(data []byte) (*types.RawExtraction, error) {
	title, _, sections := splitMarkdown(data)

	messages := make([]types.RawMessage, 0, len(sections))
	for _, sec := range sections {
		if sec.Body == "" {
			continue
		}
		role := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(sec.Heading), ":"))
		messages = append(messages, types.RawMessage{
			Role:    role,
			Content: sec.Body,
		})
	}

	return &types.RawExtraction{
		SourceName: p.SourceName(),
		Platform:   types.PlatformGemini,
		Fields: map[string]any{
			"title":    title,
			"exporter": "Gemini export",
		},
		Messages: messages,
		RoleMap: map[string]types.Role{
			"prompt":   types.RoleUser,
			"response": types.RoleAssistant,
		},
		Missing: []string{
			"messages.timestamp",
			"metadata.created_at",
			"metadata.updated_at",
			"metadata.exported_at",
			"metadata.tags",
			"metadata.session_info",
		},
	}, nil
}
