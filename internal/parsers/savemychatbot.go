// internal/parsers/savemychatbot.go
package parsers

import (
	"regexp"
	"strings"

	"github.com/user/chatconv/internal/types"
)

// SaveMyChatbot parses Markdown exports from the SaveMyChatbot browser
// extension: an H1 title, an "Exported on MM/DD/YYYY at H:MM AM/PM" line
// naming the origin platform, then alternating "## User" / "## <Assistant>"
// sections. Messages carry no per-message timestamps; the engine
// interpolates them.
type SaveMyChatbot struct{}

// NewSaveMyChatbot creates the SaveMyChatbot export parser.
func NewSaveMyChatbot() *SaveMyChatbot {
	return &SaveMyChatbot{}
}

func (p *SaveMyChatbot) SourceName() string { return "savemychatbot" }

var (
	exportedOnRe = regexp.MustCompile(`Exported on (\d{1,2}/\d{1,2}/\d{4} at \d{1,2}:\d{2} [AP]M)`)
	fromRe       = regexp.MustCompile(`\[?from ([A-Za-z]+)`)
)

// ValidateSource requires both the SaveMyChatbot attribution and the
// Exported-on front-matter pattern.
func (p *SaveMyChatbot) ValidateSource(data []byte) bool {
	s := string(data)
	return strings.Contains(s, "SaveMyChatbot") && exportedOnRe.MatchString(s)
}

func (p *SaveMyChatbot) Parse(data []byte) (*types.RawExtraction, error) {
	title, preamble, sections := splitMarkdown(data)

	fields := map[string]any{
		"title":    title,
		"exporter": "SaveMyChatbot",
	}
	if m := exportedOnRe.FindStringSubmatch(preamble); m != nil {
		fields["exported_on"] = m[1]
	}
	if m := fromRe.FindStringSubmatch(preamble); m != nil {
		fields["platform_hint"] = m[1]
	}

	messages := make([]types.RawMessage, 0, len(sections))
	for _, sec := range sections {
		if sec.Body == "" {
			continue
		}
		label := strings.TrimSpace(sec.Heading)
		msg := types.RawMessage{
			Role:    strings.ToLower(label),
			Content: sec.Body,
		}
		if msg.Role != "user" {
			msg.Extra = map[string]any{"source_label": label}
		}
		messages = append(messages, msg)
	}

	return &types.RawExtraction{
		SourceName: p.SourceName(),
		Fields:     fields,
		Messages:   messages,
		RoleMap: map[string]types.Role{
			"user":      types.RoleUser,
			"you":       types.RoleUser,
			"chatgpt":   types.RoleAssistant,
			"claude":    types.RoleAssistant,
			"gemini":    types.RoleAssistant,
			"assistant": types.RoleAssistant,
			"ai":        types.RoleAssistant,
		},
		Missing: []string{
			"messages.timestamp",
			"metadata.created_at",
			"metadata.updated_at",
			"metadata.tags",
			"metadata.session_info",
		},
	}, nil
}
