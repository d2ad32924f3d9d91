// internal/parsers/claudecli.go
package parsers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/user/chatconv/internal/types"
)

// claudeScanBuffer sizes the JSONL scanner buffer; session lines with tool
// output routinely exceed the bufio default.
const claudeScanBuffer = 1024 * 1024

// ClaudeCLI parses Claude Code session files: JSON Lines where each line is
// a record carrying uuid, parentUuid, sessionId, an RFC3339 timestamp, and a
// message whose content is either a string or an array of typed blocks.
type ClaudeCLI struct{}

// NewClaudeCLI creates the Claude CLI session parser.
func NewClaudeCLI() *ClaudeCLI {
	return &ClaudeCLI{}
}

func (p *ClaudeCLI) SourceName() string { return "claude-cli" }

type claudeLine struct {
	Type       string         `json:"type"`
	UUID       string         `json:"uuid"`
	ParentUUID *string        `json:"parentUuid"`
	SessionID  string         `json:"sessionId"`
	Timestamp  string         `json:"timestamp"`
	IsMeta     bool           `json:"isMeta"`
	Summary    string         `json:"summary"`
	CWD        string         `json:"cwd"`
	GitBranch  string         `json:"gitBranch"`
	Version    string         `json:"version"`
	Message    *claudeMessage `json:"message"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
}

type claudeBlock struct {
	Type     string          `json:"type"`
	Text     string          `json:"text"`
	Thinking string          `json:"thinking"`
	Name     string          `json:"name"`
	Input    json.RawMessage `json:"input"`
}

// ValidateSource checks the first parseable non-summary line for the
// uuid/sessionId pair unique to Claude Code session files. Unparseable lines
// are skipped, matching Parse's tolerance for stray garbage lines.
func (p *ClaudeCLI) ValidateSource(data []byte) bool {
	scanner := newClaudeScanner(data)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec claudeLine
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Type == "summary" {
			continue
		}
		return rec.UUID != "" && rec.SessionID != ""
	}
	return false
}

// Parse reads every line, skipping meta records and records without message
// content. Thinking blocks are emitted as their own messages with role
// "thinking"; tool_use blocks are preserved in the per-message side-channel.
func (p *ClaudeCLI) Parse(data []byte) (*types.RawExtraction, error) {
	var (
		messages  []types.RawMessage
		sessionID string
		title     string
		firstCWD  string
		branch    string
		version   string
	)

	scanner := newClaudeScanner(data)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec claudeLine
		if err := json.Unmarshal(line, &rec); err != nil {
			// Tolerate stray unparseable lines; real session files contain them.
			continue
		}
		if rec.Type == "summary" {
			if title == "" {
				title = rec.Summary
			}
			continue
		}
		if rec.IsMeta || rec.Message == nil || rec.UUID == "" {
			continue
		}
		if sessionID == "" {
			sessionID = rec.SessionID
		}
		if firstCWD == "" {
			firstCWD = rec.CWD
		}
		if branch == "" {
			branch = rec.GitBranch
		}
		if version == "" {
			version = rec.Version
		}

		parent := ""
		if rec.ParentUUID != nil {
			parent = *rec.ParentUUID
		}
		messages = append(messages, p.extractMessages(&rec, parent)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan session file: %w", err)
	}

	fields := map[string]any{
		"title":    title,
		"exporter": "Claude Code",
	}
	if sessionID != "" {
		fields["session_id"] = sessionID
	}
	session := make(map[string]any)
	if firstCWD != "" {
		session["cwd"] = firstCWD
	}
	if branch != "" {
		session["git_branch"] = branch
	}
	if version != "" {
		session["cli_version"] = version
	}
	if len(session) > 0 {
		fields["session_info"] = session
	}

	return &types.RawExtraction{
		SourceName: p.SourceName(),
		Platform:   types.PlatformClaudeCLI,
		Fields:     fields,
		Messages:   messages,
		RoleMap: map[string]types.Role{
			"user":      types.RoleUser,
			"assistant": types.RoleAssistant,
			"system":    types.RoleSystem,
			"thinking":  types.RoleThinking,
		},
		Missing: []string{"metadata.exported_at", "metadata.tags"},
	}, nil
}

// extractMessages turns one session record into zero or more raw messages.
// String content maps to a single message; block-array content yields a
// thinking message per thinking block plus one message for the joined text.
func (p *ClaudeCLI) extractMessages(rec *claudeLine, parent string) []types.RawMessage {
	var out []types.RawMessage

	extra := make(map[string]any)
	if rec.Message.Model != "" {
		extra["model"] = rec.Message.Model
	}

	var asString string
	if err := json.Unmarshal(rec.Message.Content, &asString); err == nil {
		if asString == "" {
			return nil
		}
		out = append(out, types.RawMessage{
			SourceID:       rec.UUID,
			Role:           rec.Message.Role,
			Content:        asString,
			Timestamp:      rec.Timestamp,
			ParentSourceID: parent,
			Extra:          nilIfEmpty(extra),
		})
		return out
	}

	var blocks []claudeBlock
	if err := json.Unmarshal(rec.Message.Content, &blocks); err != nil {
		return nil
	}

	var text bytes.Buffer
	var toolCalls []map[string]any
	thinkingIdx := 0
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(b.Text)
		case "thinking":
			if b.Thinking == "" {
				continue
			}
			// Interleaved-thinking records carry several thinking blocks
			// under one uuid; the index keeps their IDs unique.
			out = append(out, types.RawMessage{
				SourceID:       fmt.Sprintf("%s#thinking_%d", rec.UUID, thinkingIdx),
				Role:           "thinking",
				Content:        b.Thinking,
				Timestamp:      rec.Timestamp,
				ParentSourceID: parent,
			})
			thinkingIdx++
		case "tool_use":
			call := map[string]any{"name": b.Name}
			if len(b.Input) > 0 {
				call["input"] = json.RawMessage(b.Input)
			}
			toolCalls = append(toolCalls, call)
		}
	}
	if len(toolCalls) > 0 {
		extra["tool_calls"] = toolCalls
	}
	if text.Len() > 0 {
		out = append(out, types.RawMessage{
			SourceID:       rec.UUID,
			Role:           rec.Message.Role,
			Content:        text.String(),
			Timestamp:      rec.Timestamp,
			ParentSourceID: parent,
			Extra:          nilIfEmpty(extra),
		})
	}
	return out
}

func newClaudeScanner(data []byte) *bufio.Scanner {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, claudeScanBuffer), claudeScanBuffer)
	return scanner
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}
