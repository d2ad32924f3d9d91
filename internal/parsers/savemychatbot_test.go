// internal/parsers/savemychatbot_test.go
package parsers

import (
	"testing"

	"github.com/user/chatconv/internal/types"
)

const smcExport = `# Sorting in Go

Exported on 10/25/2024 at 2:30 PM [from ChatGPT](https://chat.openai.com/c/abc) - with [SaveMyChatbot](https://save.hugocollin.com)

## User
How do I sort a slice in Go?

## ChatGPT
Use the sort package.
`

func TestSaveMyChatbotValidateSource(t *testing.T) {
	p := NewSaveMyChatbot()
	if !p.ValidateSource([]byte(smcExport)) {
		t.Error("expected export to validate")
	}
	if p.ValidateSource([]byte("# Chat\n\n## Prompt:\nhi\n")) {
		t.Error("expected gemini markdown to be rejected")
	}
	if p.ValidateSource([]byte("mentions SaveMyChatbot but no export line")) {
		t.Error("expected missing Exported-on pattern to be rejected")
	}
}

func TestSaveMyChatbotParse(t *testing.T) {
	raw, err := NewSaveMyChatbot().Parse([]byte(smcExport))
	if err != nil {
		t.Fatal(err)
	}
	if raw.Fields["title"] != "Sorting in Go" {
		t.Errorf("expected title, got %v", raw.Fields["title"])
	}
	if raw.Fields["exported_on"] != "10/25/2024 at 2:30 PM" {
		t.Errorf("expected exported_on timestamp, got %v", raw.Fields["exported_on"])
	}
	if raw.Fields["platform_hint"] != "ChatGPT" {
		t.Errorf("expected platform hint, got %v", raw.Fields["platform_hint"])
	}
	if len(raw.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(raw.Messages))
	}
	if raw.Messages[0].Role != "user" || raw.Messages[1].Role != "chatgpt" {
		t.Errorf("unexpected roles: %s, %s", raw.Messages[0].Role, raw.Messages[1].Role)
	}
	if raw.RoleMap["chatgpt"] != types.RoleAssistant {
		t.Error("expected chatgpt label mapped to assistant")
	}
	if !raw.MissingField("messages.timestamp") {
		t.Error("expected per-message timestamps declared missing")
	}
}
