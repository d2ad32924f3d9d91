// internal/format/format_test.go
package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/user/chatconv/internal/types"
)

func sampleRecord() *types.ChatRecord {
	day1 := time.Date(2024, 10, 25, 14, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 10, 26, 9, 15, 0, 0, time.UTC)
	return &types.ChatRecord{
		SchemaVersion: types.SchemaVersion,
		Metadata: types.Metadata{
			ChatID:     "chatgpt_20241025T143000_abcdef123456",
			Title:      "Sorting in Go",
			Platform:   types.PlatformChatGPT,
			Exporter:   "ChatGPT export",
			CreatedAt:  day1,
			UpdatedAt:  day2,
			ExportedAt: day2.Add(time.Hour),
			Tags:       []string{"go"},
			Statistics: types.Statistics{MessageCount: 3, WordCount: 12, TokenCount: 16, DurationSeconds: 67500},
		},
		Messages: []types.Message{
			{MessageID: "msg_000", Role: types.RoleUser, Content: "How do I sort a slice?", Timestamp: day1},
			{MessageID: "msg_001", Role: types.RoleThinking, Content: "The sort package covers this.", Timestamp: day1.Add(time.Second)},
			{MessageID: "msg_002", Role: types.RoleAssistant, Content: "Use sort.Slice.", Timestamp: day2, ParentMessageID: "msg_000"},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := sampleRecord()
	out, err := JSON{}.Format(original)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseCanonical(out)
	if err != nil {
		t.Fatal(err)
	}
	// Compare re-marshalled bytes rather than struct values so equal
	// instants with different internal time representations still match.
	want, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	got, err := json.Marshal(parsed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("round trip changed the record:\nwant %s\ngot  %s", want, got)
	}
}

func TestJSONTrailingNewline(t *testing.T) {
	out, err := JSON{}.Format(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(out, []byte("}\n")) {
		t.Error("expected trailing newline after the closing brace")
	}
}

func TestYAMLFormat(t *testing.T) {
	out, err := YAML{}.Format(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	for _, want := range []string{"schema_version: \"2.0\"", "chat_id: chatgpt_20241025T143000_abcdef123456", "message_id: msg_000"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in yaml output", want)
		}
	}
}

func TestMarkdownFormat(t *testing.T) {
	out, err := Markdown{}.Format(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "---\n") {
		t.Error("expected front matter delimiter at start")
	}
	if !strings.Contains(text, "chat_id: chatgpt_20241025T143000_abcdef123456") {
		t.Error("expected metadata in front matter")
	}
	if !strings.Contains(text, "# Sorting in Go") {
		t.Error("expected title heading")
	}
	// One date heading per day, in order.
	first := strings.Index(text, "## 2024-10-25")
	second := strings.Index(text, "## 2024-10-26")
	if first < 0 || second < 0 || second < first {
		t.Errorf("expected ordered date headings, got %d/%d", first, second)
	}
	if !strings.Contains(text, "### User (14:30:00)") {
		t.Error("expected role heading with time")
	}
	if !strings.Contains(text, "Use sort.Slice.") {
		t.Error("expected message content")
	}
}

func TestMarkdownUntitledFallsBackToChatID(t *testing.T) {
	record := sampleRecord()
	record.Metadata.Title = ""
	out, err := Markdown{}.Format(record)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "# chatgpt_20241025T143000_abcdef123456") {
		t.Error("expected chat id as title fallback")
	}
}

func TestHTMLFormat(t *testing.T) {
	out, err := NewHTML("dark").Format(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.Contains(text, `<body class="dark">`) {
		t.Error("expected dark theme class")
	}
	if !strings.Contains(text, "<title>Sorting in Go</title>") {
		t.Error("expected document title")
	}
	if !strings.Contains(text, `<details class="thinking">`) {
		t.Error("expected thinking message rendered as details block")
	}
	if !strings.Contains(text, `<div class="message user">`) {
		t.Error("expected user message block")
	}
	if !strings.Contains(text, "3 messages") {
		t.Error("expected statistics in the header")
	}
}

func TestHTMLThemeFallback(t *testing.T) {
	out, err := NewHTML("neon").Format(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `<body class="light">`) {
		t.Error("expected unknown theme to fall back to light")
	}
}

func TestRegistryRender(t *testing.T) {
	r := Default("light")
	want := []string{"json", "yaml", "markdown", "html"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d formatters, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if _, err := r.Render(sampleRecord(), "yaml"); err != nil {
		t.Errorf("render yaml: %v", err)
	}
	if _, err := r.Render(sampleRecord(), "pdf"); err == nil {
		t.Error("expected error for unregistered encoding")
	}
}
