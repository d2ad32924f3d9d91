// internal/convert/converter_test.go
package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/chatconv/internal/format"
	"github.com/user/chatconv/internal/parsers"
	"github.com/user/chatconv/internal/types"
)

const stagedDoc = `{
	"pipeline_version": "2024.3",
	"platform": "chatgpt",
	"title": "staged conversation",
	"created_at": "2024-10-25T10:00:00Z",
	"updated_at": "2024-10-25T11:00:00Z",
	"tags": ["support"],
	"messages": [
		{"role": "user", "content": "first question"},
		{"role": "assistant", "content": "first answer"},
		{"role": "user", "content": "follow up"}
	]
}`

const chatgptDoc = `{
	"title": "Sorting",
	"create_time": 1729866600,
	"update_time": 1729866700,
	"conversation_id": "conv-1",
	"mapping": {
		"root": {"id": "root", "message": null, "parent": null, "children": ["a"]},
		"a": {"id": "a", "message": {"id": "a", "author": {"role": "user"}, "create_time": 1729866600, "content": {"content_type": "text", "parts": ["how do I sort"]}}, "parent": "root", "children": ["b"]},
		"b": {"id": "b", "message": {"id": "b", "author": {"role": "assistant"}, "create_time": 1729866660, "content": {"content_type": "text", "parts": ["use the sort package"]}}, "parent": "a", "children": []}
	}
}`

func fixedClock() time.Time {
	return time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
}

func newTestConverter(opts Options) *Converter {
	if opts.Now == nil {
		opts.Now = fixedClock
	}
	return New(parsers.Default(), format.Default("light"), nil, opts)
}

func TestConvertToV2Pipeline(t *testing.T) {
	c := newTestConverter(Options{})
	result, err := c.ConvertToV2(context.Background(), Source{Data: []byte(stagedDoc), Filename: "staged.json"})
	if err != nil {
		t.Fatal(err)
	}
	if result.SourceName != "pipeline" {
		t.Errorf("expected pipeline source, got %s", result.SourceName)
	}
	if result.Encoding != types.EncodingJSON {
		t.Errorf("expected json encoding, got %s", result.Encoding)
	}

	record := result.Record
	if record.SchemaVersion != types.SchemaVersion {
		t.Errorf("expected schema version %s, got %s", types.SchemaVersion, record.SchemaVersion)
	}
	if record.Metadata.Platform != types.PlatformChatGPT {
		t.Errorf("expected chatgpt platform, got %s", record.Metadata.Platform)
	}
	if len(record.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(record.Messages))
	}
	for i, m := range record.Messages {
		want := types.NewMessageID(i)
		if m.MessageID != want {
			t.Errorf("message %d: expected id %s, got %s", i, want, m.MessageID)
		}
	}
	// No per-message timestamps in the source, so the engine interpolates
	// evenly across [created_at, updated_at].
	created := time.Date(2024, 10, 25, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 10, 25, 11, 0, 0, 0, time.UTC)
	if !record.Messages[0].Timestamp.Equal(created) {
		t.Errorf("expected first message at created_at, got %v", record.Messages[0].Timestamp)
	}
	if !record.Messages[2].Timestamp.Equal(updated) {
		t.Errorf("expected last message at updated_at, got %v", record.Messages[2].Timestamp)
	}
	if record.Metadata.Statistics.MessageCount != 3 {
		t.Errorf("expected recomputed statistics, got %+v", record.Metadata.Statistics)
	}
}

func TestConvertToV2ChatGPT(t *testing.T) {
	c := newTestConverter(Options{})
	result, err := c.ConvertToV2(context.Background(), Source{Data: []byte(chatgptDoc), Filename: "export.json"})
	if err != nil {
		t.Fatal(err)
	}
	if result.SourceName != "chatgpt" {
		t.Fatalf("expected chatgpt source, got %s", result.SourceName)
	}
	record := result.Record
	if len(record.Messages) != 2 {
		t.Fatalf("expected structural root skipped, got %d messages", len(record.Messages))
	}
	// Parent references survive and always point backwards.
	if record.Messages[1].ParentMessageID != record.Messages[0].MessageID {
		t.Errorf("expected second message parented to first, got %q", record.Messages[1].ParentMessageID)
	}
	if record.Metadata.Title != "Sorting" {
		t.Errorf("expected title carried over, got %q", record.Metadata.Title)
	}
}

func TestConvertToV2Unrecognized(t *testing.T) {
	c := newTestConverter(Options{})
	_, err := c.ConvertToV2(context.Background(), Source{Data: []byte("nothing recognizable here")})
	var unrec *types.UnrecognizedSourceError
	if !errors.As(err, &unrec) {
		t.Fatalf("expected UnrecognizedSourceError, got %v", err)
	}
}

func TestConvertBatch(t *testing.T) {
	c := newTestConverter(Options{MaxConcurrent: 2})
	sources := []Source{
		{Data: []byte(stagedDoc), Filename: "a.json"},
		{Data: []byte("garbage that matches nothing"), Filename: "b.txt"},
		{Data: []byte(chatgptDoc), Filename: "c.json"},
	}
	outcomes := c.ConvertBatch(context.Background(), sources)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	// Input order is preserved regardless of completion order.
	for i, o := range outcomes {
		if o.Filename != sources[i].Filename {
			t.Errorf("outcome %d: expected %s, got %s", i, sources[i].Filename, o.Filename)
		}
		if o.RunID == "" {
			t.Errorf("outcome %d: missing run id", i)
		}
	}
	if !outcomes[0].Success || outcomes[1].Success || !outcomes[2].Success {
		t.Errorf("unexpected success pattern: %v %v %v", outcomes[0].Success, outcomes[1].Success, outcomes[2].Success)
	}
	if outcomes[1].Err == nil {
		t.Error("expected failing outcome to carry its error")
	}
	if outcomes[0].RunID == outcomes[2].RunID {
		t.Error("expected distinct run ids per document")
	}

	succeeded, failed := Summarize(outcomes)
	if succeeded != 2 || failed != 1 {
		t.Errorf("expected 2/1 summary, got %d/%d", succeeded, failed)
	}
}

func TestConvertToV2ThinkingBlocksValidate(t *testing.T) {
	session := `{"type":"user","uuid":"u1","parentUuid":null,"sessionId":"sess-9","timestamp":"2024-10-25T10:00:00Z","message":{"role":"user","content":"question"}}
{"type":"assistant","uuid":"u2","parentUuid":"u1","sessionId":"sess-9","timestamp":"2024-10-25T10:00:30Z","message":{"role":"assistant","content":[{"type":"thinking","thinking":"first pass"},{"type":"thinking","thinking":"second pass"},{"type":"text","text":"the answer"}]}}
`
	c := newTestConverter(Options{})
	result, err := c.ConvertToV2(context.Background(), Source{Data: []byte(session), Filename: "session.jsonl"})
	if err != nil {
		t.Fatalf("expected interleaved-thinking session to convert, got %v", err)
	}
	seen := make(map[string]bool)
	for _, m := range result.Record.Messages {
		if seen[m.MessageID] {
			t.Errorf("duplicate message id %q", m.MessageID)
		}
		seen[m.MessageID] = true
	}
	if len(result.Record.Messages) != 4 {
		t.Errorf("expected 4 messages, got %d", len(result.Record.Messages))
	}
}

func TestConvertBatchFailureCarriesSourceName(t *testing.T) {
	// Detects as a staged document but fails canonicalization on the empty
	// content, so the outcome is a failure with a known source.
	bad := `{"pipeline_version": "1.0", "messages": [{"role": "user", "content": ""}]}`
	c := newTestConverter(Options{MaxConcurrent: 1})
	outcomes := c.ConvertBatch(context.Background(), []Source{{Data: []byte(bad), Filename: "bad.json"}})
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	o := outcomes[0]
	if o.Success {
		t.Fatal("expected the document to fail")
	}
	if o.SourceName != "pipeline" {
		t.Errorf("expected failed outcome to carry the detected source, got %q", o.SourceName)
	}
}

func TestConvertBatchCancelled(t *testing.T) {
	c := newTestConverter(Options{MaxConcurrent: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := c.ConvertBatch(ctx, []Source{{Data: []byte(stagedDoc), Filename: "a.json"}})
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Success {
		t.Error("expected cancelled batch to fail the document")
	}
}

func TestPreviewMatchesConvert(t *testing.T) {
	c := newTestConverter(Options{})
	src := Source{Data: []byte(stagedDoc), Filename: "staged.json"}
	preview, err := c.Preview(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	full, err := c.ConvertToV2(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if preview.Record.Metadata.ChatID != full.Record.Metadata.ChatID {
		t.Error("expected preview and conversion to agree on chat id")
	}
}

func TestRender(t *testing.T) {
	c := newTestConverter(Options{})
	result, err := c.ConvertToV2(context.Background(), Source{Data: []byte(stagedDoc), Filename: "staged.json"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range c.Formats() {
		out, err := c.Render(result.Record, name)
		if err != nil {
			t.Errorf("render %s: %v", name, err)
		}
		if len(out) == 0 {
			t.Errorf("render %s: empty output", name)
		}
	}
	if _, err := c.Render(result.Record, "pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}
