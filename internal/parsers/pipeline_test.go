// internal/parsers/pipeline_test.go
package parsers

import (
	"testing"
)

const stagedDoc = `{
	"pipeline_version": "2024.3",
	"platform": "chatgpt",
	"title": "staged conversation",
	"created_at": "2024-10-25T10:00:00Z",
	"updated_at": "2024-10-25T11:00:00Z",
	"tags": ["support", "billing"],
	"messages": [
		{"role": "user", "content": "first"},
		{"role": "assistant", "content": "second"},
		{"role": "user", "content": "third"}
	]
}`

func TestPipelineValidateSource(t *testing.T) {
	p := NewPipeline()
	if !p.ValidateSource([]byte(stagedDoc)) {
		t.Error("expected staged document to validate")
	}
	if p.ValidateSource([]byte(`{"messages": []}`)) {
		t.Error("expected document without pipeline_version to be rejected")
	}
	if p.ValidateSource([]byte(`{"pipeline_version": "1.0"}`)) {
		t.Error("expected document without messages to be rejected")
	}
}

func TestPipelineParse(t *testing.T) {
	raw, err := NewPipeline().Parse([]byte(stagedDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(raw.Messages))
	}
	// No native IDs: the engine assigns msg_{index:03d} downstream.
	for i, m := range raw.Messages {
		if m.SourceID != "" {
			t.Errorf("message %d: expected no native ID, got %q", i, m.SourceID)
		}
	}
	if raw.Fields["platform"] != "chatgpt" {
		t.Errorf("expected declared platform, got %v", raw.Fields["platform"])
	}
	tags, ok := raw.Fields["tags"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "support" {
		t.Errorf("expected ordered tags, got %v", raw.Fields["tags"])
	}
}

func TestPipelineRoleAliases(t *testing.T) {
	raw, err := NewPipeline().Parse([]byte(stagedDoc))
	if err != nil {
		t.Fatal(err)
	}
	for _, alias := range []string{"human", "gpt", "user", "assistant"} {
		if _, ok := raw.RoleMap[alias]; !ok {
			t.Errorf("expected role alias %q in role map", alias)
		}
	}
}
