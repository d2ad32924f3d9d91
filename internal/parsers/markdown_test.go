// internal/parsers/markdown_test.go
package parsers

import (
	"strings"
	"testing"
)

func TestSplitMarkdown(t *testing.T) {
	source := []byte(`# The Title

Some preamble line.

## User
How do I sort a slice?

With a follow-up line.

## ChatGPT
Use sort.Slice:

` + "```go\nsort.Slice(s, less)\n```" + `

## User
Thanks!
`)

	title, preamble, sections := splitMarkdown(source)
	if title != "The Title" {
		t.Errorf("expected title, got %q", title)
	}
	if preamble != "Some preamble line." {
		t.Errorf("expected preamble, got %q", preamble)
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].Heading != "User" || sections[1].Heading != "ChatGPT" {
		t.Errorf("unexpected headings: %q, %q", sections[0].Heading, sections[1].Heading)
	}
	if !strings.Contains(sections[0].Body, "follow-up line") {
		t.Errorf("expected multi-paragraph body, got %q", sections[0].Body)
	}
	// Code fences survive verbatim.
	if !strings.Contains(sections[1].Body, "```go") {
		t.Errorf("expected code fence preserved, got %q", sections[1].Body)
	}
	if sections[2].Body != "Thanks!" {
		t.Errorf("unexpected last body: %q", sections[2].Body)
	}
}

func TestSplitMarkdownNoSections(t *testing.T) {
	title, preamble, sections := splitMarkdown([]byte("# Only a title\n\nBody text.\n"))
	if title != "Only a title" {
		t.Errorf("expected title, got %q", title)
	}
	if preamble != "Body text." {
		t.Errorf("expected preamble, got %q", preamble)
	}
	if len(sections) != 0 {
		t.Errorf("expected no sections, got %d", len(sections))
	}
}
