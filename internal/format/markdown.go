// internal/format/markdown.go
package format

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/chatconv/internal/types"
)

// Markdown emits a front-matter block holding the record metadata followed
// by one heading per message, grouped loosely by timestamp: a date heading
// is inserted whenever the message date changes.
type Markdown struct{}

func (Markdown) Name() string { return string(types.EncodingMarkdown) }

func (Markdown) Format(record *types.ChatRecord) ([]byte, error) {
	var buf bytes.Buffer

	front, err := yaml.Marshal(record.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")

	title := record.Metadata.Title
	if title == "" {
		title = record.Metadata.ChatID
	}
	fmt.Fprintf(&buf, "# %s\n", title)

	lastDate := ""
	for _, msg := range record.Messages {
		date := msg.Timestamp.UTC().Format("2006-01-02")
		if date != lastDate {
			fmt.Fprintf(&buf, "\n## %s\n", date)
			lastDate = date
		}
		fmt.Fprintf(&buf, "\n### %s (%s)\n\n", roleLabel(msg.Role), msg.Timestamp.UTC().Format("15:04:05"))
		buf.WriteString(strings.TrimRight(msg.Content, "\n"))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func roleLabel(r types.Role) string {
	if r == "" {
		return "Unknown"
	}
	return strings.ToUpper(string(r)[:1]) + string(r)[1:]
}
