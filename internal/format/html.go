// internal/format/html.go
package format

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/user/chatconv/internal/types"
)

// HTML emits a styled standalone document with one block per message.
// Thinking messages render as collapsible <details> blocks. Theme selects
// the light or dark palette.
type HTML struct {
	Theme string
	tmpl  *template.Template
}

// NewHTML creates the HTML formatter; theme is "light" or "dark", anything
// else falls back to light.
func NewHTML(theme string) *HTML {
	if theme != "dark" {
		theme = "light"
	}
	return &HTML{
		Theme: theme,
		tmpl:  template.Must(template.New("chat").Parse(htmlTemplate)),
	}
}

func (h *HTML) Name() string { return string(types.EncodingHTML) }

func (h *HTML) Format(record *types.ChatRecord) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Theme  string
		Record *types.ChatRecord
	}{h.Theme, record}
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute html template: %w", err)
	}
	return buf.Bytes(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Record.Metadata.Title}}{{.Record.Metadata.Title}}{{else}}{{.Record.Metadata.ChatID}}{{end}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
body.light { background: #ffffff; color: #1a1a1a; }
body.dark { background: #14161a; color: #e4e6ea; }
header { border-bottom: 1px solid #8884; padding-bottom: 1rem; margin-bottom: 1.5rem; }
header .meta { font-size: 0.85rem; opacity: 0.7; }
.message { border: 1px solid #8883; border-radius: 8px; padding: 0.75rem 1rem; margin: 0.75rem 0; }
.message .head { font-size: 0.8rem; opacity: 0.7; margin-bottom: 0.4rem; }
.message.user { border-left: 4px solid #3478f6; }
.message.assistant { border-left: 4px solid #2da44e; }
.message.system, .message.tool { border-left: 4px solid #9a6700; }
.message pre.body { white-space: pre-wrap; font-family: inherit; margin: 0; }
details.thinking { border: 1px dashed #8886; border-radius: 8px; padding: 0.5rem 1rem; margin: 0.75rem 0; }
details.thinking summary { cursor: pointer; font-size: 0.85rem; opacity: 0.7; }
</style>
</head>
<body class="{{.Theme}}">
<header>
<h1>{{if .Record.Metadata.Title}}{{.Record.Metadata.Title}}{{else}}{{.Record.Metadata.ChatID}}{{end}}</h1>
<div class="meta">
{{.Record.Metadata.Platform}} &middot; exported by {{.Record.Metadata.Exporter}} &middot;
{{.Record.Metadata.Statistics.MessageCount}} messages &middot;
{{.Record.Metadata.Statistics.WordCount}} words
</div>
</header>
{{range .Record.Messages}}{{if eq (printf "%s" .Role) "thinking"}}<details class="thinking">
<summary>thinking &middot; {{.Timestamp.UTC.Format "2006-01-02 15:04:05"}}</summary>
<pre class="body">{{.Content}}</pre>
</details>
{{else}}<div class="message {{.Role}}">
<div class="head">{{.Role}} &middot; {{.Timestamp.UTC.Format "2006-01-02 15:04:05"}}</div>
<pre class="body">{{.Content}}</pre>
</div>
{{end}}{{end}}</body>
</html>
`
