// internal/parsers/markdown.go
package parsers

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// mdSection is one level-2 section of a Markdown source: its heading text
// and the verbatim source text up to the next heading.
type mdSection struct {
	Heading string
	Body    string
}

// splitMarkdown parses the document with goldmark and slices it into the H1
// title, the preamble (text before the first level-2 heading), and the
// level-2 sections. Bodies are taken verbatim from the source bytes so code
// fences and lists survive untouched.
func splitMarkdown(source []byte) (title, preamble string, sections []mdSection) {
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	type headingMark struct {
		level int
		text  string
		start int // byte offset of the start of the heading text
		stop  int // byte offset of the end of the heading text
	}
	var marks []headingMark

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		h, ok := node.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		marks = append(marks, headingMark{
			level: h.Level,
			text:  strings.TrimSpace(string(seg.Value(source))),
			start: seg.Start,
			stop:  seg.Stop,
		})
	}

	bodyStart := func(stop int) int {
		if i := bytes.IndexByte(source[stop:], '\n'); i >= 0 {
			return stop + i + 1
		}
		return len(source)
	}
	lineStart := func(start int) int {
		// start points at the heading text; back up to the line's start so
		// the previous body excludes the heading marker itself.
		if i := bytes.LastIndexByte(source[:start], '\n'); i >= 0 {
			return i + 1
		}
		return 0
	}

	cursor := 0
	sectionOpen := false
	var current mdSection
	flush := func(end int) {
		body := strings.TrimSpace(string(source[cursor:end]))
		if sectionOpen {
			current.Body = body
			sections = append(sections, current)
			sectionOpen = false
		} else if preamble == "" {
			preamble = body
		}
	}

	for _, m := range marks {
		flush(lineStart(m.start))
		switch {
		case m.level == 1 && title == "":
			title = m.text
		case m.level == 2:
			current = mdSection{Heading: m.text}
			sectionOpen = true
		}
		cursor = bodyStart(m.stop)
	}
	flush(len(source))
	return title, preamble, sections
}
