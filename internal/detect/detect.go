// internal/detect/detect.go

// Package detect classifies raw input bytes by encoding and source variant
// and selects the parser that will consume them.
package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/chatconv/internal/parsers"
	"github.com/user/chatconv/internal/types"
)

// Detection is the detector's verdict for one document. Payload holds the
// bytes the parser should consume: the markdown conversion for HTML inputs,
// the JSON transcoding for YAML inputs, the raw bytes otherwise.
type Detection struct {
	Encoding   types.Encoding
	SourceName string
	Parser     parsers.Parser
	Payload    []byte
}

// Detector classifies documents against a read-only parser registry.
type Detector struct {
	registry *parsers.Registry
}

// New creates a detector backed by the given registry.
func New(registry *parsers.Registry) *Detector {
	return &Detector{registry: registry}
}

// Detect classifies the document's encoding (file extension first, content
// sniffing in fixed priority order when the extension is absent or unknown)
// and dispatches the source-variant predicates in registry priority order.
// The first matching predicate wins. If none matches the result is an
// UnrecognizedSourceError carrying the attempted encodings and a content
// preview; no parser is invoked.
func (d *Detector) Detect(data []byte, filename string) (*Detection, error) {
	encoding, attempted := classifyEncoding(data, filename)

	payload := data
	switch encoding {
	case types.EncodingHTML:
		md, err := htmltomarkdown.ConvertString(string(data))
		if err != nil {
			return nil, fmt.Errorf("convert html input: %w", err)
		}
		payload = []byte(md)
	case types.EncodingYAML:
		transcoded, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("transcode yaml input: %w", err)
		}
		payload = transcoded
	}

	for _, p := range d.registry.All() {
		if p.ValidateSource(payload) {
			return &Detection{
				Encoding:   encoding,
				SourceName: p.SourceName(),
				Parser:     p,
				Payload:    payload,
			}, nil
		}
	}
	return nil, types.NewUnrecognizedSourceError(attempted, data)
}

// classifyEncoding returns the document encoding and the list of encodings
// that were considered, for diagnostics.
func classifyEncoding(data []byte, filename string) (types.Encoding, []string) {
	if enc, ok := encodingFromExtension(filename); ok {
		return enc, []string{string(enc)}
	}
	return sniffEncoding(data)
}

func encodingFromExtension(filename string) (types.Encoding, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonl":
		return types.EncodingJSON, true
	case ".yaml", ".yml":
		return types.EncodingYAML, true
	case ".md", ".markdown":
		return types.EncodingMarkdown, true
	case ".html", ".htm":
		return types.EncodingHTML, true
	}
	return "", false
}

// sniffEncoding probes content in fixed priority order: valid JSON, then a
// YAML top-level mapping, then HTML tag presence, else Markdown.
func sniffEncoding(data []byte) (types.Encoding, []string) {
	attempted := []string{string(types.EncodingJSON)}
	if isJSON(data) {
		return types.EncodingJSON, attempted
	}

	attempted = append(attempted, string(types.EncodingYAML))
	var mapping map[string]any
	if err := yaml.Unmarshal(data, &mapping); err == nil && len(mapping) > 0 {
		return types.EncodingYAML, attempted
	}

	attempted = append(attempted, string(types.EncodingHTML))
	if isHTML(data) {
		return types.EncodingHTML, attempted
	}

	attempted = append(attempted, string(types.EncodingMarkdown))
	return types.EncodingMarkdown, attempted
}

// isJSON accepts a single JSON document or JSON Lines.
func isJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	if json.Valid(trimmed) {
		return true
	}
	// JSONL: the first line is a self-contained JSON object.
	if i := bytes.IndexByte(trimmed, '\n'); i > 0 {
		return json.Valid(bytes.TrimSpace(trimmed[:i]))
	}
	return false
}

func isHTML(data []byte) bool {
	lower := strings.ToLower(string(data))
	for _, marker := range []string{"<!doctype html", "<html", "<body", "<div"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// yamlToJSON re-encodes a YAML document as JSON so the JSON-shaped source
// predicates apply to YAML/JSON hybrid inputs unchanged.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
