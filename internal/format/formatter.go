// internal/format/formatter.go

// Package format regenerates output encodings from canonical records. Every
// formatter is a pure function of the record; nothing outside the record is
// consulted, which is what makes round-tripping possible.
package format

import (
	"fmt"

	"github.com/user/chatconv/internal/types"
)

// Formatter renders one canonical record into one output encoding.
type Formatter interface {
	Name() string
	Format(record *types.ChatRecord) ([]byte, error)
}

// Registry holds registered formatters. Populated once at process start,
// read-only afterwards.
type Registry struct {
	ordered []Formatter
	byName  map[string]Formatter
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Formatter)}
}

// Register adds a formatter.
func (r *Registry) Register(f Formatter) {
	r.ordered = append(r.ordered, f)
	r.byName[f.Name()] = f
}

// Get returns a formatter by encoding name.
func (r *Registry) Get(name string) (Formatter, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Names returns the registered encoding names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ordered))
	for _, f := range r.ordered {
		out = append(out, f.Name())
	}
	return out
}

// Render formats the record with the named formatter.
func (r *Registry) Render(record *types.ChatRecord, name string) ([]byte, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("no formatter registered for %q", name)
	}
	return f.Format(record)
}

// Default returns a registry with the four output encodings: JSON (the
// canonical serialization), YAML, Markdown with front matter, and HTML with
// the given theme.
func Default(htmlTheme string) *Registry {
	r := NewRegistry()
	r.Register(JSON{})
	r.Register(YAML{})
	r.Register(Markdown{})
	r.Register(NewHTML(htmlTheme))
	return r
}
