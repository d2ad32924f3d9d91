// internal/parsers/parser.go
package parsers

import "github.com/user/chatconv/internal/types"

// Parser is the contract every source parser implements. ValidateSource is a
// cheap structural predicate used by the detector; Parse performs the full
// extraction. Predicates are mutually exclusive by construction: each checks
// for a structural marker absent from every other source grammar.
type Parser interface {
	SourceName() string
	ValidateSource(data []byte) bool
	Parse(data []byte) (*types.RawExtraction, error)
}

// Registry holds registered parsers in priority order. It is populated once
// at process start and read-only afterwards; registration order doubles as
// the detector's predicate priority.
type Registry struct {
	ordered []Parser
	byName  map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Parser)}
}

// Register appends a parser to the priority list.
func (r *Registry) Register(p Parser) {
	r.ordered = append(r.ordered, p)
	r.byName[p.SourceName()] = p
}

// Get returns a parser by source name.
func (r *Registry) Get(name string) (Parser, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// All returns the registered parsers in priority order.
func (r *Registry) All() []Parser {
	return r.ordered
}

// Names returns the source names in priority order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, p.SourceName())
	}
	return out
}

// Default returns a registry with all five source parsers in detection
// priority order: ChatGPT, Claude CLI, pipeline staged, SaveMyChatbot,
// Gemini.
func Default() *Registry {
	r := NewRegistry()
	r.Register(NewChatGPT())
	r.Register(NewClaudeCLI())
	r.Register(NewPipeline())
	r.Register(NewSaveMyChatbot())
	r.Register(NewGemini())
	return r
}
