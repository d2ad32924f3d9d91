// internal/stats/stats.go

// Package stats recomputes record statistics from the canonical message
// sequence. Counts are never read from the source document.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/chatconv/internal/types"
)

// tokenApproxFactor is the documented words-to-tokens approximation used
// for the canonical token_count. It is not a real tokenizer.
const tokenApproxFactor = 1.3

// Compute derives statistics from the message sequence. It is a pure
// function: identical input yields identical output on every call.
// duration_seconds is the distance between the first and last message
// timestamps when at least two messages exist, else 0.
func Compute(messages []types.Message) types.Statistics {
	words := 0
	for _, m := range messages {
		words += len(strings.Fields(m.Content))
	}

	duration := 0.0
	if len(messages) >= 2 {
		duration = messages[len(messages)-1].Timestamp.Sub(messages[0].Timestamp).Seconds()
		if duration < 0 {
			duration = -duration
		}
	}

	return types.Statistics{
		MessageCount:    len(messages),
		WordCount:       words,
		TokenCount:      int(math.Round(float64(words) * tokenApproxFactor)),
		DurationSeconds: duration,
	}
}

// Computer augments the canonical statistics with an exact token count from
// a real tokenizer. The approximation stays in token_count either way; the
// exact figure is supplemental.
type Computer struct {
	tokenizer *tiktoken.Tiktoken
}

// NewComputer selects a tokenizer for the given model, falling back to
// cl100k_base for unknown models. An empty model disables exact counting.
func NewComputer(model string) (*Computer, error) {
	if model == "" {
		return &Computer{}, nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Computer{tokenizer: enc}, nil
}

// Compute returns the canonical statistics, plus token_count_exact when a
// tokenizer is configured.
func (c *Computer) Compute(messages []types.Message) types.Statistics {
	s := Compute(messages)
	if c.tokenizer != nil {
		exact := 0
		for _, m := range messages {
			exact += len(c.tokenizer.Encode(m.Content, nil, nil))
		}
		s.TokenCountExact = exact
	}
	return s
}
