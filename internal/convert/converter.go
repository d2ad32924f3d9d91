// internal/convert/converter.go

// Package convert wires detection, parsing, canonicalization, validation,
// and formatting into the conversion entry points. It owns all policy that
// is not a pure transform: batching, timeouts, and warning logging.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/chatconv/internal/canon"
	"github.com/user/chatconv/internal/detect"
	"github.com/user/chatconv/internal/format"
	"github.com/user/chatconv/internal/parsers"
	"github.com/user/chatconv/internal/schema"
	"github.com/user/chatconv/internal/stats"
	"github.com/user/chatconv/internal/types"
)

// Source is one input document: raw bytes plus an optional filename used
// only as a detection hint. The caller owns all filesystem traversal.
type Source struct {
	Data     []byte
	Filename string
	// ModTime, when non-zero, feeds the timestamp fallback chain.
	ModTime time.Time
}

// Result is a successful conversion: the validated canonical record plus
// the soft-default warnings emitted while producing it.
type Result struct {
	Record     *types.ChatRecord
	Warnings   []types.Warning
	SourceName string
	Encoding   types.Encoding
}

// Outcome records one document's fate in a batch. Failures are values, not
// panics, so one failing document never aborts its siblings.
type Outcome struct {
	RunID      string
	Filename   string
	SourceName string
	Success    bool
	Result     *Result
	Err        error
}

// Options tunes a Converter. The zero value converts sequentially with no
// per-document timeout and validation on.
type Options struct {
	MaxConcurrent  int64
	DocTimeout     time.Duration
	SkipValidation bool
	Now            func() time.Time
}

// Converter is the conversion orchestrator. It is safe for concurrent use:
// every stage below it is a pure function and the registries are read-only
// after construction.
type Converter struct {
	detector *detect.Detector
	formats  *format.Registry
	stats    *stats.Computer
	opts     Options
}

// New creates a Converter over the given registries. statsComputer may be
// nil to use the documented approximation only.
func New(registry *parsers.Registry, formats *format.Registry, statsComputer *stats.Computer, opts Options) *Converter {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	return &Converter{
		detector: detect.New(registry),
		formats:  formats,
		stats:    statsComputer,
		opts:     opts,
	}
}

// ConvertToV2 runs the full pipeline for one document: detect, parse,
// canonicalize, validate. No output is produced on failure.
func (c *Converter) ConvertToV2(ctx context.Context, src Source) (*Result, error) {
	result, _, err := c.convert(ctx, src)
	return result, err
}

// convert is the pipeline body. The source name is returned separately so
// failures past detection still report which source they came from.
func (c *Converter) convert(ctx context.Context, src Source) (*Result, string, error) {
	detection, err := c.detector.Detect(src.Data, src.Filename)
	if err != nil {
		return nil, "", err
	}
	name := detection.SourceName
	if err := ctx.Err(); err != nil {
		return nil, name, err
	}

	raw, err := detection.Parser.Parse(detection.Payload)
	if err != nil {
		return nil, name, fmt.Errorf("parse %s source: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, name, err
	}

	canonOpts := canon.Options{Now: c.opts.Now, FileModTime: src.ModTime}
	if c.stats != nil {
		canonOpts.Stats = c.stats.Compute
	}
	record, warnings, err := canon.Canonicalize(raw, canonOpts)
	if err != nil {
		return nil, name, err
	}

	if !c.opts.SkipValidation {
		if err := schema.Validate(record); err != nil {
			return nil, name, err
		}
	}

	for _, w := range warnings {
		slog.Warn("soft default applied", "source", name, "field", w.FieldPath, "reason", w.Reason)
	}

	return &Result{
		Record:     record,
		Warnings:   warnings,
		SourceName: name,
		Encoding:   detection.Encoding,
	}, name, nil
}

// Preview runs detection, parsing, canonicalization, and validation but is
// never paired with output writing; callers use it to inspect what a
// conversion would produce.
func (c *Converter) Preview(ctx context.Context, src Source) (*Result, error) {
	return c.ConvertToV2(ctx, src)
}

// Render regenerates the named output encoding from a canonical record.
func (c *Converter) Render(record *types.ChatRecord, formatName string) ([]byte, error) {
	return c.formats.Render(record, formatName)
}

// Formats returns the available output encoding names.
func (c *Converter) Formats() []string {
	return c.formats.Names()
}

// Summarize counts batch outcomes.
func Summarize(outcomes []Outcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
