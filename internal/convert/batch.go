// internal/convert/batch.go
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/user/chatconv/internal/types"
)

// ConvertBatch converts every source with a semaphore-bounded worker pool,
// one task per document. Outcomes are returned in input order. A document
// that fails, times out, or is cancelled records a failed outcome without
// affecting sibling tasks; no automatic retries are performed because
// conversion failures are almost always structural, not transient.
func (c *Converter) ConvertBatch(ctx context.Context, sources []Source) []Outcome {
	sem := semaphore.NewWeighted(c.opts.MaxConcurrent)
	outcomes := make([]Outcome, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		runID := types.NewRunID()
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = Outcome{RunID: runID, Filename: src.Filename, Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, src Source, runID string) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = c.convertOne(ctx, src, runID)
		}(i, src, runID)
	}
	wg.Wait()
	return outcomes
}

// convertOne runs a single conversion under the per-document timeout.
func (c *Converter) convertOne(ctx context.Context, src Source, runID string) Outcome {
	if c.opts.DocTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.DocTimeout)
		defer cancel()
	}

	type answer struct {
		result     *Result
		sourceName string
		err        error
	}
	done := make(chan answer, 1)
	go func() {
		result, sourceName, err := c.convert(ctx, src)
		done <- answer{result, sourceName, err}
	}()

	var result *Result
	var sourceName string
	var err error
	select {
	case a := <-done:
		result, sourceName, err = a.result, a.sourceName, a.err
	case <-ctx.Done():
		err = fmt.Errorf("conversion aborted: %w", ctx.Err())
	}

	// SourceName is filled whenever detection got that far, so failed
	// outcomes still name the source that produced them.
	outcome := Outcome{RunID: runID, Filename: src.Filename, SourceName: sourceName}
	if err != nil {
		outcome.Err = err
		slog.Error("conversion failed", "run_id", runID, "file", src.Filename, "error", err)
		return outcome
	}
	outcome.Success = true
	outcome.Result = result
	return outcome
}
