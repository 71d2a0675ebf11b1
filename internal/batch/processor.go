// Package batch splits a list of items into fixed-size batches and runs a
// callback per batch with bounded concurrency.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch size bounds.
const (
	DefaultBatchSize = 10
	MinBatchSize     = 1
	MaxBatchSize     = 500
)

// Processing errors.
var (
	ErrInvalidBatchSize = fmt.Errorf("batch size must be between %d and %d", MinBatchSize, MaxBatchSize)
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// Callback handles one batch. index is 0-based.
type Callback[T any] func(ctx context.Context, items []T, index int) error

// ProgressFunc is invoked after each batch completes.
type ProgressFunc func(p Progress)

// Processor runs callbacks over batches of T.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressFunc
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// WithProgress registers a progress callback.
func (p *Processor[T]) WithProgress(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// ProcessConcurrent runs up to limit batches at a time. The first error
// cancels the context passed to remaining callbacks and is returned. Progress
// is reported after every successful batch. Empty input is a no-op.
func (p *Processor[T]) ProcessConcurrent(ctx context.Context, items []T, cb Callback[T], limit int) error {
	if cb == nil {
		return ErrNilCallback
	}
	if limit < 1 {
		limit = 1
	}

	tracker := newTracker(len(items), p.onProgress)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, b := range p.split(items) {
		g.Go(func() error {
			if err := cb(gctx, b, i); err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			tracker.done(len(b))
			return nil
		})
	}
	return g.Wait()
}

// Batches returns the [start, end) bounds for n items.
func (p *Processor[T]) Batches(n int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += p.batchSize {
		end := min(start+p.batchSize, n)
		out = append(out, [2]int{start, end})
	}
	return out
}

func (p *Processor[T]) split(items []T) [][]T {
	bounds := p.Batches(len(items))
	out := make([][]T, len(bounds))
	for i, b := range bounds {
		out[i] = items[b[0]:b[1]]
	}
	return out
}
