package loader

import (
	"context"
	"sync"

	"github.com/rshade/grantdesk/internal/logging"
)

// FetchFunc produces a value for one load sequence.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is a consistent view of a Resource. Value is the zero value unless
// Status is StatusPopulated. Seq identifies the sequence that produced it.
type State[T any] struct {
	Status Status
	Value  T
	Err    string
	Seq    uint64
}

// Resource is a single value loaded asynchronously. Failures are not retried
// automatically; callers call Load again.
type Resource[T any] struct {
	name           string
	failureMessage string

	guard Guard
	mu    sync.RWMutex
	state State[T]
	// settled is closed when the loading state is replaced by a settled one.
	settled chan struct{}
}

// NewResource creates an idle resource. failureMessage is what views show on
// any fetch failure; the underlying error is only logged.
func NewResource[T any](name, failureMessage string) *Resource[T] {
	return &Resource[T]{name: name, failureMessage: failureMessage}
}

// Load runs fetch as a new sequence and returns the state once it settles.
// If a newer sequence starts before fetch returns, this sequence's result is
// dropped and Load waits for the newer sequence to settle and returns its
// state. A Loading state is only returned when ctx ends first.
func (r *Resource[T]) Load(ctx context.Context, fetch FetchFunc[T]) State[T] {
	seqCtx, seq := r.begin(ctx)
	value, err := fetch(seqCtx)
	return r.finish(ctx, seq, value, err)
}

// begin starts a sequence in the loading state.
func (r *Resource[T]) begin(ctx context.Context) (context.Context, uint64) {
	seqCtx, seq := r.guard.Begin(ctx)
	r.set(seq, State[T]{Status: StatusLoading})
	return seqCtx, seq
}

// finish records the outcome of seq and waits for the current sequence to settle.
func (r *Resource[T]) finish(ctx context.Context, seq uint64, value T, err error) State[T] {
	defer r.guard.End(seq)

	if err != nil {
		if r.guard.Current(seq) {
			logging.FromContext(ctx).Error().
				Str("component", "loader").
				Str("resource", r.name).
				Uint64("seq", seq).
				Err(err).
				Msg("load failed")
		}
		r.set(seq, State[T]{Status: StatusNotFound, Err: r.failureMessage})
	} else {
		r.set(seq, State[T]{Status: StatusPopulated, Value: value})
	}
	return r.awaitSettled(ctx)
}

// awaitSettled blocks while the current sequence is loading.
func (r *Resource[T]) awaitSettled(ctx context.Context) State[T] {
	for {
		r.mu.RLock()
		st, ch := r.state, r.settled
		r.mu.RUnlock()
		if st.Status != StatusLoading || ch == nil {
			return st
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return st
		}
	}
}

// Settle starts and immediately finishes a sequence in status without
// fetching anything. Any in-flight sequence is superseded.
func (r *Resource[T]) Settle(status Status) State[T] {
	_, seq := r.guard.Begin(context.Background())
	defer r.guard.End(seq)
	r.set(seq, State[T]{Status: status})
	return r.State()
}

// Mutate applies fn to the populated value if the state was produced by seq.
// It reports whether fn ran.
func (r *Resource[T]) Mutate(seq uint64, fn func(*T)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Seq != seq || r.state.Status != StatusPopulated {
		return false
	}
	fn(&r.state.Value)
	return true
}

// State returns the current state.
func (r *Resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Resource[T]) set(seq uint64, s State[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.guard.Current(seq) {
		return
	}
	s.Seq = seq
	r.state = s
	switch {
	case s.Status == StatusLoading && r.settled == nil:
		r.settled = make(chan struct{})
	case s.Status != StatusLoading && r.settled != nil:
		close(r.settled)
		r.settled = nil
	}
}
