package batch

import "sync"

// Progress is a point-in-time view of a run.
type Progress struct {
	Total     int
	Processed int
}

// Percent returns completion in [0, 100].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Processed) * 100 / float64(p.Total) //nolint:mnd // Percentage.
}

type tracker struct {
	mu    sync.Mutex
	state Progress
	fn    ProgressFunc
}

func newTracker(total int, fn ProgressFunc) *tracker {
	return &tracker{state: Progress{Total: total}, fn: fn}
}

func (t *tracker) done(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Processed += n
	if t.fn != nil {
		t.fn(t.state)
	}
}
