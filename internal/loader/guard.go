package loader

import (
	"context"
	"sync"
)

// Guard hands out monotonically increasing sequence numbers. Beginning a new
// sequence cancels the previous one's context, and only the newest sequence
// is current.
type Guard struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin starts a sequence derived from parent.
func (g *Guard) Begin(parent context.Context) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	return ctx, g.seq
}

// Current reports whether seq is the latest sequence.
func (g *Guard) Current(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seq == g.seq
}

// End releases the context of seq if it is still current.
func (g *Guard) End(seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq == g.seq && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
