package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/grantdesk/internal/model"
)

type scriptedSource struct {
	mu     sync.Mutex
	counts []int
	calls  int
}

func (s *scriptedSource) UnreadCount(context.Context) model.UnreadCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.counts) {
		i = len(s.counts) - 1
	}
	s.calls++
	return model.UnreadCount{Count: s.counts[i]}
}

func collect(t *testing.T, ch <-chan Update, n int) []Update {
	t.Helper()
	var got []Update
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case u, ok := <-ch:
			require.True(t, ok, "channel closed early")
			got = append(got, u)
		case <-timeout:
			t.Fatalf("timed out after %d updates", len(got))
		}
	}
	return got
}

func TestPoller_PublishesOnlyChanges(t *testing.T) {
	src := &scriptedSource{counts: []int{2, 2, 2, 5, 5, 0}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := collect(t, NewPoller(src, time.Millisecond).Run(ctx), 3)

	assert.Equal(t, 2, updates[0].Count)
	assert.Equal(t, 0, updates[0].Previous)
	assert.Equal(t, 5, updates[1].Count)
	assert.Equal(t, 2, updates[1].Previous)
	assert.Equal(t, 0, updates[2].Count)
}

func TestPoller_FirstPollAlwaysPublishes(t *testing.T) {
	src := &scriptedSource{counts: []int{0}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := collect(t, NewPoller(src, time.Hour).Run(ctx), 1)
	assert.Equal(t, 0, updates[0].Count)
}

func TestPoller_StopsOnCancel(t *testing.T) {
	src := &scriptedSource{counts: []int{1}}
	ctx, cancel := context.WithCancel(context.Background())

	ch := NewPoller(src, time.Millisecond).Run(ctx)
	collect(t, ch, 1)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&scriptedSource{counts: []int{0}}, 0)
	assert.Equal(t, DefaultInterval, p.interval)
}
