package batch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessor_Bounds(t *testing.T) {
	_, err := NewProcessor[string](0)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = NewProcessor[string](MaxBatchSize + 1)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	p, err := NewProcessor[string](DefaultBatchSize)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBatches(t *testing.T) {
	p, _ := NewProcessor[int](3)
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 7}}, p.Batches(7))
	assert.Empty(t, p.Batches(0))
}

func TestProcessConcurrent_ReportsProgress(t *testing.T) {
	var (
		mu       sync.Mutex
		seen     [][]string
		progress []Progress
	)

	p, _ := NewProcessor[string](2)
	p.WithProgress(func(pr Progress) { progress = append(progress, pr) })

	err := p.ProcessConcurrent(context.Background(), []string{"n1", "n2", "n3"}, func(_ context.Context, items []string, _ int) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, items)
		return nil
	}, 1)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"n1", "n2"}, {"n3"}}, seen)
	require.Len(t, progress, 2)
	assert.Equal(t, Progress{Total: 3, Processed: 2}, progress[0])
	assert.Equal(t, Progress{Total: 3, Processed: 3}, progress[1])
	assert.InDelta(t, 100.0, progress[1].Percent(), 0.001)
}

func TestProcessConcurrent_ProgressSkipsFailedBatches(t *testing.T) {
	boom := errors.New("boom")
	var last Progress
	p, _ := NewProcessor[int](1)
	p.WithProgress(func(pr Progress) { last = pr })

	err := p.ProcessConcurrent(context.Background(), []int{1, 2}, func(_ context.Context, items []int, _ int) error {
		if items[0] == 2 {
			return boom
		}
		return nil
	}, 1)

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "batch 1")
	assert.Equal(t, Progress{Total: 2, Processed: 1}, last)
}

func TestProcessConcurrent_NilCallbackAndEmpty(t *testing.T) {
	p, _ := NewProcessor[int](1)
	assert.ErrorIs(t, p.ProcessConcurrent(context.Background(), []int{1}, nil, 1), ErrNilCallback)
	assert.NoError(t, p.ProcessConcurrent(context.Background(), nil, func(context.Context, []int, int) error { return nil }, 1))
}

func TestProcessConcurrent(t *testing.T) {
	var mu sync.Mutex
	total := 0
	p, _ := NewProcessor[int](2)

	err := p.ProcessConcurrent(context.Background(), []int{1, 2, 3, 4, 5}, func(_ context.Context, items []int, _ int) error {
		mu.Lock()
		defer mu.Unlock()
		for _, v := range items {
			total += v
		}
		return nil
	}, 3)

	require.NoError(t, err)
	assert.Equal(t, 15, total)
}

func TestProcessConcurrent_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	p, _ := NewProcessor[int](1)

	err := p.ProcessConcurrent(context.Background(), []int{1, 2}, func(_ context.Context, items []int, _ int) error {
		if items[0] == 2 {
			return boom
		}
		return nil
	}, 0)

	assert.ErrorIs(t, err, boom)
}

func TestProgress_PercentEmpty(t *testing.T) {
	assert.InDelta(t, 100.0, Progress{}.Percent(), 0.001)
}
