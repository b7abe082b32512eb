package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/livescores/internal/domain"
)

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (c *countingSource) GetLiveGames(context.Context) ([]domain.GameRecord, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return []domain.GameRecord{{ID: "1"}}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresherTicksUntilCancelled(t *testing.T) {
	src := &countingSource{}
	r := NewRefresher(src, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return src.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop")
	}

	stopped := src.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, src.calls.Load())
}

func TestRefresherRunsImmediately(t *testing.T) {
	src := &countingSource{}
	r := NewRefresher(src, time.Hour, testLogger())

	results := make(chan int, 1)
	r.onResult = func(games []domain.GameRecord, err error) {
		assert.NoError(t, err)
		results <- len(games)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go r.Run(ctx)

	select {
	case n := <-results:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate tick")
	}
}

func TestRefresherRunOnceError(t *testing.T) {
	src := &countingSource{err: domain.ErrNoData}
	r := NewRefresher(src, time.Second, testLogger())

	games, err := r.RunOnce(t.Context())
	assert.Nil(t, games)
	assert.True(t, errors.Is(err, domain.ErrNoData))
}
