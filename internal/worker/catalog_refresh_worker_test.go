package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshCache(ctx context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestCatalogRefreshWorker_RunsUntilCancelled(t *testing.T) {
	r := &countingRefresher{}
	w := NewCatalogRefreshWorker(r, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestCatalogRefreshWorker_KeepsRunningAfterError(t *testing.T) {
	r := &countingRefresher{err: errors.New("github down")}
	w := NewCatalogRefreshWorker(r, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
