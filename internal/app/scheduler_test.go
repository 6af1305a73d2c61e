package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

type fakeSyncer struct {
	calls atomic.Int32
	done  chan struct{}
	err   error
}

func newFakeSyncer(err error) *fakeSyncer {
	return &fakeSyncer{done: make(chan struct{}, 16), err: err}
}

func (f *fakeSyncer) Sync(context.Context) (domain.SyncStatus, error) {
	f.calls.Add(1)
	select {
	case f.done <- struct{}{}:
	default:
	}

	if f.err != nil {
		return domain.SyncStatus{State: domain.SyncFailed}, f.err
	}

	return domain.SyncStatus{State: domain.SyncDone}, nil
}

func runScheduler(t *testing.T, s *Scheduler) (cancel func()) {
	t.Helper()

	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() { errCh <- s.Run(ctx) }()

	return func() {
		stop()
		require.NoError(t, <-errCh)
	}
}

func waitForSync(t *testing.T, f *fakeSyncer) {
	t.Helper()

	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync was not run")
	}
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	syncer := newFakeSyncer(nil)
	stop := runScheduler(t, NewScheduler(syncer, 10*time.Millisecond, discardLogger()))

	waitForSync(t, syncer)
	waitForSync(t, syncer)
	stop()

	assert.GreaterOrEqual(t, syncer.calls.Load(), int32(2))
}

func TestScheduler_Trigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	syncer := newFakeSyncer(errors.New("server unavailable"))
	s := NewScheduler(syncer, time.Hour, discardLogger())
	stop := runScheduler(t, s)

	require.True(t, s.Trigger())
	waitForSync(t, syncer)
	stop()

	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestScheduler_TriggerCoalesces(t *testing.T) {
	s := NewScheduler(newFakeSyncer(nil), time.Hour, nil)

	assert.True(t, s.Trigger())
	assert.False(t, s.Trigger())
}
