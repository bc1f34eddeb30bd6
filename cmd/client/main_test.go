package main

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

	"github.com/iudanet/supaship/internal/client/guard"
)

// slowStopper возвращается из Run/Watch только спустя delay после отмены
type slowStopper struct {
	started chan struct{}
	delay   time.Duration
	err     error
	done    atomic.Bool
}

func newSlowStopper(delay time.Duration) *slowStopper {
	return &slowStopper{started: make(chan struct{}), delay: delay}
}

func (s *slowStopper) wait(ctx context.Context) error {
	close(s.started)
	<-ctx.Done()
	time.Sleep(s.delay)
	s.done.Store(true)
	return s.err
}

func (s *slowStopper) Run(ctx context.Context) error {
	return s.wait(ctx)
}

func (s *slowStopper) Watch(ctx context.Context, _ func(from, to guard.Route)) error {
	return s.wait(ctx)
}

func TestStartBackground_StopWaitsForGoroutines(t *testing.T) {
	state := newSlowStopper(30 * time.Millisecond)
	nav := newSlowStopper(50 * time.Millisecond)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stop := startBackground(context.Background(), state, nav, logger)

	for _, s := range []*slowStopper{state, nav} {
		select {
		case <-s.started:
		case <-time.After(time.Second):
			t.Fatal("background goroutine did not start")
		}
	}

	stop()

	// После stop ни одна горутина не может обратиться к закрытому хранилищу
	assert.True(t, state.done.Load())
	assert.True(t, nav.done.Load())
}

func TestStartBackground_ParentCancel(t *testing.T) {
	state := newSlowStopper(0)
	state.err = errors.New("provider closed")
	nav := newSlowStopper(0)

	ctx, cancel := context.WithCancel(context.Background())
	stop := startBackground(ctx, state, nav, slog.New(slog.NewTextHandler(io.Discard, nil)))

	<-state.started
	<-nav.started
	cancel()

	finished := make(chan struct{})
	go func() {
		stop()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		require.Fail(t, "stop did not return after parent cancel")
	}
	assert.True(t, state.done.Load())
}
