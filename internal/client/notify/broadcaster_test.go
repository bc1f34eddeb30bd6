package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for value")
	}
	var zero T
	return zero
}

func assertEmpty[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %v", v)
	default:
	}
}

func TestBroadcaster_NoInitialValue(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe()
	defer cancel()

	assertEmpty(t, ch)

	_, ok := b.Last()
	assert.False(t, ok)
}

func TestBroadcaster_InitialValueOnSubscribe(t *testing.T) {
	b := New[string]()
	b.Publish("first")

	ch, cancel := b.Subscribe()
	defer cancel()

	assert.Equal(t, "first", receive(t, ch))
	assertEmpty(t, ch)
}

func TestBroadcaster_LatestValueWins(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Подписчик не читает, значения заменяются
	for i := 1; i <= 5; i++ {
		b.Publish(i)
	}

	assert.Equal(t, 5, receive(t, ch))
	assertEmpty(t, ch)

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestBroadcaster_FanOut(t *testing.T) {
	b := New[int]()
	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	assert.Equal(t, 2, b.Len())

	b.Publish(42)
	assert.Equal(t, 42, receive(t, ch1))
	assert.Equal(t, 42, receive(t, ch2))
}

func TestBroadcaster_Cancel(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe()

	cancel()
	// Повторная отмена безопасна
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	assert.NotPanics(t, func() { b.Publish(1) })
}

func TestBroadcaster_ConcurrentPublish(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Publish(v)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()

	wg.Wait()
	b.Publish(-1)

	require.Eventually(t, func() bool {
		last, _ := b.Last()
		return last == -1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
