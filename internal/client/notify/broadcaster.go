// Package notify рассылает подписчикам последнее опубликованное значение.
package notify

import "sync"

// Broadcaster keeps the latest published value and fans it out to subscribers.
//
// Each subscriber channel has capacity 1. Publish never blocks: a value the
// subscriber has not read yet is replaced by the newer one, so a slow reader
// always observes the most recent state.
type Broadcaster[T any] struct {
	subs    map[*subscriber[T]]struct{}
	last    T
	mu      sync.Mutex
	hasLast bool
}

type subscriber[T any] struct {
	ch   chan T
	once sync.Once
}

// New creates a Broadcaster without an initial value
func New[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[*subscriber[T]]struct{})}
}

// Publish stores v as the latest value and delivers it to all subscribers
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = v
	b.hasLast = true

	for s := range b.subs {
		deliver(s.ch, v)
	}
}

// Subscribe returns a channel receiving the latest value, starting with the
// current one if anything was published. cancel closes the channel.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	s := &subscriber[T]{ch: make(chan T, 1)}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	if b.hasLast {
		s.ch <- b.last
	}
	b.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			b.mu.Lock()
			delete(b.subs, s)
			close(s.ch)
			b.mu.Unlock()
		})
	}

	return s.ch, cancel
}

// Last returns the latest published value
func (b *Broadcaster[T]) Last() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.hasLast
}

// Len returns the number of active subscribers
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// deliver заменяет непрочитанное значение новым. Вызывается под b.mu,
// поэтому конкурирующих отправителей нет.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	ch <- v
}
