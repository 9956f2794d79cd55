// Package pubsub is a small in-process topic bus. One Bus lives for one chat
// session and is passed to whoever needs it.
package pubsub

import (
	"chatrouter/internal/app/adapters/metrics"
	"errors"
	"sync"
)

const TopicChatMessage = "chat-message"

var ErrClosed = errors.New("bus is closed")

type Subscription[T any] struct {
	name string
	ch   chan T
	bus  *Bus[T]
	once sync.Once
}

// C is closed when the subscription ends or the bus is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

func (s *Subscription[T]) Name() string {
	return s.name
}

func (s *Subscription[T]) Unsubscribe() {
	s.bus.remove(s)
}

type Bus[T any] struct {
	topic  string
	buffer int

	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	closed bool
}

func New[T any](topic string, buffer int) *Bus[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus[T]{
		topic:  topic,
		buffer: buffer,
		subs:   make(map[*Subscription[T]]struct{}),
	}
}

func (b *Bus[T]) Topic() string {
	return b.topic
}

func (b *Bus[T]) Subscribe(name string) (*Subscription[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	s := &Subscription[T]{
		name: name,
		ch:   make(chan T, b.buffer),
		bus:  b,
	}
	b.subs[s] = struct{}{}
	metrics.BusSubscribers.WithLabelValues(b.topic).Inc()
	return s, nil
}

// Publish hands v to every subscriber without blocking. A subscriber whose
// buffer is full misses the value. Returns the number of deliveries.
func (b *Bus[T]) Publish(v T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for s := range b.subs {
		select {
		case s.ch <- v:
			delivered++
		default:
			metrics.BusDropped.WithLabelValues(b.topic, s.name).Inc()
		}
	}
	return delivered
}

func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus[T]) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Close ends the session: every subscription channel is closed and later
// publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for s := range b.subs {
		s.once.Do(func() { close(s.ch) })
		delete(b.subs, s)
		metrics.BusSubscribers.WithLabelValues(b.topic).Dec()
	}
}

func (b *Bus[T]) remove(s *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[s]; !ok {
		return
	}
	delete(b.subs, s)
	s.once.Do(func() { close(s.ch) })
	metrics.BusSubscribers.WithLabelValues(b.topic).Dec()
}
