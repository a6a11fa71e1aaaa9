// Package live holds observable values. Subscribers receive the latest value
// over a channel; intermediate values are dropped when a subscriber lags.
package live

import "sync"

// Signal is a value that changes over time.
type Signal[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	closed bool
	nextID int
	subs   map[int]*Subscription[T]
}

// NewSignal returns a Signal with no value. Subscribers get nothing until
// the first Set.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{subs: make(map[int]*Subscription[T])}
}

// Set stores v and delivers it to every subscriber, replacing any value a
// subscriber has not read yet. Set after Close is ignored.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	s.set = true
	for _, sub := range s.subs {
		sub.offer(v)
	}
}

// Get returns the current value and whether one has been set.
func (s *Signal[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Subscribe registers a new subscriber. If a value is already set the
// subscriber receives it immediately.
func (s *Signal[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription[T]{ch: make(chan T, 1), signal: s}
	if s.closed {
		sub.closeOnce.Do(func() { close(sub.ch) })
		return sub
	}

	sub.id = s.nextID
	s.nextID++
	s.subs[sub.id] = sub
	if s.set {
		sub.offer(s.value)
	}
	return sub
}

// Subscribers returns the number of active subscriptions.
func (s *Signal[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close closes every subscription channel. Values already buffered can still
// be read.
func (s *Signal[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, sub := range s.subs {
		sub.closeOnce.Do(func() { close(sub.ch) })
		delete(s.subs, id)
	}
}

func (s *Signal[T]) remove(sub *Subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.id]; ok {
		delete(s.subs, sub.id)
		sub.closeOnce.Do(func() { close(sub.ch) })
	}
}

// Subscription receives values from a Signal.
type Subscription[T any] struct {
	id        int
	ch        chan T
	signal    *Signal[T]
	closeOnce sync.Once
}

// C returns the channel values arrive on. It is closed by Cancel or when the
// signal closes.
func (sub *Subscription[T]) C() <-chan T {
	return sub.ch
}

// Cancel stops delivery and closes the channel. Safe to call more than once.
func (sub *Subscription[T]) Cancel() {
	sub.signal.remove(sub)
}

// offer replaces any unread value with v. Caller holds the signal lock, so
// this is the only sender.
func (sub *Subscription[T]) offer(v T) {
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- v
}
