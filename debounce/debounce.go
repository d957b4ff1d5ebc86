// Package debounce delays a changing value until it has been quiet for a
// while. The search box of the item list uses it so only the settled text
// reaches the query cache.
package debounce

import (
	"sync"
	"time"
)

// Default quiet periods.
const (
	SearchDelay     = 350 * time.Millisecond
	NavigationDelay = 70 * time.Millisecond
)

// Debouncer publishes the last value set once no new value arrived for the
// configured delay.
type Debouncer[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	scheduler Scheduler
	onChange  func(T)

	value   T
	next    T
	pending Timer
	seq     uint64
	closed  bool
}

// Option configures a Debouncer.
type Option[T any] func(*Debouncer[T])

// WithScheduler replaces the wall clock scheduler.
func WithScheduler[T any](s Scheduler) Option[T] {
	return func(d *Debouncer[T]) {
		if s != nil {
			d.scheduler = s
		}
	}
}

// OnChange registers a callback run with every published value. It runs on
// the scheduler goroutine without the debouncer lock held.
func OnChange[T any](fn func(T)) Option[T] {
	return func(d *Debouncer[T]) {
		d.onChange = fn
	}
}

// New returns a debouncer publishing initial right away and later values
// after delay.
func New[T any](initial T, delay time.Duration, opts ...Option[T]) *Debouncer[T] {
	d := &Debouncer[T]{
		delay:     delay,
		scheduler: SystemScheduler{},
		value:     initial,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Set replaces the pending value and restarts the quiet period. It is a
// no-op after Close.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	d.next = v
	token := d.seq
	d.pending = d.scheduler.AfterFunc(d.delay, func() {
		d.fire(token)
	})
}

// fire publishes the pending value unless a later Set, Flush or Close
// superseded token.
func (d *Debouncer[T]) fire(token uint64) {
	d.mu.Lock()
	if d.closed || token != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	v := d.publish()
	cb := d.onChange
	d.mu.Unlock()

	if cb != nil {
		cb(v)
	}
}

// publish moves the pending value to value. Caller holds mu.
func (d *Debouncer[T]) publish() T {
	d.value = d.next
	d.pending = nil
	var zero T
	d.next = zero
	return d.value
}

// Value returns the last published value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush publishes the pending value now, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.closed || d.pending == nil {
		d.mu.Unlock()
		return
	}
	d.pending.Stop()
	d.seq++
	v := d.publish()
	cb := d.onChange
	d.mu.Unlock()

	if cb != nil {
		cb(v)
	}
}

// Close cancels any pending value. Nothing is published after Close.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.seq++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
