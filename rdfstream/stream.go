// Package rdfstream implements the lazy, asynchronous, single-
// consumption streams that flow between actors in this engine
// (spec.md §3 "Bindings stream", §5 "push-with-demand"). A Stream is a
// pull-based iterator: Advance blocks until the next element is ready
// or the stream ends, Value/Err inspect the outcome of the most recent
// Advance, and Destroy cancels the stream and cascades cancellation to
// its upstream parents.
//
// The single unbuffered channel between a producer goroutine and its
// consumer is the backpressure mechanism: a producer's send blocks
// until Advance has consumed the previous element, so at most one
// element is ever in flight per pending request, exactly as spec.md §5
// requires.
package rdfstream

import (
	"sync"

	"github.com/vanadium-labs/sparqlkit/internal/qerror"
)

// ErrCancelled is the error observed by a consumer whose stream was
// destroyed before it finished iterating, per spec.md §7 kind 5.
var ErrCancelled error = qerror.ErrCancelled

// Metadata is the out-of-band per-stream dictionary of spec.md §3.
// TotalItemsUnknown marks an unbounded/unestimated count (+∞).
type Metadata struct {
	TotalItems int64
}

// TotalItemsUnknown is the sentinel for "+∞", an unguessable total.
const TotalItemsUnknown int64 = -1

// MetadataFunc produces a stream's metadata. It may be called multiple
// times and must not block on stream consumption.
type MetadataFunc func() Metadata

// StaticMetadata returns a MetadataFunc that always yields m.
func StaticMetadata(m Metadata) MetadataFunc {
	return func() Metadata { return m }
}

// Stream is a generic pull-based, single-consumption, cancellable
// sequence of T. Advance/Value/Err are meant to be called by a single
// consumer goroutine, but Destroy is not: a watcher enforcing a
// timeout (query.Run) or a sibling operator cascading cancellation may
// call Destroy concurrently with the consumer's Advance, so cur/err/
// finished are guarded by mu rather than left as plain fields.
type Stream[T any] struct {
	ch      <-chan T
	errCh   <-chan error
	destroy func()

	mu       sync.Mutex
	cur      T
	err      error
	finished bool
}

// New constructs a Stream from a producer function. produce is run in
// its own goroutine; it must call emit for each element (emit blocks
// until the consumer is ready for it and returns false if the stream
// has been destroyed, in which case produce should stop promptly) and
// return a non-nil error to terminate the stream with that error.
// onDestroy, if non-nil, is invoked exactly once when the stream is
// destroyed (exhaustion alone does not invoke it), and is where an
// operator cascades
// cancellation to its parent streams.
func New[T any](produce func(emit func(T) bool) error, onDestroy func()) *Stream[T] {
	ch := make(chan T)
	errCh := make(chan error, 1)
	done := make(chan struct{})

	emit := func(v T) bool {
		select {
		case ch <- v:
			return true
		case <-done:
			return false
		}
	}

	go func() {
		err := produce(emit)
		if err != nil {
			select {
			case errCh <- err:
			case <-done:
			}
		}
		close(ch)
	}()

	var once sync.Once
	return &Stream[T]{
		ch:    ch,
		errCh: errCh,
		destroy: func() {
			once.Do(func() {
				close(done)
				if onDestroy != nil {
					onDestroy()
				}
			})
		},
	}
}

// Advance pulls the next element. It returns false when the stream is
// exhausted or has errored; callers must then check Err. The blocking
// receive from ch happens outside mu so a concurrent Destroy is never
// held up waiting for the next element.
func (s *Stream[T]) Advance() bool {
	s.mu.Lock()
	finished := s.finished
	s.mu.Unlock()
	if finished {
		return false
	}

	v, ok := <-s.ch

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		// Destroy raced this Advance while it waited on ch; the
		// element, if any, is discarded in favor of ErrCancelled.
		return false
	}
	if !ok {
		s.finished = true
		select {
		case err := <-s.errCh:
			s.err = err
		default:
		}
		return false
	}
	s.cur = v
	return true
}

// Value returns the element produced by the most recent successful
// Advance.
func (s *Stream[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Err returns the error that ended the stream, or nil if it ended by
// exhaustion or has not ended yet.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Destroy cancels the stream per spec.md §5: releases resources,
// cascades to parents, and causes a still-iterating consumer's next
// Advance to observe ErrCancelled rather than a silent truncation. Safe
// to call from a goroutine other than the stream's consumer.
func (s *Stream[T]) Destroy() {
	s.destroy()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.finished = true
		s.err = ErrCancelled
	}
}
