package rdfstream

// Map returns a Stream of f applied to each element of s. Destroying
// the result destroys s.
func Map[T, U any](s *Stream[T], f func(T) U) *Stream[U] {
	return New(func(emit func(U) bool) error {
		for s.Advance() {
			if !emit(f(s.Value())) {
				return nil
			}
		}
		return s.Err()
	}, s.Destroy)
}

// Filter returns a Stream of the elements of s for which keep returns
// true. Order is preserved, per spec.md §4.2's Filter streaming law.
func Filter[T any](s *Stream[T], keep func(T) bool) *Stream[T] {
	return New(func(emit func(T) bool) error {
		for s.Advance() {
			v := s.Value()
			if !keep(v) {
				continue
			}
			if !emit(v) {
				return nil
			}
		}
		return s.Err()
	}, s.Destroy)
}

// Transform flat-maps each element of s into zero or more elements of
// U, in the order f returns them. This is the building block for
// operators whose streaming law is "one input element yields zero or
// more output elements" (e.g. property-path expansion).
func Transform[T, U any](s *Stream[T], f func(T) []U) *Stream[U] {
	return New(func(emit func(U) bool) error {
		for s.Advance() {
			for _, u := range f(s.Value()) {
				if !emit(u) {
					return nil
				}
			}
		}
		return s.Err()
	}, s.Destroy)
}

// Take returns a Stream of at most n elements of s, then destroys s.
func Take[T any](s *Stream[T], n int64) *Stream[T] {
	if n <= 0 {
		s.Destroy()
		return Empty[T]()
	}
	return New(func(emit func(T) bool) error {
		var count int64
		for count < n && s.Advance() {
			if !emit(s.Value()) {
				return nil
			}
			count++
		}
		err := s.Err()
		s.Destroy()
		return err
	}, s.Destroy)
}

// Skip returns a Stream that drops the first n elements of s.
func Skip[T any](s *Stream[T], n int64) *Stream[T] {
	return New(func(emit func(T) bool) error {
		var skipped int64
		for s.Advance() {
			if skipped < n {
				skipped++
				continue
			}
			if !emit(s.Value()) {
				return nil
			}
		}
		return s.Err()
	}, s.Destroy)
}

// Concat streams each of the given streams in order; destroying the
// result destroys every one of them. Used for hypermedia page concatenation (spec.md
// §4.5 step 5) and property-path alternative/union lowering.
func Concat[T any](streams ...*Stream[T]) *Stream[T] {
	return New(func(emit func(T) bool) error {
		for _, s := range streams {
			for s.Advance() {
				if !emit(s.Value()) {
					return nil
				}
			}
			if err := s.Err(); err != nil {
				return err
			}
		}
		return nil
	}, func() {
		for _, s := range streams {
			s.Destroy()
		}
	})
}

// Merge fairly interleaves a and b, draining both concurrently rather
// than exhausting a before touching b (spec.md §4.2's Union streaming
// law: "resolve inputs in parallel; interleave outputs fairly"). Order
// between the two branches is otherwise unspecified (spec.md §5), but
// a slow or erroring branch must never starve the other: if one branch
// errors, Merge keeps draining the other to completion before
// surfacing the error, so its bindings still reach the consumer.
func Merge[T any](a, b *Stream[T]) *Stream[T] {
	return New(func(emit func(T) bool) error {
		type msg struct {
			v    T
			err  error
			done bool
		}
		out := make(chan msg)
		forward := func(s *Stream[T]) {
			for s.Advance() {
				out <- msg{v: s.Value()}
			}
			out <- msg{err: s.Err(), done: true}
		}
		go forward(a)
		go forward(b)

		var firstErr error
		cancelled := false
		for remaining := 2; remaining > 0; {
			m := <-out
			if m.done {
				remaining--
				if m.err != nil && firstErr == nil {
					firstErr = m.err
				}
				continue
			}
			// Keep draining out even after cancellation so the still-
			// running forward goroutine never blocks forever trying to
			// send its next value.
			if cancelled {
				continue
			}
			if !emit(m.v) {
				cancelled = true
			}
		}
		return firstErr
	}, func() {
		a.Destroy()
		b.Destroy()
	})
}

// FromSlice returns a Stream yielding each element of items in order.
func FromSlice[T any](items []T) *Stream[T] {
	return New(func(emit func(T) bool) error {
		for _, v := range items {
			if !emit(v) {
				return nil
			}
		}
		return nil
	}, func() {})
}

// Empty returns an already-exhausted Stream of T.
func Empty[T any]() *Stream[T] {
	return FromSlice[T](nil)
}

// Collect drains s into a slice. Intended for blocking operators
// (OrderBy) and tests.
func Collect[T any](s *Stream[T]) ([]T, error) {
	var out []T
	for s.Advance() {
		out = append(out, s.Value())
	}
	return out, s.Err()
}
