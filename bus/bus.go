// Package bus implements the ordered actor registry of spec.md §4.1: a
// bus names a capability and holds the actors that publish on it. A
// bus never picks a winner itself — that's the mediator's job — it
// only fans a Test call out to every registered actor and collects
// the replies.
package bus

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
)

// TestReply pairs an actor's test outcome with how long the test took
// to resolve, which the minimum-time and race-first-non-failing
// mediator policies compare.
type TestReply[A, O any] struct {
	Actor   actor.Actor[A, O]
	Outcome actor.TestOutcome
	Err     error
	Elapsed time.Duration
}

// Bus holds an ordered set of actors for a single capability.
// Registration happens once during wiring; after that a Bus is
// read-only and therefore safe for concurrent Publish calls without
// further locking on the hot path (spec.md §5 "buses and mediators are
// read-only after wiring and therefore lock-free").
type Bus[A, O any] struct {
	name string

	mu     sync.Mutex
	actors []actor.Actor[A, O]
	frozen bool
}

// New creates an empty bus identified by name, used only in dispatch-
// failure messages and logs.
func New[A, O any](name string) *Bus[A, O] {
	return &Bus[A, O]{name: name}
}

// Name returns the bus's capability name.
func (b *Bus[A, O]) Name() string { return b.name }

// Register adds an actor to the bus. It must be called only during
// wiring, before any Publish; registering after the bus has served a
// Publish call panics, since buses are defined to be immutable once
// live (spec.md §5).
func (b *Bus[A, O]) Register(a actor.Actor[A, O]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		panic("bus: Register called after Publish on bus " + b.name)
	}
	b.actors = append(b.actors, a)
}

// Actors returns the registered actors in registration order.
func (b *Bus[A, O]) Actors() []actor.Actor[A, O] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	out := make([]actor.Actor[A, O], len(b.actors))
	copy(out, b.actors)
	return out
}

// Publish calls Test on every registered actor and returns each one's
// reply, in registration order, once all have resolved — spec.md
// §4.1's "mediator awaits all test replies." Tests run concurrently
// since they are required to be pure and side-effect free.
func (b *Bus[A, O]) Publish(ctx *qcontext.T, action A) []TestReply[A, O] {
	actors := b.Actors()
	replies := make([]TestReply[A, O], len(actors))

	var g errgroup.Group
	for i, a := range actors {
		i, a := i, a
		g.Go(func() error {
			start := time.Now()
			outcome, err := a.Test(ctx, action)
			replies[i] = TestReply[A, O]{Actor: a, Outcome: outcome, Err: err, Elapsed: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait() // each goroutine above always returns nil; errors ride in TestReply
	return replies
}
