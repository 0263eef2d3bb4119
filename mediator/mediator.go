// Package mediator implements the policy-driven actor selection of
// spec.md §4.1: a Mediator is parameterized by a bus and a policy; its
// Mediate call awaits every actor's test reply, rejects the failed
// ones, applies the policy to pick a winner (or, for CombineUnion, a
// set of winners), and invokes Run.
package mediator

import (
	"fmt"
	"sort"

	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
)

// Policy names one of the selection strategies of spec.md §4.1.
type Policy int

const (
	// MinTime picks the passing actor whose Test resolved fastest.
	MinTime Policy = iota
	// MinIterations picks the passing actor with the lowest Metric,
	// interpreted as an estimated iteration count (the join mediator's
	// policy, spec.md §4.3).
	MinIterations
	// NumberBased picks the passing actor with the lowest Metric,
	// interpreted as an explicit declared priority number.
	NumberBased
	// RaceFirstNonFailing picks the passing actor whose Test resolved
	// first; since Mediate awaits every reply before applying policy
	// (spec.md §4.1), this is operationally identical to MinTime but
	// kept distinct because the two express different actor-authoring
	// intents: MinTime actors compute a meaningful Metric from timing,
	// RaceFirstNonFailing actors don't bother and just pass quickly.
	RaceFirstNonFailing
	// CombineUnion runs every passing actor and combines their outputs
	// via the Mediator's Combine function, rather than picking one.
	CombineUnion
)

// Mediator selects and invokes one (or, for CombineUnion, several) of
// the actors registered on Bus.
type Mediator[A, O any] struct {
	Bus    *bus.Bus[A, O]
	Policy Policy
	// Combine merges the outputs of every passing actor. Required only
	// when Policy is CombineUnion.
	Combine func([]O) O
}

// New constructs a Mediator for the given bus and policy.
func New[A, O any](b *bus.Bus[A, O], policy Policy) *Mediator[A, O] {
	return &Mediator[A, O]{Bus: b, Policy: policy}
}

// Mediate awaits every registered actor's Test reply, rejects the
// failed ones, applies the policy, and invokes Run on the winner (or
// winners, for CombineUnion). It returns a dispatch-failure error
// (spec.md §7 kind 1) if no actor passed.
func (m *Mediator[A, O]) Mediate(ctx *qcontext.T, action A) (O, error) {
	var zero O
	replies := m.Bus.Publish(ctx, action)

	passing := make([]bus.TestReply[A, O], 0, len(replies))
	var reasons []string
	for _, r := range replies {
		switch {
		case r.Err != nil:
			reasons = append(reasons, fmt.Sprintf("%s: %v", r.Actor.Name(), r.Err))
		case !r.Outcome.Passed:
			reasons = append(reasons, fmt.Sprintf("%s: %s", r.Actor.Name(), r.Outcome.Reason))
		default:
			passing = append(passing, r)
		}
	}
	if len(passing) == 0 {
		return zero, qerror.ErrDispatchFailure.Errorf(ctx, "no actor on bus %q could handle action (tried %d: %v)", m.Bus.Name(), len(replies), reasons)
	}

	if m.Policy == CombineUnion {
		return m.mediateUnion(ctx, action, passing)
	}

	winner := m.pickWinner(passing)
	if ctx.V(1) {
		ctx.Infof("mediator[%s]: dispatching to %s", m.Bus.Name(), winner.Actor.Name())
	}
	return winner.Actor.Run(ctx, action)
}

func (m *Mediator[A, O]) pickWinner(passing []bus.TestReply[A, O]) bus.TestReply[A, O] {
	best := passing[0]
	for _, r := range passing[1:] {
		if m.less(r, best) {
			best = r
		}
	}
	return best
}

func (m *Mediator[A, O]) less(a, b bus.TestReply[A, O]) bool {
	switch m.Policy {
	case MinTime, RaceFirstNonFailing:
		return a.Elapsed < b.Elapsed
	case MinIterations, NumberBased:
		return a.Outcome.Metric < b.Outcome.Metric
	default:
		return false
	}
}

func (m *Mediator[A, O]) mediateUnion(ctx *qcontext.T, action A, passing []bus.TestReply[A, O]) (O, error) {
	var zero O
	if m.Combine == nil {
		return zero, qerror.ErrInvariantViolation.Errorf(ctx, "mediator[%s]: CombineUnion policy requires Combine", m.Bus.Name())
	}
	outputs := make([]O, len(passing))
	for i, r := range passing {
		out, err := r.Actor.Run(ctx, action)
		if err != nil {
			return zero, err
		}
		outputs[i] = out
	}
	return m.Combine(outputs), nil
}

// SortByMetric is a small helper policy-unaware actors can use to
// order the actors they internally fold over (the multi-way join
// actor, spec.md §4.3), exposed here since it's the same comparison
// MinIterations uses.
func SortByMetric[A, O any](replies []bus.TestReply[A, O]) {
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].Outcome.Metric < replies[j].Outcome.Metric
	})
}
