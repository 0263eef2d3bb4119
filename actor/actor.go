// Package actor defines the capability-based test/run contract every
// bus participant implements (spec.md §4.1). An Actor declares the bus
// it publishes on implicitly, by being registered there; its
// Test method must be pure and side-effect free so a mediator can call,
// cancel or repeat it freely, and only the winning Run may mutate
// observable state or open resources.
package actor

import "github.com/vanadium-labs/sparqlkit/internal/qcontext"

// TestOutcome is the result variant of a test call: either passed with
// a metric the mediator's policy can compare, or rejected with a
// reason. This is the Go rendering of the "exception for control flow"
// the teacher's source environment uses to signal "cannot handle"
// (spec.md §9): a result value instead of a thrown error.
type TestOutcome struct {
	Passed bool
	// Metric is policy-specific: an estimated iteration count for the
	// join mediator, a priority number for NumberBased policies, or
	// simply unused (0) for policies that only look at Elapsed.
	Metric float64
	Reason string
}

// Pass reports a successful, side-effect-free test with the given
// metric.
func Pass(metric float64) TestOutcome { return TestOutcome{Passed: true, Metric: metric} }

// Reject reports that the actor cannot handle the action, with reason
// recorded for the dispatch-failure error message.
func Reject(reason string) TestOutcome { return TestOutcome{Reason: reason} }

// Actor is a capability provider on a bus of actions A producing
// outputs O. A, O are typically an algebra-node-plus-context action
// type and a stream type, but the substrate is generic: the same
// shape serves the query-operation bus, the join bus and the
// quad-pattern resolve bus.
type Actor[A, O any] interface {
	// Name identifies the actor for logging and dispatch-failure
	// messages.
	Name() string
	// Test reports, without side effects, whether this actor can
	// handle action and how well suited it is.
	Test(ctx *qcontext.T, action A) (TestOutcome, error)
	// Run executes action. Only called on the actor a mediator's
	// policy selects among those whose Test passed.
	Run(ctx *qcontext.T, action A) (O, error)
}
