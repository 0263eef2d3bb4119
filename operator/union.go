package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type unionActor struct{}

func (unionActor) Name() string { return "operator.union" }

func (unionActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Union); !ok {
		return actor.Reject("not a Union node"), nil
	}
	return actor.Pass(0), nil
}

// Run resolves Left and Right in parallel and fairly interleaves their
// output per spec.md §4.2's Union streaming law ("resolve inputs in
// parallel; interleave outputs fairly"): a Concat would let an
// erroring branch starve a healthy one whenever it happens to be
// ordered first, so the two branches are drained concurrently via
// rdfstream.Merge. totalItems is the sum of both children's, or
// unknown if either is.
func (unionActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Union)
	left, right, err := resolveChildren(ctx, n.Left, n.Right)
	if err != nil {
		return Result{}, err
	}
	data := rdfstream.Merge(left.Data, right.Data)
	metadata := func() rdfstream.Metadata {
		lm, rm := left.Metadata(), right.Metadata()
		if lm.TotalItems == rdfstream.TotalItemsUnknown || rm.TotalItems == rdfstream.TotalItemsUnknown {
			return rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown}
		}
		return rdfstream.Metadata{TotalItems: lm.TotalItems + rm.TotalItems}
	}
	return Result{Data: data, Vars: unionVars(left.Vars, right.Vars), Metadata: metadata}, nil
}
