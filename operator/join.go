package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/join"
)

type joinActor struct{}

func (joinActor) Name() string { return "operator.join" }

func (joinActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Join); !ok {
		return actor.Reject("not a Join node"), nil
	}
	return actor.Pass(0), nil
}

// Run resolves both children in parallel then hands them to the join
// sub-engine (spec.md §4.3), which mediates nested-loop,
// symmetric-hash or multi-way execution by estimated cost.
func (joinActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Join)
	left, right, err := resolveChildren(ctx, n.Left, n.Right)
	if err != nil {
		return Result{}, err
	}
	out, err := join.Join(ctx, []join.Entry{
		{Data: left.Data, Vars: left.Vars, Metadata: left.Metadata},
		{Data: right.Data, Vars: right.Vars, Metadata: right.Metadata},
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out.Data, Vars: out.Vars, Metadata: out.Metadata}, nil
}
