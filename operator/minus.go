package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type minusActor struct{}

func (minusActor) Name() string { return "operator.minus" }

func (minusActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Minus); !ok {
		return actor.Reject("not a Minus node"), nil
	}
	return actor.Pass(0), nil
}

// Run emits Left solutions that share no variable with, or are
// incompatible with, every Right solution (spec.md §4.2's Minus
// semantics — distinct from LeftJoin's "no match" since a Left
// solution sharing zero variables with Right never excludes it).
func (minusActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Minus)
	left, err := Resolve(ctx, n.Left)
	if err != nil {
		return Result{}, err
	}
	right, err := Resolve(ctx, n.Right)
	if err != nil {
		return Result{}, err
	}
	rightRows, err := rdfstream.Collect(right.Data)
	if err != nil {
		return Result{}, err
	}

	data := rdfstream.Filter(left.Data, func(l bindings.Bindings) bool {
		for _, r := range rightRows {
			if sharesVariable(l, r) && l.Compatible(r) {
				return false
			}
		}
		return true
	})
	return Result{Data: data, Vars: left.Vars, Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown})}, nil
}

func sharesVariable(a, b bindings.Bindings) bool {
	for _, v := range a.Vars() {
		if b.Has(v) {
			return true
		}
	}
	return false
}
