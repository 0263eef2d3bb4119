package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
)

type reducedActor struct{}

func (reducedActor) Name() string { return "operator.reduced" }

func (reducedActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Reduced); !ok {
		return actor.Reject("not a Reduced node"), nil
	}
	return actor.Pass(0), nil
}

// Run applies the same hash-dedup Distinct does. SPARQL only requires
// REDUCED to permit duplicate elimination, not guarantee it; applying
// full dedup is a conforming (stricter) implementation and reuses the
// Distinct actor's machinery rather than a weaker approximation.
func (reducedActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Reduced)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	data := dedup(in.Data)
	return Result{Data: data, Vars: in.Vars, Metadata: in.Metadata}, nil
}
