package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type valuesActor struct{}

func (valuesActor) Name() string { return "operator.values" }

func (valuesActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Values); !ok {
		return actor.Reject("not a Values node"), nil
	}
	return actor.Pass(0), nil
}

// Run emits n.Rows verbatim: a finite, ground table whose total
// solution count is known up front (spec.md §4.2).
func (valuesActor) Run(_ *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Values)
	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(n.Rows))})
	return Result{Data: rdfstream.FromSlice(n.Rows), Vars: n.Vars, Metadata: meta}, nil
}
