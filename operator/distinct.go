package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type distinctActor struct{}

func (distinctActor) Name() string { return "operator.distinct" }

func (distinctActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Distinct); !ok {
		return actor.Reject("not a Distinct node"), nil
	}
	return actor.Pass(0), nil
}

// Run hash-dedups Input, emitting only the first occurrence of each
// distinct solution: distinct(distinct(X)) ≡ distinct(X) since the
// dedup set only ever grows (spec.md §8's idempotence property).
func (distinctActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Distinct)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	data := dedup(in.Data)
	return Result{Data: data, Vars: in.Vars, Metadata: in.Metadata}, nil
}

func dedup(s *rdfstream.Stream[bindings.Bindings]) *rdfstream.Stream[bindings.Bindings] {
	seen := make(map[string]struct{})
	return rdfstream.Filter(s, func(b bindings.Bindings) bool {
		key := b.HashKey()
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
