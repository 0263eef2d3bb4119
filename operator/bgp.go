package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/join"
)

type bgpActor struct{}

func (bgpActor) Name() string { return "operator.bgp" }

func (bgpActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Bgp); !ok {
		return actor.Reject("not a Bgp node"), nil
	}
	return actor.Pass(0), nil
}

// Run lowers each pattern to a PatternNode resolution and joins the
// results, per spec.md §4.2: "Bgp is a conjunction of patterns,
// resolved against the quad-pattern bus and joined."
func (bgpActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Bgp)
	if len(n.Patterns) == 0 {
		// The empty BGP is the join identity: exactly one solution, the
		// empty mapping.
		return Resolve(ctx, algebra.Values{Vars: nil, Rows: []bindings.Bindings{bindings.Empty}})
	}

	entries := make([]join.Entry, 0, len(n.Patterns))
	for _, p := range n.Patterns {
		r, err := Resolve(ctx, algebra.PatternNode{Pattern: p})
		if err != nil {
			return Result{}, err
		}
		entries = append(entries, join.Entry{Data: r.Data, Vars: r.Vars, Metadata: r.Metadata})
	}
	out, err := join.Join(ctx, entries)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out.Data, Vars: out.Vars, Metadata: out.Metadata}, nil
}
