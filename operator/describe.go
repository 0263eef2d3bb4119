package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
	"github.com/vanadium-labs/sparqlkit/source"
)

type describeActor struct{}

func (describeActor) Name() string { return "operator.describe" }

func (describeActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Describe); !ok {
		return actor.Reject("not a Describe node"), nil
	}
	return actor.Pass(0), nil
}

// Run resolves n's describe targets (either the ground Term, or every
// distinct binding of Var across Input) and emits every quad with that
// term as subject — a concise bounded description, per spec.md §4.2.
func (describeActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Describe)
	targets, err := describeTargets(ctx, n)
	if err != nil {
		return Result{}, err
	}

	var rows []bindings.Bindings
	for _, t := range targets {
		pattern := rdf.Pattern{
			Subject:   t,
			Predicate: rdf.NewVariable("p"),
			Object:    rdf.NewVariable("o"),
			Graph:     rdf.NewVariable("g"),
		}
		res, err := source.Resolve(ctx, pattern)
		if err != nil {
			return Result{}, err
		}
		quads, err := rdfstream.Collect(res.Data.Stream)
		if err != nil {
			return Result{}, err
		}
		for _, q := range quads {
			rows = append(rows, quadAsBindings(q))
		}
	}

	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(rows))})
	return Result{Data: rdfstream.FromSlice(rows), Vars: []string{"subject", "predicate", "object", "graph"}, Metadata: meta}, nil
}

func describeTargets(ctx *qcontext.T, n algebra.Describe) ([]rdf.Term, error) {
	if n.Var == "" {
		return []rdf.Term{n.Term}, nil
	}
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	rows, err := rdfstream.Collect(in.Data)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var targets []rdf.Term
	for _, b := range rows {
		t, ok := b.Get(n.Var)
		if !ok {
			continue
		}
		key := t.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, t)
	}
	return targets, nil
}
