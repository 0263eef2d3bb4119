package source

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// MemoryActor resolves quad patterns against an in-memory RDF/JS-style
// source: a descriptor whose Match capability is set directly, or
// whose Type is "rdfjsSource". It never needs Fetch or Dereference,
// so it's always the cheapest and fastest-testing actor on the bus.
type MemoryActor struct{}

func (MemoryActor) Name() string { return "source.memory" }

func (MemoryActor) Test(ctx *qcontext.T, _ Action) (actor.TestOutcome, error) {
	d, ok := queryctx.Source(ctx)
	if !ok {
		return actor.Reject("no source descriptor attached"), nil
	}
	if d.Match != nil || d.Type == "rdfjsSource" {
		return actor.Pass(0), nil
	}
	return actor.Reject("descriptor is not an in-memory source"), nil
}

func (MemoryActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	d, _ := queryctx.Source(ctx)
	if d.Match == nil {
		return Result{}, ErrNoMatchFunc.Errorf(ctx, "rdfjsSource descriptor %q has no Match function", d.Value)
	}
	p := action.Pattern
	qs := d.Match(variableToZero(p.Subject), variableToZero(p.Predicate), variableToZero(p.Object), variableToZero(p.Graph))
	if qs == nil {
		qs = rdfstream.EmptyQuadStream()
	}
	return Result{Data: qs, Metadata: qs.Metadata}, nil
}

// variableToZero turns an unbound pattern position into the zero Term
// MatchFunc implementations use to mean "any", keeping the Match
// signature agnostic of SPARQL variable names.
func variableToZero(t rdf.Term) rdf.Term {
	if t.IsVariable() {
		return rdf.Term{}
	}
	return t
}
