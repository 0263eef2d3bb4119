package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type constructActor struct{}

func (constructActor) Name() string { return "operator.construct" }

func (constructActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Construct); !ok {
		return actor.Reject("not a Construct node"), nil
	}
	return actor.Pass(0), nil
}

// Run applies every Input solution to every Template pattern,
// substituting bound variables and dropping any instantiation whose
// subject, predicate or object is still unbound (a quad can't have a
// variable position); an unbound graph becomes the zero Term.
func (constructActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Construct)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}

	data := rdfstream.Transform(in.Data, func(b bindings.Bindings) []bindings.Bindings {
		var out []bindings.Bindings
		for _, tmpl := range n.Template {
			q, ok := instantiate(tmpl, b)
			if !ok {
				continue
			}
			out = append(out, quadAsBindings(q))
		}
		return out
	})
	// CONSTRUCT emits a set of triples, per spec.md's Construct
	// contract: dedup the same way Distinct does.
	data = dedup(data)
	return Result{Data: data, Vars: []string{"subject", "predicate", "object", "graph"}, Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown})}, nil
}

func instantiate(p rdf.Pattern, b bindings.Bindings) (rdf.Quad, bool) {
	resolve := func(t rdf.Term) (rdf.Term, bool) {
		if !t.IsVariable() {
			return t, true
		}
		return b.Get(t.Value())
	}
	s, ok := resolve(p.Subject)
	if !ok {
		return rdf.Quad{}, false
	}
	pr, ok := resolve(p.Predicate)
	if !ok {
		return rdf.Quad{}, false
	}
	o, ok := resolve(p.Object)
	if !ok {
		return rdf.Quad{}, false
	}
	g, ok := resolve(p.Graph)
	if !ok {
		g = rdf.Term{}
	}
	return rdf.Quad{Subject: s, Predicate: pr, Object: o, Graph: g}, true
}

// quadAsBindings lifts a constructed quad into the fixed
// subject/predicate/object/graph variable shape the Construct result
// stream carries (spec.md §4.2), so downstream serialization treats
// it like any other bindings stream.
func quadAsBindings(q rdf.Quad) bindings.Bindings {
	return bindings.Empty.
		Set("subject", q.Subject).
		Set("predicate", q.Predicate).
		Set("object", q.Object).
		Set("graph", q.Graph)
}
