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

type patternActor struct{}

func (patternActor) Name() string { return "operator.pattern" }

func (patternActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.PatternNode); !ok {
		return actor.Reject("not a PatternNode"), nil
	}
	return actor.Pass(0), nil
}

// Run resolves Pattern against the quad-pattern bus and lifts each
// matching quad into a Bindings by pairing the pattern's variable
// positions with the quad's terms at those positions (spec.md §4.2).
func (patternActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.PatternNode)
	res, err := source.Resolve(ctx, n.Pattern)
	if err != nil {
		return Result{}, err
	}
	vars := n.Pattern.Variables()
	data := rdfstream.Transform(res.Data.Stream, func(q rdf.Quad) []bindings.Bindings {
		b, ok := bindingsFromQuad(n.Pattern, q)
		if !ok {
			return nil
		}
		return []bindings.Bindings{b}
	})
	return Result{Data: data, Vars: vars, Metadata: res.Metadata}, nil
}

// bindingsFromQuad pairs p's variable positions with q's terms at
// those positions. Source actors filter on ground positions only
// (source.Resolve's Match contract has no notion of a SPARQL variable
// name), so a variable repeated across positions (?s ?p ?s) is not
// guaranteed to be pre-filtered upstream; bindingsFromQuad itself
// rejects any quad where a repeated variable disagrees across its
// occurrences, rather than silently keeping the last-seen term.
func bindingsFromQuad(p rdf.Pattern, q rdf.Quad) (bindings.Bindings, bool) {
	pp, qq := p.Positions(), [4]rdf.Term{q.Subject, q.Predicate, q.Object, q.Graph}
	b := bindings.Empty
	for i, t := range pp {
		if !t.IsVariable() {
			continue
		}
		name := t.Value()
		if existing, ok := b.Get(name); ok {
			if !existing.Equal(qq[i]) {
				return bindings.Empty, false
			}
			continue
		}
		b = b.Set(name, qq[i])
	}
	return b, true
}
