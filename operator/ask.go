package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type askActor struct{}

func (askActor) Name() string { return "operator.ask" }

func (askActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Ask); !ok {
		return actor.Reject("not an Ask node"), nil
	}
	return actor.Pass(0), nil
}

// Run reduces Input to a single "result" binding of xsd:boolean,
// true iff at least one solution exists, destroying the underlying
// stream as soon as that's known rather than draining it (spec.md
// §4.2's Ask is a short-circuiting reduction).
func (askActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Ask)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	found := in.Data.Advance()
	err = in.Data.Err()
	in.Data.Destroy()
	if err != nil {
		return Result{}, err
	}

	row := bindings.Empty.Set("result", rdf.NewLiteral(boolLexical(found), xsdBoolean))
	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: 1})
	return Result{Data: rdfstream.FromSlice([]bindings.Bindings{row}), Vars: []string{"result"}, Metadata: meta}, nil
}

func boolLexical(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

const xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
