package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type serviceActor struct{}

func (serviceActor) Name() string { return "operator.service" }

func (serviceActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Service); !ok {
		return actor.Reject("not a Service node"), nil
	}
	return actor.Pass(0), nil
}

// Run scopes Input's pattern resolution to a single remote sparql
// source at Endpoint, reusing the quad-pattern bus's existing
// "sparql" source family rather than serializing Input back into
// query text by hand (spec.md §4.2, §4.5). With Silent set, a
// resolution failure degrades to the empty solution sequence instead
// of propagating, per SPARQL 1.1's SERVICE SILENT.
func (serviceActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Service)
	serviceCtx := queryctx.WithSources(ctx, []queryctx.SourceDescriptor{{Type: "sparql", Value: n.Endpoint}})

	res, err := Resolve(serviceCtx, n.Input)
	if err != nil {
		if n.Silent {
			return Result{Data: rdfstream.Empty[bindings.Bindings](), Vars: nil, Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: 0})}, nil
		}
		return Result{}, err
	}
	return res, nil
}
