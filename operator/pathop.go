package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/path"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type pathActor struct{}

func (pathActor) Name() string { return "operator.path" }

func (pathActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Path); !ok {
		return actor.Reject("not a Path node"), nil
	}
	return actor.Pass(0), nil
}

// Run delegates to the property-path sub-engine (spec.md §4.4). Only
// the endpoints actually left as variables appear in Vars; a ground
// endpoint binds nothing.
func (pathActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Path)
	data, err := path.Evaluate(ctx, n.Subject, n.Path, n.Object, n.Graph)
	if err != nil {
		return Result{}, err
	}
	var vars []string
	if n.Subject.IsVariable() {
		vars = append(vars, n.Subject.Value())
	}
	if n.Object.IsVariable() {
		vars = append(vars, n.Object.Value())
	}
	return Result{Data: data, Vars: vars, Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown})}, nil
}
