package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type projectActor struct{}

func (projectActor) Name() string { return "operator.project" }

func (projectActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Project); !ok {
		return actor.Reject("not a Project node"), nil
	}
	return actor.Pass(0), nil
}

func (projectActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Project)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	data := rdfstream.Map(in.Data, func(b bindings.Bindings) bindings.Bindings {
		return b.Project(n.Vars)
	})
	return Result{Data: data, Vars: n.Vars, Metadata: in.Metadata}, nil
}
