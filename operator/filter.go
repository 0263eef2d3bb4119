package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type filterActor struct{}

func (filterActor) Name() string { return "operator.filter" }

func (filterActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Filter); !ok {
		return actor.Reject("not a Filter node"), nil
	}
	return actor.Pass(0), nil
}

// Run evaluates Expr per bindings, dropping on false or evaluation
// error (spec.md §4.2, §7 kind 3: "filter → drop").
func (filterActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Filter)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	data := rdfstream.Filter(in.Data, func(b bindings.Bindings) bool {
		v, err := expr.Eval(b, n.Expr)
		if err != nil {
			return false
		}
		bv, err := expr.EffectiveBooleanValue(v)
		return err == nil && bv
	})
	return Result{Data: data, Vars: in.Vars, Metadata: in.Metadata}, nil
}
