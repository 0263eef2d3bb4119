package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type extendActor struct{}

func (extendActor) Name() string { return "operator.extend" }

func (extendActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Extend); !ok {
		return actor.Reject("not an Extend node"), nil
	}
	return actor.Pass(0), nil
}

// Run binds Expr's value to Var in every solution; an evaluation error
// leaves Var unbound rather than dropping the solution (spec.md §7
// kind 3: "extend → unbound").
func (extendActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Extend)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	data := rdfstream.Map(in.Data, func(b bindings.Bindings) bindings.Bindings {
		v, err := expr.Eval(b, n.Expr)
		if err != nil {
			return b
		}
		return b.Set(n.Var, v)
	})
	vars := in.Vars
	hasVar := false
	for _, v := range vars {
		if v == n.Var {
			hasVar = true
			break
		}
	}
	if !hasVar {
		vars = append(append([]string{}, vars...), n.Var)
	}
	return Result{Data: data, Vars: vars, Metadata: in.Metadata}, nil
}
