package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type leftJoinActor struct{}

func (leftJoinActor) Name() string { return "operator.leftJoin" }

func (leftJoinActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.LeftJoin); !ok {
		return actor.Reject("not a LeftJoin node"), nil
	}
	return actor.Pass(0), nil
}

// Run pairs every Left solution against compatible, Expr-passing
// Right solutions; a Left solution with no such pair survives
// unchanged, per spec.md §4.2's OPTIONAL semantics. Implemented
// directly (not via the join sub-engine) since the Expr restriction
// and unmatched-left passthrough aren't part of plain inner join. Left
// and Right are resolved in parallel, matching Join and Union.
func (leftJoinActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.LeftJoin)
	left, right, err := resolveChildren(ctx, n.Left, n.Right)
	if err != nil {
		return Result{}, err
	}
	rightRows, err := rdfstream.Collect(right.Data)
	if err != nil {
		return Result{}, err
	}

	vars := unionVars(left.Vars, right.Vars)
	data := rdfstream.New(func(emit func(bindings.Bindings) bool) error {
		for left.Data.Advance() {
			l := left.Data.Value()
			matched := false
			for _, r := range rightRows {
				merged, ok := l.Merge(r)
				if !ok {
					continue
				}
				if n.Expr != nil && !exprHolds(n.Expr, merged) {
					continue
				}
				matched = true
				if !emit(merged) {
					return nil
				}
			}
			if !matched {
				if !emit(l) {
					return nil
				}
			}
		}
		return left.Data.Err()
	}, nil)

	return Result{Data: data, Vars: vars, Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown})}, nil
}

// exprHolds reports whether e evaluates to an effective-true value
// under b, treating evaluation errors as false (spec.md §7 kind 3).
func exprHolds(e expr.Expr, b bindings.Bindings) bool {
	v, err := expr.Eval(b, e)
	if err != nil {
		return false
	}
	bv, err := expr.EffectiveBooleanValue(v)
	return err == nil && bv
}
