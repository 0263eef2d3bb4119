package join

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// nestedLoopActor joins exactly two entries by buffering the right
// side and, for each left binding, scanning it for compatible
// matches. Its estimated iteration count is the product of both
// sides' totalItems, or unbounded if either side's is unknown — the
// mediator only picks it over symmetricHashActor when that product is
// genuinely competitive (e.g. one side has very few solutions).
type nestedLoopActor struct{}

func (nestedLoopActor) Name() string { return "join.nestedLoop" }

func (nestedLoopActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if len(action.Entries) != 2 {
		return actor.Reject("nested-loop join only handles two entries"), nil
	}
	left, right := action.Entries[0], action.Entries[1]
	cost := estimatedPairCost(left, right)
	return actor.Pass(cost), nil
}

func (nestedLoopActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	left, right := action.Entries[0], action.Entries[1]
	rightRows, err := rdfstream.Collect(right.Data)
	if err != nil {
		return Result{}, err
	}

	vars := mergeVars(action.Entries)
	data := rdfstream.New(func(emit func(bindings.Bindings) bool) error {
		for left.Data.Advance() {
			l := left.Data.Value()
			for _, r := range rightRows {
				merged, ok := l.Merge(r)
				if !ok {
					continue
				}
				if !emit(merged) {
					return nil
				}
			}
		}
		return left.Data.Err()
	}, nil)

	return Result{Data: data, Vars: vars, Metadata: pairProductMetadata(left, right)}, nil
}

func estimatedPairCost(left, right Entry) float64 {
	lt := left.Metadata().TotalItems
	rt := right.Metadata().TotalItems
	if lt == rdfstream.TotalItemsUnknown || rt == rdfstream.TotalItemsUnknown {
		return 1e18
	}
	return float64(lt) * float64(rt)
}
