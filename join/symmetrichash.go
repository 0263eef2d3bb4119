package join

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// symmetricHashActor joins exactly two entries by building a hash
// table over the smaller side's shared-variable projection, then
// probing it while streaming the larger side. Memory is bounded by
// the smaller side's cardinality rather than the product of both, so
// it wins over nestedLoopActor whenever both sides are large.
type symmetricHashActor struct{}

func (symmetricHashActor) Name() string { return "join.symmetricHash" }

func (symmetricHashActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if len(action.Entries) != 2 {
		return actor.Reject("symmetric-hash join only handles two entries"), nil
	}
	left, right := action.Entries[0], action.Entries[1]
	if len(sharedVars(left.Vars, right.Vars)) == 0 {
		return actor.Reject("no shared variables to hash on"), nil
	}
	lt := left.Metadata().TotalItems
	rt := right.Metadata().TotalItems
	cost := rdfstream.TotalItemsUnknown
	switch {
	case lt != rdfstream.TotalItemsUnknown && rt != rdfstream.TotalItemsUnknown:
		cost = lt
		if rt < cost {
			cost = rt
		}
	case lt != rdfstream.TotalItemsUnknown:
		cost = lt
	case rt != rdfstream.TotalItemsUnknown:
		cost = rt
	default:
		return actor.Pass(1e17), nil
	}
	return actor.Pass(float64(cost)), nil
}

func (symmetricHashActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	left, right := action.Entries[0], action.Entries[1]
	key := sharedVars(left.Vars, right.Vars)

	build, probe := left, right
	buildIsLeft := true
	lt, rt := left.Metadata().TotalItems, right.Metadata().TotalItems
	if rt != rdfstream.TotalItemsUnknown && (lt == rdfstream.TotalItemsUnknown || rt < lt) {
		build, probe = right, left
		buildIsLeft = false
	}

	buildRows, err := rdfstream.Collect(build.Data)
	if err != nil {
		return Result{}, err
	}
	table := make(map[string][]bindings.Bindings, len(buildRows))
	for _, b := range buildRows {
		k := b.KeyProjection(key)
		table[k] = append(table[k], b)
	}

	vars := mergeVars(action.Entries)
	data := rdfstream.New(func(emit func(bindings.Bindings) bool) error {
		for probe.Data.Advance() {
			p := probe.Data.Value()
			for _, b := range table[p.KeyProjection(key)] {
				var merged bindings.Bindings
				var ok bool
				if buildIsLeft {
					merged, ok = b.Merge(p)
				} else {
					merged, ok = p.Merge(b)
				}
				if !ok {
					continue
				}
				if !emit(merged) {
					return nil
				}
			}
		}
		return probe.Data.Err()
	}, nil)

	return Result{Data: data, Vars: vars, Metadata: pairProductMetadata(left, right)}, nil
}
