package join

import (
	"sort"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// multiWayActor is the only actor that accepts more than two entries.
// It reorders entries by ascending totalItems (smallest first, so
// early joins prune the most) and left-folds them pairwise through
// Join, letting the mediator pick nested-loop or symmetric-hash for
// each step.
type multiWayActor struct{}

func (multiWayActor) Name() string { return "join.multiWay" }

func (multiWayActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if len(action.Entries) < 2 {
		return actor.Reject("multi-way join requires at least two entries"), nil
	}
	if len(action.Entries) == 2 {
		// Let nestedLoopActor/symmetricHashActor compete directly; only
		// step in for three-or-more-way joins.
		return actor.Reject("exactly two entries: defer to binary join actors"), nil
	}
	return actor.Pass(0), nil
}

func (multiWayActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	entries := append([]Entry(nil), action.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return estimatedSize(entries[i]) < estimatedSize(entries[j])
	})

	acc, err := Join(ctx, entries[:2])
	if err != nil {
		return Result{}, err
	}
	accEntry := Entry{Data: acc.Data, Vars: acc.Vars, Metadata: acc.Metadata}
	for _, e := range entries[2:] {
		acc, err = Join(ctx, []Entry{accEntry, e})
		if err != nil {
			return Result{}, err
		}
		accEntry = Entry{Data: acc.Data, Vars: acc.Vars, Metadata: acc.Metadata}
	}
	return acc, nil
}

func estimatedSize(e Entry) int64 {
	t := e.Metadata().TotalItems
	if t == rdfstream.TotalItemsUnknown {
		return 1 << 40
	}
	return t
}
