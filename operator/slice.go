package operator

import (
	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type sliceActor struct{}

func (sliceActor) Name() string { return "operator.slice" }

func (sliceActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Slice); !ok {
		return actor.Reject("not a Slice node"), nil
	}
	return actor.Pass(0), nil
}

// Run drops Start solutions then takes at most Length, satisfying the
// slice-composition property of spec.md §8: slicing a slice is
// equivalent to one slice with adjusted start/length.
func (sliceActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Slice)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	data := rdfstream.Skip(in.Data, n.Start)
	if n.Length >= 0 {
		data = rdfstream.Take(data, n.Length)
	}
	metadata := func() rdfstream.Metadata {
		m := in.Metadata()
		if m.TotalItems == rdfstream.TotalItemsUnknown {
			if n.Length >= 0 {
				return rdfstream.Metadata{TotalItems: n.Length}
			}
			return rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown}
		}
		remaining := m.TotalItems - n.Start
		if remaining < 0 {
			remaining = 0
		}
		if n.Length >= 0 && n.Length < remaining {
			remaining = n.Length
		}
		return rdfstream.Metadata{TotalItems: remaining}
	}
	return Result{Data: data, Vars: in.Vars, Metadata: metadata}, nil
}
