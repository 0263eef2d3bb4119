// Package join implements the join sub-engine of spec.md §4.3: a
// dedicated bus carrying join actions with one entry per child,
// dispatched by a minimum-estimated-iterations mediator across
// nested-loop, symmetric-hash, and multi-way join actors.
package join

import (
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/mediator"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// Entry is one join operand: a bindings stream plus its declared
// variables and metadata, decoupled from the operator package's
// Result type so this package has no dependency on it.
type Entry struct {
	Data     *rdfstream.Stream[bindings.Bindings]
	Vars     []string
	Metadata rdfstream.MetadataFunc
}

// Action is the join bus's action: join all of Entries.
type Action struct {
	Entries []Entry
}

// Result is a joined bindings stream plus its variables (the union of
// every entry's) and its metadata.
type Result struct {
	Data     *rdfstream.Stream[bindings.Bindings]
	Vars     []string
	Metadata rdfstream.MetadataFunc
}

// Bus is the process-wide join bus.
var Bus = bus.New[Action, Result]("join")

// Mediator selects the join actor with the lowest estimated iteration
// count, per spec.md §4.3.
var Mediator = mediator.New(Bus, mediator.MinIterations)

// RegisterDefaults registers the built-in join actors. Call once
// during engine wiring, before any query is evaluated.
func RegisterDefaults() {
	Bus.Register(nestedLoopActor{})
	Bus.Register(symmetricHashActor{})
	Bus.Register(multiWayActor{})
}

// Join joins entries. 0 entries is the empty stream with no variables
// and totalItems=0; 1 entry passes through verbatim — both handled in
// the substrate before any bus dispatch, per spec.md §4.3 "empty /
// passthrough."
func Join(ctx *qcontext.T, entries []Entry) (Result, error) {
	switch len(entries) {
	case 0:
		return Result{
			Data:     rdfstream.Empty[bindings.Bindings](),
			Vars:     nil,
			Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: 0}),
		}, nil
	case 1:
		e := entries[0]
		return Result{Data: e.Data, Vars: e.Vars, Metadata: e.Metadata}, nil
	default:
		return Mediator.Mediate(ctx, Action{Entries: entries})
	}
}

// mergeVars returns the union of every entry's variables, in first-
// occurrence order.
func mergeVars(entries []Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		for _, v := range e.Vars {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// pairProductMetadata returns the output metadata for a two-entry join:
// the product of both sides' totalItems, per spec.md §4.3's invariant
// that the default output estimate be the product of the inputs'
// rather than TotalItemsUnknown whenever both are known.
func pairProductMetadata(a, b Entry) rdfstream.MetadataFunc {
	return func() rdfstream.Metadata {
		at, bt := a.Metadata().TotalItems, b.Metadata().TotalItems
		if at == rdfstream.TotalItemsUnknown || bt == rdfstream.TotalItemsUnknown {
			return rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown}
		}
		return rdfstream.Metadata{TotalItems: at * bt}
	}
}

// sharedVars returns the variables common to both a and b, the
// standard SPARQL join key.
func sharedVars(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, v := range a {
		inA[v] = true
	}
	var shared []string
	for _, v := range b {
		if inA[v] {
			shared = append(shared, v)
		}
	}
	return shared
}
