// Package operator implements the SPARQL algebra operator actors of
// spec.md §4.2: one actor per algebra.Node type, each publishing on the
// query-operation bus and consuming its children's outputs through the
// same mediator it is registered on.
package operator

import (
	"golang.org/x/sync/errgroup"

	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/mediator"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// Action is the query-operation bus's action: evaluate one algebra
// node. Resolving a child means mediating another Action wrapping the
// child node (spec.md §4.2).
type Action struct {
	Node algebra.Node
}

// Result is a bindings stream plus its declared variables list and
// metadata thunk, per spec.md §3's "bindings stream."
type Result struct {
	Data     *rdfstream.Stream[bindings.Bindings]
	Vars     []string
	Metadata rdfstream.MetadataFunc
}

// QueryOperationBus is the process-wide query-operation bus.
// RegisterDefaults populates it with one actor per algebra.Node type.
var QueryOperationBus = bus.New[Action, Result]("query-operation")

// QueryOperationMediator dispatches by algebra-node tag. Exactly one
// registered actor ever passes Test for a given node type, so the
// NumberBased policy never has to break a real tie.
var QueryOperationMediator = mediator.New(QueryOperationBus, mediator.NumberBased)

// Resolve mediates node's evaluation on the query-operation bus. Every
// operator actor calls this to resolve its children.
func Resolve(ctx *qcontext.T, node algebra.Node) (Result, error) {
	return QueryOperationMediator.Mediate(ctx, Action{Node: node})
}

// RegisterDefaults registers every built-in operator actor. Call once
// during engine wiring, before any query is evaluated.
func RegisterDefaults() {
	QueryOperationBus.Register(projectActor{})
	QueryOperationBus.Register(filterActor{})
	QueryOperationBus.Register(joinActor{})
	QueryOperationBus.Register(leftJoinActor{})
	QueryOperationBus.Register(unionActor{})
	QueryOperationBus.Register(sliceActor{})
	QueryOperationBus.Register(distinctActor{})
	QueryOperationBus.Register(reducedActor{})
	QueryOperationBus.Register(orderByActor{})
	QueryOperationBus.Register(extendActor{})
	QueryOperationBus.Register(groupActor{})
	QueryOperationBus.Register(minusActor{})
	QueryOperationBus.Register(valuesActor{})
	QueryOperationBus.Register(bgpActor{})
	QueryOperationBus.Register(patternActor{})
	QueryOperationBus.Register(pathActor{})
	QueryOperationBus.Register(constructActor{})
	QueryOperationBus.Register(askActor{})
	QueryOperationBus.Register(describeActor{})
	QueryOperationBus.Register(serviceActor{})
}

// resolveChildren resolves left and right concurrently, per spec.md
// §4.2's binary-operator streaming laws ("resolve inputs in
// parallel"). If either side fails, the other's already-produced
// stream is destroyed before the error is returned so its resources
// aren't leaked.
func resolveChildren(ctx *qcontext.T, left, right algebra.Node) (Result, Result, error) {
	var l, r Result
	var g errgroup.Group
	g.Go(func() error {
		var err error
		l, err = Resolve(ctx, left)
		return err
	})
	g.Go(func() error {
		var err error
		r, err = Resolve(ctx, right)
		return err
	})
	if err := g.Wait(); err != nil {
		if l.Data != nil {
			l.Data.Destroy()
		}
		if r.Data != nil {
			r.Data.Destroy()
		}
		return Result{}, Result{}, err
	}
	return l, r, nil
}

func unionVars(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
