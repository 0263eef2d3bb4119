package source

import (
	"fmt"

	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
	"github.com/vanadium-labs/sparqlkit/mediator"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// Action is the quad-pattern resolve bus's action: resolve pattern
// against whatever single source descriptor is attached to ctx via
// queryctx.WithSource (spec.md §4.5).
type Action struct {
	Pattern rdf.Pattern
}

// Result is what a quad-pattern actor's Run produces: a quad stream
// and its metadata, per spec.md §4.5.
type Result struct {
	Data     *rdfstream.QuadStream
	Metadata rdfstream.MetadataFunc
}

// QuadPatternBus is the process-wide quad-pattern resolve bus. Source
// family actors (memory, hypermedia, file, sparql) register themselves
// here during wiring; see RegisterDefaults.
var QuadPatternBus = bus.New[Action, Result]("quad-pattern-resolve")

// QuadPatternMediator dispatches by source-descriptor Type using a
// number-based policy: each actor declares a fixed priority via its
// Test metric (lower wins) and there's normally exactly one passing
// actor per descriptor Type, so the policy rarely has to break a tie.
var QuadPatternMediator = mediator.New(QuadPatternBus, mediator.NumberBased)

// Resolve resolves pattern against every source descriptor attached to
// ctx (queryctx.Sources, falling back to the single queryctx.Source),
// concatenating the results into one stream per spec.md §4.2's Bgp
// law "resolve against the quad-pattern bus." With no sources
// attached at all, Resolve treats the request as a dispatch failure:
// there is nothing capable of producing quads.
func Resolve(ctx *qcontext.T, pattern rdf.Pattern) (Result, error) {
	descriptors := queryctx.Sources(ctx)
	if len(descriptors) == 0 {
		if d, ok := queryctx.Source(ctx); ok {
			descriptors = []queryctx.SourceDescriptor{d}
		}
	}
	if len(descriptors) == 0 {
		return Result{}, qerror.ErrDispatchFailure.Errorf(ctx, "no data sources attached to context")
	}

	if len(descriptors) == 1 {
		return resolveOne(ctx, descriptors[0], pattern)
	}

	streams := make([]*rdfstream.QuadStream, 0, len(descriptors))
	metas := make([]rdfstream.MetadataFunc, 0, len(descriptors))
	for _, d := range descriptors {
		r, err := resolveOne(ctx, d, pattern)
		if err != nil {
			return Result{}, err
		}
		streams = append(streams, r.Data)
		metas = append(metas, r.Metadata)
	}
	raw := make([]*rdfstream.Stream[rdf.Quad], len(streams))
	for i, s := range streams {
		raw[i] = s.Stream
	}
	combined := rdfstream.Concat(raw...)
	return Result{
		Data:     rdfstream.NewQuadStream(combined, nil),
		Metadata: sumMetadata(metas),
	}, nil
}

func resolveOne(ctx *qcontext.T, d queryctx.SourceDescriptor, pattern rdf.Pattern) (Result, error) {
	sctx := queryctx.WithSource(ctx, d)
	if d.Context != nil {
		sctx = qcontext.Merge(sctx, d.Context)
	}
	res, err := QuadPatternMediator.Mediate(sctx, Action{Pattern: pattern})
	if err != nil {
		return Result{}, fmt.Errorf("resolving source %s: %w", descriptorLabel(d), err)
	}
	return res, nil
}

func sumMetadata(fns []rdfstream.MetadataFunc) rdfstream.MetadataFunc {
	return func() rdfstream.Metadata {
		var total int64
		for _, f := range fns {
			m := f()
			if m.TotalItems == rdfstream.TotalItemsUnknown {
				return rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown}
			}
			total += m.TotalItems
		}
		return rdfstream.Metadata{TotalItems: total}
	}
}

func descriptorLabel(d queryctx.SourceDescriptor) string {
	if d.Type != "" {
		return fmt.Sprintf("%s:%s", d.Type, d.Value)
	}
	return d.Value
}
