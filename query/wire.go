package query

import (
	"github.com/vanadium-labs/sparqlkit/internal/logging"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/join"
	"github.com/vanadium-labs/sparqlkit/operator"
	"github.com/vanadium-labs/sparqlkit/serialize"
	"github.com/vanadium-labs/sparqlkit/source"
)

// EngineOptions configures engine-wide wiring (spec.md's configuration
// ambient concern, §1: loading EngineOptions from flags/env/file is an
// external collaborator; this struct is the consumed result).
type EngineOptions struct {
	// DerefCacheCapacity bounds the dereference cache's LRU size
	// (spec.md §4.5 step 6). Zero uses a small sane default.
	DerefCacheCapacity int
	// Logger receives the mediators' dispatch-decision logging (at
	// V(1)). Nil uses logging.Discard.
	Logger logging.Logger
}

// Wire registers every built-in actor on every bus exactly once and
// returns a root context carrying opts.Logger. Call this once at
// process startup before evaluating any query.
func Wire(opts EngineOptions) *qcontext.T {
	capacity := opts.DerefCacheCapacity
	if capacity <= 0 {
		capacity = 256
	}
	cache := source.NewDerefCache(capacity)

	source.RegisterDefaults(cache)
	join.RegisterDefaults()
	operator.RegisterDefaults()
	serialize.RegisterDefaults()

	ctx, _ := qcontext.Root()
	if opts.Logger != nil {
		ctx = qcontext.WithLogger(ctx, opts.Logger)
	}
	return ctx
}
