// Package query implements the init actor of spec.md §4.6: the single
// entry point that takes an already-parsed algebra tree plus a query
// context, mediates it through the query-operation bus, and hands the
// resulting bindings stream to the serialization bus by requested
// media type. Parsing SPARQL query text into an algebra.Node is an
// external collaborator per spec.md §1; this package only consumes the
// result.
package query

import (
	"time"

	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
	"github.com/vanadium-labs/sparqlkit/operator"
	"github.com/vanadium-labs/sparqlkit/serialize"
)

// Request is what the init actor accepts: an algebra tree, the
// requested output media type, and an optional deadline.
type Request struct {
	Algebra   algebra.Node
	MediaType string
	Timeout   time.Duration // zero means no deadline
}

// Run evaluates req.Algebra against ctx's attached sources and renders
// the result as req.MediaType, enforcing req.Timeout by destroying the
// root stream when it elapses (spec.md §5 "Timeouts").
func Run(ctx *qcontext.T, req Request) (serialize.Result, error) {
	if req.Algebra == nil {
		return serialize.Result{}, qerror.ErrInvariantViolation.Errorf(ctx, "init actor: nil algebra tree")
	}

	runCtx := ctx
	var cancel qcontext.CancelFunc
	if req.Timeout > 0 {
		runCtx, cancel = qcontext.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	res, err := operator.Resolve(runCtx, req.Algebra)
	if err != nil {
		return serialize.Result{}, err
	}

	// Enforce req.Timeout by destroying the root stream the moment
	// runCtx's deadline fires, per qcontext.WithDeadline's documented
	// contract: a consumer still iterating observes ErrCancelled rather
	// than hanging on a producer that never checks the deadline itself.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-runCtx.Done():
			res.Data.Destroy()
		case <-watchDone:
		}
	}()

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "application/sparql-results+json"
	}
	return serialize.Render(runCtx, res.Data, res.Vars, mediaType)
}
