package query_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/query"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

var (
	wireOnce sync.Once
	wiredCtx *qcontext.T
)

// wiredRoot wires every bus exactly once for this test binary —
// query.Wire registers actors, and Register panics if called again
// after a bus has already served a Publish call (spec.md §5: buses
// are immutable once live).
func wiredRoot() *qcontext.T {
	wireOnce.Do(func() {
		wiredCtx = query.Wire(query.EngineOptions{})
	})
	return wiredCtx
}

func memorySource(quads []rdf.Quad) queryctx.SourceDescriptor {
	return queryctx.SourceDescriptor{
		Type: "rdfjsSource",
		Match: func(s, p, o, g rdf.Term) *rdfstream.QuadStream {
			var matched []rdf.Quad
			for _, q := range quads {
				if (s == rdf.Term{} || s.Equal(q.Subject)) && (p == rdf.Term{} || p.Equal(q.Predicate)) {
					matched = append(matched, q)
				}
			}
			return rdfstream.NewQuadStream(rdfstream.FromSlice(matched), rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(matched))}))
		},
	}
}

func TestRunEvaluatesBgpAndRendersJSON(t *testing.T) {
	ctx := wiredRoot()
	quads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:name"), Object: rdf.NewLiteral("Alice", rdf.XSDString), Graph: rdf.DefaultGraph},
	}
	ctx = queryctx.WithSource(ctx, memorySource(quads))

	node := algebra.Bgp{Patterns: []rdf.Pattern{
		{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:name"), Object: rdf.NewVariable("name"), Graph: rdf.DefaultGraph},
	}}
	res, err := query.Run(ctx, query.Request{Algebra: node, MediaType: "application/sparql-results+json"})
	require.NoError(t, err)
	require.Contains(t, string(res.Bytes), "Alice")
}

func TestRunNilAlgebraIsInvariantViolation(t *testing.T) {
	ctx := wiredRoot()
	_, err := query.Run(ctx, query.Request{})
	require.Error(t, err)
}

func TestRunDefaultsMediaType(t *testing.T) {
	ctx := wiredRoot()
	ctx = queryctx.WithSource(ctx, memorySource(nil))

	res, err := query.Run(ctx, query.Request{Algebra: algebra.Bgp{Patterns: nil}})
	require.NoError(t, err)
	require.Contains(t, string(res.Bytes), "head")
}

// TestRunHonorsTimeout checks spec.md §5's "Timeouts": a source that
// never finishes producing (an unbounded generator) is cut off once
// req.Timeout elapses, rather than the call hanging forever. The
// generator keeps emitting so it stays inside the emit/done
// cancellation path Stream.Destroy relies on, instead of blocking on
// something the stream substrate can't observe.
func TestRunHonorsTimeout(t *testing.T) {
	ctx := wiredRoot()
	blockingQuads := rdfstream.New(func(emit func(rdf.Quad) bool) error {
		q := rdf.Quad{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph}
		for {
			if !emit(q) {
				return nil
			}
		}
	}, nil)
	ctx = queryctx.WithSource(ctx, queryctx.SourceDescriptor{
		Type: "rdfjsSource",
		Match: func(s, p, o, g rdf.Term) *rdfstream.QuadStream {
			return rdfstream.NewQuadStream(blockingQuads, rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown}))
		},
	})

	node := algebra.Bgp{Patterns: []rdf.Pattern{
		{Subject: rdf.NewVariable("s"), Predicate: rdf.NewVariable("p"), Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph},
	}}
	done := make(chan error, 1)
	go func() {
		_, err := query.Run(ctx, query.Request{Algebra: node, Timeout: 20 * time.Millisecond})
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err, "timed-out evaluation should surface an error, not a partial success")
	case <-time.After(5 * time.Second):
		t.Fatal("query.Run did not honor req.Timeout and hung past its deadline")
	}
}
