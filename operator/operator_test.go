package operator_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/join"
	"github.com/vanadium-labs/sparqlkit/operator"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
	"github.com/vanadium-labs/sparqlkit/source"
)

var wireOnce sync.Once

func ensureWired() {
	wireOnce.Do(func() {
		join.RegisterDefaults()
		operator.RegisterDefaults()
		source.RegisterDefaults(source.NewDerefCache(16))
	})
}

// memorySource builds a source descriptor serving quads out of a fixed
// in-memory slice, filtering by whichever positions the caller's
// pattern binds.
func memorySource(quads []rdf.Quad) queryctx.SourceDescriptor {
	return queryctx.SourceDescriptor{
		Type: "rdfjsSource",
		Match: func(s, p, o, g rdf.Term) *rdfstream.QuadStream {
			var matched []rdf.Quad
			for _, q := range quads {
				if matchesPosition(s, q.Subject) && matchesPosition(p, q.Predicate) &&
					matchesPosition(o, q.Object) && matchesPosition(g, q.Graph) {
					matched = append(matched, q)
				}
			}
			meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(matched))})
			return rdfstream.NewQuadStream(rdfstream.FromSlice(matched), meta)
		},
	}
}

func matchesPosition(want, got rdf.Term) bool {
	if want == (rdf.Term{}) {
		return true
	}
	return want.Equal(got)
}

func testContext(t *testing.T, quads []rdf.Quad) *qcontext.T {
	t.Helper()
	ensureWired()
	ctx, cancel := qcontext.Root()
	t.Cleanup(func() { cancel() })
	return queryctx.WithSource(ctx, memorySource(quads))
}

func collectBindings(t *testing.T, s *rdfstream.Stream[bindings.Bindings]) []bindings.Bindings {
	t.Helper()
	rows, err := rdfstream.Collect(s)
	require.NoError(t, err)
	return rows
}

func TestBgpJoinsPatternsAndBindsVariables(t *testing.T) {
	quads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:alice"), Predicate: rdf.NewNamedNode("ex:knows"), Object: rdf.NewNamedNode("ex:bob"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:alice"), Predicate: rdf.NewNamedNode("ex:age"), Object: rdf.NewLiteral("30", rdf.XSDString), Graph: rdf.DefaultGraph},
	}
	ctx := testContext(t, quads)

	node := algebra.Bgp{Patterns: []rdf.Pattern{
		{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:knows"), Object: rdf.NewVariable("friend"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:age"), Object: rdf.NewVariable("age"), Graph: rdf.DefaultGraph},
	}}

	res, err := operator.Resolve(ctx, node)
	require.NoError(t, err)
	rows := collectBindings(t, res.Data)
	require.Len(t, rows, 1)
	s, ok := rows[0].Get("s")
	require.True(t, ok)
	require.Equal(t, "ex:alice", s.Value())
	friend, ok := rows[0].Get("friend")
	require.True(t, ok)
	require.Equal(t, "ex:bob", friend.Value())
}

// TestJoinIsCommutative checks spec.md §8's join-commutativity property:
// Join(A, B) and Join(B, A) produce the same solution set (as sets,
// ignoring order), for a pattern pair joined through the join
// sub-engine either way.
func TestJoinIsCommutative(t *testing.T) {
	quads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:b"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:y"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:q"), Object: rdf.NewNamedNode("ex:z"), Graph: rdf.DefaultGraph},
	}
	ctx := testContext(t, quads)

	left := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewVariable("o1"), Graph: rdf.DefaultGraph}}
	right := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:q"), Object: rdf.NewVariable("o2"), Graph: rdf.DefaultGraph}}

	fwd, err := operator.Resolve(ctx, algebra.Join{Left: left, Right: right})
	require.NoError(t, err)
	rev, err := operator.Resolve(ctx, algebra.Join{Left: right, Right: left})
	require.NoError(t, err)

	fwdRows := collectBindings(t, fwd.Data)
	revRows := collectBindings(t, rev.Data)
	require.Equal(t, len(fwdRows), len(revRows))
	require.ElementsMatch(t, hashKeys(fwdRows), hashKeys(revRows))
}

func hashKeys(rows []bindings.Bindings) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.HashKey()
	}
	return keys
}

// TestDistinctIsIdempotent checks spec.md §8: distinct(distinct(X)) has
// the same solutions as distinct(X).
func TestDistinctIsIdempotent(t *testing.T) {
	quads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:b"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:y"), Graph: rdf.DefaultGraph},
	}
	ctx := testContext(t, quads)
	pattern := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph}}

	once, err := operator.Resolve(ctx, algebra.Distinct{Input: pattern})
	require.NoError(t, err)
	onceRows := collectBindings(t, once.Data)
	require.Len(t, onceRows, 2)

	twice, err := operator.Resolve(ctx, algebra.Distinct{Input: algebra.Distinct{Input: pattern}})
	require.NoError(t, err)
	twiceRows := collectBindings(t, twice.Data)
	require.ElementsMatch(t, hashKeys(onceRows), hashKeys(twiceRows))
}

func TestSliceComposition(t *testing.T) {
	var quads []rdf.Quad
	for i := 0; i < 5; i++ {
		quads = append(quads, rdf.Quad{
			Subject:   rdf.NewNamedNode("ex:s"),
			Predicate: rdf.NewNamedNode("ex:p"),
			Object:    rdf.NewLiteral(string(rune('a'+i)), rdf.XSDString),
			Graph:     rdf.DefaultGraph,
		})
	}
	ctx := testContext(t, quads)
	pattern := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewNamedNode("ex:s"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph}}

	composed, err := operator.Resolve(ctx, algebra.Slice{Input: algebra.Slice{Input: pattern, Start: 1, Length: 3}, Start: 1, Length: 1})
	require.NoError(t, err)
	composedRows := collectBindings(t, composed.Data)
	require.Len(t, composedRows, 1)
}

func TestLeftJoinKeepsUnmatchedLeft(t *testing.T) {
	quads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:b"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:y"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:q"), Object: rdf.NewNamedNode("ex:z"), Graph: rdf.DefaultGraph},
	}
	ctx := testContext(t, quads)
	left := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewVariable("o1"), Graph: rdf.DefaultGraph}}
	right := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:q"), Object: rdf.NewVariable("o2"), Graph: rdf.DefaultGraph}}

	res, err := operator.Resolve(ctx, algebra.LeftJoin{Left: left, Right: right})
	require.NoError(t, err)
	rows := collectBindings(t, res.Data)
	require.Len(t, rows, 2)

	foundUnmatched := false
	for _, r := range rows {
		s, _ := r.Get("s")
		if s.Value() == "ex:b" {
			_, hasO2 := r.Get("o2")
			require.False(t, hasO2)
			foundUnmatched = true
		}
	}
	require.True(t, foundUnmatched)
}

// erroringSource builds a source descriptor where patterns matching
// badPredicate resolve to a stream that emits badQuad once and then
// fails with badErr; every other pattern is served out of goodQuads
// like memorySource.
func erroringSource(goodQuads []rdf.Quad, badPredicate rdf.Term, badQuad rdf.Quad, badErr error) queryctx.SourceDescriptor {
	return queryctx.SourceDescriptor{
		Type: "rdfjsSource",
		Match: func(s, p, o, g rdf.Term) *rdfstream.QuadStream {
			if matchesPosition(p, badPredicate) {
				data := rdfstream.New(func(emit func(rdf.Quad) bool) error {
					emit(badQuad)
					return badErr
				}, nil)
				return rdfstream.NewQuadStream(data, rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: rdfstream.TotalItemsUnknown}))
			}
			var matched []rdf.Quad
			for _, q := range goodQuads {
				if matchesPosition(s, q.Subject) && matchesPosition(p, q.Predicate) &&
					matchesPosition(o, q.Object) && matchesPosition(g, q.Graph) {
					matched = append(matched, q)
				}
			}
			meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(matched))})
			return rdfstream.NewQuadStream(rdfstream.FromSlice(matched), meta)
		},
	}
}

// TestUnionFairlyInterleavesBothOrderings checks spec.md §4.2's Union
// streaming law: branch order is unspecified (spec.md §5), so swapping
// Left and Right must still produce the same solution set.
func TestUnionFairlyInterleavesBothOrderings(t *testing.T) {
	quads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:b"), Predicate: rdf.NewNamedNode("ex:q"), Object: rdf.NewNamedNode("ex:y"), Graph: rdf.DefaultGraph},
	}
	ctx := testContext(t, quads)
	left := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:p"), Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph}}
	right := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:q"), Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph}}

	fwd, err := operator.Resolve(ctx, algebra.Union{Left: left, Right: right})
	require.NoError(t, err)
	fwdRows := collectBindings(t, fwd.Data)

	rev, err := operator.Resolve(ctx, algebra.Union{Left: right, Right: left})
	require.NoError(t, err)
	revRows := collectBindings(t, rev.Data)

	require.Len(t, fwdRows, 2)
	require.ElementsMatch(t, hashKeys(fwdRows), hashKeys(revRows))
}

// TestUnionSurfacesHealthyBranchRegardlessOfErrorOrder checks spec.md
// §8 Scenario 6: unioning a stream whose source errors after 1 quad
// with a healthy 2-quad stream must still surface the healthy
// bindings, however the branches are ordered. A sequential Concat
// would starve the healthy branch whenever the erroring one is Left.
func TestUnionSurfacesHealthyBranchRegardlessOfErrorOrder(t *testing.T) {
	boom := errors.New("boom")
	goodQuads := []rdf.Quad{
		{Subject: rdf.NewNamedNode("ex:a"), Predicate: rdf.NewNamedNode("ex:good"), Object: rdf.NewNamedNode("ex:x"), Graph: rdf.DefaultGraph},
		{Subject: rdf.NewNamedNode("ex:b"), Predicate: rdf.NewNamedNode("ex:good"), Object: rdf.NewNamedNode("ex:y"), Graph: rdf.DefaultGraph},
	}
	badPredicate := rdf.NewNamedNode("ex:bad")
	badQuad := rdf.Quad{Subject: rdf.NewNamedNode("ex:c"), Predicate: badPredicate, Object: rdf.NewNamedNode("ex:z"), Graph: rdf.DefaultGraph}

	good := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: rdf.NewNamedNode("ex:good"), Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph}}
	bad := algebra.PatternNode{Pattern: rdf.Pattern{Subject: rdf.NewVariable("s"), Predicate: badPredicate, Object: rdf.NewVariable("o"), Graph: rdf.DefaultGraph}}

	run := func(t *testing.T, node algebra.Union) {
		ensureWired()
		ctx, cancel := qcontext.Root()
		t.Cleanup(func() { cancel() })
		ctx = queryctx.WithSource(ctx, erroringSource(goodQuads, badPredicate, badQuad, boom))

		res, err := operator.Resolve(ctx, node)
		require.NoError(t, err)
		var rows []bindings.Bindings
		for res.Data.Advance() {
			rows = append(rows, res.Data.Value())
		}
		require.ErrorIs(t, res.Data.Err(), boom)

		foundGood := 0
		for _, r := range rows {
			s, ok := r.Get("s")
			require.True(t, ok)
			if s.Value() == "ex:a" || s.Value() == "ex:b" {
				foundGood++
			}
		}
		require.Equal(t, 2, foundGood)
	}

	t.Run("erroring branch first", func(t *testing.T) {
		run(t, algebra.Union{Left: bad, Right: good})
	})
	t.Run("erroring branch second", func(t *testing.T) {
		run(t, algebra.Union{Left: good, Right: bad})
	})
}
