package join_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/join"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

var wireOnce sync.Once

func ensureWired() {
	wireOnce.Do(join.RegisterDefaults)
}

func row(pairs ...string) bindings.Bindings {
	b := bindings.Empty
	for i := 0; i+1 < len(pairs); i += 2 {
		b = b.Set(pairs[i], rdf.NewNamedNode(pairs[i+1]))
	}
	return b
}

func entry(vars []string, rows []bindings.Bindings) join.Entry {
	return join.Entry{
		Data:     rdfstream.FromSlice(rows),
		Vars:     vars,
		Metadata: rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(rows))}),
	}
}

func collect(t *testing.T, res join.Result) []bindings.Bindings {
	t.Helper()
	rows, err := rdfstream.Collect(res.Data)
	require.NoError(t, err)
	return rows
}

func hashKeys(rows []bindings.Bindings) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.HashKey()
	}
	return keys
}

func TestJoinEmptyEntriesIsIdentity(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	res, err := join.Join(ctx, nil)
	require.NoError(t, err)
	rows := collect(t, res)
	require.Empty(t, rows)
	require.Nil(t, res.Vars)
}

func TestJoinSingleEntryPassesThrough(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	only := entry([]string{"s"}, []bindings.Bindings{row("s", "ex:a")})
	res, err := join.Join(ctx, []join.Entry{only})
	require.NoError(t, err)
	rows := collect(t, res)
	require.Len(t, rows, 1)
	v, ok := rows[0].Get("s")
	require.True(t, ok)
	require.Equal(t, "ex:a", v.Value())
}

func TestJoinTwoEntriesMergesOnSharedVariable(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	left := entry([]string{"s", "o1"}, []bindings.Bindings{
		row("s", "ex:a", "o1", "ex:x"),
		row("s", "ex:b", "o1", "ex:y"),
	})
	right := entry([]string{"s", "o2"}, []bindings.Bindings{
		row("s", "ex:a", "o2", "ex:z"),
	})

	res, err := join.Join(ctx, []join.Entry{left, right})
	require.NoError(t, err)
	rows := collect(t, res)
	require.Len(t, rows, 1)
	s, _ := rows[0].Get("s")
	o1, _ := rows[0].Get("o1")
	o2, _ := rows[0].Get("o2")
	require.Equal(t, "ex:a", s.Value())
	require.Equal(t, "ex:x", o1.Value())
	require.Equal(t, "ex:z", o2.Value())
}

// TestJoinIsCommutative checks spec.md §8: joining A,B and B,A yields
// the same solution set regardless of which side the mediator picks as
// the hash-build side.
func TestJoinIsCommutative(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	leftRows := []bindings.Bindings{
		row("s", "ex:a", "o1", "ex:x"),
		row("s", "ex:b", "o1", "ex:y"),
		row("s", "ex:c", "o1", "ex:w"),
	}
	rightRows := []bindings.Bindings{
		row("s", "ex:a", "o2", "ex:z"),
		row("s", "ex:b", "o2", "ex:q"),
	}
	// Entry streams are single-consumption, so each join gets its own
	// entries over the same rows.
	left := func() join.Entry { return entry([]string{"s", "o1"}, leftRows) }
	right := func() join.Entry { return entry([]string{"s", "o2"}, rightRows) }

	fwd, err := join.Join(ctx, []join.Entry{left(), right()})
	require.NoError(t, err)
	rev, err := join.Join(ctx, []join.Entry{right(), left()})
	require.NoError(t, err)

	fwdRows := collect(t, fwd)
	revRows := collect(t, rev)
	require.ElementsMatch(t, hashKeys(fwdRows), hashKeys(revRows))
}

// TestJoinMultiWayFoldsThreeEntries exercises the multi-way actor's
// ascending-size reordering and pairwise left-fold.
func TestJoinMultiWayFoldsThreeEntries(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	a := entry([]string{"s"}, []bindings.Bindings{
		row("s", "ex:a"), row("s", "ex:b"), row("s", "ex:c"),
	})
	b := entry([]string{"s", "p"}, []bindings.Bindings{
		row("s", "ex:a", "p", "ex:p1"),
	})
	c := entry([]string{"s", "q"}, []bindings.Bindings{
		row("s", "ex:a", "q", "ex:q1"),
		row("s", "ex:b", "q", "ex:q2"),
	})

	res, err := join.Join(ctx, []join.Entry{a, b, c})
	require.NoError(t, err)
	rows := collect(t, res)
	require.Len(t, rows, 1)
	s, _ := rows[0].Get("s")
	p, _ := rows[0].Get("p")
	q, _ := rows[0].Get("q")
	require.Equal(t, "ex:a", s.Value())
	require.Equal(t, "ex:p1", p.Value())
	require.Equal(t, "ex:q1", q.Value())
}

// TestJoinMultiWayProducesExpectedVariableSet uses cmp rather than
// require.ElementsMatch so a mismatch reports which variable is
// missing or extra, not just "not equal" on the whole slice.
func TestJoinMultiWayProducesExpectedVariableSet(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	a := entry([]string{"s"}, []bindings.Bindings{row("s", "ex:a")})
	b := entry([]string{"s", "p"}, []bindings.Bindings{row("s", "ex:a", "p", "ex:p1")})
	c := entry([]string{"s", "q"}, []bindings.Bindings{row("s", "ex:a", "q", "ex:q1")})

	res, err := join.Join(ctx, []join.Entry{a, b, c})
	require.NoError(t, err)

	got := append([]string(nil), res.Vars...)
	sort.Strings(got)
	want := []string{"p", "q", "s"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("join result variable set mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinNoSharedVariablesIsCartesianProduct(t *testing.T) {
	ensureWired()
	ctx, cancel := qcontext.Root()
	defer cancel()

	left := entry([]string{"s"}, []bindings.Bindings{row("s", "ex:a"), row("s", "ex:b")})
	right := entry([]string{"o"}, []bindings.Bindings{row("o", "ex:x"), row("o", "ex:y")})

	res, err := join.Join(ctx, []join.Entry{left, right})
	require.NoError(t, err)
	rows := collect(t, res)
	require.Len(t, rows, 4)
}
