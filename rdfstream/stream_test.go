package rdfstream_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

func ints(n int) *rdfstream.Stream[int] {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return rdfstream.FromSlice(items)
}

func TestTakeSkip(t *testing.T) {
	s := rdfstream.Skip(rdfstream.Take(ints(4), 3), 1)
	got, err := rdfstream.Collect(s)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, got)
}

func TestMapFilter(t *testing.T) {
	s := rdfstream.Filter(rdfstream.Map(ints(5), func(i int) int { return i * 2 }), func(i int) bool { return i > 4 })
	got, err := rdfstream.Collect(s)
	require.NoError(t, err)
	require.Equal(t, []int{6, 8}, got)
}

func TestConcat(t *testing.T) {
	s := rdfstream.Concat(ints(2), ints(2))
	got, err := rdfstream.Collect(s)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 0, 1}, got)
}

func TestErrorPropagation(t *testing.T) {
	boom := errors.New("boom")
	s := rdfstream.New(func(emit func(int) bool) error {
		emit(1)
		return boom
	}, func() {})
	got, err := rdfstream.Collect(s)
	require.Equal(t, []int{1}, got)
	require.ErrorIs(t, err, boom)
}

func TestDestroyCascades(t *testing.T) {
	var childDestroyed bool
	child := rdfstream.New(func(emit func(int) bool) error {
		for i := 0; i < 1000; i++ {
			if !emit(i) {
				return nil
			}
		}
		return nil
	}, func() { childDestroyed = true })

	parent := rdfstream.Map(child, func(i int) int { return i })
	require.True(t, parent.Advance())
	parent.Destroy()
	require.True(t, childDestroyed)
	require.False(t, parent.Advance())
	require.ErrorIs(t, parent.Err(), rdfstream.ErrCancelled)
}
