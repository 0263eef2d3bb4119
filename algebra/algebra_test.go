package algebra_test

import (
	"testing"

	"github.com/vanadium-labs/sparqlkit/algebra"
)

// TestNodeVariantsSatisfyInterface is a compile-time-checking
// regression test: every algebra tree variant must keep implementing
// Node, so a future rename that breaks the marker method fails here
// instead of at some distant call site.
func TestNodeVariantsSatisfyInterface(t *testing.T) {
	variants := []algebra.Node{
		algebra.Project{},
		algebra.Filter{},
		algebra.Join{},
		algebra.LeftJoin{},
		algebra.Union{},
		algebra.Slice{},
		algebra.Distinct{},
		algebra.Reduced{},
		algebra.OrderBy{},
		algebra.Extend{},
		algebra.Group{},
		algebra.Minus{},
		algebra.Values{},
		algebra.Bgp{},
		algebra.PatternNode{},
		algebra.Path{},
		algebra.Construct{},
		algebra.Ask{},
		algebra.Describe{},
		algebra.Service{},
	}
	if len(variants) != 20 {
		t.Fatalf("expected 20 algebra.Node variants, got %d", len(variants))
	}
}
