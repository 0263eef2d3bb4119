package operator

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type orderByActor struct{}

func (orderByActor) Name() string { return "operator.orderBy" }

func (orderByActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.OrderBy); !ok {
		return actor.Reject("not an OrderBy node"), nil
	}
	return actor.Pass(0), nil
}

// Run materializes Input and sorts by Comparators in order, ties
// broken by the next comparator — a blocking operator, per spec.md
// §4.2 and §5 ("OrderBy buffers but still yields while sorting").
// String-valued comparators sort under root-locale collation rather
// than raw byte order, matching how a production SPARQL engine orders
// language-tagged text.
func (orderByActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.OrderBy)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	rows, err := rdfstream.Collect(in.Data)
	if err != nil {
		return Result{}, err
	}

	coll := collate.New(language.Und)
	less := func(i, j int) bool {
		for _, c := range n.Comparators {
			cmp := compareByExpr(coll, rows[i], rows[j], c.Expr)
			if cmp == 0 {
				continue
			}
			if c.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	}
	sort.SliceStable(rows, less)

	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(rows))})
	return Result{Data: rdfstream.FromSlice(rows), Vars: in.Vars, Metadata: meta}, nil
}

// compareByExpr evaluates c against both bindings and orders by the
// result; an unbound/erroring side sorts before a bound one, matching
// SPARQL's "unbound sorts lowest" ORDER BY convention.
func compareByExpr(coll *collate.Collator, a, b bindings.Bindings, c expr.Expr) int {
	av, aerr := expr.Eval(a, c)
	bv, berr := expr.Eval(b, c)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}
	return compareTermsForSort(coll, av, bv)
}

func compareTermsForSort(coll *collate.Collator, a, b rdf.Term) int {
	if a.Kind() == rdf.KindLiteral && b.Kind() == rdf.KindLiteral {
		return coll.CompareString(a.Value(), b.Value())
	}
	return coll.CompareString(a.String(), b.String())
}
