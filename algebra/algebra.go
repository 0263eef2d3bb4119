// Package algebra defines the SPARQL 1.1 algebra tree of spec.md §3:
// a tagged variant with one Go type per node, each carrying its
// children and operator-specific parameters. A pre-built tree of these
// types is the init actor's input (spec.md §6 "algebra input") — query
// text parsing is an external collaborator, out of this package's
// scope.
package algebra

import (
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/path"
	"github.com/vanadium-labs/sparqlkit/rdf"
)

// Node is the tagged variant every algebra node implements.
type Node interface {
	isNode()
}

// Project restricts each solution to Vars, in the given order.
type Project struct {
	Input Node
	Vars  []string
}

// Filter drops solutions for which Expr's effective boolean value is
// false or errors.
type Filter struct {
	Input Node
	Expr  expr.Expr
}

// Join evaluates Left and Right in parallel and delegates pairing to
// the join sub-engine (spec.md §4.3).
type Join struct {
	Left, Right Node
}

// LeftJoin is Join plus an optional Expr restricting which right-hand
// solutions may pair; left solutions with no compatible right survive
// unchanged.
type LeftJoin struct {
	Left, Right Node
	Expr        expr.Expr // nil means no extra filter
}

// Union interleaves Left and Right, unioning their variable sets.
type Union struct {
	Left, Right Node
}

// Slice drops the first Start solutions and takes at most Length
// (Length < 0 means unbounded).
type Slice struct {
	Input  Node
	Start  int64
	Length int64
}

// Distinct hash-dedups Input by its full solution.
type Distinct struct {
	Input Node
}

// Reduced is Distinct's permissive sibling: implementations may drop
// duplicates but are not required to guarantee full deduplication. We
// apply the same hash-dedup as Distinct, which is a conforming
// (stricter-than-required) implementation.
type Reduced struct {
	Input Node
}

// OrderComparator is one OrderBy sort key: Expr ascending unless
// Descending is set.
type OrderComparator struct {
	Expr       expr.Expr
	Descending bool
}

// OrderBy materializes Input and sorts by Comparators in order,
// blocking per spec.md §4.2.
type OrderBy struct {
	Input       Node
	Comparators []OrderComparator
}

// Extend binds Expr's value to Var in every solution (unbound, not
// dropped, on evaluation error).
type Extend struct {
	Input Node
	Var   string
	Expr  expr.Expr
}

// Aggregate is one Group projection: Func("COUNT","SUM","AVG","MIN",
// "MAX","SAMPLE","GROUP_CONCAT") applied to Expr (nil Expr + "COUNT"
// means COUNT(*)), bound to As.
type Aggregate struct {
	Func     string
	Expr     expr.Expr
	Distinct bool
	As       string
}

// Group groups Input by GroupVars (empty means one implicit group)
// and emits one solution per group carrying GroupVars plus each
// Aggregate's As binding.
type Group struct {
	Input      Node
	GroupVars  []string
	Aggregates []Aggregate
}

// Minus emits Left solutions with no compatible Right solution sharing
// at least one variable; Right solutions sharing no variable with a
// Left solution never exclude it, per SPARQL MINUS semantics.
type Minus struct {
	Left, Right Node
}

// Values is a finite, ground table of solutions.
type Values struct {
	Vars []string
	Rows []bindings.Bindings
}

// Bgp is a basic graph pattern: a conjunction of quad patterns,
// resolved against the quad-pattern bus and joined.
type Bgp struct {
	Patterns []rdf.Pattern
}

// PatternNode is a single quad pattern resolved directly (the leaf
// Bgp lowers to, or a node used standalone inside a Path endpoint
// resolution).
type PatternNode struct {
	Pattern rdf.Pattern
}

// Path evaluates a property-path expression between Subject and
// Object, optionally scoped to Graph, delegating to the property-path
// sub-engine (spec.md §4.4).
type Path struct {
	Subject rdf.Term
	Path    path.Path
	Object  rdf.Term
	Graph   rdf.Term
}

// Construct produces an RDF graph (as one binding per instantiated
// quad, over the fixed variables subject, predicate, object and graph)
// from Input solutions applied to Template quad patterns.
type Construct struct {
	Input    Node
	Template []rdf.Pattern
}

// Ask reduces Input to a single boolean: true iff at least one
// solution exists.
type Ask struct {
	Input Node
}

// Describe resolves a describe target (ground term or, if Var is set,
// every binding of Var across Input) to its describing quads. Input
// may be nil when Term is a ground describe target with no WHERE
// clause.
type Describe struct {
	Input Node
	Var   string
	Term  rdf.Term
}

// Service delegates Input's evaluation to a remote SPARQL endpoint at
// Endpoint (spec.md §3's "sparql" source family), optionally tolerating
// failure (Silent).
type Service struct {
	Endpoint string
	Input    Node
	Silent   bool
}

func (Project) isNode()     {}
func (Filter) isNode()      {}
func (Join) isNode()        {}
func (LeftJoin) isNode()    {}
func (Union) isNode()       {}
func (Slice) isNode()       {}
func (Distinct) isNode()    {}
func (Reduced) isNode()     {}
func (OrderBy) isNode()     {}
func (Extend) isNode()      {}
func (Group) isNode()       {}
func (Minus) isNode()       {}
func (Values) isNode()      {}
func (Bgp) isNode()         {}
func (PatternNode) isNode() {}
func (Path) isNode()        {}
func (Construct) isNode()   {}
func (Ask) isNode()         {}
func (Describe) isNode()    {}
func (Service) isNode()     {}
