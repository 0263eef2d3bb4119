// Package path implements the SPARQL property-path expression types
// and the breadth-first expansion engine of spec.md §4.4. Path
// evaluation lowers to recursive quad-pattern resolutions plus a
// visited-set-guarded frontier walk for the unbounded forms
// (ZeroOrMore, OneOrMore).
package path

// Path is the tagged variant over property-path forms.
type Path interface {
	isPath()
}

// Link is a single predicate IRI.
type Link struct{ IRI string }

// Inv evaluates Operand with its subject/object endpoints swapped.
type Inv struct{ Operand Path }

// Seq evaluates Left then Right through a fresh intermediate variable.
type Seq struct{ Left, Right Path }

// Alt evaluates Left and Right and unions their results.
type Alt struct{ Left, Right Path }

// ZeroOrMore is the reflexive-transitive closure of Operand.
type ZeroOrMore struct{ Operand Path }

// OneOrMore is the transitive closure of Operand.
type OneOrMore struct{ Operand Path }

// ZeroOrOne is the union of the identity path and one step of Operand.
type ZeroOrOne struct{ Operand Path }

// NPS ("negated property set") matches any predicate not in IRIs.
type NPS struct{ IRIs []string }

func (Link) isPath()       {}
func (Inv) isPath()        {}
func (Seq) isPath()        {}
func (Alt) isPath()        {}
func (ZeroOrMore) isPath() {}
func (OneOrMore) isPath()  {}
func (ZeroOrOne) isPath()  {}
func (NPS) isPath()        {}
