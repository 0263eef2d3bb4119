package rdf

// Position identifies one of the four quad slots. Pattern resolution
// and the Bgp/Pattern operator map Terms to Bindings keyed by the
// variable found at each position.
type Position uint8

const (
	Subject Position = iota
	Predicate
	Object
	Graph
)

// Quad is a fully ground (subject, predicate, object, graph) tuple.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// Equal reports structural equality between two quads.
func (q Quad) Equal(o Quad) bool {
	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) &&
		q.Object.Equal(o.Object) && q.Graph.Equal(o.Graph)
}

// String renders q for logs and test failures.
func (q Quad) String() string {
	return q.Subject.String() + " " + q.Predicate.String() + " " + q.Object.String() + " " + q.Graph.String()
}

// Pattern is a Quad where any position may hold a variable Term.
type Pattern struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// Positions returns the pattern's four terms in canonical order, for
// code that wants to iterate rather than name each field.
func (p Pattern) Positions() [4]Term {
	return [4]Term{p.Subject, p.Predicate, p.Object, p.Graph}
}

// Variables returns the distinct variable names appearing in p, in
// subject/predicate/object/graph order (first occurrence kept).
func (p Pattern) Variables() []string {
	seen := make(map[string]bool, 4)
	var vars []string
	for _, t := range p.Positions() {
		if t.IsVariable() && !seen[t.Value()] {
			seen[t.Value()] = true
			vars = append(vars, t.Value())
		}
	}
	return vars
}

// Matches reports whether q satisfies p: every ground position of p
// equals the corresponding position of q, and every variable that
// repeats across positions (e.g. ?s ?p ?s) is bound to the same term
// at each occurrence.
func (p Pattern) Matches(q Quad) bool {
	pp, qq := p.Positions(), [4]Term{q.Subject, q.Predicate, q.Object, q.Graph}
	var seenNames [4]string
	var seenTerms [4]Term
	seen := 0
	for i := range pp {
		if !pp[i].IsVariable() {
			if !pp[i].Equal(qq[i]) {
				return false
			}
			continue
		}
		name := pp[i].Value()
		bound := false
		for j := 0; j < seen; j++ {
			if seenNames[j] == name {
				if !seenTerms[j].Equal(qq[i]) {
					return false
				}
				bound = true
				break
			}
		}
		if !bound {
			seenNames[seen] = name
			seenTerms[seen] = qq[i]
			seen++
		}
	}
	return true
}

// String renders p for logs and test failures.
func (p Pattern) String() string {
	return p.Subject.String() + " " + p.Predicate.String() + " " + p.Object.String() + " " + p.Graph.String()
}
