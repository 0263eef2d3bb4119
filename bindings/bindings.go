// Package bindings implements the SPARQL solution mapping: an
// immutable map from variable name to rdf.Term, per spec.md §3. Every
// mutating method returns a new value; the receiver is never modified.
package bindings

import (
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/vanadium-labs/sparqlkit/rdf"
)

// Bindings is a solution mapping. The zero value is a valid empty
// mapping. Backed by an insertion-ordered map so that callers which
// care about binding order (projection, serialization) see it, even
// though Bindings itself has no ordering requirement beyond what its
// variables list (see Vars) exposes.
type Bindings struct {
	m *orderedmap.OrderedMap[string, rdf.Term]
}

// Empty is the canonical empty Bindings, equivalent to the zero value.
var Empty = Bindings{}

func (b Bindings) om() *orderedmap.OrderedMap[string, rdf.Term] {
	if b.m == nil {
		return orderedmap.New[string, rdf.Term]()
	}
	return b.m
}

// Get returns the term bound to name and whether it was present.
func (b Bindings) Get(name string) (rdf.Term, bool) {
	if b.m == nil {
		return rdf.Term{}, false
	}
	return b.m.Get(name)
}

// Has reports whether name is bound.
func (b Bindings) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Len returns the number of bound variables.
func (b Bindings) Len() int {
	if b.m == nil {
		return 0
	}
	return b.m.Len()
}

// Set returns a new Bindings with name bound to term, leaving the
// receiver unmodified. If name is already bound its insertion position
// is preserved and the value is overwritten.
func (b Bindings) Set(name string, term rdf.Term) Bindings {
	nm := orderedmap.New[string, rdf.Term](b.Len() + 1)
	for pair := b.om().Oldest(); pair != nil; pair = pair.Next() {
		nm.Set(pair.Key, pair.Value)
	}
	nm.Set(name, term)
	return Bindings{m: nm}
}

// Unset returns a new Bindings with name removed, used by the
// property-path engine to strip generated intermediate variables
// before they reach a final variables list (spec.md §4.4, the
// "variable hygiene" property in §8).
func (b Bindings) Unset(name string) Bindings {
	if !b.Has(name) {
		return b
	}
	nm := orderedmap.New[string, rdf.Term](b.Len())
	for pair := b.om().Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != name {
			nm.Set(pair.Key, pair.Value)
		}
	}
	return Bindings{m: nm}
}

// Vars returns the bound variable names in insertion order.
func (b Bindings) Vars() []string {
	vars := make([]string, 0, b.Len())
	for pair := b.om().Oldest(); pair != nil; pair = pair.Next() {
		vars = append(vars, pair.Key)
	}
	return vars
}

// Compatible reports whether b and o agree on every variable they
// share, per spec.md §3: "two bindings are compatible iff for every
// variable in both, their Terms are equal."
func (b Bindings) Compatible(o Bindings) bool {
	small, big := b, o
	if small.Len() > big.Len() {
		small, big = big, small
	}
	for pair := small.om().Oldest(); pair != nil; pair = pair.Next() {
		if ov, ok := big.Get(pair.Key); ok && !ov.Equal(pair.Value) {
			return false
		}
	}
	return true
}

// Merge returns the union of b and o and true if they are compatible;
// otherwise it returns the zero Bindings and false ("no join"), per
// spec.md §3.
func (b Bindings) Merge(o Bindings) (Bindings, bool) {
	if !b.Compatible(o) {
		return Bindings{}, false
	}
	result := b
	for pair := o.om().Oldest(); pair != nil; pair = pair.Next() {
		result = result.Set(pair.Key, pair.Value)
	}
	return result, true
}

// Project returns a new Bindings containing only the named variables,
// in the order given (vars not present in b are simply absent from
// the result, not bound to anything).
func (b Bindings) Project(vars []string) Bindings {
	result := Bindings{}
	for _, v := range vars {
		if t, ok := b.Get(v); ok {
			result = result.Set(v, t)
		}
	}
	return result
}

// Equal reports whether b and o bind exactly the same variables to
// exactly the same terms (order-independent).
func (b Bindings) Equal(o Bindings) bool {
	if b.Len() != o.Len() {
		return false
	}
	for pair := b.om().Oldest(); pair != nil; pair = pair.Next() {
		ov, ok := o.Get(pair.Key)
		if !ok || !ov.Equal(pair.Value) {
			return false
		}
	}
	return true
}

// HashKey returns a canonical, order-independent string
// representation of b, used as the hash key for Distinct's hash-dedup
// set and the symmetric-hash join's probe tables (spec.md §4.2, §4.3).
func (b Bindings) HashKey() string {
	vars := b.Vars()
	sort.Strings(vars)
	var sb strings.Builder
	for _, v := range vars {
		t, _ := b.Get(v)
		sb.WriteString(v)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(int(t.Kind())))
		sb.WriteByte(0)
		sb.WriteString(t.Value())
		sb.WriteByte(0)
		sb.WriteString(t.Datatype())
		sb.WriteByte(0)
		sb.WriteString(t.Lang())
		sb.WriteByte(1)
	}
	return sb.String()
}

// KeyProjection returns the HashKey of b restricted to vars, the
// canonical join-key used to bucket entries by shared variables
// before probing, per spec.md §4.3.
func (b Bindings) KeyProjection(vars []string) string {
	return b.Project(vars).HashKey()
}
