package expr

import (
	"math"

	"github.com/vanadium-labs/sparqlkit/rdf"
)

// EffectiveBooleanValue implements SPARQL's EBV coercion: booleans
// pass through, numeric literals are false iff zero or NaN, plain/
// lang-tagged strings are false iff empty, and anything else (IRIs,
// blank nodes, typed literals outside the above) is a type error.
func EffectiveBooleanValue(t rdf.Term) (bool, error) {
	if t.Kind() != rdf.KindLiteral {
		return false, typeError("%s has no effective boolean value", t)
	}
	switch t.Datatype() {
	case xsdBoolean:
		return t.Value() == "true" || t.Value() == "1", nil
	case rdf.XSDString, "":
		return t.Value() != "", nil
	}
	if numericDatatypes[t.Datatype()] {
		f, err := numericValue(t)
		if err != nil {
			return false, err
		}
		return f != 0 && !math.IsNaN(f), nil
	}
	if t.Lang() != "" {
		return t.Value() != "", nil
	}
	return false, typeError("literal %s has no effective boolean value", t)
}
