package expr

import (
	"strconv"

	"github.com/vanadium-labs/sparqlkit/rdf"
)

const xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"

var numericDatatypes = map[string]bool{
	"http://www.w3.org/2001/XMLSchema#integer": true,
	"http://www.w3.org/2001/XMLSchema#decimal": true,
	"http://www.w3.org/2001/XMLSchema#float":   true,
	"http://www.w3.org/2001/XMLSchema#double":  true,
	"http://www.w3.org/2001/XMLSchema#int":     true,
	"http://www.w3.org/2001/XMLSchema#long":    true,
}

func isNumeric(t rdf.Term) bool {
	return t.Kind() == rdf.KindLiteral && numericDatatypes[t.Datatype()]
}

func numericValue(t rdf.Term) (float64, error) {
	f, err := strconv.ParseFloat(t.Value(), 64)
	if err != nil {
		return 0, typeError("%q is not a valid numeric literal", t.Value())
	}
	return f, nil
}

// termEquals implements SPARQL term equality for '=' and '!=': RDF
// term equality for IRIs/blank nodes, value equality for literals
// (numeric literals compare by value; plain/lang-tagged literals
// compare lexically with matching language tag).
func termEquals(a, b rdf.Term) (bool, error) {
	if a.Kind() != b.Kind() {
		if isNumeric(a) && isNumeric(b) {
			return numericEqual(a, b)
		}
		return false, typeError("cannot compare %s and %s of different kinds", a, b)
	}
	switch a.Kind() {
	case rdf.KindNamedNode, rdf.KindBlankNode, rdf.KindDefaultGraph:
		return a.Equal(b), nil
	case rdf.KindVariable:
		return false, typeError("cannot compare unresolved variables")
	case rdf.KindLiteral:
		if isNumeric(a) && isNumeric(b) {
			return numericEqual(a, b)
		}
		if a.Datatype() == xsdBoolean && b.Datatype() == xsdBoolean {
			return a.Value() == b.Value(), nil
		}
		if a.Datatype() != b.Datatype() || a.Lang() != b.Lang() {
			return false, typeError("cannot compare literals of different datatype/language: %s vs %s", a, b)
		}
		return a.Value() == b.Value(), nil
	}
	return false, typeError("unreachable")
}

func numericEqual(a, b rdf.Term) (bool, error) {
	av, err := numericValue(a)
	if err != nil {
		return false, err
	}
	bv, err := numericValue(b)
	if err != nil {
		return false, err
	}
	return av == bv, nil
}

// compareTerms implements SPARQL's ordering comparisons. Only numeric
// literals, plain strings, and xsd:boolean are ordered; everything
// else is a type error.
func compareTerms(a, b rdf.Term, op string) (rdf.Term, error) {
	var cmp int
	switch {
	case isNumeric(a) && isNumeric(b):
		av, err := numericValue(a)
		if err != nil {
			return rdf.Term{}, err
		}
		bv, err := numericValue(b)
		if err != nil {
			return rdf.Term{}, err
		}
		cmp = floatCompare(av, bv)
	case a.Kind() == rdf.KindLiteral && b.Kind() == rdf.KindLiteral &&
		(a.Datatype() == rdf.XSDString || a.Datatype() == "") &&
		(b.Datatype() == rdf.XSDString || b.Datatype() == ""):
		cmp = stringCompare(a.Value(), b.Value())
	default:
		return rdf.Term{}, typeError("%s and %s are not order-comparable", a, b)
	}
	switch op {
	case "<":
		return boolTerm(cmp < 0), nil
	case "<=":
		return boolTerm(cmp <= 0), nil
	case ">":
		return boolTerm(cmp > 0), nil
	case ">=":
		return boolTerm(cmp >= 0), nil
	default:
		return rdf.Term{}, typeError("unknown comparison operator %q", op)
	}
}

func floatCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func arithmetic(a, b rdf.Term, op string) (rdf.Term, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return rdf.Term{}, typeError("arithmetic operator %q requires numeric operands, got %s and %s", op, a, b)
	}
	av, err := numericValue(a)
	if err != nil {
		return rdf.Term{}, err
	}
	bv, err := numericValue(b)
	if err != nil {
		return rdf.Term{}, err
	}
	var result float64
	switch op {
	case "+":
		result = av + bv
	case "-":
		result = av - bv
	case "*":
		result = av * bv
	case "/":
		if bv == 0 {
			return rdf.Term{}, typeError("division by zero")
		}
		result = av / bv
	default:
		return rdf.Term{}, typeError("unknown arithmetic operator %q", op)
	}
	dt := resultDatatype(a, b)
	return rdf.NewLiteral(formatNumeric(result, dt), dt), nil
}

func resultDatatype(a, b rdf.Term) string {
	if a.Datatype() == "http://www.w3.org/2001/XMLSchema#double" || b.Datatype() == "http://www.w3.org/2001/XMLSchema#double" {
		return "http://www.w3.org/2001/XMLSchema#double"
	}
	if a.Datatype() == "http://www.w3.org/2001/XMLSchema#decimal" || b.Datatype() == "http://www.w3.org/2001/XMLSchema#decimal" {
		return "http://www.w3.org/2001/XMLSchema#decimal"
	}
	if a.Datatype() == "http://www.w3.org/2001/XMLSchema#integer" && b.Datatype() == "http://www.w3.org/2001/XMLSchema#integer" {
		return "http://www.w3.org/2001/XMLSchema#integer"
	}
	return "http://www.w3.org/2001/XMLSchema#decimal"
}

func formatNumeric(f float64, datatype string) string {
	if datatype == "http://www.w3.org/2001/XMLSchema#integer" {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func negateNumeric(t rdf.Term) (rdf.Term, error) {
	if !isNumeric(t) {
		return rdf.Term{}, typeError("unary - on non-numeric term %s", t)
	}
	v, err := numericValue(t)
	if err != nil {
		return rdf.Term{}, err
	}
	return rdf.NewLiteral(formatNumeric(-v, t.Datatype()), t.Datatype()), nil
}
