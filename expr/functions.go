package expr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vanadium-labs/sparqlkit/rdf"
)

// builtinFunc is a registered SPARQL built-in: args have already been
// evaluated to Terms (unlike BOUND/IF/COALESCE, which need the raw
// Expr and are special-cased in evalCall).
type builtinFunc func(args []rdf.Term) (rdf.Term, error)

// Functions is the registry of evaluated-argument SPARQL built-ins,
// keyed by the function's SPARQL-spec name. Mirrors the teacher's
// query-function registry: a flat map from name to implementation,
// looked up once per Call node.
var Functions = map[string]builtinFunc{
	"STR":      strFunc,
	"LANG":     langFunc,
	"DATATYPE": datatypeFunc,
	"STRLEN":   strlenFunc,
	"UCASE":    ucaseFunc,
	"LCASE":    lcaseFunc,
	"CONTAINS": containsFunc,
	"STRSTARTS": strStartsFunc,
	"STRENDS":   strEndsFunc,
	"CONCAT":    concatFunc,
	"REGEX":     regexFunc,
	"ABS":       absFunc,
	"ROUND":     roundFunc,
	"ISIRI":     isIRIFunc,
	"ISURI":     isIRIFunc,
	"ISBLANK":   isBlankFunc,
	"ISLITERAL": isLiteralFunc,
	"ISNUMERIC": isNumericFunc,
}

func requireArgs(name string, args []rdf.Term, n int) error {
	if len(args) != n {
		return typeError("%s takes exactly %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func lexicalForm(t rdf.Term) string {
	switch t.Kind() {
	case rdf.KindNamedNode:
		return t.Value()
	case rdf.KindLiteral:
		return t.Value()
	default:
		return t.Value()
	}
}

func strFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("STR", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return rdf.NewLiteral(lexicalForm(args[0]), ""), nil
}

func langFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("LANG", args, 1); err != nil {
		return rdf.Term{}, err
	}
	if args[0].Kind() != rdf.KindLiteral {
		return rdf.Term{}, typeError("LANG requires a literal argument")
	}
	return rdf.NewLiteral(args[0].Lang(), ""), nil
}

func datatypeFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("DATATYPE", args, 1); err != nil {
		return rdf.Term{}, err
	}
	if args[0].Kind() != rdf.KindLiteral {
		return rdf.Term{}, typeError("DATATYPE requires a literal argument")
	}
	dt := args[0].Datatype()
	if dt == "" {
		dt = rdf.XSDString
	}
	return rdf.NewNamedNode(dt), nil
}

func strlenFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("STRLEN", args, 1); err != nil {
		return rdf.Term{}, err
	}
	n := len([]rune(args[0].Value()))
	return rdf.NewLiteral(strconv.Itoa(n), "http://www.w3.org/2001/XMLSchema#integer"), nil
}

func ucaseFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("UCASE", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return rdf.NewLiteral(strings.ToUpper(args[0].Value()), rdf.XSDString), nil
}

func lcaseFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("LCASE", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return rdf.NewLiteral(strings.ToLower(args[0].Value()), rdf.XSDString), nil
}

func containsFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("CONTAINS", args, 2); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(strings.Contains(args[0].Value(), args[1].Value())), nil
}

func strStartsFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("STRSTARTS", args, 2); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(strings.HasPrefix(args[0].Value(), args[1].Value())), nil
}

func strEndsFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("STRENDS", args, 2); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(strings.HasSuffix(args[0].Value(), args[1].Value())), nil
}

func concatFunc(args []rdf.Term) (rdf.Term, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.Value())
	}
	return rdf.NewLiteral(sb.String(), rdf.XSDString), nil
}

func regexFunc(args []rdf.Term) (rdf.Term, error) {
	if len(args) != 2 && len(args) != 3 {
		return rdf.Term{}, typeError("REGEX takes 2 or 3 arguments, got %d", len(args))
	}
	pattern := args[1].Value()
	if len(args) == 3 {
		for _, f := range args[2].Value() {
			switch f {
			case 'i':
				pattern = "(?i)" + pattern
			case 's':
				pattern = "(?s)" + pattern
			}
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return rdf.Term{}, typeError("invalid REGEX pattern %q: %v", args[1].Value(), err)
	}
	return boolTerm(re.MatchString(args[0].Value())), nil
}

func absFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("ABS", args, 1); err != nil {
		return rdf.Term{}, err
	}
	if !isNumeric(args[0]) {
		return rdf.Term{}, typeError("ABS requires a numeric argument")
	}
	v, err := numericValue(args[0])
	if err != nil {
		return rdf.Term{}, err
	}
	if v < 0 {
		v = -v
	}
	return rdf.NewLiteral(formatNumeric(v, args[0].Datatype()), args[0].Datatype()), nil
}

func roundFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("ROUND", args, 1); err != nil {
		return rdf.Term{}, err
	}
	if !isNumeric(args[0]) {
		return rdf.Term{}, typeError("ROUND requires a numeric argument")
	}
	v, err := numericValue(args[0])
	if err != nil {
		return rdf.Term{}, err
	}
	rounded := float64(int64(v + 0.5))
	if v < 0 {
		rounded = float64(int64(v - 0.5))
	}
	return rdf.NewLiteral(formatNumeric(rounded, "http://www.w3.org/2001/XMLSchema#integer"), "http://www.w3.org/2001/XMLSchema#integer"), nil
}

func isIRIFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("isIRI", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(args[0].Kind() == rdf.KindNamedNode), nil
}

func isBlankFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("isBLANK", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(args[0].Kind() == rdf.KindBlankNode), nil
}

func isLiteralFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("isLITERAL", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(args[0].Kind() == rdf.KindLiteral), nil
}

func isNumericFunc(args []rdf.Term) (rdf.Term, error) {
	if err := requireArgs("isNUMERIC", args, 1); err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(isNumeric(args[0])), nil
}
