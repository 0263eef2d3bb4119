// Package expr implements the SPARQL expression evaluator of spec.md
// §4.2: a small tagged-variant AST reduced against a Bindings value to
// a Term, or to a distinguished evaluation error that Filter folds to
// false and Extend folds to unbound, per SPARQL semantics.
package expr

import (
	"fmt"

	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/rdf"
)

// Expr is the tagged variant over SPARQL expression forms: Var,
// Literal, Unary, Binary, and Call (function application, including
// the special forms BOUND and IF that need the unevaluated operand).
type Expr interface {
	isExpr()
}

// Var references a bindings variable by name (no leading '?').
type Var struct{ Name string }

// Literal is a constant RDF term embedded in the expression tree.
type Literal struct{ Term rdf.Term }

// Unary applies a unary operator ("!", "-", "+") to Operand.
type Unary struct {
	Op      string
	Operand Expr
}

// Binary applies a binary operator to Left and Right. Op is one of
// "&&", "||", "=", "!=", "<", "<=", ">", ">=", "+", "-", "*", "/",
// "in", "notin".
type Binary struct {
	Op          string
	Left, Right Expr
}

// Call is a named function application, covering both SPARQL built-ins
// (STR, LANG, REGEX, ...) dispatched through the Functions
// registry and the special forms (BOUND, IF, COALESCE) that need
// access to unevaluated Args.
type Call struct {
	Name string
	Args []Expr
}

func (Var) isExpr()     {}
func (Literal) isExpr() {}
func (Unary) isExpr()   {}
func (Binary) isExpr()  {}
func (Call) isExpr()    {}

// EvalError is the distinguished "type error" outcome of spec.md §4.2:
// an expression that cannot be reduced against the given bindings.
// Operators propagate it upward except where SPARQL's three-valued
// logic says otherwise (a true operand short-circuits ||, a false
// operand short-circuits &&).
type EvalError struct {
	msg string
}

func (e *EvalError) Error() string { return e.msg }

func typeError(format string, args ...interface{}) error {
	return &EvalError{msg: fmt.Sprintf(format, args...)}
}

// Eval reduces e against b to a Term, or returns an *EvalError.
func Eval(b bindings.Bindings, e Expr) (rdf.Term, error) {
	switch n := e.(type) {
	case Var:
		t, ok := b.Get(n.Name)
		if !ok {
			return rdf.Term{}, typeError("variable ?%s is unbound", n.Name)
		}
		return t, nil
	case Literal:
		return n.Term, nil
	case Unary:
		return evalUnary(b, n)
	case Binary:
		return evalBinary(b, n)
	case Call:
		return evalCall(b, n)
	default:
		return rdf.Term{}, typeError("unknown expression node %T", e)
	}
}

func evalUnary(b bindings.Bindings, n Unary) (rdf.Term, error) {
	switch n.Op {
	case "!":
		v, err := Eval(b, n.Operand)
		if err != nil {
			bv, bverr := effectiveBooleanValueOfError(err)
			if bverr != nil {
				return rdf.Term{}, err
			}
			return boolTerm(!bv), nil
		}
		bv, err := EffectiveBooleanValue(v)
		if err != nil {
			return rdf.Term{}, err
		}
		return boolTerm(!bv), nil
	case "-":
		v, err := Eval(b, n.Operand)
		if err != nil {
			return rdf.Term{}, err
		}
		return negateNumeric(v)
	case "+":
		v, err := Eval(b, n.Operand)
		if err != nil {
			return rdf.Term{}, err
		}
		if !isNumeric(v) {
			return rdf.Term{}, typeError("unary + on non-numeric term %s", v)
		}
		return v, nil
	default:
		return rdf.Term{}, typeError("unknown unary operator %q", n.Op)
	}
}

func evalBinary(b bindings.Bindings, n Binary) (rdf.Term, error) {
	switch n.Op {
	case "&&":
		return evalAnd(b, n.Left, n.Right)
	case "||":
		return evalOr(b, n.Left, n.Right)
	}

	lhs, lerr := Eval(b, n.Left)
	rhs, rerr := Eval(b, n.Right)
	if lerr != nil {
		return rdf.Term{}, lerr
	}
	if rerr != nil {
		return rdf.Term{}, rerr
	}

	switch n.Op {
	case "=":
		eq, err := termEquals(lhs, rhs)
		if err != nil {
			return rdf.Term{}, err
		}
		return boolTerm(eq), nil
	case "!=":
		eq, err := termEquals(lhs, rhs)
		if err != nil {
			return rdf.Term{}, err
		}
		return boolTerm(!eq), nil
	case "<", "<=", ">", ">=":
		return compareTerms(lhs, rhs, n.Op)
	case "+", "-", "*", "/":
		return arithmetic(lhs, rhs, n.Op)
	case "in":
		return rdf.Term{}, typeError("'in' must be lowered to a disjunction of '='")
	default:
		return rdf.Term{}, typeError("unknown binary operator %q", n.Op)
	}
}

// evalAnd implements SPARQL's three-valued &&: a false operand on
// either side wins even if the other errors.
func evalAnd(b bindings.Bindings, left, right Expr) (rdf.Term, error) {
	lv, lerr := Eval(b, left)
	if lerr == nil {
		lbv, err := EffectiveBooleanValue(lv)
		if err == nil && !lbv {
			return boolTerm(false), nil
		}
	}
	rv, rerr := Eval(b, right)
	if rerr == nil {
		rbv, err := EffectiveBooleanValue(rv)
		if err == nil && !rbv {
			return boolTerm(false), nil
		}
	}
	if lerr != nil {
		return rdf.Term{}, lerr
	}
	if rerr != nil {
		return rdf.Term{}, rerr
	}
	lbv, err := EffectiveBooleanValue(lv)
	if err != nil {
		return rdf.Term{}, err
	}
	rbv, err := EffectiveBooleanValue(rv)
	if err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(lbv && rbv), nil
}

// evalOr implements SPARQL's three-valued ||: a true operand on either
// side wins even if the other errors.
func evalOr(b bindings.Bindings, left, right Expr) (rdf.Term, error) {
	lv, lerr := Eval(b, left)
	if lerr == nil {
		lbv, err := EffectiveBooleanValue(lv)
		if err == nil && lbv {
			return boolTerm(true), nil
		}
	}
	rv, rerr := Eval(b, right)
	if rerr == nil {
		rbv, err := EffectiveBooleanValue(rv)
		if err == nil && rbv {
			return boolTerm(true), nil
		}
	}
	if lerr != nil {
		return rdf.Term{}, lerr
	}
	if rerr != nil {
		return rdf.Term{}, rerr
	}
	lbv, err := EffectiveBooleanValue(lv)
	if err != nil {
		return rdf.Term{}, err
	}
	rbv, err := EffectiveBooleanValue(rv)
	if err != nil {
		return rdf.Term{}, err
	}
	return boolTerm(lbv || rbv), nil
}

func evalCall(b bindings.Bindings, n Call) (rdf.Term, error) {
	switch n.Name {
	case "BOUND":
		if len(n.Args) != 1 {
			return rdf.Term{}, typeError("BOUND takes exactly one argument")
		}
		v, ok := n.Args[0].(Var)
		if !ok {
			return rdf.Term{}, typeError("BOUND's argument must be a variable")
		}
		_, bound := b.Get(v.Name)
		return boolTerm(bound), nil
	case "IF":
		if len(n.Args) != 3 {
			return rdf.Term{}, typeError("IF takes exactly three arguments")
		}
		cond, err := Eval(b, n.Args[0])
		var bv bool
		if err == nil {
			bv, err = EffectiveBooleanValue(cond)
		}
		if err != nil {
			bv = false
		}
		if bv {
			return Eval(b, n.Args[1])
		}
		return Eval(b, n.Args[2])
	case "COALESCE":
		var lastErr error = typeError("COALESCE: all arguments errored")
		for _, a := range n.Args {
			v, err := Eval(b, a)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		return rdf.Term{}, lastErr
	}

	args := make([]rdf.Term, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(b, a)
		if err != nil {
			return rdf.Term{}, err
		}
		args[i] = v
	}
	fn, ok := Functions[n.Name]
	if !ok {
		return rdf.Term{}, typeError("unknown function %q", n.Name)
	}
	return fn(args)
}

func boolTerm(v bool) rdf.Term {
	if v {
		return rdf.NewLiteral("true", "http://www.w3.org/2001/XMLSchema#boolean")
	}
	return rdf.NewLiteral("false", "http://www.w3.org/2001/XMLSchema#boolean")
}

func effectiveBooleanValueOfError(err error) (bool, error) {
	return false, err
}
