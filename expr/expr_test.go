package expr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/rdf"
)

func xsdInt(v string) rdf.Term {
	return rdf.NewLiteral(v, "http://www.w3.org/2001/XMLSchema#integer")
}

func TestEvalVarUnboundIsTypeError(t *testing.T) {
	_, err := expr.Eval(bindings.Empty, expr.Var{Name: "x"})
	require.Error(t, err)
}

func TestEvalVarBound(t *testing.T) {
	b := bindings.Empty.Set("x", rdf.NewNamedNode("ex:a"))
	v, err := expr.Eval(b, expr.Var{Name: "x"})
	require.NoError(t, err)
	require.Equal(t, "ex:a", v.Value())
}

func TestEvalArithmetic(t *testing.T) {
	b := bindings.Empty
	e := expr.Binary{Op: "+", Left: expr.Literal{Term: xsdInt("2")}, Right: expr.Literal{Term: xsdInt("3")}}
	v, err := expr.Eval(b, e)
	require.NoError(t, err)
	require.Equal(t, "5", v.Value())
}

func TestEvalComparison(t *testing.T) {
	e := expr.Binary{Op: "<", Left: expr.Literal{Term: xsdInt("2")}, Right: expr.Literal{Term: xsdInt("3")}}
	v, err := expr.Eval(bindings.Empty, e)
	require.NoError(t, err)
	bv, err := expr.EffectiveBooleanValue(v)
	require.NoError(t, err)
	require.True(t, bv)
}

// TestAndShortCircuitsOnFalseDespiteErroringOperand checks SPARQL's
// three-valued-logic && : a false operand wins even when the other
// operand errors.
func TestAndShortCircuitsOnFalseDespiteErroringOperand(t *testing.T) {
	falseLit := expr.Literal{Term: rdf.NewLiteral("false", "http://www.w3.org/2001/XMLSchema#boolean")}
	unbound := expr.Var{Name: "missing"}

	v, err := expr.Eval(bindings.Empty, expr.Binary{Op: "&&", Left: falseLit, Right: unbound})
	require.NoError(t, err)
	bv, err := expr.EffectiveBooleanValue(v)
	require.NoError(t, err)
	require.False(t, bv)

	v, err = expr.Eval(bindings.Empty, expr.Binary{Op: "&&", Left: unbound, Right: falseLit})
	require.NoError(t, err)
	bv, err = expr.EffectiveBooleanValue(v)
	require.NoError(t, err)
	require.False(t, bv)
}

// TestOrShortCircuitsOnTrueDespiteErroringOperand mirrors the && test
// for ||'s symmetric rule.
func TestOrShortCircuitsOnTrueDespiteErroringOperand(t *testing.T) {
	trueLit := expr.Literal{Term: rdf.NewLiteral("true", "http://www.w3.org/2001/XMLSchema#boolean")}
	unbound := expr.Var{Name: "missing"}

	v, err := expr.Eval(bindings.Empty, expr.Binary{Op: "||", Left: trueLit, Right: unbound})
	require.NoError(t, err)
	bv, err := expr.EffectiveBooleanValue(v)
	require.NoError(t, err)
	require.True(t, bv)
}

func TestBoundFunction(t *testing.T) {
	b := bindings.Empty.Set("x", rdf.NewNamedNode("ex:a"))
	v, err := expr.Eval(b, expr.Call{Name: "BOUND", Args: []expr.Expr{expr.Var{Name: "x"}}})
	require.NoError(t, err)
	bv, _ := expr.EffectiveBooleanValue(v)
	require.True(t, bv)

	v, err = expr.Eval(b, expr.Call{Name: "BOUND", Args: []expr.Expr{expr.Var{Name: "y"}}})
	require.NoError(t, err)
	bv, _ = expr.EffectiveBooleanValue(v)
	require.False(t, bv)
}

func TestIfFunction(t *testing.T) {
	trueLit := expr.Literal{Term: rdf.NewLiteral("true", "http://www.w3.org/2001/XMLSchema#boolean")}
	thenVal := expr.Literal{Term: rdf.NewNamedNode("ex:then")}
	elseVal := expr.Literal{Term: rdf.NewNamedNode("ex:else")}

	v, err := expr.Eval(bindings.Empty, expr.Call{Name: "IF", Args: []expr.Expr{trueLit, thenVal, elseVal}})
	require.NoError(t, err)
	require.Equal(t, "ex:then", v.Value())
}

func TestCoalesceSkipsErroringArgs(t *testing.T) {
	v, err := expr.Eval(bindings.Empty, expr.Call{Name: "COALESCE", Args: []expr.Expr{
		expr.Var{Name: "missing"},
		expr.Literal{Term: rdf.NewNamedNode("ex:fallback")},
	}})
	require.NoError(t, err)
	require.Equal(t, "ex:fallback", v.Value())
}

func TestUnknownFunctionIsTypeError(t *testing.T) {
	_, err := expr.Eval(bindings.Empty, expr.Call{Name: "NOT_A_REAL_FUNCTION", Args: nil})
	require.Error(t, err)
}

func TestEffectiveBooleanValueOnNonLiteralIsTypeError(t *testing.T) {
	_, err := expr.EffectiveBooleanValue(rdf.NewNamedNode("ex:a"))
	require.Error(t, err)
}
