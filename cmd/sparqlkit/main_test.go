package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTripleShorthand(t *testing.T) {
	p, err := parseTriple(`?s <http://ex/p> "hello"@en`)
	require.NoError(t, err)
	require.True(t, p.Subject.IsVariable())
	require.Equal(t, "s", p.Subject.Value())
	require.Equal(t, "http://ex/p", p.Predicate.Value())
	require.Equal(t, "hello", p.Object.Value())
	require.Equal(t, "en", p.Object.Lang())
}

func TestParseTripleTypedLiteral(t *testing.T) {
	p, err := parseTriple(`<http://ex/a> <http://ex/age> "30"^^<http://www.w3.org/2001/XMLSchema#integer>`)
	require.NoError(t, err)
	require.Equal(t, "30", p.Object.Value())
	require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", p.Object.Datatype())
}

func TestParseTripleBlankNode(t *testing.T) {
	p, err := parseTriple(`_:b1 <http://ex/p> ?o`)
	require.NoError(t, err)
	require.Equal(t, "b1", p.Subject.Value())
	require.True(t, p.Object.IsVariable())
}

func TestParseTripleRejectsWrongArity(t *testing.T) {
	_, err := parseTriple(`?s <http://ex/p>`)
	require.Error(t, err)
}

func TestParseTripleRejectsUnrecognizedTerm(t *testing.T) {
	_, err := parseTriple(`?s unrecognized ?o`)
	require.Error(t, err)
}

func TestSplitTriplePartsKeepsQuotedSpacesTogether(t *testing.T) {
	parts := splitTripleParts(`?s <http://ex/p> "hello world"`)
	require.Equal(t, []string{"?s", "<http://ex/p>", `"hello world"`}, parts)
}

func TestExecuteRejectsMissingSource(t *testing.T) {
	code, err := execute("", "", []string{`?s <http://ex/p> ?o`}, "application/sparql-results+json", 0, 0)
	require.Equal(t, exitInvalidArgs, code)
	require.Error(t, err)
}

func TestExecuteRejectsMissingPattern(t *testing.T) {
	code, err := execute("http://ex/endpoint", "", nil, "application/sparql-results+json", 0, 0)
	require.Equal(t, exitInvalidArgs, code)
	require.Error(t, err)
}

func TestExecuteRejectsMalformedPattern(t *testing.T) {
	code, err := execute("http://ex/endpoint", "", []string{"not a triple"}, "application/sparql-results+json", 0, 0)
	require.Equal(t, exitInvalidArgs, code)
	require.Error(t, err)
}

// TestExecuteWithUnresolvableSourceReturnsUnreachableExit wires the
// engine exactly once for this test binary (query.Wire, and therefore
// every bus's RegisterDefaults, may run only once per process — see
// bus.Bus.Register) and exercises the CLI end to end against a source
// descriptor with no source-family actor able to resolve it, which is
// the general expected outcome of an un-parameterized CLI source: the
// built-in families each need capabilities (a Match function, a
// Dereference contract) this command does not wire up on its own.
func TestExecuteWithUnresolvableSourceReturnsUnreachableExit(t *testing.T) {
	code, err := execute("http://example.invalid/sparql", "", []string{`?s <http://ex/p> ?o`}, "application/sparql-results+json", 5*time.Second, 0)
	require.Error(t, err)
	require.Equal(t, exitUnreachableSrc, code)
}
