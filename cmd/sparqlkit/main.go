// Command sparqlkit is a thin CLI front end over the query engine
// (spec.md §1, §6): it wires the engine, builds a basic graph pattern
// from trivial shorthand triples given on the command line, resolves
// it, and writes the rendered result to stdout.
//
// Parsing full SPARQL query text into an algebra tree is an external
// collaborator this command does not implement; --pattern is a
// shorthand for the common case of a single Bgp, enough to exercise
// the engine end to end.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/internal/logging"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
	"github.com/vanadium-labs/sparqlkit/query"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
)

const (
	exitOK              = 0
	exitEvalError       = 1
	exitInvalidArgs     = 2
	exitUnreachableSrc = 3
	defaultMediaType   = "application/sparql-results+json"
	defaultSourceType  = ""
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		sourceValue string
		sourceType  string
		patterns    []string
		mediaType   string
		timeout     time.Duration
		verbosity   int
	)

	cmd := &cobra.Command{
		Use:           "sparqlkit",
		Short:         "Evaluate a basic graph pattern against one data source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&sourceValue, "source", "", "data source: an IRI, a file path, or a SPARQL endpoint URL")
	cmd.Flags().StringVar(&sourceType, "source-type", defaultSourceType, "memory|hypermedia|file|sparql (default: inferred)")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, `triple pattern "?s <http://ex/p> \"o\"", may repeat for a multi-pattern Bgp`)
	cmd.Flags().StringVar(&mediaType, "media-type", defaultMediaType, "output media type")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "query evaluation deadline")
	cmd.Flags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity level")

	exitCode := exitOK
	cmd.RunE = func(_ *cobra.Command, _ []string) error {
		code, err := execute(sourceValue, sourceType, patterns, mediaType, timeout, verbosity)
		exitCode = code
		return err
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sparqlkit:", err)
		if exitCode == exitOK {
			exitCode = exitInvalidArgs
		}
	}
	return exitCode
}

func execute(sourceValue, sourceType string, rawPatterns []string, mediaType string, timeout time.Duration, verbosity int) (int, error) {
	if sourceValue == "" {
		return exitInvalidArgs, fmt.Errorf("--source is required")
	}
	if len(rawPatterns) == 0 {
		return exitInvalidArgs, fmt.Errorf("at least one --pattern is required")
	}

	patterns := make([]rdf.Pattern, 0, len(rawPatterns))
	for _, raw := range rawPatterns {
		p, err := parseTriple(raw)
		if err != nil {
			return exitInvalidArgs, err
		}
		patterns = append(patterns, p)
	}

	ctx := query.Wire(query.EngineOptions{Logger: logging.NewStdLogger(verbosity)})
	ctx = queryctx.WithSource(ctx, queryctx.SourceDescriptor{Type: sourceType, Value: sourceValue})

	req := query.Request{
		Algebra:   algebra.Bgp{Patterns: patterns},
		MediaType: mediaType,
		Timeout:   timeout,
	}
	res, err := query.Run(ctx, req)
	if err != nil {
		return classifyError(err), err
	}

	os.Stdout.Write(res.Bytes)
	if len(res.Bytes) == 0 || res.Bytes[len(res.Bytes)-1] != '\n' {
		fmt.Println()
	}
	return exitOK, nil
}

// classifyError maps an evaluation failure to spec.md §6's exit codes.
// A source error (the dereference/fetch itself failed) or a dispatch
// failure on the quad-pattern bus (no source actor recognized the
// descriptor) both count as "unreachable source"; everything else is
// a generic evaluation error.
func classifyError(err error) int {
	switch qerror.ErrorID(err) {
	case qerror.ErrSourceError.ID, qerror.ErrDispatchFailure.ID:
		return exitUnreachableSrc
	default:
		return exitEvalError
	}
}

// parseTriple parses the trivial shorthand "<term> <term> <term>",
// where a term is "?name" (variable), "<iri>" (named node), "_:label"
// (blank node), or a double-quoted literal, optionally suffixed with
// "@lang" or "^^<datatype>".
func parseTriple(raw string) (rdf.Pattern, error) {
	parts := splitTripleParts(raw)
	if len(parts) != 3 {
		return rdf.Pattern{}, fmt.Errorf("pattern %q: expected 3 terms, got %d", raw, len(parts))
	}
	s, err := parseTerm(parts[0])
	if err != nil {
		return rdf.Pattern{}, err
	}
	p, err := parseTerm(parts[1])
	if err != nil {
		return rdf.Pattern{}, err
	}
	o, err := parseTerm(parts[2])
	if err != nil {
		return rdf.Pattern{}, err
	}
	return rdf.Pattern{Subject: s, Predicate: p, Object: o, Graph: rdf.DefaultGraph}, nil
}

func splitTripleParts(raw string) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func parseTerm(s string) (rdf.Term, error) {
	switch {
	case strings.HasPrefix(s, "?"):
		return rdf.NewVariable(strings.TrimPrefix(s, "?")), nil
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		return rdf.NewNamedNode(s[1 : len(s)-1]), nil
	case strings.HasPrefix(s, "_:"):
		return rdf.NewBlankNode(strings.TrimPrefix(s, "_:")), nil
	case strings.HasPrefix(s, `"`):
		return parseLiteral(s)
	default:
		return rdf.Term{}, fmt.Errorf("term %q: unrecognized shorthand", s)
	}
}

func parseLiteral(s string) (rdf.Term, error) {
	end := strings.LastIndex(s, `"`)
	if end <= 0 {
		return rdf.Term{}, fmt.Errorf("literal %q: unterminated quote", s)
	}
	lexical := s[1:end]
	suffix := s[end+1:]
	switch {
	case strings.HasPrefix(suffix, "@"):
		return rdf.NewLangLiteral(lexical, strings.TrimPrefix(suffix, "@")), nil
	case strings.HasPrefix(suffix, "^^<") && strings.HasSuffix(suffix, ">"):
		return rdf.NewLiteral(lexical, suffix[3:len(suffix)-1]), nil
	default:
		return rdf.NewLiteral(lexical, rdf.XSDString), nil
	}
}
