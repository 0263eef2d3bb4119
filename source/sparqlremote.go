package source

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// SPARQLRemoteActor resolves quad patterns against a remote SPARQL 1.1
// protocol endpoint (spec.md §3's "sparql" source family): it issues a
// single-pattern SELECT query over the Fetch contract and reconstitutes
// quads from the application/sparql-results+json response.
type SPARQLRemoteActor struct{}

func (SPARQLRemoteActor) Name() string { return "source.sparqlRemote" }

func (SPARQLRemoteActor) Test(ctx *qcontext.T, _ Action) (actor.TestOutcome, error) {
	d, ok := queryctx.Source(ctx)
	if !ok || d.Type != "sparql" {
		return actor.Reject("descriptor is not a remote sparql source"), nil
	}
	if _, ok := Fetch(ctx); !ok {
		return actor.Reject("no fetch contract attached"), nil
	}
	return actor.Pass(10), nil
}

func (SPARQLRemoteActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	d, _ := queryctx.Source(ctx)
	fetchFn, ok := Fetch(ctx)
	if !ok {
		return Result{}, qerror.ErrSourceError.Errorf(ctx, "sparql source %q has no fetch contract", d.Value)
	}

	pattern := action.Pattern
	query := selectQueryForPattern(pattern)
	endpoint := d.Value + "?query=" + url.QueryEscape(query)

	init := FetchInit{UserAgent: "sparqlkit"}
	if auth, ok := queryctx.Auth(ctx); ok && queryctx.IncludeCredentials(ctx) {
		init.Auth = auth
		init.WithCredentials = true
	}

	resp, err := fetchFn(ctx, endpoint, init)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, qerror.ErrSourceError.Errorf(ctx, "sparql endpoint %q: reading response: %v", d.Value, err)
	}
	if !resp.OK {
		return Result{}, qerror.ErrSourceError.Errorf(ctx, "sparql endpoint %q returned status %d", d.Value, resp.Status)
	}

	parsed, err := oj.Parse(body)
	if err != nil {
		return Result{}, qerror.ErrSourceError.Errorf(ctx, "sparql endpoint %q returned invalid JSON: %v", d.Value, err)
	}
	rows := bindingsFromSPARQLJSON(parsed)

	quads := make([]rdf.Quad, 0, len(rows))
	for _, row := range rows {
		if q, ok := quadFromRow(pattern, row); ok {
			quads = append(quads, q)
		}
	}
	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(quads))})
	return Result{Data: rdfstream.NewQuadStream(rdfstream.FromSlice(quads), meta), Metadata: meta}, nil
}

// selectQueryForPattern renders pattern as a minimal single-triple
// SELECT query. This is hand-assembled text, not a SPARQL parse/print
// round-trip: query parsing itself remains an external collaborator
// (spec.md §1).
func selectQueryForPattern(p rdf.Pattern) string {
	vars := p.Variables()
	triple := fmt.Sprintf("%s %s %s .", termToSPARQLTerm(p.Subject), termToSPARQLTerm(p.Predicate), termToSPARQLTerm(p.Object))

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(vars) == 0 {
		sb.WriteString("*")
	} else {
		for i, v := range vars {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("?" + v)
		}
	}
	sb.WriteString(" WHERE { ")
	switch p.Graph.Kind() {
	case rdf.KindDefaultGraph:
		sb.WriteString(triple)
	case rdf.KindVariable:
		sb.WriteString(fmt.Sprintf("GRAPH ?%s { %s }", p.Graph.Value(), triple))
	default:
		sb.WriteString(fmt.Sprintf("GRAPH %s { %s }", termToSPARQLTerm(p.Graph), triple))
	}
	sb.WriteString(" }")
	return sb.String()
}

func termToSPARQLTerm(t rdf.Term) string {
	switch t.Kind() {
	case rdf.KindVariable:
		return "?" + t.Value()
	case rdf.KindNamedNode:
		return "<" + t.Value() + ">"
	case rdf.KindBlankNode:
		return "_:" + t.Value()
	case rdf.KindLiteral:
		switch {
		case t.Lang() != "":
			return fmt.Sprintf("%q@%s", t.Value(), t.Lang())
		case t.Datatype() != "" && t.Datatype() != rdf.XSDString:
			return fmt.Sprintf("%q^^<%s>", t.Value(), t.Datatype())
		default:
			return fmt.Sprintf("%q", t.Value())
		}
	default:
		return "[]"
	}
}

// bindingsFromSPARQLJSON walks an application/sparql-results+json
// document parsed by ojg into head/results/bindings rows.
func bindingsFromSPARQLJSON(parsed interface{}) []map[string]rdf.Term {
	top, ok := parsed.(map[string]interface{})
	if !ok {
		return nil
	}
	results, ok := top["results"].(map[string]interface{})
	if !ok {
		return nil
	}
	bindings, ok := results["bindings"].([]interface{})
	if !ok {
		return nil
	}
	rows := make([]map[string]rdf.Term, 0, len(bindings))
	for _, b := range bindings {
		bm, ok := b.(map[string]interface{})
		if !ok {
			continue
		}
		row := make(map[string]rdf.Term, len(bm))
		for k, v := range bm {
			vm, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			row[k] = termFromJSONBinding(vm)
		}
		rows = append(rows, row)
	}
	return rows
}

func termFromJSONBinding(m map[string]interface{}) rdf.Term {
	typ, _ := m["type"].(string)
	value, _ := m["value"].(string)
	switch typ {
	case "uri":
		return rdf.NewNamedNode(value)
	case "bnode":
		return rdf.NewBlankNode(value)
	case "literal", "typed-literal":
		if lang, ok := m["xml:lang"].(string); ok && lang != "" {
			return rdf.NewLangLiteral(value, lang)
		}
		if dt, ok := m["datatype"].(string); ok && dt != "" {
			return rdf.NewLiteral(value, dt)
		}
		return rdf.NewLiteral(value, "")
	default:
		return rdf.NewLiteral(value, "")
	}
}

// quadFromRow reconstitutes a full quad from pattern's ground
// positions and a result row's variable bindings, failing if any
// variable position the pattern requires is absent from the row.
func quadFromRow(p rdf.Pattern, row map[string]rdf.Term) (rdf.Quad, bool) {
	resolve := func(t rdf.Term) (rdf.Term, bool) {
		if t.IsVariable() {
			v, ok := row[t.Value()]
			return v, ok
		}
		return t, true
	}
	s, ok := resolve(p.Subject)
	if !ok {
		return rdf.Quad{}, false
	}
	pr, ok := resolve(p.Predicate)
	if !ok {
		return rdf.Quad{}, false
	}
	o, ok := resolve(p.Object)
	if !ok {
		return rdf.Quad{}, false
	}
	g := rdf.DefaultGraph
	if p.Graph.Kind() != rdf.KindDefaultGraph {
		gg, ok := resolve(p.Graph)
		if !ok {
			return rdf.Quad{}, false
		}
		g = gg
	}
	return rdf.Quad{Subject: s, Predicate: pr, Object: o, Graph: g}, true
}
