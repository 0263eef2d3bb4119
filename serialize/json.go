package serialize

import (
	"github.com/ohler55/ojg/oj"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

const mediaSPARQLResultsJSON = "application/sparql-results+json"

// sparqlResultsJSONActor renders the W3C SPARQL 1.1 Query Results JSON
// Format: {"head":{"vars":[...]},"results":{"bindings":[...]}}.
type sparqlResultsJSONActor struct{}

func (sparqlResultsJSONActor) Name() string { return "serialize.sparqlResultsJSON" }

func (sparqlResultsJSONActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if action.MediaType != mediaSPARQLResultsJSON {
		return actor.Reject("not application/sparql-results+json"), nil
	}
	return actor.Pass(0), nil
}

func (sparqlResultsJSONActor) Run(_ *qcontext.T, action Action) (Result, error) {
	rows, err := rdfstream.Collect(action.Data)
	if err != nil {
		return Result{}, err
	}

	bindingsOut := make([]interface{}, 0, len(rows))
	for _, b := range rows {
		row := map[string]interface{}{}
		for _, v := range action.Vars {
			t, ok := b.Get(v)
			if !ok {
				continue
			}
			row[v] = termToJSONBinding(t)
		}
		bindingsOut = append(bindingsOut, row)
	}

	vars := make([]interface{}, len(action.Vars))
	for i, v := range action.Vars {
		vars[i] = v
	}

	doc := map[string]interface{}{
		"head":    map[string]interface{}{"vars": vars},
		"results": map[string]interface{}{"bindings": bindingsOut},
	}
	out, err := oj.Marshal(doc, 2)
	if err != nil {
		return Result{}, err
	}
	return Result{Bytes: out}, nil
}

func termToJSONBinding(t rdf.Term) map[string]interface{} {
	switch t.Kind() {
	case rdf.KindNamedNode:
		return map[string]interface{}{"type": "uri", "value": t.Value()}
	case rdf.KindBlankNode:
		return map[string]interface{}{"type": "bnode", "value": t.Value()}
	case rdf.KindLiteral:
		m := map[string]interface{}{"type": "literal", "value": t.Value()}
		if t.Lang() != "" {
			m["xml:lang"] = t.Lang()
		} else if t.Datatype() != "" && t.Datatype() != rdf.XSDString {
			m["datatype"] = t.Datatype()
		}
		return m
	default:
		return map[string]interface{}{"type": "literal", "value": t.Value()}
	}
}

const mediaJSON = "application/json"

// treeJSONActor renders the solution set as a plain JSON array of
// {var: "stringForm", ...} objects — the "tree" media type of spec.md
// §6, aimed at ad hoc tooling rather than SPARQL-protocol clients.
type treeJSONActor struct{}

func (treeJSONActor) Name() string { return "serialize.treeJSON" }

func (treeJSONActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if action.MediaType != mediaJSON {
		return actor.Reject("not application/json"), nil
	}
	return actor.Pass(0), nil
}

func (treeJSONActor) Run(_ *qcontext.T, action Action) (Result, error) {
	rows, err := rdfstream.Collect(action.Data)
	if err != nil {
		return Result{}, err
	}
	out := make([]interface{}, 0, len(rows))
	for _, b := range rows {
		row := map[string]interface{}{}
		for _, v := range action.Vars {
			if t, ok := b.Get(v); ok {
				row[v] = t.String()
			}
		}
		out = append(out, row)
	}
	bytes, err := oj.Marshal(out, 2)
	if err != nil {
		return Result{}, err
	}
	return Result{Bytes: bytes}, nil
}
