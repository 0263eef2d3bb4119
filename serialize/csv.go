package serialize

import (
	"bytes"
	"encoding/csv"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

const mediaCSV = "text/csv"

// csvActor renders the SPARQL 1.1 Query Results CSV Format: a header
// row of variable names followed by one row per solution, each term
// rendered as its lexical form (IRIs and literals alike, unquoted
// unless the CSV encoding itself requires it).
type csvActor struct{}

func (csvActor) Name() string { return "serialize.csv" }

func (csvActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if action.MediaType != mediaCSV {
		return actor.Reject("not text/csv"), nil
	}
	return actor.Pass(0), nil
}

func (csvActor) Run(_ *qcontext.T, action Action) (Result, error) {
	rows, err := rdfstream.Collect(action.Data)
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(action.Vars); err != nil {
		return Result{}, err
	}
	for _, b := range rows {
		record := make([]string, len(action.Vars))
		for i, v := range action.Vars {
			if t, ok := b.Get(v); ok {
				record[i] = t.Value()
			}
		}
		if err := w.Write(record); err != nil {
			return Result{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Result{}, err
	}
	return Result{Bytes: buf.Bytes()}, nil
}
