package serialize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

const mediaTable = "table"

// tableWidth is the wrap column for any cell wider than it, matching
// a conventional terminal width.
const tableWidth = 100

// tableActor renders a human-readable, column-aligned table: a header
// row, a separator rule, then one row per solution with any
// overlong term value wrapped rather than left to overflow the
// terminal.
type tableActor struct{}

func (tableActor) Name() string { return "serialize.table" }

func (tableActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if action.MediaType != mediaTable {
		return actor.Reject("not table"), nil
	}
	return actor.Pass(0), nil
}

func (tableActor) Run(_ *qcontext.T, action Action) (Result, error) {
	rows, err := rdfstream.Collect(action.Data)
	if err != nil {
		return Result{}, err
	}

	cells := make([][]string, 0, len(rows))
	widths := make([]int, len(action.Vars))
	for i, v := range action.Vars {
		widths[i] = len(v)
	}
	for _, b := range rows {
		record := make([]string, len(action.Vars))
		for i, v := range action.Vars {
			if t, ok := b.Get(v); ok {
				record[i] = wordwrap.WrapString(t.String(), tableWidth)
			}
			for _, line := range strings.Split(record[i], "\n") {
				if len(line) > widths[i] {
					widths[i] = len(line)
				}
			}
		}
		cells = append(cells, record)
	}

	var buf bytes.Buffer
	writeRow(&buf, action.Vars, widths)
	writeSeparator(&buf, widths)
	for _, record := range cells {
		writeRow(&buf, record, widths)
	}
	return Result{Bytes: buf.Bytes()}, nil
}

func writeRow(buf *bytes.Buffer, cells []string, widths []int) {
	for i, c := range cells {
		fmt.Fprintf(buf, "%-*s", widths[i]+2, c)
	}
	buf.WriteByte('\n')
}

func writeSeparator(buf *bytes.Buffer, widths []int) {
	for _, w := range widths {
		buf.WriteString(strings.Repeat("-", w))
		buf.WriteString("  ")
	}
	buf.WriteByte('\n')
}
