// Package serialize implements the serialization bus of spec.md §4.6:
// one actor per output media type, dispatched by exact MediaType match
// once the query-operation mediator has produced a final bindings
// stream.
package serialize

import (
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/mediator"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// Action is the serialization bus's action: render a solved bindings
// stream as the requested media type.
type Action struct {
	Data      *rdfstream.Stream[bindings.Bindings]
	Vars      []string
	MediaType string
}

// Result is the rendered output.
type Result struct {
	Bytes []byte
}

// Bus is the process-wide serialization bus.
var Bus = bus.New[Action, Result]("serialize")

// Mediator dispatches by exact MediaType match.
var Mediator = mediator.New(Bus, mediator.NumberBased)

// Render mediates action on Bus.
func Render(ctx *qcontext.T, data *rdfstream.Stream[bindings.Bindings], vars []string, mediaType string) (Result, error) {
	return Mediator.Mediate(ctx, Action{Data: data, Vars: vars, MediaType: mediaType})
}

// RegisterDefaults registers the four built-in serializer actors of
// spec.md §6: application/sparql-results+json, text/csv,
// application/json (tree), table (human text).
func RegisterDefaults() {
	Bus.Register(sparqlResultsJSONActor{})
	Bus.Register(treeJSONActor{})
	Bus.Register(csvActor{})
	Bus.Register(tableActor{})
}
