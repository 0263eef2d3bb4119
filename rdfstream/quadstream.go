package rdfstream

import "github.com/vanadium-labs/sparqlkit/rdf"

// QuadStream is a Stream of quads carrying a metadata thunk, returned
// by the quad-pattern resolve bus (spec.md §4.5).
type QuadStream struct {
	*Stream[rdf.Quad]
	metadata MetadataFunc
}

// NewQuadStream wraps s with the given metadata thunk.
func NewQuadStream(s *Stream[rdf.Quad], metadata MetadataFunc) *QuadStream {
	if metadata == nil {
		metadata = StaticMetadata(Metadata{TotalItems: TotalItemsUnknown})
	}
	return &QuadStream{Stream: s, metadata: metadata}
}

// Metadata invokes the stream's metadata thunk.
func (qs *QuadStream) Metadata() Metadata {
	return qs.metadata()
}

// EmptyQuadStream is the canonical empty quad stream.
func EmptyQuadStream() *QuadStream {
	return NewQuadStream(Empty[rdf.Quad](), StaticMetadata(Metadata{TotalItems: 0}))
}
