package rdfstream

import "github.com/vanadium-labs/sparqlkit/bindings"

// BindingsStream is a Stream of solution mappings carrying the
// insertion-significant variables list and a metadata thunk, per
// spec.md §3.
type BindingsStream struct {
	*Stream[bindings.Bindings]
	variables []string
	metadata  MetadataFunc
}

// NewBindingsStream wraps s with the given variables list and
// metadata thunk.
func NewBindingsStream(s *Stream[bindings.Bindings], variables []string, metadata MetadataFunc) *BindingsStream {
	if metadata == nil {
		metadata = StaticMetadata(Metadata{TotalItems: TotalItemsUnknown})
	}
	return &BindingsStream{Stream: s, variables: variables, metadata: metadata}
}

// Variables returns the insertion-significant variable list (spec.md
// §3), used by Project to determine output shape and by the
// property-path engine to strip generated intermediate variables.
func (bs *BindingsStream) Variables() []string {
	return bs.variables
}

// Metadata invokes the stream's metadata thunk.
func (bs *BindingsStream) Metadata() Metadata {
	return bs.metadata()
}

// EmptyBindingsStream returns the canonical empty stream of spec.md
// §4.3's zero-entry join rule: variables=[], totalItems=0.
func EmptyBindingsStream() *BindingsStream {
	return NewBindingsStream(Empty[bindings.Bindings](), nil, StaticMetadata(Metadata{TotalItems: 0}))
}

// SingleBindingsStream returns a one-element stream of b, used by Ask
// and by path identity expansions.
func SingleBindingsStream(b bindings.Bindings, variables []string) *BindingsStream {
	return NewBindingsStream(FromSlice([]bindings.Bindings{b}), variables, StaticMetadata(Metadata{TotalItems: 1}))
}
