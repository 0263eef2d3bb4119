// Package source implements quad-pattern resolution against the
// heterogeneous sources of spec.md §1 and §4.5: in-memory RDF/JS-style
// sources, hypermedia (Triple/Quad Pattern Fragments) documents, flat
// files, and remote SPARQL endpoints. HTTP transport and RDF parsing
// are external collaborators (spec.md §1); this package depends on
// them only through the Fetch and Dereference contracts of spec.md §6.
package source

import (
	"io"
	"net/http"

	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// FetchInit carries the per-request settings the Fetch contract must
// honor (spec.md §6).
type FetchInit struct {
	UserAgent       string
	WithCredentials bool
	Auth            string // "user:password"
}

// FetchResponse is the Fetch contract's result (spec.md §6).
type FetchResponse struct {
	Body       io.ReadCloser
	Headers    http.Header
	Status     int
	OK         bool
	URL        string
	Redirected bool
	Cancel     func()
}

// FetchFunc is the consumed Fetch contract: HTTP transport is out of
// scope for this engine (spec.md §1) and is supplied by the embedding
// application.
type FetchFunc func(ctx *qcontext.T, url string, init FetchInit) (FetchResponse, error)

// DereferenceResult is the Dereference contract's result (spec.md
// §6): a parsed quad stream plus a separate metadata quad stream (the
// hypermedia controls live in the latter).
type DereferenceResult struct {
	Quads     *rdfstream.QuadStream
	Metadata  *rdfstream.QuadStream
	MediaType string
	URL       string
}

// DereferenceFunc is the consumed Dereference contract: RDF parsing
// and media-type negotiation are out of scope for this engine (spec.md
// §1) and are supplied by the embedding application. With no
// DereferenceFunc attached to the context (WithDereference), no source
// actor that needs it can pass Test.
type DereferenceFunc func(ctx *qcontext.T, url string, fetch FetchFunc) (DereferenceResult, error)

type contextKey int

const (
	keyFetch contextKey = iota
	keyDereference
)

// WithFetch attaches the Fetch contract implementation to ctx.
func WithFetch(ctx *qcontext.T, fn FetchFunc) *qcontext.T {
	return qcontext.WithValue(ctx, keyFetch, fn)
}

// Fetch returns the attached Fetch implementation, if any.
func Fetch(ctx *qcontext.T) (FetchFunc, bool) {
	v, ok := ctx.Value(keyFetch).(FetchFunc)
	return v, ok
}

// WithDereference attaches the Dereference contract implementation to
// ctx.
func WithDereference(ctx *qcontext.T, fn DereferenceFunc) *qcontext.T {
	return qcontext.WithValue(ctx, keyDereference, fn)
}

// Dereference returns the attached Dereference implementation, if any.
func Dereference(ctx *qcontext.T) (DereferenceFunc, bool) {
	v, ok := ctx.Value(keyDereference).(DereferenceFunc)
	return v, ok
}
