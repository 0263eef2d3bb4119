// Package queryctx defines the well-known context keys of spec.md §3
// and §6: data sources, authentication, and the other query-entry
// settings that flow read-only from the init actor down through every
// operator and source actor.
package queryctx

import (
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

type contextKey int

const (
	keySources contextKey = iota
	keySource
	keyAuth
	keyIncludeCredentials
	keyLenient
	keyInitialBindings
	keyBaseIRI
)

// MatchFunc is the capability an in-memory RDF/JS-style source
// exposes: match a pattern's bound terms (unbound positions are the
// zero Term) and return the matching quads.
type MatchFunc func(s, p, o, g rdf.Term) *rdfstream.QuadStream

// SourceDescriptor is the data source descriptor of spec.md §3: either
// a bare IRI (Value set, Type ""), an in-memory source (Match set), or
// a record selecting a resolver family by Type ("sparql", "hypermedia",
// "rdfjsSource", "file").
type SourceDescriptor struct {
	Type    string
	Value   string
	Match   MatchFunc
	Context *qcontext.T // per-source context override, merged over the ambient context
}

// WithSources attaches the sequence of source descriptors a query
// should be evaluated against.
func WithSources(ctx *qcontext.T, sources []SourceDescriptor) *qcontext.T {
	return qcontext.WithValue(ctx, keySources, sources)
}

// Sources returns the attached source descriptors, or nil if none.
func Sources(ctx *qcontext.T) []SourceDescriptor {
	if v, ok := ctx.Value(keySources).([]SourceDescriptor); ok {
		return v
	}
	return nil
}

// WithSource attaches a single source descriptor, the form the
// quad-pattern resolve bus's actors read to decide, by Type, whether
// they can handle the current resolution (spec.md §4.5). The resolver
// coordinator in package source sets this once per descriptor before
// mediating, even when the query context originally carried a
// Sources list.
func WithSource(ctx *qcontext.T, d SourceDescriptor) *qcontext.T {
	return qcontext.WithValue(ctx, keySource, d)
}

// Source returns the single attached source descriptor, if any.
func Source(ctx *qcontext.T) (SourceDescriptor, bool) {
	v, ok := ctx.Value(keySource).(SourceDescriptor)
	return v, ok
}

// WithAuth attaches a "user:password" credential string.
func WithAuth(ctx *qcontext.T, userPass string) *qcontext.T {
	return qcontext.WithValue(ctx, keyAuth, userPass)
}

// Auth returns the attached credential string, if any.
func Auth(ctx *qcontext.T) (string, bool) {
	v, ok := ctx.Value(keyAuth).(string)
	return v, ok
}

// WithIncludeCredentials sets whether source actors should forward
// stored credentials on requests they issue.
func WithIncludeCredentials(ctx *qcontext.T, include bool) *qcontext.T {
	return qcontext.WithValue(ctx, keyIncludeCredentials, include)
}

// IncludeCredentials reports the include-credentials flag, default false.
func IncludeCredentials(ctx *qcontext.T) bool {
	v, _ := ctx.Value(keyIncludeCredentials).(bool)
	return v
}

// WithLenient sets whether source actors should tolerate malformed
// quads rather than erroring the stream.
func WithLenient(ctx *qcontext.T, lenient bool) *qcontext.T {
	return qcontext.WithValue(ctx, keyLenient, lenient)
}

// Lenient reports the lenient flag, default false.
func Lenient(ctx *qcontext.T) bool {
	v, _ := ctx.Value(keyLenient).(bool)
	return v
}

// WithInitialBindings attaches b to ctx, where InitialBindings reads it
// back. No operator and no step of query.Run reads it, so the bindings
// are not merged into the solutions a query produces.
func WithInitialBindings(ctx *qcontext.T, b bindings.Bindings) *qcontext.T {
	return qcontext.WithValue(ctx, keyInitialBindings, b)
}

// InitialBindings returns the attached initial bindings, if any.
func InitialBindings(ctx *qcontext.T) (bindings.Bindings, bool) {
	v, ok := ctx.Value(keyInitialBindings).(bindings.Bindings)
	return v, ok
}

// WithBaseIRI attaches the base IRI used to resolve relative IRIs
// encountered while dereferencing hypermedia sources.
func WithBaseIRI(ctx *qcontext.T, base string) *qcontext.T {
	return qcontext.WithValue(ctx, keyBaseIRI, base)
}

// BaseIRI returns the attached base IRI, if any.
func BaseIRI(ctx *qcontext.T) (string, bool) {
	v, ok := ctx.Value(keyBaseIRI).(string)
	return v, ok
}
