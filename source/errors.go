package source

import "github.com/vanadium-labs/sparqlkit/internal/qerror"

// ErrNoMatchFunc is a source error (spec.md §7 kind 2) raised when an
// rdfjsSource descriptor is missing its Match capability.
var ErrNoMatchFunc = qerror.NewIDAction("sparqlkit/source.ErrNoMatchFunc", qerror.NoRetry)

// ErrNoDereference is a source error raised when a descriptor needs
// the Dereference contract but none was attached to the context.
var ErrNoDereference = qerror.NewIDAction("sparqlkit/source.ErrNoDereference", qerror.NoRetry)

// ErrNoSearchForm is a source error raised when a hypermedia source
// has no instantiable search form for a pattern with bound terms and
// no usable default page.
var ErrNoSearchForm = qerror.NewIDAction("sparqlkit/source.ErrNoSearchForm", qerror.NoRetry)
