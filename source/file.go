package source

import (
	"net/http"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// FileActor resolves quad patterns against a local RDF file (spec.md
// §3's "file" source family). It never talks to the network: instead
// of the context's ambient Fetch contract it supplies its own,
// billy.Filesystem-backed FetchFunc to the ambient Dereference
// contract, so the same RDF-parsing collaborator used by the
// hypermedia actor also parses local files.
type FileActor struct {
	FS billy.Filesystem // defaults to an OS filesystem rooted at "/"
}

func (FileActor) Name() string { return "source.file" }

func (a FileActor) Test(ctx *qcontext.T, _ Action) (actor.TestOutcome, error) {
	d, ok := queryctx.Source(ctx)
	if !ok || d.Type != "file" {
		return actor.Reject("descriptor is not a file source"), nil
	}
	if _, ok := Dereference(ctx); !ok {
		return actor.Reject("no dereference contract attached"), nil
	}
	return actor.Pass(5), nil
}

func (a FileActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	d, _ := queryctx.Source(ctx)
	deref, ok := Dereference(ctx)
	if !ok {
		return Result{}, ErrNoDereference.Errorf(ctx, "file source %q has no dereference contract", d.Value)
	}

	res, err := deref(ctx, d.Value, a.fetch())
	if err != nil {
		return Result{}, err
	}

	pattern := action.Pattern
	filtered := rdfstream.Filter(res.Quads.Stream, pattern.Matches)

	total := res.Quads.Metadata().TotalItems
	if res.Metadata != nil {
		metaQuads, err := rdfstream.Collect(res.Metadata.Stream)
		if err != nil {
			return Result{}, err
		}
		if n := extractTotalItems(metaQuads); n != rdfstream.TotalItemsUnknown {
			total = n
		}
	}
	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: total})
	return Result{Data: rdfstream.NewQuadStream(filtered, meta), Metadata: meta}, nil
}

// fs returns the configured filesystem, defaulting to one rooted at
// the OS root so an absolute file:// path resolves as expected.
func (a FileActor) fs() billy.Filesystem {
	if a.FS != nil {
		return a.FS
	}
	return osfs.New("/")
}

// fetch adapts billy.Filesystem.Open to the FetchFunc contract: the
// "URL" is a local path, optionally prefixed with the file:// scheme.
func (a FileActor) fetch() FetchFunc {
	fs := a.fs()
	return func(_ *qcontext.T, url string, _ FetchInit) (FetchResponse, error) {
		path := strings.TrimPrefix(url, "file://")
		f, err := fs.Open(path)
		if err != nil {
			return FetchResponse{}, err
		}
		return FetchResponse{
			Body:    f,
			Status:  200,
			OK:      true,
			URL:     url,
			Headers: http.Header{},
			Cancel:  func() {},
		}, nil
	}
}
