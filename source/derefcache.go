package source

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// cachedDereference is what DerefCache stores per URL: the parsed
// quads and metadata quads materialized so they can be re-iterated on
// every cache hit, since a Stream is single-consumption (spec.md §4.5
// step 6: "entries hold parsed quad and metadata streams
// (re-iterable)").
type cachedDereference struct {
	quads     []rdf.Quad
	metaQuads []rdf.Quad
	mediaType string
	url       string
}

// DerefCache is the process-wide dereference cache of spec.md §4.5
// step 6 and §5's "shared resources": an LRU of bounded capacity,
// consulted before every dereference and invalidated by Invalidate
// (wired to an HTTP-invalidate bus by the embedding application).
// Cooperative exclusion — "only one fetch per URL may be in flight" —
// is implemented with singleflight.Group so concurrent resolutions of
// the same URL coalesce onto one underlying Dereference call.
type DerefCache struct {
	lru    *lru.Cache[string, cachedDereference]
	flight singleflight.Group
}

// NewDerefCache creates a DerefCache with the given bounded capacity.
func NewDerefCache(capacity int) *DerefCache {
	c, _ := lru.New[string, cachedDereference](capacity)
	return &DerefCache{lru: c}
}

// Get returns a freshly-iterable DereferenceResult for url, calling
// fetch on a cache miss (coalescing concurrent misses for the same
// url) and populating the cache on success.
func (c *DerefCache) Get(url string, fetch func() (DereferenceResult, error)) (DereferenceResult, error) {
	if entry, ok := c.lru.Get(url); ok {
		return materialize(entry), nil
	}

	v, err, _ := c.flight.Do(url, func() (interface{}, error) {
		if entry, ok := c.lru.Get(url); ok {
			return entry, nil
		}
		res, err := fetch()
		if err != nil {
			return cachedDereference{}, err
		}
		entry, err := drain(res)
		if err != nil {
			return cachedDereference{}, err
		}
		c.lru.Add(url, entry)
		return entry, nil
	})
	if err != nil {
		return DereferenceResult{}, err
	}
	return materialize(v.(cachedDereference)), nil
}

// Invalidate evicts url from the cache, forcing the next Get to
// re-fetch. Wired to an HTTP-invalidate bus by the embedding
// application (spec.md §4.5 step 6).
func (c *DerefCache) Invalidate(url string) {
	c.lru.Remove(url)
}

func drain(res DereferenceResult) (cachedDereference, error) {
	quads, err := rdfstream.Collect(res.Quads.Stream)
	if err != nil {
		return cachedDereference{}, err
	}
	var metaQuads []rdf.Quad
	if res.Metadata != nil {
		metaQuads, err = rdfstream.Collect(res.Metadata.Stream)
		if err != nil {
			return cachedDereference{}, err
		}
	}
	return cachedDereference{quads: quads, metaQuads: metaQuads, mediaType: res.MediaType, url: res.URL}, nil
}

func materialize(entry cachedDereference) DereferenceResult {
	return DereferenceResult{
		Quads:     rdfstream.NewQuadStream(rdfstream.FromSlice(entry.quads), rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(entry.quads))})),
		Metadata:  rdfstream.NewQuadStream(rdfstream.FromSlice(entry.metaQuads), rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(entry.metaQuads))})),
		MediaType: entry.mediaType,
		URL:       entry.url,
	}
}
