package source

import (
	"strconv"

	"github.com/yosida95/uritemplate/v3"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/queryctx"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

// Hydra / TPF-QPF vocabulary terms the hypermedia actor recognizes in
// a source's metadata quads (spec.md §4.5 step 2).
const (
	hydraSearch      = "http://www.w3.org/ns/hydra/core#search"
	hydraTemplate    = "http://www.w3.org/ns/hydra/core#template"
	hydraMapping     = "http://www.w3.org/ns/hydra/core#mapping"
	hydraVariable    = "http://www.w3.org/ns/hydra/core#variable"
	hydraProperty    = "http://www.w3.org/ns/hydra/core#property"
	hydraNext        = "http://www.w3.org/ns/hydra/core#next"
	hydraTotalItems  = "http://www.w3.org/ns/hydra/core#totalItems"
	voidTriples      = "http://rdfs.org/ns/void#triples"
	rdfSubjectProp   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#subject"
	rdfPredicateProp = "http://www.w3.org/1999/02/22-rdf-syntax-ns#predicate"
	rdfObjectProp    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#object"
)

// searchForm is an instantiable Hydra IriTemplate: a URI template plus
// the pattern position each of its variables binds.
type searchForm struct {
	template  *uritemplate.Template
	variables map[rdf.Position]string // position -> template variable name
}

// HypermediaActor resolves quad patterns against a Triple/Quad Pattern
// Fragments (or plain Hydra-described) HTTP resource, per spec.md §4.5.
// It is the only source actor that needs both the Fetch and
// Dereference contracts, and the only one that pages.
type HypermediaActor struct {
	Cache *DerefCache
}

func (HypermediaActor) Name() string { return "source.hypermedia" }

func (a HypermediaActor) Test(ctx *qcontext.T, _ Action) (actor.TestOutcome, error) {
	d, ok := queryctx.Source(ctx)
	if !ok || d.Type != "hypermedia" {
		return actor.Reject("descriptor is not a hypermedia source"), nil
	}
	if _, ok := Dereference(ctx); !ok {
		return actor.Reject("no dereference contract attached"), nil
	}
	return actor.Pass(10), nil
}

func (a HypermediaActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	d, _ := queryctx.Source(ctx)
	deref, ok := Dereference(ctx)
	if !ok {
		return Result{}, ErrNoDereference.Errorf(ctx, "hypermedia source %q has no dereference contract", d.Value)
	}
	fetchFn, _ := Fetch(ctx)
	pattern := action.Pattern

	root, err := a.fetch(ctx, d.Value, deref, fetchFn)
	if err != nil {
		return Result{}, err
	}
	rootMeta, err := rdfstream.Collect(root.Metadata.Stream)
	if err != nil {
		return Result{}, err
	}

	form, hasForm := extractSearchForm(rootMeta)
	pageURL := d.Value
	if hasForm {
		u, err := instantiateSearchForm(form, pattern)
		if err != nil {
			return Result{}, err
		}
		pageURL = u
	} else if patternHasBoundTerm(pattern) {
		return Result{}, ErrNoSearchForm.Errorf(ctx, "hypermedia source %q has no search form to instantiate %s", d.Value, pattern)
	}

	var totalItems int64 = rdfstream.TotalItemsUnknown
	metadataResolved := make(chan struct{})

	quadStream := rdfstream.New(func(emit func(rdf.Quad) bool) error {
		defer close(metadataResolved)

		page := root
		if pageURL != d.Value {
			var err error
			page, err = a.fetch(ctx, pageURL, deref, fetchFn)
			if err != nil {
				return err
			}
		}

		firstPage := true
		for {
			pageMeta, err := rdfstream.Collect(page.Metadata.Stream)
			if err != nil {
				return err
			}
			if firstPage {
				totalItems = extractTotalItems(pageMeta)
				firstPage = false
			}

			for page.Quads.Advance() {
				q := page.Quads.Value()
				if !pattern.Matches(q) {
					continue
				}
				if !emit(q) {
					return nil
				}
			}
			if err := page.Quads.Err(); err != nil {
				return err
			}

			next, ok := extractNextLink(pageMeta)
			if !ok {
				return nil
			}
			page, err = a.fetch(ctx, next, deref, fetchFn)
			if err != nil {
				return err
			}
		}
	}, nil)

	metadata := func() rdfstream.Metadata {
		<-metadataResolved
		return rdfstream.Metadata{TotalItems: totalItems}
	}
	return Result{Data: rdfstream.NewQuadStream(quadStream, metadata), Metadata: metadata}, nil
}

func (a HypermediaActor) fetch(ctx *qcontext.T, url string, deref DereferenceFunc, fetchFn FetchFunc) (DereferenceResult, error) {
	if a.Cache == nil {
		return deref(ctx, url, fetchFn)
	}
	return a.Cache.Get(url, func() (DereferenceResult, error) {
		return deref(ctx, url, fetchFn)
	})
}

func patternHasBoundTerm(p rdf.Pattern) bool {
	for _, t := range p.Positions() {
		if t.IsGround() {
			return true
		}
	}
	return false
}

func extractSearchForm(meta []rdf.Quad) (searchForm, bool) {
	var templateNode rdf.Term
	found := false
	for _, q := range meta {
		if q.Predicate.Value() == hydraSearch {
			templateNode = q.Object
			found = true
			break
		}
	}
	if !found {
		return searchForm{}, false
	}

	var templateStr string
	hasTemplate := false
	variables := make(map[rdf.Position]string)
	for _, q := range meta {
		if !q.Subject.Equal(templateNode) {
			continue
		}
		switch q.Predicate.Value() {
		case hydraTemplate:
			templateStr = q.Object.Value()
			hasTemplate = true
		case hydraMapping:
			varName, prop, ok := extractMapping(meta, q.Object)
			if ok {
				if pos, ok := propertyToPosition(prop); ok {
					variables[pos] = varName
				}
			}
		}
	}
	if !hasTemplate {
		return searchForm{}, false
	}
	tpl, err := uritemplate.New(templateStr)
	if err != nil {
		return searchForm{}, false
	}
	return searchForm{template: tpl, variables: variables}, true
}

func extractMapping(meta []rdf.Quad, mappingNode rdf.Term) (variable, property string, ok bool) {
	for _, q := range meta {
		if !q.Subject.Equal(mappingNode) {
			continue
		}
		switch q.Predicate.Value() {
		case hydraVariable:
			variable = q.Object.Value()
		case hydraProperty:
			property = q.Object.Value()
		}
	}
	return variable, property, variable != "" && property != ""
}

func propertyToPosition(property string) (rdf.Position, bool) {
	switch property {
	case rdfSubjectProp:
		return rdf.Subject, true
	case rdfPredicateProp:
		return rdf.Predicate, true
	case rdfObjectProp:
		return rdf.Object, true
	}
	return 0, false
}

func instantiateSearchForm(form searchForm, pattern rdf.Pattern) (string, error) {
	values := uritemplate.Values{}
	positions := pattern.Positions()
	for pos, varName := range form.variables {
		t := positions[pos]
		if t.IsGround() {
			values.Set(varName, uritemplate.String(termToTemplateValue(t)))
		}
	}
	return form.template.Expand(values)
}

func termToTemplateValue(t rdf.Term) string {
	switch t.Kind() {
	case rdf.KindNamedNode:
		return t.Value()
	default:
		return t.String()
	}
}

func extractTotalItems(meta []rdf.Quad) int64 {
	for _, q := range meta {
		switch q.Predicate.Value() {
		case hydraTotalItems, voidTriples:
			if n, err := strconv.ParseInt(q.Object.Value(), 10, 64); err == nil {
				return n
			}
		}
	}
	return rdfstream.TotalItemsUnknown
}

func extractNextLink(meta []rdf.Quad) (string, bool) {
	for _, q := range meta {
		if q.Predicate.Value() == hydraNext && q.Object.Kind() == rdf.KindNamedNode {
			return q.Object.Value(), true
		}
	}
	return "", false
}
