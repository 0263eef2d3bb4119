package path

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"

	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
	"github.com/vanadium-labs/sparqlkit/source"
)

// ErrUnboundedEndpoints is returned for the fully-variable-endpoints
// case of an unbounded closure (ZeroOrMore, OneOrMore) or of
// ZeroOrOne's identity arm: spec.md §9 flags this as an open question
// ("do not guess") since resolving it correctly would require
// enumerating every term in the universe. We surface it as a fatal
// error rather than silently approximating it.
var ErrUnboundedEndpoints = qerror.NewIDAction("sparqlkit/path.ErrUnboundedEndpoints", qerror.NoRetry)

func freshVar() rdf.Term {
	return rdf.NewVariable("_path_" + uuid.NewString())
}

// Evaluate evaluates p between subject and object within graph,
// returning a stream of bindings carrying only the subject/object
// variables: generated intermediate variables never leak, per spec.md
// §8's "variable hygiene" property.
func Evaluate(ctx *qcontext.T, subject rdf.Term, p Path, object rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	return evalStep(ctx, subject, p, object, graph)
}

func evalStep(ctx *qcontext.T, s rdf.Term, p Path, o rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	switch n := p.(type) {
	case Link:
		return evalLink(ctx, s, n.IRI, o, graph)
	case Inv:
		return evalStep(ctx, o, n.Operand, s, graph)
	case Seq:
		return evalSeq(ctx, s, n, o, graph)
	case Alt:
		return evalAlt(ctx, s, n, o, graph)
	case NPS:
		return evalNPS(ctx, s, n, o, graph)
	case ZeroOrMore:
		return evalClosure(ctx, s, n.Operand, o, graph, true)
	case OneOrMore:
		return evalClosure(ctx, s, n.Operand, o, graph, false)
	case ZeroOrOne:
		return evalZeroOrOne(ctx, s, n, o, graph)
	default:
		return nil, qerror.ErrInvariantViolation.Errorf(ctx, "unknown path node %T", p)
	}
}

func bindEndpoints(s, o rdf.Term, subjectValue, objectValue rdf.Term) bindings.Bindings {
	b := bindings.Empty
	if s.IsVariable() {
		b = b.Set(s.Value(), subjectValue)
	}
	if o.IsVariable() {
		b = b.Set(o.Value(), objectValue)
	}
	return b
}

func evalLink(ctx *qcontext.T, s rdf.Term, iri string, o rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	pattern := rdf.Pattern{Subject: s, Predicate: rdf.NewNamedNode(iri), Object: o, Graph: graph}
	res, err := source.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return rdfstream.Map(res.Data.Stream, func(q rdf.Quad) bindings.Bindings {
		return bindEndpoints(s, o, q.Subject, q.Object)
	}), nil
}

// evalSeq evaluates Left from s to a fresh intermediate, then Right
// from each reached intermediate to o, nested-loop-joining on the
// intermediate and stripping it from the result (spec.md §4.4).
func evalSeq(ctx *qcontext.T, s rdf.Term, n Seq, o rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	mid := freshVar()
	leftStream, err := evalStep(ctx, s, n.Left, mid, graph)
	if err != nil {
		return nil, err
	}
	return rdfstream.New(func(emit func(bindings.Bindings) bool) error {
		for leftStream.Advance() {
			lb := leftStream.Value()
			midTerm, ok := lb.Get(mid.Value())
			if !ok {
				continue
			}
			rightStream, err := evalStep(ctx, midTerm, n.Right, o, graph)
			if err != nil {
				return err
			}
			stop := false
			for rightStream.Advance() {
				rb := rightStream.Value()
				merged, compatible := lb.Unset(mid.Value()).Merge(rb)
				if !compatible {
					continue
				}
				if !emit(merged) {
					stop = true
					break
				}
			}
			rightErr := rightStream.Err()
			rightStream.Destroy()
			if stop {
				return nil
			}
			if rightErr != nil {
				return rightErr
			}
		}
		return leftStream.Err()
	}, leftStream.Destroy), nil
}

func evalAlt(ctx *qcontext.T, s rdf.Term, n Alt, o rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	left, err := evalStep(ctx, s, n.Left, o, graph)
	if err != nil {
		return nil, err
	}
	right, err := evalStep(ctx, s, n.Right, o, graph)
	if err != nil {
		left.Destroy()
		return nil, err
	}
	return rdfstream.Concat(left, right), nil
}

func evalNPS(ctx *qcontext.T, s rdf.Term, n NPS, o rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	predVar := freshVar()
	pattern := rdf.Pattern{Subject: s, Predicate: predVar, Object: o, Graph: graph}
	res, err := source.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(n.IRIs))
	for _, iri := range n.IRIs {
		excluded[iri] = true
	}
	filtered := rdfstream.Filter(res.Data.Stream, func(q rdf.Quad) bool {
		return !excluded[q.Predicate.Value()]
	})
	return rdfstream.Map(filtered, func(q rdf.Quad) bindings.Bindings {
		return bindEndpoints(s, o, q.Subject, q.Object)
	}), nil
}

func evalZeroOrOne(ctx *qcontext.T, s rdf.Term, n ZeroOrOne, o rdf.Term, graph rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	oneStep, err := evalStep(ctx, s, n.Operand, o, graph)
	if err != nil {
		return nil, err
	}
	identity, err := identityBindings(ctx, s, o)
	if err != nil {
		oneStep.Destroy()
		return nil, err
	}
	return rdfstream.Concat(identity, oneStep), nil
}

// identityBindings is the (at most one) binding representing the
// zero-step identity path between s and o.
func identityBindings(ctx *qcontext.T, s, o rdf.Term) (*rdfstream.Stream[bindings.Bindings], error) {
	switch {
	case s.IsGround() && o.IsGround():
		if s.Equal(o) {
			return rdfstream.FromSlice([]bindings.Bindings{bindings.Empty}), nil
		}
		return rdfstream.Empty[bindings.Bindings](), nil
	case s.IsVariable() && o.IsGround():
		return rdfstream.FromSlice([]bindings.Bindings{bindings.Empty.Set(s.Value(), o)}), nil
	case s.IsGround() && o.IsVariable():
		return rdfstream.FromSlice([]bindings.Bindings{bindings.Empty.Set(o.Value(), s)}), nil
	default:
		return nil, ErrUnboundedEndpoints.Errorf(ctx, "zero-length path identity between two variables is implementation-defined and unsupported")
	}
}

// evalClosure dispatches ZeroOrMore/OneOrMore by which endpoint is
// ground, reducing the s-variable case to the o-ground case via Inv so
// only one BFS direction needs implementing.
func evalClosure(ctx *qcontext.T, s rdf.Term, operand Path, o rdf.Term, graph rdf.Term, zeroLength bool) (*rdfstream.Stream[bindings.Bindings], error) {
	switch {
	case s.IsVariable() && o.IsVariable():
		return nil, ErrUnboundedEndpoints.Errorf(ctx, "unbounded path closure between two variables is implementation-defined and unsupported")
	case s.IsVariable():
		return evalClosure(ctx, o, Inv{Operand: operand}, s, graph, zeroLength)
	default:
		return evalClosureForward(ctx, s, operand, o, graph, zeroLength)
	}
}

// evalClosureForward runs the breadth-first expansion of spec.md §4.4
// from the ground term start. A roaring bitmap over interned term IDs
// is the visited set guaranteeing termination on cyclic graphs.
func evalClosureForward(ctx *qcontext.T, start rdf.Term, operand Path, end rdf.Term, graph rdf.Term, zeroLength bool) (*rdfstream.Stream[bindings.Bindings], error) {
	endGround := end.IsGround()
	return rdfstream.New(func(emit func(bindings.Bindings) bool) error {
		visited := roaring.New()
		interner := newTermInterner()

		emitFound := func(t rdf.Term) bool {
			if endGround {
				return emit(bindings.Empty)
			}
			return emit(bindings.Empty.Set(end.Value(), t))
		}

		frontier := []rdf.Term{start}
		if zeroLength {
			visited.Add(interner.id(start))
			if !endGround || start.Equal(end) {
				if !emitFound(start) {
					return nil
				}
			}
			if endGround && start.Equal(end) {
				return nil
			}
		}

		for len(frontier) > 0 {
			var next []rdf.Term
			for _, cur := range frontier {
				hop := freshVar()
				stepStream, err := evalStep(ctx, cur, operand, hop, graph)
				if err != nil {
					return err
				}
				stop := false
				for stepStream.Advance() {
					b := stepStream.Value()
					nt, ok := b.Get(hop.Value())
					if !ok {
						continue
					}
					id := interner.id(nt)
					if visited.Contains(id) {
						continue
					}
					visited.Add(id)
					if endGround && nt.Equal(end) {
						emit(bindings.Empty)
						stop = true
						break
					}
					if !endGround {
						if !emitFound(nt) {
							stop = true
							break
						}
					}
					next = append(next, nt)
				}
				stepErr := stepStream.Err()
				stepStream.Destroy()
				if stop {
					return nil
				}
				if stepErr != nil {
					return stepErr
				}
			}
			frontier = next
		}
		return nil
	}, nil), nil
}

// termInterner assigns dense uint32 IDs to terms seen during one BFS,
// the id space roaring.Bitmap tracks as the visited set.
type termInterner struct {
	ids  map[string]uint32
	next uint32
}

func newTermInterner() *termInterner {
	return &termInterner{ids: make(map[string]uint32)}
}

func (ti *termInterner) id(t rdf.Term) uint32 {
	key := t.String()
	if id, ok := ti.ids[key]; ok {
		return id
	}
	id := ti.next
	ti.next++
	ti.ids[key] = id
	return id
}
