package operator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/algebra"
	"github.com/vanadium-labs/sparqlkit/bindings"
	"github.com/vanadium-labs/sparqlkit/expr"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/rdf"
	"github.com/vanadium-labs/sparqlkit/rdfstream"
)

const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
)

type groupActor struct{}

func (groupActor) Name() string { return "operator.group" }

func (groupActor) Test(_ *qcontext.T, action Action) (actor.TestOutcome, error) {
	if _, ok := action.Node.(algebra.Group); !ok {
		return actor.Reject("not a Group node"), nil
	}
	return actor.Pass(0), nil
}

// Run materializes Input, partitions it by GroupVars, and reduces each
// partition through every Aggregate. A nil GroupVars groups everything
// into a single partition, matching plain (no GROUP BY) aggregation.
func (groupActor) Run(ctx *qcontext.T, action Action) (Result, error) {
	n := action.Node.(algebra.Group)
	in, err := Resolve(ctx, n.Input)
	if err != nil {
		return Result{}, err
	}
	rows, err := rdfstream.Collect(in.Data)
	if err != nil {
		return Result{}, err
	}

	order := make([]string, 0)
	partitions := make(map[string][]bindings.Bindings)
	for _, b := range rows {
		key := b.KeyProjection(n.GroupVars)
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], b)
	}
	if len(rows) == 0 && len(n.GroupVars) == 0 {
		// Plain aggregation over zero rows still yields one group (e.g.
		// COUNT(*) = 0), per SPARQL's aggregate-without-GROUP-BY rule.
		order = []string{""}
		partitions[""] = nil
	}
	sort.Strings(order)

	vars := append(append([]string(nil), n.GroupVars...), aggregateVars(n.Aggregates)...)
	result := make([]bindings.Bindings, 0, len(order))
	for _, key := range order {
		group := partitions[key]
		out := bindings.Empty
		if len(group) > 0 {
			out = group[0].Project(n.GroupVars)
		}
		for _, agg := range n.Aggregates {
			val, err := reduceAggregate(agg, group)
			if err != nil {
				continue
			}
			out = out.Set(agg.As, val)
		}
		result = append(result, out)
	}

	meta := rdfstream.StaticMetadata(rdfstream.Metadata{TotalItems: int64(len(result))})
	return Result{Data: rdfstream.FromSlice(result), Vars: vars, Metadata: meta}, nil
}

func aggregateVars(aggs []algebra.Aggregate) []string {
	vars := make([]string, len(aggs))
	for i, a := range aggs {
		vars[i] = a.As
	}
	return vars
}

// reduceAggregate folds group through agg's function, per spec.md
// §4.2's aggregate list.
func reduceAggregate(agg algebra.Aggregate, group []bindings.Bindings) (rdf.Term, error) {
	values, err := aggregateValues(agg, group)
	if err != nil {
		return rdf.Term{}, err
	}
	switch strings.ToUpper(agg.Func) {
	case "COUNT":
		return rdf.NewLiteral(strconv.Itoa(len(values)), xsdInteger), nil
	case "SUM":
		var total float64
		for _, v := range values {
			f, err := numericLiteralValue(v)
			if err != nil {
				return rdf.Term{}, err
			}
			total += f
		}
		return rdf.NewLiteral(formatAggNumeric(total), xsdDouble), nil
	case "AVG":
		if len(values) == 0 {
			return rdf.NewLiteral("0", xsdInteger), nil
		}
		var total float64
		for _, v := range values {
			f, err := numericLiteralValue(v)
			if err != nil {
				return rdf.Term{}, err
			}
			total += f
		}
		return rdf.NewLiteral(formatAggNumeric(total/float64(len(values))), xsdDouble), nil
	case "MIN":
		return extremeTerm(values, true)
	case "MAX":
		return extremeTerm(values, false)
	case "SAMPLE":
		if len(values) == 0 {
			return rdf.Term{}, typeErrorf("SAMPLE of empty group")
		}
		return values[0], nil
	case "GROUP_CONCAT":
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v.Value()
		}
		return rdf.NewLiteral(strings.Join(parts, " "), rdf.XSDString), nil
	default:
		return rdf.Term{}, typeErrorf("unknown aggregate function %q", agg.Func)
	}
}

// aggregateValues evaluates agg.Expr (nil means COUNT(*)) across
// group, applying Distinct dedup by lexical value when requested.
func aggregateValues(agg algebra.Aggregate, group []bindings.Bindings) ([]rdf.Term, error) {
	var values []rdf.Term
	seen := make(map[string]bool)
	for _, b := range group {
		var v rdf.Term
		if agg.Expr == nil {
			v = rdf.NewLiteral("*", rdf.XSDString)
		} else {
			var err error
			v, err = expr.Eval(b, agg.Expr)
			if err != nil {
				continue
			}
		}
		if agg.Distinct {
			key := v.String()
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		values = append(values, v)
	}
	return values, nil
}

func numericLiteralValue(t rdf.Term) (float64, error) {
	f, err := strconv.ParseFloat(t.Value(), 64)
	if err != nil {
		return 0, typeErrorf("%q is not numeric", t.Value())
	}
	return f, nil
}

func extremeTerm(values []rdf.Term, wantMin bool) (rdf.Term, error) {
	if len(values) == 0 {
		return rdf.Term{}, typeErrorf("aggregate of empty group")
	}
	best := values[0]
	bestF, bestErr := numericLiteralValue(best)
	for _, v := range values[1:] {
		f, err := numericLiteralValue(v)
		switch {
		case bestErr == nil && err == nil:
			if (wantMin && f < bestF) || (!wantMin && f > bestF) {
				best, bestF = v, f
			}
		case bestErr == nil:
			// Keep the numeric one; skip the non-numeric.
		default:
			if (wantMin && v.Value() < best.Value()) || (!wantMin && v.Value() > best.Value()) {
				best = v
			}
			bestErr = err
		}
	}
	return best, nil
}

func formatAggNumeric(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func typeErrorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
