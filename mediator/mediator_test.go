package mediator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
	"github.com/vanadium-labs/sparqlkit/mediator"
)

type fixedActor struct {
	name    string
	outcome actor.TestOutcome
	result  int
}

func (f fixedActor) Name() string { return f.name }
func (f fixedActor) Test(*qcontext.T, string) (actor.TestOutcome, error) {
	return f.outcome, nil
}
func (f fixedActor) Run(*qcontext.T, string) (int, error) { return f.result, nil }

func TestMediateMinIterationsPicksLowestMetric(t *testing.T) {
	b := bus.New[string, int]("test-bus")
	b.Register(fixedActor{name: "slow", outcome: actor.Pass(100), result: 1})
	b.Register(fixedActor{name: "fast", outcome: actor.Pass(2), result: 2})
	b.Register(fixedActor{name: "rejecter", outcome: actor.Reject("no")})

	m := mediator.New(b, mediator.MinIterations)
	ctx, cancel := qcontext.Root()
	defer cancel()

	got, err := m.Mediate(ctx, "action")
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestMediateDispatchFailure(t *testing.T) {
	b := bus.New[string, int]("empty-bus")
	b.Register(fixedActor{name: "rejecter", outcome: actor.Reject("nope")})

	m := mediator.New(b, mediator.MinTime)
	ctx, cancel := qcontext.Root()
	defer cancel()

	_, err := m.Mediate(ctx, "action")
	require.Error(t, err)
	require.True(t, qerror.Is(err, qerror.ErrDispatchFailure))
}

func TestMediateCombineUnion(t *testing.T) {
	b := bus.New[string, int]("union-bus")
	b.Register(fixedActor{name: "a", outcome: actor.Pass(0), result: 1})
	b.Register(fixedActor{name: "b", outcome: actor.Pass(0), result: 2})

	m := &mediator.Mediator[string, int]{Bus: b, Policy: mediator.CombineUnion, Combine: func(outs []int) int {
		sum := 0
		for _, o := range outs {
			sum += o
		}
		return sum
	}}
	ctx, cancel := qcontext.Root()
	defer cancel()

	got, err := m.Mediate(ctx, "action")
	require.NoError(t, err)
	require.Equal(t, 3, got)
}
