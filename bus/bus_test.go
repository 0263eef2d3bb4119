package bus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/actor"
	"github.com/vanadium-labs/sparqlkit/bus"
	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
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

func TestPublishReturnsOneReplyPerActorInRegistrationOrder(t *testing.T) {
	b := bus.New[string, int]("test-bus")
	b.Register(fixedActor{name: "a", outcome: actor.Pass(1)})
	b.Register(fixedActor{name: "b", outcome: actor.Reject("nope")})

	ctx, cancel := qcontext.Root()
	defer cancel()

	replies := b.Publish(ctx, "action")
	require.Len(t, replies, 2)
	require.Equal(t, "a", replies[0].Actor.Name())
	require.True(t, replies[0].Outcome.Passed)
	require.Equal(t, "b", replies[1].Actor.Name())
	require.False(t, replies[1].Outcome.Passed)
}

func TestNameReturnsBusName(t *testing.T) {
	b := bus.New[string, int]("named-bus")
	require.Equal(t, "named-bus", b.Name())
}

func TestRegisterAfterPublishPanics(t *testing.T) {
	b := bus.New[string, int]("freeze-bus")
	b.Register(fixedActor{name: "a", outcome: actor.Pass(1)})

	ctx, cancel := qcontext.Root()
	defer cancel()
	b.Publish(ctx, "action")

	require.Panics(t, func() {
		b.Register(fixedActor{name: "b", outcome: actor.Pass(1)})
	})
}

func TestActorsReturnsACopyNotTheLiveSlice(t *testing.T) {
	b := bus.New[string, int]("copy-bus")
	b.Register(fixedActor{name: "a", outcome: actor.Pass(1)})

	got := b.Actors()
	got[0] = fixedActor{name: "mutated", outcome: actor.Pass(1)}

	require.Equal(t, "a", b.Actors()[0].Name())
}
