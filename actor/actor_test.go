package actor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/actor"
)

func TestPassReportsSuccessWithMetric(t *testing.T) {
	out := actor.Pass(3.5)
	require.True(t, out.Passed)
	require.Equal(t, 3.5, out.Metric)
	require.Empty(t, out.Reason)
}

func TestRejectReportsFailureWithReason(t *testing.T) {
	out := actor.Reject("no shared variables")
	require.False(t, out.Passed)
	require.Equal(t, "no shared variables", out.Reason)
}
