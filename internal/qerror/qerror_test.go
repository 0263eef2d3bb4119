package qerror_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/internal/qcontext"
	"github.com/vanadium-labs/sparqlkit/internal/qerror"
)

func TestErrorfProducesAnErrorRecognizedByIs(t *testing.T) {
	ctx, cancel := qcontext.Root()
	defer cancel()

	err := qerror.ErrSourceError.Errorf(ctx, "fetch failed for %s", "http://ex/a")
	require.Error(t, err)
	require.True(t, qerror.Is(err, qerror.ErrSourceError))
	require.False(t, qerror.Is(err, qerror.ErrCancelled))
}

func TestErrorIDRoundTrips(t *testing.T) {
	ctx, cancel := qcontext.Root()
	defer cancel()

	err := qerror.ErrCardinalityViolation.Errorf(ctx, "join would exceed limit")
	require.Equal(t, qerror.ErrCardinalityViolation.ID, qerror.ErrorID(err))
}

func TestErrorIDOnPlainErrorIsEmpty(t *testing.T) {
	require.Equal(t, qerror.ID(""), qerror.ErrorID(errors.New("plain")))
}

func TestActionDefaultsToNoRetryForPlainError(t *testing.T) {
	require.Equal(t, qerror.NoRetry, qerror.Action(errors.New("plain")))
}

func TestActionReflectsRegisteredIDAction(t *testing.T) {
	ctx, cancel := qcontext.Root()
	defer cancel()

	err := qerror.ErrSourceError.Errorf(ctx, "refetch me")
	require.Equal(t, qerror.RetryRefetch, qerror.Action(err))
}

func TestErrorfWrapsTrailingErrorArgument(t *testing.T) {
	ctx, cancel := qcontext.Root()
	defer cancel()

	cause := errors.New("underlying cause")
	err := qerror.ErrSourceError.Errorf(ctx, "wrapping: %v", cause)
	require.ErrorIs(t, err, cause)
}

func TestIsDoesNotMatchAcrossDifferentIDActions(t *testing.T) {
	ctx, cancel := qcontext.Root()
	defer cancel()

	err := qerror.ErrOperatorSemantic.Errorf(ctx, "type error")
	require.False(t, qerror.Is(err, qerror.ErrInvariantViolation))
}
