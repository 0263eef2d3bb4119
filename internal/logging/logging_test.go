package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanadium-labs/sparqlkit/internal/logging"
)

func TestDiscardNeverPanicsAndReportsNoVerbosity(t *testing.T) {
	require.NotPanics(t, func() {
		logging.Discard.Infof("ignored %d", 1)
		logging.Discard.Errorf("ignored %d", 2)
		logging.Discard.InfoDepth(0, "ignored")
	})
	require.False(t, logging.Discard.V(0))
	require.False(t, logging.Discard.V(100))
}

func TestStdLoggerVReflectsConfiguredThreshold(t *testing.T) {
	l := logging.NewStdLogger(2)
	require.True(t, l.V(0))
	require.True(t, l.V(2))
	require.False(t, l.V(3))
}

func TestStdLoggerSetVerbosityAdjustsThreshold(t *testing.T) {
	l := logging.NewStdLogger(0)
	require.False(t, l.V(5))

	l.SetVerbosity(5)
	require.True(t, l.V(5))
}

func TestStdLoggerInfofAndErrorfDoNotPanic(t *testing.T) {
	l := logging.NewStdLogger(1)
	require.NotPanics(t, func() {
		l.Infof("info %s", "message")
		l.Errorf("error %s", "message")
		l.InfoDepth(0, "depth", "message")
	})
}
