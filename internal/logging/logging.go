// Package logging defines the logging contract carried by every context
// in this engine. Implementations are supplied by the embedding
// application; the engine itself only depends on this interface and a
// small default adapter over the standard log package.
package logging

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Logger is the contract every context.T carries. It mirrors the shape
// of the teacher runtime's own logging.Logger: leveled Info/Error
// logging plus a verbosity gate so call sites can skip formatting work
// when nobody is listening at that level.
type Logger interface {
	// Infof logs an informational message.
	Infof(format string, args ...interface{})
	// Errorf logs an error-level message.
	Errorf(format string, args ...interface{})
	// V reports whether logging at the given verbosity level is enabled.
	V(level int) bool
	// InfoDepth logs to the info log, attributing the call to the frame
	// `depth` levels up from the caller.
	InfoDepth(depth int, args ...interface{})
}

// Discard is a Logger that drops everything. It is the zero-value
// default so that a context created without an explicit logger never
// panics on a log call.
var Discard Logger = discard{}

type discard struct{}

func (discard) Infof(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}
func (discard) V(int) bool                    { return false }
func (discard) InfoDepth(int, ...interface{}) {}

// StdLogger adapts the standard library's log package to the Logger
// contract. Verbosity is a simple global threshold, in the manner of
// the teacher's vlog: a call at level V is enabled iff V <= the
// configured threshold.
type StdLogger struct {
	level   int32
	infoLog *log.Logger
	errLog  *log.Logger
}

// NewStdLogger returns a StdLogger writing Info lines to stdout and
// Error lines to stderr, with the given initial verbosity threshold.
func NewStdLogger(verbosity int) *StdLogger {
	return &StdLogger{
		level:   int32(verbosity),
		infoLog: log.New(os.Stdout, "I ", log.Ldate|log.Ltime|log.Lmicroseconds),
		errLog:  log.New(os.Stderr, "E ", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
}

// SetVerbosity adjusts the threshold used by V.
func (l *StdLogger) SetVerbosity(v int) {
	atomic.StoreInt32(&l.level, int32(v))
}

func (l *StdLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Output(2, fmt.Sprintf(format, args...)) //nolint:errcheck
}

func (l *StdLogger) Errorf(format string, args ...interface{}) {
	l.errLog.Output(2, fmt.Sprintf(format, args...)) //nolint:errcheck
}

func (l *StdLogger) V(level int) bool {
	return int32(level) <= atomic.LoadInt32(&l.level)
}

func (l *StdLogger) InfoDepth(depth int, args ...interface{}) {
	l.infoLog.Output(depth+2, fmt.Sprint(args...)) //nolint:errcheck
}
