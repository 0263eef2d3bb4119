// Package qcontext provides the engine's context type: an immutable
// keyed bag carried through every operation, plus the logging and
// cancellation machinery the rest of the engine relies on. It mirrors
// the teacher runtime's v.io/v23/context package, generalized from
// "the one root context a runtime hands to application code" to "the
// context.T every bus, actor and stream in this engine threads
// explicitly."
package qcontext

import (
	"context"
	"time"

	"github.com/vanadium-labs/sparqlkit/internal/logging"
)

// CancelFunc cancels a derived context.
type CancelFunc context.CancelFunc

// T carries deadlines, cancellation, data and a logger across actor,
// mediator and stream boundaries. The zero T is uninitialized; always
// derive contexts from Root or from a parent T.
type T struct {
	context.Context
	logger logging.Logger
	parent *T
	key    interface{}
}

// Root creates a new root context with no data attached and the
// discard logger. Application entry points (the init actor, tests)
// call this once and derive everything else from it.
func Root() (*T, CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	return &T{Context: ctx, logger: logging.Discard}, CancelFunc(cancel)
}

func newChild(ctx context.Context, parent *T) *T {
	return &T{Context: ctx, logger: parent.logger, parent: parent}
}

// Logger returns the logger embedded in this context.
func (t *T) Logger() logging.Logger {
	if t == nil || t.logger == nil {
		return logging.Discard
	}
	return t.logger
}

// WithLogger returns a child of parent carrying logger.
func WithLogger(parent *T, logger logging.Logger) *T {
	child := newChild(parent.Context, parent)
	child.logger = logger
	return child
}

// WithValue returns a child of parent that returns val when Value(key)
// is called. Like the teacher's context.T, each WithValue call is
// tracked via the parent/key chain so that Merge (below) can replay
// the key/value pairs of one context onto another.
func WithValue(parent *T, key, val interface{}) *T {
	child := newChild(context.WithValue(parent.Context, key, val), parent)
	child.key = key
	return child
}

// WithCancel returns a cancelable child of parent.
func WithCancel(parent *T) (*T, CancelFunc) {
	ctx, cancel := context.WithCancel(parent.Context)
	return newChild(ctx, parent), CancelFunc(cancel)
}

// WithDeadline returns a child of parent that is automatically
// canceled at deadline. The init actor uses this to enforce the
// query-level timeout of spec.md §5: "supplied via context as a
// deadline that the init actor enforces by destroying the root stream
// when exceeded."
func WithDeadline(parent *T, deadline time.Time) (*T, CancelFunc) {
	ctx, cancel := context.WithDeadline(parent.Context, deadline)
	return newChild(ctx, parent), CancelFunc(cancel)
}

// WithTimeout is WithDeadline relative to now.
func WithTimeout(parent *T, timeout time.Duration) (*T, CancelFunc) {
	ctx, cancel := context.WithTimeout(parent.Context, timeout)
	return newChild(ctx, parent), CancelFunc(cancel)
}

func collectValues(t *T, dst *T) *T {
	if t == nil {
		return dst
	}
	dst = collectValues(t.parent, dst)
	if t.key == nil {
		return dst
	}
	if v := t.Context.Value(t.key); v != nil {
		return WithValue(dst, t.key, v)
	}
	return dst
}

// Merge layers every key/value pair set on override (in the order it
// was set, root first) onto base, per spec.md §3's "merge is
// right-biased": where both contexts set the same key, override wins.
// The result shares base's deadline/cancellation; override's
// cancellation hierarchy is not inherited, matching the rule that
// contexts are created once at query entry and propagated read-only
// from there.
func Merge(base, override *T) *T {
	if override == nil {
		return base
	}
	return collectValues(override, base)
}

// Infof logs through the context's logger.
func (t *T) Infof(format string, args ...interface{}) { t.Logger().Infof(format, args...) }

// Errorf logs through the context's logger.
func (t *T) Errorf(format string, args ...interface{}) { t.Logger().Errorf(format, args...) }

// V reports whether level is enabled on the context's logger.
func (t *T) V(level int) bool { return t.Logger().V(level) }
