// Package qerror implements the engine's error-reporting mechanism.
// It follows the shape of the teacher runtime's verror package: a
// registered identifier plus an action code plus a captured call site,
// with errors.Is support keyed on identifier rather than value equality.
package qerror

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// ID uniquely identifies a class of error, e.g.
// "sparqlkit/bus.ErrDispatchFailure".
type ID string

// ActionCode suggests what a caller should do upon receiving the error.
type ActionCode uint32

const (
	// NoRetry indicates the operation should not be retried.
	NoRetry ActionCode = iota
	// RetryBackoff indicates the caller may retry after a backoff.
	RetryBackoff
	// RetryRefetch indicates the caller should refetch dependent state
	// (e.g. a dereference cache entry) and retry.
	RetryRefetch
)

// IDAction pairs an ID with its default ActionCode. Package-level
// IDAction values are the engine's registered error kinds; construct
// errors from them with Errorf.
type IDAction struct {
	ID     ID
	Action ActionCode
}

// NewIDAction registers a new IDAction. Call sites conventionally do
// this once at package init time:
//
//	var ErrDispatchFailure = qerror.NewIDAction("sparqlkit/bus.ErrDispatchFailure", qerror.NoRetry)
func NewIDAction(id ID, action ActionCode) IDAction {
	return IDAction{ID: id, Action: action}
}

// Error implements error so that an IDAction can be passed directly as
// the target of errors.Is(err, someIDAction).
func (ia IDAction) Error() string {
	return string(ia.ID)
}

// E is the concrete error type produced by IDAction.Errorf. It records
// the identifier, action, formatted message and the call site's
// program counter for diagnostics.
type E struct {
	idAction IDAction
	msg      string
	pc       uintptr
	wrapped  error
}

// Errorf formats a new error attributed to this IDAction. ctx is
// accepted for call-site symmetry with the rest of the engine (every
// operation threads a context) but only the wrapped error, if any, and
// the formatted message are retained. If the last argument is an error
// it is retained and made available via Unwrap.
func (ia IDAction) Errorf(ctx context.Context, format string, args ...interface{}) error {
	_ = ctx
	var wrapped error
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			wrapped = err
		}
	}
	pc, _, _, _ := runtime.Caller(1)
	return &E{
		idAction: ia,
		msg:      fmt.Sprintf(format, args...),
		pc:       pc,
		wrapped:  wrapped,
	}
}

// Error implements error.
func (e *E) Error() string {
	return e.msg
}

// Unwrap supports errors.Unwrap / errors.Is on a wrapped source error.
func (e *E) Unwrap() error {
	return e.wrapped
}

// Is reports whether target is an E with the same identifier, so that
// errors.Is(err, qerror.ErrSomething) works without exposing *E.
func (e *E) Is(target error) bool {
	ia, ok := target.(IDAction)
	if !ok {
		return false
	}
	return e.idAction.ID == ia.ID
}

// ErrorID returns the error's identifier, or "" if err is not (and does not
// wrap) a qerror.E.
func ErrorID(err error) ID {
	var e *E
	if errors.As(err, &e) {
		return e.idAction.ID
	}
	return ""
}

// Action returns the action code for err, or NoRetry if err is not a
// qerror.E.
func Action(err error) ActionCode {
	var e *E
	if errors.As(err, &e) {
		return e.idAction.Action
	}
	return NoRetry
}

// Is reports whether err is (or wraps) an error produced by ia.
func Is(err error, ia IDAction) bool {
	return errors.Is(err, ia)
}

// The six error kinds of spec.md §7, registered once here so every
// package in the engine raises and recognizes the same identifiers.
var (
	// ErrDispatchFailure: no actor on a bus passed test.
	ErrDispatchFailure = NewIDAction("sparqlkit/bus.ErrDispatchFailure", NoRetry)
	// ErrSourceError: dereference or HTTP failure, surfaced on a stream.
	ErrSourceError = NewIDAction("sparqlkit/source.ErrSourceError", RetryRefetch)
	// ErrOperatorSemantic: an expression type error, folded into
	// filter/extend semantics rather than propagated, per SPARQL rules.
	ErrOperatorSemantic = NewIDAction("sparqlkit/expr.ErrOperatorSemantic", NoRetry)
	// ErrCardinalityViolation: a join actor's test declared a limit its
	// run would violate; fatal at test time, never reaches run.
	ErrCardinalityViolation = NewIDAction("sparqlkit/join.ErrCardinalityViolation", NoRetry)
	// ErrCancelled: a stream observed cancellation distinct from failure.
	ErrCancelled = NewIDAction("sparqlkit/stream.ErrCancelled", NoRetry)
	// ErrInvariantViolation: a programmer error (e.g. a generated fresh
	// variable collided with a user variable); fatal, surfaces at the
	// root.
	ErrInvariantViolation = NewIDAction("sparqlkit/engine.ErrInvariantViolation", NoRetry)
)

// Stack returns the program counter captured at the Errorf call site,
// suitable for runtime.CallersFrames.
func Stack(err error) []uintptr {
	var e *E
	if errors.As(err, &e) && e.pc != 0 {
		return []uintptr{e.pc}
	}
	return nil
}
