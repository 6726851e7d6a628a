// Package mapper translates the resolved Tove declaration graph into
// the binary shapes the class-file emitter consumes: erased types,
// method signatures, dispatch decisions and synthetic constructor
// parameters. It is a pure function of (graph, mode); a Mapper holds
// no per-call state and is safe for concurrent use.
package mapper

import (
	"fmt"

	"github.com/tovelang/tove/sem"
)

// UnmappableTypeError reports a type that cannot be erased: an
// unresolved classifier, a malformed array, or an unknown classifier
// kind. Fatal in strict mode.
type UnmappableTypeError struct {
	Type   *sem.Type
	Reason string
}

func (e *UnmappableTypeError) Error() string {
	return fmt.Sprintf("mapper: unmappable type: %s", e.Reason)
}

// UnsupportedShapeError reports a declaration whose containing shape
// the dispatch resolver does not recognize. Always fatal: the upstream
// resolver produced a graph the backend was never designed to erase.
type UnsupportedShapeError struct {
	Msg string
}

func (e *UnsupportedShapeError) Error() string {
	return "mapper: unsupported declaration shape: " + e.Msg
}

// InconsistencyError reports a broken internal invariant, e.g. a
// constructor owner that did not erase to an object type or a cycle in
// the override graph. Always fatal and never the input's fault.
type InconsistencyError struct {
	Msg string
}

func (e *InconsistencyError) Error() string {
	return "mapper: internal inconsistency: " + e.Msg
}

func unsupportedf(format string, args ...interface{}) error {
	return &UnsupportedShapeError{Msg: fmt.Sprintf(format, args...)}
}

func inconsistentf(format string, args ...interface{}) error {
	return &InconsistencyError{Msg: fmt.Sprintf(format, args...)}
}
