package wgsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fragcolor-xyz/shardswgsl/graph"
)

// ErrorKind represents the category of a translation error.
type ErrorKind uint8

const (
	// ErrUnknownOpcode indicates no handler is registered for an opcode kind.
	ErrUnknownOpcode ErrorKind = iota

	// ErrNoValueToConsume indicates an opcode needs a top value but there is none.
	ErrNoValueToConsume

	// ErrTypeMismatch indicates operator, update or branch types disagree.
	ErrTypeMismatch

	// ErrUndefinedVariable indicates a name resolves nowhere.
	ErrUndefinedVariable

	// ErrInvalidSwizzle indicates a swizzle of a non-vector or an out-of-range index.
	ErrInvalidSwizzle

	// ErrNonPassthroughUnsupported indicates a When action changed the value's type.
	ErrNonPassthroughUnsupported

	// ErrDuplicateBinding indicates a re-definition or write of a locked binding.
	ErrDuplicateBinding

	// ErrMisplacedOpcode indicates an opcode used outside the region it is defined for.
	ErrMisplacedOpcode

	// ErrInvalidBlock indicates an AST block that cannot hold children, or an
	// unbalanced scope stack.
	ErrInvalidBlock
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownOpcode:
		return "UnknownOpcode"
	case ErrNoValueToConsume:
		return "NoValueToConsume"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrUndefinedVariable:
		return "UndefinedVariable"
	case ErrInvalidSwizzle:
		return "InvalidSwizzle"
	case ErrNonPassthroughUnsupported:
		return "NonPassthroughUnsupported"
	case ErrDuplicateBinding:
		return "DuplicateBinding"
	case ErrMisplacedOpcode:
		return "MisplacedOpcode"
	case ErrInvalidBlock:
		return "InvalidBlock"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is a translation error.
//
// Op is the offending opcode so the host can map the failure back to a
// graph node. Path lists the enclosing scope-opening opcodes, outermost
// first. Name is the logical variable name involved, if any; mangled
// identifiers never appear in an Error.
type Error struct {
	Kind    ErrorKind
	Op      graph.Op
	Name    string
	Path    []string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("wgsl ")
	b.WriteString(e.Kind.String())
	if len(e.Path) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Path, " > "))
	}
	if e.Op != nil {
		b.WriteString(" at ")
		b.WriteString(e.Op.Label())
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, &Error{Kind: ErrTypeMismatch}) matches any type mismatch.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func newError(kind ErrorKind, op graph.Op, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

func nameError(kind ErrorKind, op graph.Op, name, format string, args ...any) *Error {
	e := newError(kind, op, format, args...)
	e.Name = name
	return e
}

func typeError(op graph.Op, cause error, format string, args ...any) *Error {
	e := newError(ErrTypeMismatch, op, format, args...)
	e.Cause = cause
	return e
}

// attachOp fills in op on errors raised by helpers that did not know it.
func attachOp(err error, op graph.Op) error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: ErrInvalidBlock, Op: op, Message: "translation failed", Cause: err}
	}
	if e.Op == nil {
		e.Op = op
	}
	return err
}

// withPath prepends a scope segment to an error escaping a nested region.
func withPath(err error, segment string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Path = append([]string{segment}, e.Path...)
	}
	return err
}
