// Package errors provides error handling for Convertal.
//
// This package re-exports github.com/cockroachdb/errors and declares the
// sentinel errors shared by the registry, the conversion engine and the
// document layer. Two classes matter to callers:
//
//   - Validation errors (bad names, duplicates, mismatched quantities) are
//     ordinary errors. The offending call is rejected and registry state is
//     left untouched.
//   - Invariant violations (ambiguous matches, dependency cycles, analog
//     mismatches) are assertion failures. IsAssertionFailure reports them and
//     errors.Is still matches the sentinel they wrap.
//
// Usage:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
//
//	if errors.IsAssertionFailure(err) {
//	    // internal consistency bug; abort
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf     = crdb.AssertionFailedf
	WithAssertionFailure = crdb.WithAssertionFailure
	IsAssertionFailure   = crdb.IsAssertionFailure
	HasAssertionFailure  = crdb.HasAssertionFailure
)

// Validation errors. The caller supplied something the registry cannot accept.
var (
	// ErrInvalidName indicates a name or symbol that does not match the name grammar
	ErrInvalidName = New("invalid name")

	// ErrDuplicateName indicates a name or symbol already taken in its bucket
	ErrDuplicateName = New("duplicate name")

	// ErrInvalidQuantity indicates a unit whose quantity does not match the request
	ErrInvalidQuantity = New("invalid quantity")

	// ErrInvalidDefinition indicates a definition that cannot produce a valid entity
	ErrInvalidDefinition = New("invalid definition")

	// ErrDefinitionMismatch indicates a get-or-define call whose existing entity
	// differs from the requested definition
	ErrDefinitionMismatch = New("definition mismatch")

	// ErrIncompatibleComposition indicates an operation undefined for the
	// scalar/vector variants involved
	ErrIncompatibleComposition = New("incompatible composition")

	// ErrDisposed indicates use of an entity that was removed from its registry
	ErrDisposed = New("entity disposed")

	// ErrProtected indicates an attempt to dispose a canonical entity
	ErrProtected = New("entity cannot be disposed")

	// ErrUnsupportedVersion indicates a document format version this build cannot read
	ErrUnsupportedVersion = New("unsupported document version")

	// ErrUnresolvedReference indicates document references that never resolved
	ErrUnresolvedReference = New("unresolved reference")

	// ErrSelfReference indicates a unit composition that names the unit itself
	ErrSelfReference = New("self-referencing composition")
)

// ErrNotFound indicates a lookup miss. It is a normal outcome, distinct from
// ErrAmbiguousMatch.
var ErrNotFound = New("not found")

// Invariant violations. These are always returned wrapped as assertion failures.
var (
	// ErrAmbiguousMatch indicates more than one entity matched where uniqueness holds
	ErrAmbiguousMatch = New("ambiguous match")

	// ErrAnalogMismatch indicates a scalar/vector analog link that is duplicated or
	// whose compositions disagree
	ErrAnalogMismatch = New("analog mismatch")

	// ErrDisposalOrder indicates a fundamental unit disposed before its quantity
	ErrDisposalOrder = New("disposal order violated")

	// ErrDependencyCycle indicates a dependency traversal that revisited its start
	ErrDependencyCycle = New("dependency cycle")

	// ErrRenameConflict indicates an attempt to rename an already named entity
	ErrRenameConflict = New("rename conflict")
)

// Invariantf wraps sentinel with a formatted message and marks the result as an
// assertion failure.
func Invariantf(sentinel error, format string, args ...interface{}) error {
	return WithAssertionFailure(Wrapf(sentinel, format, args...))
}

// Invalidf wraps sentinel with a formatted message.
func Invalidf(sentinel error, format string, args ...interface{}) error {
	return Wrapf(sentinel, format, args...)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsValidationError reports whether err is a caller-input problem rather than
// an internal consistency failure.
func IsValidationError(err error) bool {
	if err == nil || IsAssertionFailure(err) {
		return false
	}
	return IsAny(err,
		ErrInvalidName,
		ErrDuplicateName,
		ErrInvalidQuantity,
		ErrInvalidDefinition,
		ErrDefinitionMismatch,
		ErrIncompatibleComposition,
		ErrDisposed,
		ErrProtected,
		ErrUnsupportedVersion,
		ErrUnresolvedReference,
		ErrSelfReference,
	)
}
