package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrorKind categorizes store errors.
type ErrorKind string

const (
	// KindIntegrityViolation indicates a masterlist code is still referenced by medical history.
	KindIntegrityViolation ErrorKind = "INTEGRITY_VIOLATION"

	// KindConstraintViolation indicates the engine rejected a write (duplicate key,
	// missing required field, foreign key) or the request broke a store precondition.
	KindConstraintViolation ErrorKind = "CONSTRAINT_VIOLATION"

	// KindNotFound indicates an update targeted a patient that does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindStorageFault indicates the engine itself failed.
	KindStorageFault ErrorKind = "STORAGE_FAULT"
)

// Error is returned by every store operation that fails.
// The in-flight transaction, if any, has been rolled back.
type Error struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Op names the store operation, e.g. "insert patient".
	Op string

	// Codes lists the offending illness codes of an integrity violation.
	Codes []string

	// Message is a human-readable description when there is no underlying error.
	Message string

	// Err is the underlying engine error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying engine error.
func (e *Error) Unwrap() error {
	return e.Err
}

// classify wraps err as a store Error for op.
// SQLite constraint failures become KindConstraintViolation, everything else
// KindStorageFault. Errors that are already classified pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return err
	}

	kind := KindStorageFault
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
		kind = KindConstraintViolation
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func integrityViolation(op string, codes []string) *Error {
	return &Error{
		Kind:  KindIntegrityViolation,
		Op:    op,
		Codes: codes,
		Message: fmt.Sprintf("cannot delete illness codes: %s; they are still referenced in Medical History records",
			strings.Join(codes, ", ")),
	}
}

func hasKind(err error, kind ErrorKind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// IsIntegrityViolation returns true if err is a referenced-code deletion failure.
// Uses errors.As to handle wrapped errors.
func IsIntegrityViolation(err error) bool {
	return hasKind(err, KindIntegrityViolation)
}

// IsConstraintViolation returns true if the engine or a store precondition rejected a write.
func IsConstraintViolation(err error) bool {
	return hasKind(err, KindConstraintViolation)
}

// IsNotFound returns true if the target patient does not exist.
func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsStorageFault returns true if the engine itself failed.
func IsStorageFault(err error) bool {
	return hasKind(err, KindStorageFault)
}

// ReferencedCodes returns the offending codes of an integrity violation, or nil.
func ReferencedCodes(err error) []string {
	var se *Error
	if errors.As(err, &se) && se.Kind == KindIntegrityViolation {
		return se.Codes
	}
	return nil
}
