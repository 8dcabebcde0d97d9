package common

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	// OperationError is a generic failure from an underlying resource, or a
	// violation of an operator's lifecycle contract (e.g., double-open).
	OperationError ErrorCode = iota
	// IndexError indicates a field index outside a schema or row's bounds.
	// It signals a malformed predicate or plan and is fatal to the query.
	IndexError
	// TypeMismatchError indicates a comparison between incompatible field
	// types. There is no implicit coercion anywhere in the engine.
	TypeMismatchError
	// TransactionAbortedError is raised by the lock manager when a transaction
	// must abort (e.g., a lock conflict under the no-wait policy). It must
	// propagate unchanged through every operator in the tree.
	TransactionAbortedError
	// NoSuchElementError indicates Next() was called on an exhausted iterator.
	NoSuchElementError
	// DuplicateObjectError indicates an attempt to create a table that
	// already exists in the catalog.
	DuplicateObjectError
	// NoSuchObjectError indicates a request for a table that does not exist
	// in the catalog.
	NoSuchObjectError
)

func (ec ErrorCode) String() string {
	switch ec {
	case OperationError:
		return "OperationError"
	case IndexError:
		return "IndexError"
	case TypeMismatchError:
		return "TypeMismatchError"
	case TransactionAbortedError:
		return "TransactionAbortedError"
	case NoSuchElementError:
		return "NoSuchElementError"
	case DuplicateObjectError:
		return "DuplicateObjectError"
	case NoSuchObjectError:
		return "NoSuchObjectError"
	}
	return "unknown"
}

// EngineError is the custom error type for the query engine.
// It wraps a specific ErrorCode with a detailed message.
//
// Operators never branch on concrete error types; they branch on the code via
// CodeOf. This keeps propagation decisions (abort vs. fatal plan error) in one
// place without a class hierarchy.
type EngineError struct {
	Code      ErrorCode
	ErrString string
}

func (e EngineError) Error() string {
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

// Errorf builds an EngineError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) EngineError {
	return EngineError{Code: code, ErrString: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err. The second return is false when err
// is nil or did not originate from this engine.
func CodeOf(err error) (ErrorCode, bool) {
	var ee EngineError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
