package tuple

import (
	"fmt"

	"github.com/quarrydb/quarry/common"
)

type Type int8

const (
	// DefaultType marks an uninitialized Value.
	DefaultType Type = iota
	IntType
	StringType
)

func (t Type) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	}
	return "unknown"
}

// Value represents a single typed data item in a row.
// Values are immutable and passed by value between operators.
type Value struct {
	t                Type
	underlyingInt    int64
	underlyingString string
}

// NewIntValue creates a new integer Value.
func NewIntValue(v int64) Value {
	return Value{t: IntType, underlyingInt: v}
}

// NewStringValue creates a new string Value.
func NewStringValue(v string) Value {
	return Value{t: StringType, underlyingString: v}
}

// Type returns the type of the Value.
func (v Value) Type() Type {
	return v.t
}

// IsNil returns true if the Value is uninitialized.
func (v Value) IsNil() bool {
	return v.t == DefaultType
}

// IntValue returns the underlying integer.
func (v Value) IntValue() int64 {
	common.Assert(v.t == IntType, "type mismatch in IntValue")
	return v.underlyingInt
}

// StringValue returns the underlying string.
func (v Value) StringValue() string {
	common.Assert(v.t == StringType, "type mismatch in StringValue")
	return v.underlyingString
}

// Compare compares two Values using their natural ordering: numeric for
// integers, lexicographic for strings.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
// Comparing values of different types is a contract violation reported as a
// TypeMismatchError; there is no implicit coercion.
func (v Value) Compare(other Value) (int, error) {
	if v.t != other.t {
		return 0, common.Errorf(common.TypeMismatchError,
			"cannot compare %s with %s", v.t, other.t)
	}

	switch v.t {
	case IntType:
		if v.underlyingInt < other.underlyingInt {
			return -1, nil
		}
		if v.underlyingInt > other.underlyingInt {
			return 1, nil
		}
		return 0, nil
	case StringType:
		if v.underlyingString < other.underlyingString {
			return -1, nil
		}
		if v.underlyingString > other.underlyingString {
			return 1, nil
		}
		return 0, nil
	}
	return 0, common.Errorf(common.TypeMismatchError, "cannot compare uninitialized values")
}

func (v Value) String() string {
	switch v.t {
	case IntType:
		return fmt.Sprintf("%d", v.underlyingInt)
	case StringType:
		return v.underlyingString
	}
	return "<nil>"
}
