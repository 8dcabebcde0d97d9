package common

import "fmt"

// ObjectID is a unique identifier for a table in the catalog.
type ObjectID uint32

const InvalidObjectID ObjectID = 0

func (oid ObjectID) String() string {
	return fmt.Sprintf("Object(%d)", uint32(oid))
}

type TransactionID uint64

const InvalidTransactionID TransactionID = 0

// Assert checks a condition and panics if it is false.
//
// Assertions are reserved for invariants: truths about internal state that
// must always hold (e.g., a cached lookahead row that exists while the valid
// flag is unset). Anything that can legitimately fail at runtime -- bad field
// indices, lock conflicts, exhausted iterators -- is reported as an
// EngineError instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
