package execution

import (
	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/tuple"
)

// Iterator is the lifecycle contract every operator in a query plan
// implements, leaf scans and composite operators alike. Control flow is
// strictly caller-driven pull: nothing advances until the consumer asks.
//
// The state machine is Closed -> Open -> Closed. Close is legal from any
// state and idempotent; opening an already-open iterator is a contract
// violation. Rewind, HasNext and Next are only legal while Open.
type Iterator interface {
	// Open transitions Closed -> Open and initializes internal cursors,
	// recursively opening any children.
	Open() error

	// Close transitions to Closed and releases children and buffered state.
	// Cleanup is best-effort: a composite closes all of its children even if
	// one child's close fails, and surfaces the first error.
	Close() error

	// Rewind restarts iteration from the beginning, equivalent to Close
	// followed by Open.
	Rewind() error

	// HasNext reports whether a subsequent Next would produce a row. It does
	// not consume state: repeated calls without Next return the same answer.
	HasNext() (bool, error)

	// Next returns the next row and advances. Calling Next when HasNext
	// would be false is a contract violation (NoSuchElementError).
	Next() (tuple.Row, error)

	// Schema returns the shape of the rows this iterator produces. It is
	// callable in any state and invariant across open/close/rewind cycles.
	Schema() tuple.Schema
}

// opBase supplies the shared lookahead state machine behind HasNext/Next.
// Each operator embeds it and plugs in a fetch hook that either produces the
// next output row or reports end-of-stream; opBase caches the fetched row so
// HasNext stays idempotent.
type opBase struct {
	name       string
	opened     bool
	pending    tuple.Row
	hasPending bool
	fetch      func() (tuple.Row, bool, error)
}

// initBase wires the embedding operator's fetch hook. Called once at
// construction.
func (b *opBase) initBase(name string, fetch func() (tuple.Row, bool, error)) {
	b.name = name
	b.fetch = fetch
}

// markOpen flips the state machine to Open, rejecting double-open.
func (b *opBase) markOpen() error {
	if b.opened {
		return common.Errorf(common.OperationError, "%s: already open", b.name)
	}
	b.opened = true
	b.hasPending = false
	b.pending = tuple.Row{}
	return nil
}

// markClosed flips to Closed and drops any cached lookahead row.
func (b *opBase) markClosed() {
	b.opened = false
	b.hasPending = false
	b.pending = tuple.Row{}
}

func (b *opBase) isOpen() bool {
	return b.opened
}

func (b *opBase) requireOpen(op string) error {
	if !b.opened {
		return common.Errorf(common.OperationError, "%s: %s on closed iterator", b.name, op)
	}
	return nil
}

func (b *opBase) HasNext() (bool, error) {
	if err := b.requireOpen("HasNext"); err != nil {
		return false, err
	}
	if b.hasPending {
		return true, nil
	}
	row, ok, err := b.fetch()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	b.pending = row
	b.hasPending = true
	return true, nil
}

func (b *opBase) Next() (tuple.Row, error) {
	if err := b.requireOpen("Next"); err != nil {
		return tuple.Row{}, err
	}
	if !b.hasPending {
		ok, err := b.HasNext()
		if err != nil {
			return tuple.Row{}, err
		}
		if !ok {
			return tuple.Row{}, common.Errorf(common.NoSuchElementError,
				"%s: Next called on exhausted iterator", b.name)
		}
	}
	row := b.pending
	b.pending = tuple.Row{}
	b.hasPending = false
	return row, nil
}
