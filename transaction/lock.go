// Package transaction provides the table lock manager and the per-query
// transaction context. It exists to model one signal the execution layer must
// honor: a transaction aborted by the concurrency-control layer, surfaced as
// a TransactionAbortedError from whatever operator call touched a lock.
package transaction

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/quarrydb/quarry/common"
)

// LockMode represents the type of access a transaction is requesting.
type LockMode int

const (
	// LockModeS (Shared) allows reading a table. Multiple transactions can
	// hold S locks simultaneously.
	LockModeS LockMode = iota
	// LockModeX (Exclusive) allows modification. It is incompatible with all
	// other modes.
	LockModeX
)

func (m LockMode) String() string {
	switch m {
	case LockModeS:
		return "LockModeS"
	case LockModeX:
		return "LockModeX"
	}
	return "unknown lock mode"
}

// Compatible reports whether a requested mode can coexist with a held mode.
func Compatible(req, held LockMode) bool {
	return req == LockModeS && held == LockModeS
}

// CoveredBy reports whether the held lock is strong enough to satisfy the
// requested one. True for identity.
func CoveredBy(req, held LockMode) bool {
	return held == LockModeX || req == held
}

type tableLock struct {
	mu      sync.Mutex
	holders map[common.TransactionID]LockMode
}

// LockManager grants table-level S/X locks under a no-wait policy: a request
// that conflicts with another transaction's lock fails immediately with
// TransactionAbortedError instead of blocking. No waiting means no waits-for
// cycles, so deadlock detection reduces to this single rule.
type LockManager struct {
	locks   *xsync.MapOf[common.ObjectID, *tableLock]
	nextTxn atomic.Uint64
}

func NewLockManager() *LockManager {
	return &LockManager{
		locks: xsync.NewMapOf[common.ObjectID, *tableLock](),
	}
}

// Begin starts a new transaction.
func (lm *LockManager) Begin() *TxnContext {
	return &TxnContext{
		id:   common.TransactionID(lm.nextTxn.Add(1)),
		lm:   lm,
		held: make(map[common.ObjectID]LockMode),
	}
}

// Lock acquires (or upgrades) a lock on the table for the transaction.
func (lm *LockManager) Lock(id common.TransactionID, oid common.ObjectID, mode LockMode) error {
	tl, _ := lm.locks.LoadOrCompute(oid, func() *tableLock {
		return &tableLock{holders: make(map[common.TransactionID]LockMode)}
	})

	tl.mu.Lock()
	defer tl.mu.Unlock()

	if held, ok := tl.holders[id]; ok && CoveredBy(mode, held) {
		return nil
	}
	for other, held := range tl.holders {
		if other == id {
			continue
		}
		if !Compatible(mode, held) {
			return common.Errorf(common.TransactionAbortedError,
				"txn %d: %s on %s conflicts with %s held by txn %d",
				id, mode, oid, held, other)
		}
	}
	tl.holders[id] = mode
	return nil
}

// Unlock releases the transaction's lock on the table, if any.
func (lm *LockManager) Unlock(id common.TransactionID, oid common.ObjectID) {
	tl, ok := lm.locks.Load(oid)
	if !ok {
		return
	}
	tl.mu.Lock()
	delete(tl.holders, id)
	tl.mu.Unlock()
}

// TxnContext holds the runtime state of a single transaction: its id and the
// table locks it currently holds. It is single-owner and not safe for
// concurrent use, matching the single-threaded pull model of operator trees.
type TxnContext struct {
	id   common.TransactionID
	lm   *LockManager
	held map[common.ObjectID]LockMode
}

func (txn *TxnContext) ID() common.TransactionID {
	return txn.id
}

// AcquireTableLock acquires a lock on the table, checking reentrancy first:
// a lock already held in a covering mode is a no-op.
func (txn *TxnContext) AcquireTableLock(oid common.ObjectID, mode LockMode) error {
	if held, ok := txn.held[oid]; ok && CoveredBy(mode, held) {
		return nil
	}
	if err := txn.lm.Lock(txn.id, oid, mode); err != nil {
		return err
	}
	txn.held[oid] = mode
	return nil
}

// ReleaseAll releases every lock held by this transaction. Called when the
// transaction finishes, either way.
func (txn *TxnContext) ReleaseAll() {
	for oid := range txn.held {
		txn.lm.Unlock(txn.id, oid)
	}
	clear(txn.held)
}
