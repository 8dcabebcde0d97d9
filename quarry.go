// Package quarry wires the pieces of the query engine together: the catalog,
// the lock manager and the execution operators. It is the composition root
// consumers build operator trees against.
package quarry

import (
	"github.com/quarrydb/quarry/catalog"
	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/config"
	"github.com/quarrydb/quarry/execution"
	"github.com/quarrydb/quarry/transaction"
	"github.com/quarrydb/quarry/tuple"
)

// Engine is the top-level container for the query engine.
type Engine struct {
	Catalog *catalog.Catalog
	Locks   *transaction.LockManager

	cfg config.Config
}

func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Catalog: catalog.NewCatalog(),
		Locks:   transaction.NewLockManager(),
		cfg:     cfg,
	}, nil
}

func (e *Engine) Config() config.Config {
	return e.cfg
}

// Begin starts a new transaction. The caller owns its lifetime and must call
// ReleaseAll when done.
func (e *Engine) Begin() *transaction.TxnContext {
	return e.Locks.Begin()
}

// CreateTable registers a new empty table.
func (e *Engine) CreateTable(name string, schema tuple.Schema) (*catalog.Table, error) {
	return e.Catalog.CreateTable(name, schema)
}

// Insert appends a row to the named table under txn, taking an exclusive
// table lock. A nil txn inserts without locking.
func (e *Engine) Insert(txn *transaction.TxnContext, name string, row tuple.Row) error {
	table, err := e.Catalog.GetTable(name)
	if err != nil {
		return err
	}
	if txn != nil {
		if err := txn.AcquireTableLock(table.Oid, transaction.LockModeX); err != nil {
			return err
		}
	}
	_, err = table.Data.Insert(row)
	return err
}

// Scan returns a (closed) table-scan iterator over the named table. The scan
// acquires its shared lock when opened.
func (e *Engine) Scan(txn *transaction.TxnContext, name string) (*execution.TableScan, error) {
	table, err := e.Catalog.GetTable(name)
	if err != nil {
		return nil, err
	}
	return execution.NewTableScan(table, txn), nil
}

// Join builds a nested-loop join of the two named tables on
// left.leftField op right.rightField. The returned iterator is closed; the
// caller opens and drives it.
func (e *Engine) Join(txn *transaction.TxnContext, leftName, rightName string,
	leftField, rightField int, op execution.CompareOp) (*execution.NestedLoopJoin, error) {

	left, err := e.Scan(txn, leftName)
	if err != nil {
		return nil, err
	}
	right, err := e.Scan(txn, rightName)
	if err != nil {
		return nil, err
	}
	pred, err := execution.NewJoinPredicate(leftField, rightField, op)
	if err != nil {
		return nil, err
	}
	return execution.NewNestedLoopJoin(pred, left, right)
}

// Collect drives an iterator from Open through exhaustion and returns every
// row it produced. The iterator is closed before returning, even on error.
func Collect(it execution.Iterator) ([]tuple.Row, error) {
	if err := it.Open(); err != nil {
		// Best-effort release of any half-opened children.
		_ = it.Close()
		return nil, err
	}

	var rows []tuple.Row
	for {
		ok, err := it.HasNext()
		if err != nil {
			_ = it.Close()
			return nil, err
		}
		if !ok {
			break
		}
		row, err := it.Next()
		if err != nil {
			_ = it.Close()
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseCompareOp maps the textual operators accepted at the boundary (CLI,
// config) to CompareOp values.
func ParseCompareOp(s string) (execution.CompareOp, error) {
	switch s {
	case "=", "==":
		return execution.Equal, nil
	case "!=", "<>":
		return execution.NotEqual, nil
	case "<":
		return execution.LessThan, nil
	case "<=":
		return execution.LessThanOrEqual, nil
	case ">":
		return execution.GreaterThan, nil
	case ">=":
		return execution.GreaterThanOrEqual, nil
	}
	return 0, common.Errorf(common.OperationError, "unknown comparison operator %q", s)
}
