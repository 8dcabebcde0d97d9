package execution

import (
	"fmt"

	"github.com/quarrydb/quarry/catalog"
	"github.com/quarrydb/quarry/transaction"
	"github.com/quarrydb/quarry/tuple"
)

// SliceScan is a leaf iterator over an in-memory slice of rows. It is the
// simplest possible row source: handy as a join input in tests and for rows
// that already live in memory (e.g., loaded from a file).
type SliceScan struct {
	opBase

	schema tuple.Schema
	rows   []tuple.Row
	pos    int
}

func NewSliceScan(schema tuple.Schema, rows []tuple.Row) *SliceScan {
	s := &SliceScan{schema: schema, rows: rows}
	s.initBase("SliceScan", s.fetchNext)
	return s
}

func (s *SliceScan) Open() error {
	if err := s.markOpen(); err != nil {
		return err
	}
	s.pos = 0
	return nil
}

func (s *SliceScan) Close() error {
	s.markClosed()
	return nil
}

func (s *SliceScan) Rewind() error {
	if err := s.requireOpen("Rewind"); err != nil {
		return err
	}
	s.markClosed()
	return s.Open()
}

func (s *SliceScan) Schema() tuple.Schema {
	return s.schema
}

func (s *SliceScan) fetchNext() (tuple.Row, bool, error) {
	if s.pos >= len(s.rows) {
		return tuple.Row{}, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

func (s *SliceScan) String() string {
	return fmt.Sprintf("SliceScan: %d rows", len(s.rows))
}

// TableScan is a leaf iterator over a catalog table. Open acquires a shared
// lock on the table through the scan's transaction and takes a stable
// snapshot of the table's rows; a lock conflict surfaces as a
// TransactionAbortedError from Open (or from Rewind, which re-opens).
//
// The lock is held by the transaction, not the scan: Close does not release
// it. Lock lifetime is the transaction's business.
type TableScan struct {
	opBase

	table *catalog.Table
	txn   *transaction.TxnContext

	rows []tuple.Row
	pos  int
}

// NewTableScan creates a scan of the given table within txn. A nil txn scans
// without locking.
func NewTableScan(table *catalog.Table, txn *transaction.TxnContext) *TableScan {
	s := &TableScan{table: table, txn: txn}
	s.initBase("TableScan", s.fetchNext)
	return s
}

func (s *TableScan) Open() error {
	if err := s.markOpen(); err != nil {
		return err
	}
	if s.txn != nil {
		if err := s.txn.AcquireTableLock(s.table.Oid, transaction.LockModeS); err != nil {
			s.markClosed()
			return err
		}
	}
	s.rows = s.table.Data.SnapshotRows()
	s.pos = 0
	return nil
}

func (s *TableScan) Close() error {
	s.markClosed()
	s.rows = nil
	return nil
}

func (s *TableScan) Rewind() error {
	if err := s.requireOpen("Rewind"); err != nil {
		return err
	}
	s.markClosed()
	return s.Open()
}

func (s *TableScan) Schema() tuple.Schema {
	return s.table.Schema
}

func (s *TableScan) fetchNext() (tuple.Row, bool, error) {
	if s.pos >= len(s.rows) {
		return tuple.Row{}, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

func (s *TableScan) String() string {
	return fmt.Sprintf("TableScan: %s", s.table.Name)
}
