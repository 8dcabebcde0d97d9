// Package memtable provides the in-memory ordered row store backing table
// scans. Rows are keyed by a monotonically increasing id assigned at insert,
// so iteration order is insertion order.
package memtable

import (
	"sync/atomic"

	"github.com/tidwall/btree"

	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/tuple"
)

type rowItem struct {
	id  int64
	row tuple.Row
}

// MemTable is an ordered collection of rows sharing one schema, built on a
// copy-on-write B-tree. Readers take O(1) snapshots, so a scan observes a
// stable view regardless of concurrent inserts.
type MemTable struct {
	schema tuple.Schema
	tree   *btree.BTreeG[rowItem]
	nextID atomic.Int64
}

func New(schema tuple.Schema) *MemTable {
	less := func(a, b rowItem) bool {
		return a.id < b.id
	}
	return &MemTable{
		schema: schema,
		tree:   btree.NewBTreeG(less),
	}
}

// Schema returns the shape of the rows this table stores.
func (m *MemTable) Schema() tuple.Schema {
	return m.schema
}

// Insert stores a row and returns its assigned id. The row must conform to
// the table schema in arity and per-position types.
func (m *MemTable) Insert(row tuple.Row) (int64, error) {
	if !row.Conforms(m.schema) {
		return 0, common.Errorf(common.TypeMismatchError,
			"row %s does not conform to table schema %s", row, m.schema)
	}
	id := m.nextID.Add(1)
	m.tree.Set(rowItem{id: id, row: row})
	return id, nil
}

// Get returns the row with the given id, if present.
func (m *MemTable) Get(id int64) (tuple.Row, bool) {
	item, ok := m.tree.Get(rowItem{id: id})
	if !ok {
		return tuple.Row{}, false
	}
	return item.row, true
}

// Delete removes the row with the given id. It reports whether a row was
// removed.
func (m *MemTable) Delete(id int64) bool {
	_, ok := m.tree.Delete(rowItem{id: id})
	return ok
}

// Len returns the number of rows in the table.
func (m *MemTable) Len() int {
	return m.tree.Len()
}

// SnapshotRows returns the table's rows in insertion order, read from a
// point-in-time copy of the tree. Later inserts and deletes do not affect the
// returned slice.
func (m *MemTable) SnapshotRows() []tuple.Row {
	snapshot := m.tree.Copy()
	rows := make([]tuple.Row, 0, snapshot.Len())
	snapshot.Scan(func(item rowItem) bool {
		rows = append(rows, item.row)
		return true
	})
	return rows
}
