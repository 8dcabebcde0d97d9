// Package catalog tracks the tables known to the engine.
//
// The catalog here is deliberately small: a concurrent name -> table map and
// an object-id counter. There is no persistence and no schema evolution; a
// table's schema is fixed at creation.
package catalog

import (
	"sort"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/memtable"
	"github.com/quarrydb/quarry/tuple"
)

// Table groups a schema and its row store under a unique ObjectID.
type Table struct {
	Oid    common.ObjectID
	Name   string
	Schema tuple.Schema
	Data   *memtable.MemTable
}

// Catalog manages table metadata and provides fast concurrent lookups.
type Catalog struct {
	tables  *xsync.MapOf[string, *Table]
	nextOid atomic.Uint32
}

func NewCatalog() *Catalog {
	return &Catalog{
		tables: xsync.NewMapOf[string, *Table](),
	}
}

// CreateTable registers a new table with the given schema and an empty row
// store. Creating a table whose name is already taken fails with
// DuplicateObjectError.
func (c *Catalog) CreateTable(name string, schema tuple.Schema) (*Table, error) {
	table := &Table{
		Oid:    common.ObjectID(c.nextOid.Add(1)),
		Name:   name,
		Schema: schema,
		Data:   memtable.New(schema),
	}
	if _, loaded := c.tables.LoadOrStore(name, table); loaded {
		return nil, common.Errorf(common.DuplicateObjectError, "table %q already exists", name)
	}
	return table, nil
}

// GetTable looks up a table by name.
func (c *Catalog) GetTable(name string) (*Table, error) {
	table, ok := c.tables.Load(name)
	if !ok {
		return nil, common.Errorf(common.NoSuchObjectError, "no such table %q", name)
	}
	return table, nil
}

// DropTable removes a table from the catalog. Iterators already holding the
// table keep their snapshot.
func (c *Catalog) DropTable(name string) error {
	if _, ok := c.tables.LoadAndDelete(name); !ok {
		return common.Errorf(common.NoSuchObjectError, "no such table %q", name)
	}
	return nil
}

// TableNames returns the names of all registered tables, sorted.
func (c *Catalog) TableNames() []string {
	var names []string
	c.tables.Range(func(name string, _ *Table) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
