package memtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/tuple"
)

func testSchema() tuple.Schema {
	return tuple.NewSchema(
		tuple.Field{Name: "id", Type: tuple.IntType},
		tuple.Field{Name: "name", Type: tuple.StringType},
	)
}

func testRow(id int64, name string) tuple.Row {
	return tuple.NewRow(tuple.NewIntValue(id), tuple.NewStringValue(name))
}

func TestMemTable_InsertAndGet(t *testing.T) {
	m := New(testSchema())

	id1, err := m.Insert(testRow(1, "ada"))
	require.NoError(t, err)
	id2, err := m.Insert(testRow(2, "grace"))
	require.NoError(t, err)
	assert.Less(t, id1, id2)
	assert.Equal(t, 2, m.Len())

	row, ok := m.Get(id1)
	require.True(t, ok)
	v, err := row.Field(1)
	require.NoError(t, err)
	assert.Equal(t, "ada", v.StringValue())

	_, ok = m.Get(9999)
	assert.False(t, ok)
}

func TestMemTable_RejectsNonConformingRows(t *testing.T) {
	m := New(testSchema())

	_, err := m.Insert(tuple.NewRow(tuple.NewIntValue(1)))
	assert.True(t, common.IsCode(err, common.TypeMismatchError))

	_, err = m.Insert(tuple.NewRow(tuple.NewStringValue("ada"), tuple.NewIntValue(1)))
	assert.True(t, common.IsCode(err, common.TypeMismatchError))
}

func TestMemTable_Delete(t *testing.T) {
	m := New(testSchema())
	id, err := m.Insert(testRow(1, "ada"))
	require.NoError(t, err)

	assert.True(t, m.Delete(id))
	assert.False(t, m.Delete(id))
	assert.Equal(t, 0, m.Len())
}

func TestMemTable_SnapshotRows(t *testing.T) {
	m := New(testSchema())
	for i := int64(0); i < 5; i++ {
		_, err := m.Insert(testRow(i, "row"))
		require.NoError(t, err)
	}

	rows := m.SnapshotRows()
	require.Len(t, rows, 5)

	// Insertion order.
	for i, row := range rows {
		v, err := row.Field(0)
		require.NoError(t, err)
		assert.Equal(t, int64(i), v.IntValue())
	}

	// The snapshot is unaffected by later writes.
	_, err := m.Insert(testRow(99, "late"))
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Len(t, m.SnapshotRows(), 6)
}
