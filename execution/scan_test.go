package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/catalog"
	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/transaction"
	"github.com/quarrydb/quarry/tuple"
)

func setupTestTable(t *testing.T, n int) (*catalog.Table, *transaction.LockManager) {
	t.Helper()
	cat := catalog.NewCatalog()
	table, err := cat.CreateTable("test_table", intSchema(2))
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		_, err := table.Data.Insert(intRow(int64(i), int64(i*10)))
		require.NoError(t, err)
	}
	return table, transaction.NewLockManager()
}

func TestTableScan_Basic(t *testing.T) {
	table, lm := setupTestTable(t, 10)
	txn := lm.Begin()
	defer txn.ReleaseAll()

	scan := NewTableScan(table, txn)
	require.NoError(t, scan.Open())
	rows := drain(t, scan)
	require.Len(t, rows, 10)
	for i, row := range rows {
		assert.Equal(t, []int64{int64(i), int64(i * 10)}, rowInts(t, row))
	}

	require.NoError(t, scan.Rewind())
	assert.Len(t, drain(t, scan), 10)
	require.NoError(t, scan.Close())
}

func TestTableScan_SnapshotIsolation(t *testing.T) {
	table, lm := setupTestTable(t, 3)
	txn := lm.Begin()
	defer txn.ReleaseAll()

	scan := NewTableScan(table, txn)
	require.NoError(t, scan.Open())

	// Rows inserted after Open are invisible to this scan.
	_, err := table.Data.Insert(intRow(99, 990))
	require.NoError(t, err)
	assert.Len(t, drain(t, scan), 3)

	// A rewind re-opens and sees the new snapshot.
	require.NoError(t, scan.Rewind())
	assert.Len(t, drain(t, scan), 4)
	require.NoError(t, scan.Close())
}

func TestTableScan_LockConflictAborts(t *testing.T) {
	table, lm := setupTestTable(t, 1)

	writer := lm.Begin()
	defer writer.ReleaseAll()
	require.NoError(t, writer.AcquireTableLock(table.Oid, transaction.LockModeX))

	reader := lm.Begin()
	defer reader.ReleaseAll()
	scan := NewTableScan(table, reader)

	err := scan.Open()
	assert.True(t, common.IsCode(err, common.TransactionAbortedError))

	// The abort propagates unchanged through a composite operator too.
	pred, perr := NewJoinPredicate(0, 0, Equal)
	require.NoError(t, perr)
	join, jerr := NewNestedLoopJoin(pred, NewSliceScan(intSchema(2), nil), NewTableScan(table, reader))
	require.NoError(t, jerr)
	err = join.Open()
	assert.True(t, common.IsCode(err, common.TransactionAbortedError))
}

func TestTableScan_SharedLocksCoexist(t *testing.T) {
	table, lm := setupTestTable(t, 2)

	txn1 := lm.Begin()
	defer txn1.ReleaseAll()
	txn2 := lm.Begin()
	defer txn2.ReleaseAll()

	scan1 := NewTableScan(table, txn1)
	scan2 := NewTableScan(table, txn2)
	require.NoError(t, scan1.Open())
	require.NoError(t, scan2.Open())
	assert.Len(t, drain(t, scan1), 2)
	assert.Len(t, drain(t, scan2), 2)
	require.NoError(t, scan1.Close())
	require.NoError(t, scan2.Close())
}

func TestTableScan_NilTxnSkipsLocking(t *testing.T) {
	table, lm := setupTestTable(t, 2)

	writer := lm.Begin()
	defer writer.ReleaseAll()
	require.NoError(t, writer.AcquireTableLock(table.Oid, transaction.LockModeX))

	scan := NewTableScan(table, nil)
	require.NoError(t, scan.Open())
	assert.Len(t, drain(t, scan), 2)
	require.NoError(t, scan.Close())
}

func TestTableScan_JoinOverTables(t *testing.T) {
	cat := catalog.NewCatalog()
	users, err := cat.CreateTable("users", tuple.NewSchema(
		tuple.Field{Name: "id", Type: tuple.IntType},
		tuple.Field{Name: "name", Type: tuple.StringType},
	))
	require.NoError(t, err)
	orders, err := cat.CreateTable("orders", tuple.NewSchema(
		tuple.Field{Name: "user_id", Type: tuple.IntType},
		tuple.Field{Name: "amount", Type: tuple.IntType},
	))
	require.NoError(t, err)

	_, err = users.Data.Insert(tuple.NewRow(tuple.NewIntValue(1), tuple.NewStringValue("ada")))
	require.NoError(t, err)
	_, err = users.Data.Insert(tuple.NewRow(tuple.NewIntValue(2), tuple.NewStringValue("grace")))
	require.NoError(t, err)
	_, err = orders.Data.Insert(intRow(2, 150))
	require.NoError(t, err)

	lm := transaction.NewLockManager()
	txn := lm.Begin()
	defer txn.ReleaseAll()

	pred, err := NewJoinPredicate(0, 0, Equal)
	require.NoError(t, err)
	join, err := NewNestedLoopJoin(pred, NewTableScan(users, txn), NewTableScan(orders, txn))
	require.NoError(t, err)

	leftName, err := join.LeftFieldName()
	require.NoError(t, err)
	assert.Equal(t, "id", leftName)

	require.NoError(t, join.Open())
	rows := drain(t, join)
	require.Len(t, rows, 1)

	name, err := rows[0].Field(1)
	require.NoError(t, err)
	assert.Equal(t, "grace", name.StringValue())
	amount, err := rows[0].Field(3)
	require.NoError(t, err)
	assert.Equal(t, int64(150), amount.IntValue())
	require.NoError(t, join.Close())
}
