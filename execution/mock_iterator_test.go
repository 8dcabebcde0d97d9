package execution

import (
	"testing"

	"github.com/quarrydb/quarry/tuple"
)

// countingIterator wraps an Iterator, counting protocol calls and optionally
// injecting failures. Join tests use it to verify call patterns (e.g., one
// inner Rewind per outer row) and error propagation.
type countingIterator struct {
	inner Iterator

	opens    int
	closes   int
	rewinds  int
	hasNexts int
	nexts    int

	openErr    error
	closeErr   error
	rewindErr  error
	hasNextErr error
	nextErr    error

	// failHasNextAfter delays hasNextErr until this many HasNext calls have
	// succeeded first.
	failHasNextAfter int
}

func newCountingIterator(inner Iterator) *countingIterator {
	return &countingIterator{inner: inner}
}

func (c *countingIterator) Open() error {
	c.opens++
	if c.openErr != nil {
		return c.openErr
	}
	return c.inner.Open()
}

func (c *countingIterator) Close() error {
	c.closes++
	if c.closeErr != nil {
		// The wrapped iterator is still closed; only the reported status lies.
		_ = c.inner.Close()
		return c.closeErr
	}
	return c.inner.Close()
}

func (c *countingIterator) Rewind() error {
	c.rewinds++
	if c.rewindErr != nil {
		return c.rewindErr
	}
	return c.inner.Rewind()
}

func (c *countingIterator) HasNext() (bool, error) {
	if c.hasNextErr != nil && c.hasNexts >= c.failHasNextAfter {
		return false, c.hasNextErr
	}
	c.hasNexts++
	return c.inner.HasNext()
}

func (c *countingIterator) Next() (tuple.Row, error) {
	c.nexts++
	if c.nextErr != nil {
		return tuple.Row{}, c.nextErr
	}
	return c.inner.Next()
}

func (c *countingIterator) Schema() tuple.Schema {
	return c.inner.Schema()
}

// intSchema builds an n-column int schema named a_col, b_col, ...
func intSchema(n int) tuple.Schema {
	fields := make([]tuple.Field, n)
	for i := range fields {
		fields[i] = tuple.Field{Name: fieldName(i), Type: tuple.IntType}
	}
	return tuple.NewSchema(fields...)
}

func fieldName(i int) string {
	return string(rune('a'+i)) + "_col"
}

// intRow builds a row of int values.
func intRow(values ...int64) tuple.Row {
	vals := make([]tuple.Value, len(values))
	for i, v := range values {
		vals[i] = tuple.NewIntValue(v)
	}
	return tuple.NewRow(vals...)
}

// intRows builds one row per value list.
func intRows(lists ...[]int64) []tuple.Row {
	rows := make([]tuple.Row, len(lists))
	for i, l := range lists {
		rows[i] = intRow(l...)
	}
	return rows
}

// drain pulls every remaining row from an open iterator.
func drain(t *testing.T, it Iterator) []tuple.Row {
	t.Helper()
	var rows []tuple.Row
	for {
		ok, err := it.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !ok {
			return rows
		}
		row, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		rows = append(rows, row)
	}
}

// rowInts flattens a row into its int values.
func rowInts(t *testing.T, row tuple.Row) []int64 {
	t.Helper()
	out := make([]int64, row.NumFields())
	for i := range out {
		v, err := row.Field(i)
		if err != nil {
			t.Fatalf("Field(%d): %v", i, err)
		}
		out[i] = v.IntValue()
	}
	return out
}
