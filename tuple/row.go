package tuple

import (
	"strings"

	"github.com/quarrydb/quarry/common"
)

// Row is an ordered sequence of typed values conforming to some schema.
// Rows are immutable value objects once produced: operators build new rows
// rather than mutating ones they received.
type Row struct {
	values []Value
}

// NewRow creates a row from the given values. The slice is copied.
func NewRow(values ...Value) Row {
	r := Row{values: make([]Value, len(values))}
	copy(r.values, values)
	return r
}

// IsNil reports whether the row is the zero value (no fields at all).
// Distinct from an intentionally empty row built via NewRow().
func (r Row) IsNil() bool {
	return r.values == nil
}

// NumFields returns the number of values in the row.
func (r Row) NumFields() int {
	return len(r.values)
}

// Field returns the value at index i.
func (r Row) Field(i int) (Value, error) {
	if i < 0 || i >= len(r.values) {
		return Value{}, common.Errorf(common.IndexError,
			"field index %d out of range for row of %d fields", i, len(r.values))
	}
	return r.values[i], nil
}

// Conforms reports whether the row's length and per-position types match the
// schema.
func (r Row) Conforms(s Schema) bool {
	if len(r.values) != s.NumFields() {
		return false
	}
	for i, v := range r.values {
		if v.Type() != s.fields[i].Type {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, v := range r.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteString("}")
	return b.String()
}

// MergeRows concatenates two rows positionally: r1's values followed by r2's.
// The result conforms to MergeSchemas of the rows' schemas.
func MergeRows(r1, r2 Row) Row {
	merged := make([]Value, 0, len(r1.values)+len(r2.values))
	merged = append(merged, r1.values...)
	merged = append(merged, r2.values...)
	return Row{values: merged}
}
