package tuple

import (
	"strings"

	"github.com/quarrydb/quarry/common"
)

// Field is one column of a schema. Name may be empty for anonymous columns
// (e.g., computed values).
type Field struct {
	Name string
	Type Type
}

// Schema describes the shape of the rows an iterator produces: an ordered
// list of fields. Field order is significant and defines positional
// addressing; nothing is deduplicated or renamed.
type Schema struct {
	fields []Field
}

// NewSchema creates a schema from the given fields. The slice is copied so
// the schema stays immutable.
func NewSchema(fields ...Field) Schema {
	s := Schema{fields: make([]Field, len(fields))}
	copy(s.fields, fields)
	return s
}

// NumFields returns the number of fields in the schema.
func (s Schema) NumFields() int {
	return len(s.fields)
}

// FieldName returns the name of the field at index i.
func (s Schema) FieldName(i int) (string, error) {
	if i < 0 || i >= len(s.fields) {
		return "", common.Errorf(common.IndexError,
			"field index %d out of range for schema of %d fields", i, len(s.fields))
	}
	return s.fields[i].Name, nil
}

// FieldType returns the type of the field at index i.
func (s Schema) FieldType(i int) (Type, error) {
	if i < 0 || i >= len(s.fields) {
		return DefaultType, common.Errorf(common.IndexError,
			"field index %d out of range for schema of %d fields", i, len(s.fields))
	}
	return s.fields[i].Type, nil
}

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Equal reports whether two schemas have identical fields in identical order.
func (s Schema) Equal(other Schema) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Name != "" {
			b.WriteString(f.Name)
			b.WriteString(" ")
		}
		b.WriteString(f.Type.String())
	}
	b.WriteString(")")
	return b.String()
}

// MergeSchemas concatenates two schemas: a's fields in order followed by b's
// fields in order. Joins use this to describe their concatenated output.
func MergeSchemas(a, b Schema) Schema {
	merged := make([]Field, 0, len(a.fields)+len(b.fields))
	merged = append(merged, a.fields...)
	merged = append(merged, b.fields...)
	return Schema{fields: merged}
}
