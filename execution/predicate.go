package execution

import (
	"fmt"

	"github.com/quarrydb/quarry/common"
	"github.com/quarrydb/quarry/tuple"
)

type CompareOp int

const (
	Equal CompareOp = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

func (op CompareOp) String() string {
	switch op {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	}
	return "???"
}

// apply translates a three-way comparison result into the operator's truth
// value.
func (op CompareOp) apply(cmp int) bool {
	switch op {
	case Equal:
		return cmp == 0
	case NotEqual:
		return cmp != 0
	case LessThan:
		return cmp < 0
	case LessThanOrEqual:
		return cmp <= 0
	case GreaterThan:
		return cmp > 0
	case GreaterThanOrEqual:
		return cmp >= 0
	}
	panic("unknown compare op")
}

// JoinPredicate compares one designated field from each of two rows.
// The nested-loop join evaluates it against every (outer, inner) pair.
//
// Field indices are validated against the child schemas when the join is
// constructed, not re-validated per call. Whether the two fields' types are
// actually comparable is only discovered at evaluation time; a mismatch
// surfaces as a TypeMismatchError and is fatal to the query.
type JoinPredicate struct {
	leftField  int
	rightField int
	op         CompareOp
}

// NewJoinPredicate creates a predicate comparing leftField of the outer row
// with rightField of the inner row.
func NewJoinPredicate(leftField, rightField int, op CompareOp) (*JoinPredicate, error) {
	if leftField < 0 {
		return nil, common.Errorf(common.IndexError, "left field index cannot be negative: %d", leftField)
	}
	if rightField < 0 {
		return nil, common.Errorf(common.IndexError, "right field index cannot be negative: %d", rightField)
	}
	return &JoinPredicate{leftField: leftField, rightField: rightField, op: op}, nil
}

// Evaluate reads left[leftField] and right[rightField] and applies the
// comparison using the values' natural ordering.
func (p *JoinPredicate) Evaluate(left, right tuple.Row) (bool, error) {
	lv, err := left.Field(p.leftField)
	if err != nil {
		return false, err
	}
	rv, err := right.Field(p.rightField)
	if err != nil {
		return false, err
	}
	cmp, err := lv.Compare(rv)
	if err != nil {
		return false, err
	}
	return p.op.apply(cmp), nil
}

// LeftField returns the field index read from the outer row.
func (p *JoinPredicate) LeftField() int {
	return p.leftField
}

// RightField returns the field index read from the inner row.
func (p *JoinPredicate) RightField() int {
	return p.rightField
}

// Op returns the comparison operator.
func (p *JoinPredicate) Op() CompareOp {
	return p.op
}

func (p *JoinPredicate) String() string {
	return fmt.Sprintf("(left.%d %s right.%d)", p.leftField, p.op, p.rightField)
}

// FieldPredicate compares one field of a single row against a constant.
// It backs the Filter operator.
type FieldPredicate struct {
	field   int
	op      CompareOp
	operand tuple.Value
}

func NewFieldPredicate(field int, op CompareOp, operand tuple.Value) (*FieldPredicate, error) {
	if field < 0 {
		return nil, common.Errorf(common.IndexError, "field index cannot be negative: %d", field)
	}
	return &FieldPredicate{field: field, op: op, operand: operand}, nil
}

// Evaluate compares row[field] against the constant operand.
func (p *FieldPredicate) Evaluate(row tuple.Row) (bool, error) {
	v, err := row.Field(p.field)
	if err != nil {
		return false, err
	}
	cmp, err := v.Compare(p.operand)
	if err != nil {
		return false, err
	}
	return p.op.apply(cmp), nil
}

func (p *FieldPredicate) String() string {
	return fmt.Sprintf("(field %d %s %s)", p.field, p.op, p.operand)
}
