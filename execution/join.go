package execution

import (
	"fmt"

	"github.com/quarrydb/quarry/tuple"
)

// NestedLoopJoin joins two child iterators under an arbitrary binary
// predicate. For each outer (left) row it rescans the inner (right) child in
// full, testing the predicate on every pair; matching pairs are concatenated
// into output rows.
//
// Output rows are the plain concatenation of the matching left and right
// rows, so an equality predicate yields two copies of the join attribute.
// Removing the duplicate column is a projection's job, not the join's.
// Ordering is deterministic: cross-product order truncated by the predicate,
// outer-row-major, inner-row-minor.
type NestedLoopJoin struct {
	opBase

	pred        *JoinPredicate
	left, right Iterator
	schema      tuple.Schema

	// outer buffers the current left row between calls; outerValid makes the
	// absent state explicit so an empty Row is never overloaded as a signal.
	outer      tuple.Row
	outerValid bool
}

// NewNestedLoopJoin creates a join over the two children. The predicate's
// field indices are validated against the children's schemas here, once.
func NewNestedLoopJoin(pred *JoinPredicate, left, right Iterator) (*NestedLoopJoin, error) {
	if _, err := left.Schema().FieldType(pred.LeftField()); err != nil {
		return nil, err
	}
	if _, err := right.Schema().FieldType(pred.RightField()); err != nil {
		return nil, err
	}

	j := &NestedLoopJoin{
		pred:   pred,
		left:   left,
		right:  right,
		schema: tuple.MergeSchemas(left.Schema(), right.Schema()),
	}
	j.initBase("NestedLoopJoin", j.fetchNext)
	return j, nil
}

// Open opens both children and clears the buffered outer row.
// On a child failure the error propagates as-is and the join stays Closed;
// releasing any half-opened children via Close is the caller's call.
func (j *NestedLoopJoin) Open() error {
	if err := j.markOpen(); err != nil {
		return err
	}
	if err := j.left.Open(); err != nil {
		j.markClosed()
		return err
	}
	if err := j.right.Open(); err != nil {
		j.markClosed()
		return err
	}
	j.outerValid = false
	j.outer = tuple.Row{}
	return nil
}

// Close closes both children and drops the buffered row. Both closes are
// attempted even if the first fails; the first error is the one surfaced.
func (j *NestedLoopJoin) Close() error {
	j.markClosed()
	j.outerValid = false
	j.outer = tuple.Row{}

	err := j.left.Close()
	if rerr := j.right.Close(); err == nil {
		err = rerr
	}
	return err
}

// Rewind restarts the join from the first matching pair.
func (j *NestedLoopJoin) Rewind() error {
	if err := j.requireOpen("Rewind"); err != nil {
		return err
	}
	if err := j.Close(); err != nil {
		return err
	}
	return j.Open()
}

// Schema returns the concatenation of both children's schemas. It is fixed at
// construction and unaffected by open/close/rewind.
func (j *NestedLoopJoin) Schema() tuple.Schema {
	return j.schema
}

// fetchNext lazily computes the next matching pair. The loop never exits
// without either producing a row or reaching true end-of-stream: the outer
// cursor strictly advances whenever the inner scan is exhausted, and both
// children are finite. The inner child is rewound once per outer row,
// including the first.
func (j *NestedLoopJoin) fetchNext() (tuple.Row, bool, error) {
	for {
		if !j.outerValid {
			ok, err := j.left.HasNext()
			if err != nil {
				return tuple.Row{}, false, err
			}
			if !ok {
				return tuple.Row{}, false, nil
			}
			row, err := j.left.Next()
			if err != nil {
				return tuple.Row{}, false, err
			}
			j.outer = row
			j.outerValid = true
			if err := j.right.Rewind(); err != nil {
				return tuple.Row{}, false, err
			}
		}

		for {
			ok, err := j.right.HasNext()
			if err != nil {
				return tuple.Row{}, false, err
			}
			if !ok {
				break
			}
			inner, err := j.right.Next()
			if err != nil {
				return tuple.Row{}, false, err
			}
			match, err := j.pred.Evaluate(j.outer, inner)
			if err != nil {
				return tuple.Row{}, false, err
			}
			if match {
				return tuple.MergeRows(j.outer, inner), true, nil
			}
		}

		// Inner exhausted; advance the outer cursor.
		j.outerValid = false
		j.outer = tuple.Row{}
	}
}

// Predicate returns the join predicate.
func (j *NestedLoopJoin) Predicate() *JoinPredicate {
	return j.pred
}

// Children returns the two child iterators in (left, right) order, giving
// plan-rewriting code a uniform view of the tree.
func (j *NestedLoopJoin) Children() []Iterator {
	return []Iterator{j.left, j.right}
}

// LeftFieldName returns the human-readable name of the outer join field,
// for plan display.
func (j *NestedLoopJoin) LeftFieldName() (string, error) {
	return j.left.Schema().FieldName(j.pred.LeftField())
}

// RightFieldName returns the human-readable name of the inner join field.
func (j *NestedLoopJoin) RightFieldName() (string, error) {
	return j.right.Schema().FieldName(j.pred.RightField())
}

func (j *NestedLoopJoin) String() string {
	return fmt.Sprintf("NestedLoopJoin: %s", j.pred)
}
