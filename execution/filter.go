package execution

import (
	"fmt"

	"github.com/quarrydb/quarry/tuple"
)

// Filter passes through the child's rows that satisfy a field predicate.
type Filter struct {
	opBase

	pred  *FieldPredicate
	child Iterator
}

// NewFilter creates a filter over the child. The predicate's field index is
// validated against the child's schema.
func NewFilter(pred *FieldPredicate, child Iterator) (*Filter, error) {
	if _, err := child.Schema().FieldType(pred.field); err != nil {
		return nil, err
	}
	f := &Filter{pred: pred, child: child}
	f.initBase("Filter", f.fetchNext)
	return f, nil
}

func (f *Filter) Open() error {
	if err := f.markOpen(); err != nil {
		return err
	}
	if err := f.child.Open(); err != nil {
		f.markClosed()
		return err
	}
	return nil
}

func (f *Filter) Close() error {
	f.markClosed()
	return f.child.Close()
}

func (f *Filter) Rewind() error {
	if err := f.requireOpen("Rewind"); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return f.Open()
}

func (f *Filter) Schema() tuple.Schema {
	return f.child.Schema()
}

func (f *Filter) fetchNext() (tuple.Row, bool, error) {
	for {
		ok, err := f.child.HasNext()
		if err != nil {
			return tuple.Row{}, false, err
		}
		if !ok {
			return tuple.Row{}, false, nil
		}
		row, err := f.child.Next()
		if err != nil {
			return tuple.Row{}, false, err
		}
		match, err := f.pred.Evaluate(row)
		if err != nil {
			return tuple.Row{}, false, err
		}
		if match {
			return row, true, nil
		}
	}
}

// Children returns the single child for plan traversal.
func (f *Filter) Children() []Iterator {
	return []Iterator{f.child}
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter: %s", f.pred)
}
