package execution

import (
	"fmt"

	"github.com/quarrydb/quarry/tuple"
)

// Project narrows (or reorders) the child's rows to the given field indices.
// A join followed by an equality predicate leaves two copies of the join
// attribute in its output; dropping one of them is exactly this operator's
// job.
type Project struct {
	opBase

	child  Iterator
	fields []int
	schema tuple.Schema
}

// NewProject creates a projection of the child onto the given field indices,
// in order. Indices may repeat. They are validated against the child's schema
// at construction.
func NewProject(fields []int, child Iterator) (*Project, error) {
	childSchema := child.Schema()
	out := make([]tuple.Field, len(fields))
	for i, idx := range fields {
		name, err := childSchema.FieldName(idx)
		if err != nil {
			return nil, err
		}
		typ, err := childSchema.FieldType(idx)
		if err != nil {
			return nil, err
		}
		out[i] = tuple.Field{Name: name, Type: typ}
	}

	p := &Project{
		child:  child,
		fields: append([]int(nil), fields...),
		schema: tuple.NewSchema(out...),
	}
	p.initBase("Project", p.fetchNext)
	return p, nil
}

func (p *Project) Open() error {
	if err := p.markOpen(); err != nil {
		return err
	}
	if err := p.child.Open(); err != nil {
		p.markClosed()
		return err
	}
	return nil
}

func (p *Project) Close() error {
	p.markClosed()
	return p.child.Close()
}

func (p *Project) Rewind() error {
	if err := p.requireOpen("Rewind"); err != nil {
		return err
	}
	if err := p.Close(); err != nil {
		return err
	}
	return p.Open()
}

func (p *Project) Schema() tuple.Schema {
	return p.schema
}

func (p *Project) fetchNext() (tuple.Row, bool, error) {
	ok, err := p.child.HasNext()
	if err != nil {
		return tuple.Row{}, false, err
	}
	if !ok {
		return tuple.Row{}, false, nil
	}
	row, err := p.child.Next()
	if err != nil {
		return tuple.Row{}, false, err
	}

	values := make([]tuple.Value, len(p.fields))
	for i, idx := range p.fields {
		v, err := row.Field(idx)
		if err != nil {
			return tuple.Row{}, false, err
		}
		values[i] = v
	}
	return tuple.NewRow(values...), true, nil
}

// Children returns the single child for plan traversal.
func (p *Project) Children() []Iterator {
	return []Iterator{p.child}
}

func (p *Project) String() string {
	return fmt.Sprintf("Project: %v", p.fields)
}
