package execution

import (
	"fmt"

	"github.com/quarrydb/quarry/tuple"
)

// Limit caps the number of rows returned by the child.
type Limit struct {
	opBase

	child      Iterator
	limit      int
	numEmitted int
}

func NewLimit(limit int, child Iterator) *Limit {
	l := &Limit{child: child, limit: limit}
	l.initBase("Limit", l.fetchNext)
	return l
}

func (l *Limit) Open() error {
	if err := l.markOpen(); err != nil {
		return err
	}
	if err := l.child.Open(); err != nil {
		l.markClosed()
		return err
	}
	l.numEmitted = 0
	return nil
}

func (l *Limit) Close() error {
	l.markClosed()
	return l.child.Close()
}

func (l *Limit) Rewind() error {
	if err := l.requireOpen("Rewind"); err != nil {
		return err
	}
	if err := l.Close(); err != nil {
		return err
	}
	return l.Open()
}

func (l *Limit) Schema() tuple.Schema {
	return l.child.Schema()
}

func (l *Limit) fetchNext() (tuple.Row, bool, error) {
	if l.numEmitted >= l.limit {
		return tuple.Row{}, false, nil
	}
	ok, err := l.child.HasNext()
	if err != nil {
		return tuple.Row{}, false, err
	}
	if !ok {
		return tuple.Row{}, false, nil
	}
	row, err := l.child.Next()
	if err != nil {
		return tuple.Row{}, false, err
	}
	l.numEmitted++
	return row, true, nil
}

// Children returns the single child for plan traversal.
func (l *Limit) Children() []Iterator {
	return []Iterator{l.child}
}

func (l *Limit) String() string {
	return fmt.Sprintf("Limit: %d", l.limit)
}
