package table

import (
	"github.com/pkg/errors"
)

var (
	ErrColumnLengthMismatch = errors.New("all columns must have the same number of rows")
	ErrDuplicateColumn      = errors.New("column names must be unique")
	ErrColumnNotFound       = errors.New("column not found")
)

// Kind tags the storage type of a column.
type Kind uint8

const (
	Numeric Kind = iota + 1
	Factor
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Factor:
		return "factor"
	}

	return "unknown"
}

// Column is a single named column. Numeric columns hold Floats,
// factor columns hold Strings; the other slice is nil.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Num builds a numeric column.
func Num(name string, values []float64) Column {
	return Column{Name: name, Kind: Numeric, Floats: values}
}

// Fct builds a factor column from its raw string values.
func Fct(name string, values []string) Column {
	return Column{Name: name, Kind: Factor, Strings: values}
}

func (c Column) len() int {
	if c.Kind == Factor {
		return len(c.Strings)
	}

	return len(c.Floats)
}

func (c Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}

	return out
}

// Levels returns the distinct values of a factor column in first-seen order.
func (c Column) Levels() []string {
	seen := make(map[string]struct{}, len(c.Strings))
	levels := make([]string, 0)
	for _, v := range c.Strings {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		levels = append(levels, v)
	}

	return levels
}

// Table is an ordered collection of equal-length named columns.
// It has value semantics: operations return a new Table and never
// modify the receiver's column data.
type Table struct {
	cols []Column
}

// New builds a table, validating that column names are unique and all
// columns have the same number of rows.
func New(cols ...Column) (Table, error) {
	seen := make(map[string]struct{}, len(cols))
	rows := -1
	for _, col := range cols {
		if _, ok := seen[col.Name]; ok {
			return Table{}, errors.Wrap(ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = struct{}{}

		if rows == -1 {
			rows = col.len()
		} else if col.len() != rows {
			return Table{}, errors.Wrap(ErrColumnLengthMismatch, col.Name)
		}
	}

	out := make([]Column, len(cols))
	for i, col := range cols {
		out[i] = col.clone()
	}

	return Table{cols: out}, nil
}

// NumRows returns the number of rows. A table with no columns has zero rows.
func (t Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}

	return t.cols[0].len()
}

// NumCols returns the number of columns.
func (t Table) NumCols() int {
	return len(t.cols)
}

// IsEmpty reports whether the table holds no rows or no columns.
func (t Table) IsEmpty() bool {
	return t.NumRows() == 0 || len(t.cols) == 0
}

// Names returns the column names in order.
func (t Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}

	return names
}

// Has reports whether a column with the given name exists.
func (t Table) Has(name string) bool {
	_, ok := t.lookup(name)

	return ok
}

// Column returns the named column.
func (t Table) Column(name string) (Column, error) {
	col, ok := t.lookup(name)
	if !ok {
		return Column{}, errors.Wrap(ErrColumnNotFound, name)
	}

	return col.clone(), nil
}

func (t Table) lookup(name string) (Column, bool) {
	for _, col := range t.cols {
		if col.Name == name {
			return col, true
		}
	}

	return Column{}, false
}

// Select returns a new table holding only the named columns, in the
// order given.
func (t Table) Select(names ...string) (Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, ok := t.lookup(name)
		if !ok {
			return Table{}, errors.Wrap(ErrColumnNotFound, name)
		}
		cols = append(cols, col.clone())
	}

	return Table{cols: cols}, nil
}

// Drop returns a new table without the named columns. Unknown names are
// ignored so callers can drop speculatively.
func (t Table) Drop(names ...string) Table {
	dropped := make(map[string]struct{}, len(names))
	for _, name := range names {
		dropped[name] = struct{}{}
	}

	cols := make([]Column, 0, len(t.cols))
	for _, col := range t.cols {
		if _, ok := dropped[col.Name]; ok {
			continue
		}
		cols = append(cols, col.clone())
	}

	return Table{cols: cols}
}

// WithColumn returns a new table with the column appended, or replaced
// in place when a column of the same name already exists.
func (t Table) WithColumn(col Column) (Table, error) {
	if t.NumCols() > 0 && col.len() != t.NumRows() {
		return Table{}, errors.Wrap(ErrColumnLengthMismatch, col.Name)
	}

	cols := make([]Column, 0, len(t.cols)+1)
	replaced := false
	for _, existing := range t.cols {
		if existing.Name == col.Name {
			cols = append(cols, col.clone())
			replaced = true

			continue
		}
		cols = append(cols, existing.clone())
	}
	if !replaced {
		cols = append(cols, col.clone())
	}

	return Table{cols: cols}, nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.clone()
	}

	return Table{cols: cols}
}

// Columns returns deep copies of all columns in order.
func (t Table) Columns() []Column {
	return t.Clone().cols
}
