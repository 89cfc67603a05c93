// Package transformer converts the raw text fields of one TSV record into
// values ready to bind to an insert statement.
//
// A Coercer is compiled once per file from the live table schema and the
// file's header, so the per-record path does no name lookups.
package transformer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kombuchadb/internal/storage"
)

// ErrUnknownColumn is returned by NewCoercer when a header name matches no
// column of the target table.
var ErrUnknownColumn = errors.New("transformer: unknown column")

// CoerceError reports a field that could not be converted to its column's
// numeric type.
type CoerceError struct {
	Column string
	Value  string
	Kind   storage.ColumnKind
	Err    error
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("coerce %s=%q to %s: %v", e.Column, e.Value, e.Kind, e.Err)
}

func (e *CoerceError) Unwrap() error { return e.Err }

// Coercer holds one coercion step per header position.
type Coercer struct {
	columns []string
	steps   []step
}

type step struct {
	column string
	kind   storage.ColumnKind
}

// NewCoercer resolves every header name to a column of the table. An exact
// name match wins; otherwise a case-insensitive match is accepted.
func NewCoercer(columns []storage.Column, header []string) (*Coercer, error) {
	byName := make(map[string]storage.Column, len(columns))
	for _, c := range columns {
		byName[c.Name] = c
	}

	c := &Coercer{
		columns: make([]string, len(header)),
		steps:   make([]step, len(header)),
	}
	for i, name := range header {
		col, ok := byName[name]
		if !ok {
			col, ok = foldLookup(columns, name)
		}
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
		}
		c.columns[i] = col.Name
		c.steps[i] = step{column: col.Name, kind: col.Kind()}
	}
	return c, nil
}

func foldLookup(columns []storage.Column, name string) (storage.Column, bool) {
	for _, c := range columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return storage.Column{}, false
}

// Columns returns the schema names of the header positions, in header order.
func (c *Coercer) Columns() []string { return c.columns }

// Width is the number of fields a well-formed record carries.
func (c *Coercer) Width() int { return len(c.steps) }

// Apply converts fields positionally. An empty field becomes nil (NULL);
// REAL and INTEGER columns are parsed; every other value passes through
// untouched.
func (c *Coercer) Apply(fields []string) ([]any, error) {
	if len(fields) != len(c.steps) {
		return nil, fmt.Errorf("transformer: got %d fields, want %d", len(fields), len(c.steps))
	}
	out := make([]any, len(fields))
	for i, s := range fields {
		v, err := c.steps[i].coerce(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (st step) coerce(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	switch st.kind {
	case storage.KindReal:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &CoerceError{Column: st.column, Value: s, Kind: st.kind, Err: err}
		}
		return f, nil
	case storage.KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, &CoerceError{Column: st.column, Value: s, Kind: st.kind, Err: err}
		}
		return n, nil
	default:
		return s, nil
	}
}
