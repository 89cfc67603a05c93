package storage

import (
	"fmt"
	"strings"
)

// ColumnKind is the coercion class of a declared column type.
type ColumnKind int

const (
	// KindText covers TEXT and every declared type that is neither REAL nor
	// INTEGER. Values are passed through unchanged.
	KindText ColumnKind = iota
	// KindInteger values are parsed as int64.
	KindInteger
	// KindReal values are parsed as float64.
	KindReal
)

func (k ColumnKind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// KindOf classifies a declared type. Only an exact (case-insensitive) REAL or
// INTEGER selects a numeric kind; NUMERIC, VARCHAR(10), "" and the like are text.
func KindOf(declared string) ColumnKind {
	switch strings.ToUpper(strings.TrimSpace(declared)) {
	case "REAL":
		return KindReal
	case "INTEGER":
		return KindInteger
	default:
		return KindText
	}
}

// Column is one row of live schema metadata.
type Column struct {
	Position     int // 0-based declaration order
	Name         string
	DeclaredType string
	NotNull      bool
	PrimaryKey   bool
}

// Kind returns the coercion class of the column's declared type.
func (c Column) Kind() ColumnKind { return KindOf(c.DeclaredType) }

// InsertError reports a rejected insert together with the statement and the
// values that were bound to it.
type InsertError struct {
	Table string
	Query string
	Args  []any
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert into %s: %v (query=%q values=%v)", e.Table, e.Err, e.Query, e.Args)
}

func (e *InsertError) Unwrap() error { return e.Err }
