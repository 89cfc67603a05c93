// Package ddl defines a small, backend-agnostic model for SQL DDL and a
// renderer for idempotent CREATE TABLE statements.
//
// The model stays generic: backend packages (internal/storage/<kind>/ddl)
// describe their dialect through a Dialect value (identifier quoting, logical
// to physical type mapping, auto-increment key syntax) and reuse
// BuildCreateTableSQL to render statements.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures the handful of syntax differences the renderer needs.
// Nil functions fall back to ANSI behaviour; a nil AutoIncrementPK makes
// auto-increment columns an error.
type Dialect struct {
	Name string

	// QuoteIdent quotes a single identifier.
	QuoteIdent func(id string) string

	// MapType maps a logical type (TEXT, REAL, INTEGER) to a physical one.
	MapType func(logical string) string

	// AutoIncrementPK renders the full definition of an auto-increment integer
	// primary key column whose quoted name is given.
	AutoIncrementPK func(quoted string) string
}

// QuoteANSI quotes id with double quotes, doubling embedded quotes.
func QuoteANSI(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (d Dialect) quote(id string) string {
	if d.QuoteIdent == nil {
		return QuoteANSI(id)
	}
	return d.QuoteIdent(id)
}

func (d Dialect) mapType(logical string) string {
	if d.MapType == nil {
		return logical
	}
	return d.MapType(logical)
}

// BuildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for t in
// dialect d.
//
// Rules:
//
//   - t.Name must be non-empty and t must have at least one column.
//
//   - A regular column is rendered as
//
//     <Name> <Type> [NOT NULL] [UNIQUE] [DEFAULT <Default>]
//
//   - An AutoIncrement column is rendered entirely by d.AutoIncrementPK and is
//     not repeated in the PRIMARY KEY clause.
//
//   - Remaining PrimaryKey columns are collected into a trailing
//     PRIMARY KEY (...) clause, followed by one FOREIGN KEY clause per
//     t.ForeignKeys entry.
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	known := make(map[string]struct{}, len(t.Columns))
	defs := make([]string, 0, len(t.Columns)+len(t.ForeignKeys)+1)
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		cname := strings.TrimSpace(c.Name)
		if cname == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		known[cname] = struct{}{}

		if c.AutoIncrement {
			if d.AutoIncrementPK == nil {
				return "", fmt.Errorf("ddl: dialect %q does not support auto-increment column %s.%s", d.Name, name, cname)
			}
			defs = append(defs, d.AutoIncrementPK(d.quote(cname)))
			continue
		}

		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", cname)
		}

		var sb strings.Builder
		sb.WriteString(d.quote(cname))
		sb.WriteByte(' ')
		sb.WriteString(d.mapType(typ))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if c.Unique {
			sb.WriteString(" UNIQUE")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		defs = append(defs, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.quote(cname))
		}
	}

	if len(pks) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	for _, fk := range t.ForeignKeys {
		if _, ok := known[fk.Column]; !ok {
			return "", fmt.Errorf("ddl: foreign key on unknown column %s.%s", name, fk.Column)
		}
		if fk.RefTable == "" || fk.RefColumn == "" {
			return "", fmt.Errorf("ddl: foreign key %s.%s has no target", name, fk.Column)
		}
		defs = append(defs, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s (%s)",
			d.quote(fk.Column), d.quote(fk.RefTable), d.quote(fk.RefColumn),
		))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		d.quote(name),
		strings.Join(defs, ",\n  "),
	), nil
}
