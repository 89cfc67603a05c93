// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "kombuchadb/internal/ddl"
)

// MapType maps a logical type into a SQLite column type. SQLite keeps the
// declared type text verbatim in PRAGMA table_info, so the logical names are
// emitted unchanged; that is what lets the loader classify columns later.
func MapType(logical string) string {
	switch strings.ToUpper(strings.TrimSpace(logical)) {
	case gddl.TypeReal:
		return "REAL"
	case gddl.TypeInteger:
		return "INTEGER"
	case gddl.TypeText:
		return "TEXT"
	default:
		return logical
	}
}
