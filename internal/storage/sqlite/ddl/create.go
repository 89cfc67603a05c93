package ddl

import (
	"strings"

	gddl "kombuchadb/internal/ddl"
)

// Dialect renders SQLite DDL:
//
//   - identifiers are double-quoted ("table", "col")
//   - auto-increment keys use INTEGER PRIMARY KEY AUTOINCREMENT, which SQLite
//     only accepts inline on the column
var Dialect = gddl.Dialect{
	Name:       "sqlite",
	QuoteIdent: quoteIdent,
	MapType:    MapType,
	AutoIncrementPK: func(quoted string) string {
		return quoted + " INTEGER PRIMARY KEY AUTOINCREMENT"
	},
}

// BuildCreateTableSQL returns a SQLite CREATE TABLE IF NOT EXISTS statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(Dialect, t)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteIdent is exported for the repository, which quotes table and column
// names the same way the DDL does.
func QuoteIdent(id string) string { return quoteIdent(id) }
