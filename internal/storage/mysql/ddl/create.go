package ddl

import (
	"strings"

	gddl "kombuchadb/internal/ddl"
)

// Dialect renders MySQL DDL with backtick-quoted identifiers.
var Dialect = gddl.Dialect{
	Name:       "mysql",
	QuoteIdent: QuoteIdent,
	MapType:    MapType,
	AutoIncrementPK: func(quoted string) string {
		return quoted + " BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	},
}

// BuildCreateTableSQL returns a MySQL CREATE TABLE IF NOT EXISTS statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(Dialect, t)
}

// QuoteIdent quotes id with backticks, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
