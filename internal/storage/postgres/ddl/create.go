package ddl

import (
	gddl "kombuchadb/internal/ddl"
)

// Dialect renders Postgres DDL. Identifiers are always double-quoted so that
// mixed-case names such as "MolecularWeight" keep their case.
var Dialect = gddl.Dialect{
	Name:       "postgres",
	QuoteIdent: gddl.QuoteANSI,
	MapType:    MapType,
	AutoIncrementPK: func(quoted string) string {
		return quoted + " BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	},
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(Dialect, t)
}
