// Package ddl contains MySQL-specific helpers for generating DDL and for
// reading declared types back out of information_schema.
package ddl

import (
	"strings"

	gddl "kombuchadb/internal/ddl"
)

// MapType maps a logical type into a MySQL column type. TEXT becomes
// VARCHAR(255) because InnoDB cannot index or reference an unbounded TEXT
// column, and every text key in the schema is referenced by a foreign key.
func MapType(logical string) string {
	switch strings.ToUpper(strings.TrimSpace(logical)) {
	case gddl.TypeReal:
		return "DOUBLE"
	case gddl.TypeInteger:
		return "BIGINT"
	case gddl.TypeText:
		return "VARCHAR(255)"
	default:
		return logical
	}
}

// NormalizeType folds an information_schema DATA_TYPE back onto the logical
// names the loader understands.
func NormalizeType(dataType string) string {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "double", "float", "real":
		return gddl.TypeReal
	case "bigint", "int", "integer", "mediumint", "smallint", "tinyint":
		return gddl.TypeInteger
	case "varchar", "char", "text", "tinytext", "mediumtext", "longtext":
		return gddl.TypeText
	default:
		return strings.ToUpper(strings.TrimSpace(dataType))
	}
}
