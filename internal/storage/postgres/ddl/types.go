// Package ddl contains Postgres-specific helpers for generating DDL and for
// reading declared types back out of information_schema.
package ddl

import (
	"strings"

	gddl "kombuchadb/internal/ddl"
)

// MapType maps a logical type into a Postgres column type.
//
//	REAL    -> DOUBLE PRECISION
//	INTEGER -> BIGINT
//	TEXT    -> TEXT
func MapType(logical string) string {
	switch strings.ToUpper(strings.TrimSpace(logical)) {
	case gddl.TypeReal:
		return "DOUBLE PRECISION"
	case gddl.TypeInteger:
		return "BIGINT"
	case gddl.TypeText:
		return "TEXT"
	default:
		return logical
	}
}

// NormalizeType folds an information_schema data_type back onto the logical
// names the loader understands. Unknown types are returned upper-cased, which
// the loader treats as text.
func NormalizeType(dataType string) string {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "double precision", "real", "float8", "float4":
		return gddl.TypeReal
	case "bigint", "integer", "smallint", "int8", "int4", "int2":
		return gddl.TypeInteger
	case "text", "character varying", "varchar", "character", "char":
		return gddl.TypeText
	default:
		return strings.ToUpper(strings.TrimSpace(dataType))
	}
}
