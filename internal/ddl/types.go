package ddl

// ColumnDef describes a single column in a table definition. It intentionally
// uses simple, database-agnostic fields; dialects translate them at render time.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: logical type, one of TEXT, REAL, INTEGER (mapped per dialect)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Unique: whether a UNIQUE constraint is attached to the column
//   - AutoIncrement: integer surrogate key populated by the database; implies
//     PrimaryKey and is rendered by the dialect as a single column definition
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name          string
	SQLType       string
	Nullable      bool
	PrimaryKey    bool
	Unique        bool
	AutoIncrement bool
	Default       string
}

// ForeignKey is a single-column reference from Column to RefTable(RefColumn).
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableDef holds the table name, its ordered columns and its foreign keys.
// Column order is the physical declaration order.
type TableDef struct {
	Name        string
	Columns     []ColumnDef
	ForeignKeys []ForeignKey
}

// Logical column types understood by every dialect.
const (
	TypeText    = "TEXT"
	TypeReal    = "REAL"
	TypeInteger = "INTEGER"
)
