// Package schema holds the fixed relational schema of the kombucha reference
// database, the fixed mapping from source files to tables, and the
// provisioner that creates the tables idempotently.
package schema

import "kombuchadb/internal/ddl"

// Table names.
const (
	Elements                      = "elements"
	Metabolites                   = "metabolites"
	Metabolites2Elements          = "metabolites2elements"
	WC                            = "wc"
	Species                       = "species"
	FeedingTerms                  = "feedingTerms"
	FeedingTerms2Metabolites      = "feedingTerms2metabolites"
	Subpopulations                = "subpopulations"
	Subpopulations2FeedingTerms   = "subpopulations2feedingTerms"
	Subpopulations2Subpopulations = "subpopulations2subpopulations"
)

// Tables returns the ten table definitions in dependency order: every table
// appears after the tables its foreign keys reference.
func Tables() []ddl.TableDef {
	return []ddl.TableDef{
		{
			Name: Elements,
			Columns: []ddl.ColumnDef{
				textKey("id", false),
				{Name: "name", SQLType: ddl.TypeText, Unique: true},
				realCol("MolecularWeight"),
			},
		},
		{
			Name: Metabolites,
			Columns: []ddl.ColumnDef{
				textKey("id", false),
				textCol("color"),
				realCol("MolecularWeight"),
			},
		},
		{
			Name: Metabolites2Elements,
			Columns: []ddl.ColumnDef{
				autoID(),
				textCol("metabolite"),
				textCol("element"),
				intCol("atoms"),
			},
			ForeignKeys: []ddl.ForeignKey{
				ref("metabolite", Metabolites),
				ref("element", Elements),
			},
		},
		{
			Name: WC,
			Columns: []ddl.ColumnDef{
				textKey("metabolite", true),
				realCol("concentration"),
			},
			ForeignKeys: []ddl.ForeignKey{ref("metabolite", Metabolites)},
		},
		{
			Name: Species,
			Columns: []ddl.ColumnDef{
				textKey("id", true),
				textCol("name"),
				nullable(intCol("genomeSize")),
				nullable(intCol("geneNumber")),
				nullable(textCol("patricID")),
				nullable(textCol("ncbiID")),
			},
		},
		{
			Name: FeedingTerms,
			Columns: []ddl.ColumnDef{
				textKey("id", true),
				textCol("name"),
				textCol("species"),
			},
			ForeignKeys: []ddl.ForeignKey{ref("species", Species)},
		},
		{
			Name: FeedingTerms2Metabolites,
			Columns: []ddl.ColumnDef{
				autoID(),
				textCol("feedingTerm"),
				textCol("metabolite"),
				realCol("yield"),
				realCol("monodK"),
			},
			ForeignKeys: []ddl.ForeignKey{
				ref("feedingTerm", FeedingTerms),
				ref("metabolite", Metabolites),
			},
		},
		{
			Name: Subpopulations,
			Columns: []ddl.ColumnDef{
				textKey("id", true),
				textCol("species"),
				realCol("mumax"),
				realCol("pHoptimal"),
				realCol("pHalpha"),
				realCol("count"),
				textCol("color"),
				textCol("state"),
			},
			ForeignKeys: []ddl.ForeignKey{ref("species", Species)},
		},
		{
			Name: Subpopulations2FeedingTerms,
			Columns: []ddl.ColumnDef{
				autoID(),
				textCol("subpopulation"),
				textCol("feedingTerm"),
			},
			ForeignKeys: []ddl.ForeignKey{
				ref("subpopulation", Subpopulations),
				ref("feedingTerm", FeedingTerms),
			},
		},
		{
			Name: Subpopulations2Subpopulations,
			Columns: []ddl.ColumnDef{
				autoID(),
				textCol("subpopulation_A"),
				textCol("subpopulation_B"),
				textCol("hillFunc"),
				realCol("rate"),
			},
			ForeignKeys: []ddl.ForeignKey{
				ref("subpopulation_A", Subpopulations),
				ref("subpopulation_B", Subpopulations),
			},
		},
	}
}

// textKey is a unique text primary key. Only elements and metabolites declare
// it NOT NULL explicitly; SQLite lets the others hold NULL.
func textKey(name string, nullable bool) ddl.ColumnDef {
	return ddl.ColumnDef{Name: name, SQLType: ddl.TypeText, PrimaryKey: true, Unique: true, Nullable: nullable}
}

func autoID() ddl.ColumnDef {
	return ddl.ColumnDef{Name: "id", SQLType: ddl.TypeInteger, PrimaryKey: true, AutoIncrement: true}
}

func textCol(name string) ddl.ColumnDef { return ddl.ColumnDef{Name: name, SQLType: ddl.TypeText} }
func realCol(name string) ddl.ColumnDef { return ddl.ColumnDef{Name: name, SQLType: ddl.TypeReal} }
func intCol(name string) ddl.ColumnDef  { return ddl.ColumnDef{Name: name, SQLType: ddl.TypeInteger} }

func nullable(c ddl.ColumnDef) ddl.ColumnDef {
	c.Nullable = true
	return c
}

func ref(column, table string) ddl.ForeignKey {
	return ddl.ForeignKey{Column: column, RefTable: table, RefColumn: "id"}
}
