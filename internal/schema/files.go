package schema

// SourceFile binds a TSV file name (relative to the data directory) to the
// table it is loaded into.
type SourceFile struct {
	File  string
	Table string
}

// SourceFiles returns the fixed file-to-table mapping in load order. The
// order follows foreign-key dependencies so referenced rows exist first.
func SourceFiles() []SourceFile {
	return []SourceFile{
		{File: "elements.tsv", Table: Elements},
		{File: "metabolites.tsv", Table: Metabolites},
		{File: "metabolites2elements.tsv", Table: Metabolites2Elements},
		{File: "kombucha_media.tsv", Table: WC},
		{File: "species.tsv", Table: Species},
		{File: "feedingTerms.tsv", Table: FeedingTerms},
		{File: "feedingTerms2metabolites.tsv", Table: FeedingTerms2Metabolites},
		{File: "subpopulations.tsv", Table: Subpopulations},
		{File: "subpopulations2subpopulations.tsv", Table: Subpopulations2Subpopulations},
		{File: "subpopulations2feedingTerms.tsv", Table: Subpopulations2FeedingTerms},
	}
}
