package etl

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Failures listed per file in the report are capped; counts stay exact.
const maxReportedFailures = 50

type reportDoc struct {
	Totals  reportTotals   `yaml:"totals"`
	Files   []reportFile   `yaml:"files"`
	Missing []string       `yaml:"missing,omitempty"`
	Failed  []reportFailed `yaml:"failed,omitempty"`
}

type reportTotals struct {
	Files        int `yaml:"files"`
	Missing      int `yaml:"missing"`
	Failed       int `yaml:"failed"`
	Inserted     int `yaml:"inserted"`
	Malformed    int `yaml:"malformed"`
	CoerceFailed int `yaml:"coerce_failed"`
	InsertFailed int `yaml:"insert_failed"`
}

type reportFile struct {
	Path         string         `yaml:"path"`
	Table        string         `yaml:"table"`
	Encoding     string         `yaml:"encoding"`
	Checksum     string         `yaml:"xxh3"`
	Inserted     int            `yaml:"inserted"`
	Malformed    int            `yaml:"malformed"`
	CoerceFailed int            `yaml:"coerce_failed"`
	InsertFailed int            `yaml:"insert_failed"`
	Failures     []reportRecord `yaml:"failures,omitempty"`
}

type reportRecord struct {
	Line    int    `yaml:"line"`
	Outcome string `yaml:"outcome"`
	Error   string `yaml:"error"`
}

type reportFailed struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
	Error string `yaml:"error"`
}

func newReportDoc(b BatchReport) reportDoc {
	t := b.Totals()
	doc := reportDoc{
		Totals: reportTotals{
			Files:        t.Files,
			Missing:      t.Missing,
			Failed:       t.Failed,
			Inserted:     t.Inserted,
			Malformed:    t.Malformed,
			CoerceFailed: t.CoerceFailed,
			InsertFailed: t.InsertFailed,
		},
		Files:   make([]reportFile, 0, len(b.Files)),
		Missing: b.Missing,
	}
	for _, f := range b.Files {
		rf := reportFile{
			Path:         f.Path,
			Table:        f.Table,
			Encoding:     f.Encoding,
			Checksum:     fmt.Sprintf("%016x", f.Checksum),
			Inserted:     f.Inserted,
			Malformed:    f.Malformed,
			CoerceFailed: f.CoerceFailed,
			InsertFailed: f.InsertFailed,
		}
		for i, rec := range f.Failures {
			if i == maxReportedFailures {
				break
			}
			rf.Failures = append(rf.Failures, reportRecord{Line: rec.Line, Outcome: rec.Outcome.String(), Error: errString(rec.Err)})
		}
		doc.Files = append(doc.Files, rf)
	}
	for _, f := range b.Failed {
		doc.Failed = append(doc.Failed, reportFailed{Path: f.Path, Table: f.Table, Error: errString(f.Err)})
	}
	return doc
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// WriteReport writes a YAML summary of b to path, creating parent
// directories as needed.
func WriteReport(path string, b BatchReport) error {
	data, err := yaml.Marshal(newReportDoc(b))
	if err != nil {
		return fmt.Errorf("etl: encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("etl: report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("etl: write report: %w", err)
	}
	return nil
}
