package etl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"kombuchadb/internal/datasource/file"
	"kombuchadb/internal/metrics"
	"kombuchadb/internal/schema"
	"kombuchadb/internal/storage"
)

// FileFailure is a mapped file that could not be loaded at all.
type FileFailure struct {
	Path  string
	Table string
	Err   error
}

// BatchReport is the outcome of one batch run.
type BatchReport struct {
	Files   []FileReport
	Missing []string
	Failed  []FileFailure
}

// Totals are BatchReport counts summed over all loaded files.
type Totals struct {
	Files        int
	Missing      int
	Failed       int
	Inserted     int
	Malformed    int
	CoerceFailed int
	InsertFailed int
}

// Totals sums the per-file counts.
func (b BatchReport) Totals() Totals {
	t := Totals{Files: len(b.Files), Missing: len(b.Missing), Failed: len(b.Failed)}
	for _, f := range b.Files {
		t.Inserted += f.Inserted
		t.Malformed += f.Malformed
		t.CoerceFailed += f.CoerceFailed
		t.InsertFailed += f.InsertFailed
	}
	return t
}

// Skipped is the number of records that were read but not inserted.
func (t Totals) Skipped() int { return t.Malformed + t.CoerceFailed + t.InsertFailed }

// RunBatch loads every file of files that exists under dataDir, in order. A
// missing file or a file-level failure is logged and recorded; the batch always
// moves on to the next file. Only a canceled context stops it early.
func RunBatch(ctx context.Context, ld *Loader, dataDir string, files []schema.SourceFile) BatchReport {
	var rep BatchReport
	for _, sf := range files {
		if ctx.Err() != nil {
			ld.logger.Printf("batch: stopping early: %v", ctx.Err())
			break
		}

		path := filepath.Join(dataDir, sf.File)
		ok, err := file.NewLocal(path).Exists()
		if err != nil {
			ld.logger.Printf("batch: %v", err)
			rep.Failed = append(rep.Failed, FileFailure{Path: path, Table: sf.Table, Err: err})
			metrics.RecordFile(ld.job, metrics.FileFailed)
			continue
		}
		if !ok {
			ld.logger.Printf("batch: file not found: %s", path)
			rep.Missing = append(rep.Missing, path)
			metrics.RecordFile(ld.job, metrics.FileMissing)
			continue
		}

		fr, err := ld.LoadFile(ctx, path, sf.Table)
		if err != nil {
			ld.logger.Printf("batch: failed to load %s into %s: %v", path, sf.Table, err)
			rep.Failed = append(rep.Failed, FileFailure{Path: path, Table: sf.Table, Err: err})
			metrics.RecordFile(ld.job, metrics.FileFailed)
			continue
		}
		rep.Files = append(rep.Files, fr)
		metrics.RecordFile(ld.job, metrics.FileLoaded)
	}
	return rep
}

// Options configures Run.
type Options struct {
	Storage storage.Config
	DataDir string
	// Files defaults to schema.SourceFiles().
	Files []schema.SourceFile
	// EnsureSchema provisions the tables before loading.
	EnsureSchema bool
	// ReportPath, when set, receives a YAML summary of the batch.
	ReportPath string
	Job        string
	Logger     *log.Logger
	Verbose    bool
}

// Run opens one storage session, loads the batch through it and closes it.
// Failing to open or close the session, to provision the schema, or to write
// the report is returned as an error; everything below that is reported in
// the BatchReport.
func Run(ctx context.Context, opts Options) (rep BatchReport, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	files := opts.Files
	if files == nil {
		files = schema.SourceFiles()
	}

	repo, err := storage.New(ctx, opts.Storage)
	if err != nil {
		return rep, fmt.Errorf("etl: open %s session: %w", opts.Storage.Kind, err)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("etl: close session: %w", cerr))
		}
	}()
	logger.Printf("batch: connected to database: %s (%s)", opts.Storage.DSN, opts.Storage.Kind)

	if opts.EnsureSchema {
		if err := schema.Provision(ctx, opts.Storage.Kind, repo); err != nil {
			return rep, err
		}
		logger.Printf("batch: schema ensured (%d tables)", len(schema.Tables()))
	}

	start := time.Now()
	ld := NewLoader(repo, WithLogger(logger), WithJob(opts.Job), WithVerbose(opts.Verbose))
	rep = RunBatch(ctx, ld, opts.DataDir, files)

	t := rep.Totals()
	logger.Printf("batch: summary: files=%d missing=%d failed=%d inserted=%d malformed=%d coerce_failed=%d insert_failed=%d elapsed=%s",
		t.Files, t.Missing, t.Failed, t.Inserted, t.Malformed, t.CoerceFailed, t.InsertFailed,
		time.Since(start).Truncate(time.Millisecond))

	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, rep); err != nil {
			return rep, err
		}
		if opts.Verbose {
			logger.Printf("batch: report written to %s", opts.ReportPath)
		}
	}
	return rep, nil
}
