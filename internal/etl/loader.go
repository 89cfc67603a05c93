// Package etl loads the kombucha reference TSV files into a storage backend.
//
// A Loader handles one file at a time: it detects the file encoding, resolves
// the header against the live table schema, and inserts every well-formed
// record in its own transaction. Record-level problems never abort a file;
// they come back as RecordFailure values in the FileReport.
package etl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/zeebo/xxh3"

	"kombuchadb/internal/charset"
	"kombuchadb/internal/datasource"
	"kombuchadb/internal/datasource/file"
	"kombuchadb/internal/metrics"
	"kombuchadb/internal/parser/tsv"
	"kombuchadb/internal/storage"
	"kombuchadb/internal/transformer"
)

// ErrUnknownTable is returned by LoadFile when the target table has no
// columns in the live schema.
var ErrUnknownTable = errors.New("etl: unknown table")

// Outcome classifies what happened to one source record.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeMalformed
	OutcomeCoerceFailed
	OutcomeInsertFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return metrics.KindInserted
	case OutcomeMalformed:
		return metrics.KindMalformed
	case OutcomeCoerceFailed:
		return metrics.KindCoerceFailed
	case OutcomeInsertFailed:
		return metrics.KindInsertFailed
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RecordFailure describes one record that was not inserted.
type RecordFailure struct {
	Line    int
	Fields  []string
	Outcome Outcome
	Err     error
}

// FileReport summarises one LoadFile call.
type FileReport struct {
	Path     string
	Table    string
	Encoding string
	// Checksum is the xxh3 hash of the raw file bytes.
	Checksum uint64

	Inserted     int
	Malformed    int
	CoerceFailed int
	InsertFailed int

	Failures []RecordFailure
}

// Records is the number of non-blank records seen after the header.
func (r FileReport) Records() int {
	return r.Inserted + r.Malformed + r.CoerceFailed + r.InsertFailed
}

func (r *FileReport) fail(f RecordFailure) {
	switch f.Outcome {
	case OutcomeMalformed:
		r.Malformed++
	case OutcomeCoerceFailed:
		r.CoerceFailed++
	case OutcomeInsertFailed:
		r.InsertFailed++
	}
	r.Failures = append(r.Failures, f)
}

// Loader loads files through one borrowed storage session. It never closes
// the session.
type Loader struct {
	repo    storage.Repository
	logger  *log.Logger
	job     string
	verbose bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithJob sets the job label used for metrics.
func WithJob(job string) LoaderOption {
	return func(ld *Loader) {
		if job != "" {
			ld.job = job
		}
	}
}

// WithVerbose enables per-file detail lines.
func WithVerbose(v bool) LoaderOption {
	return func(ld *Loader) { ld.verbose = v }
}

// NewLoader returns a Loader writing to repo.
func NewLoader(repo storage.Repository, opts ...LoaderOption) *Loader {
	ld := &Loader{repo: repo, logger: log.Default(), job: "kombuchadb"}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

// LoadFile loads the file at path into table.
//
// A non-nil error means the file as a whole could not be processed: it could
// not be read or decoded, the table does not exist, or the header names a
// column the table lacks. Records inserted before a mid-file decode error
// stay committed and are counted in the returned report.
func (ld *Loader) LoadFile(ctx context.Context, path, table string) (rep FileReport, err error) {
	start := time.Now()
	rep = FileReport{Path: path, Table: table}
	defer func() {
		metrics.RecordStep(ld.job, "load:"+table, err, time.Since(start))
		metrics.RecordRow(ld.job, metrics.KindInserted, int64(rep.Inserted))
		metrics.RecordRow(ld.job, metrics.KindMalformed, int64(rep.Malformed))
		metrics.RecordRow(ld.job, metrics.KindCoerceFailed, int64(rep.CoerceFailed))
		metrics.RecordRow(ld.job, metrics.KindInsertFailed, int64(rep.InsertFailed))
	}()

	raw, err := datasource.ReadAll(ctx, file.NewLocal(path))
	if err != nil {
		return rep, fmt.Errorf("etl: %w", err)
	}
	rep.Checksum = xxh3.Hash(raw)

	rep.Encoding, err = charset.Detect(raw)
	if err != nil {
		return rep, fmt.Errorf("etl: %s: %w", path, err)
	}
	ld.logger.Printf("load: loading file %s into table %s (encoding: %s)", path, table, rep.Encoding)
	if ld.verbose {
		ld.logger.Printf("load: %s: %d bytes, xxh3=%016x", path, len(raw), rep.Checksum)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), rep.Encoding)
	if err != nil {
		return rep, fmt.Errorf("etl: %s: %w", path, err)
	}

	// The schema cannot change while a file loads, so looking it up once per
	// file is a performance equivalence of looking it up for every record.
	columns, err := ld.repo.Columns(ctx, table)
	if err != nil {
		return rep, fmt.Errorf("etl: columns of %s: %w", table, err)
	}
	if len(columns) == 0 {
		return rep, fmt.Errorf("%w %q", ErrUnknownTable, table)
	}

	r := tsv.NewReader(decoded)
	header, err := r.Header()
	if errors.Is(err, io.EOF) {
		ld.logger.Printf("load: %s: no header line, nothing to load", path)
		return rep, nil
	}
	if err != nil {
		return rep, fmt.Errorf("etl: %s: read header: %w", path, err)
	}

	coercer, err := transformer.NewCoercer(columns, header)
	if err != nil {
		return rep, fmt.Errorf("etl: %s: %w", path, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rep, fmt.Errorf("etl: %s: read: %w", path, err)
		}
		if f, ok := ld.loadLine(ctx, table, path, coercer, line); !ok {
			rep.fail(f)
			continue
		}
		rep.Inserted++
	}

	ld.logger.Printf("load: %s -> %s: inserted=%d malformed=%d coerce_failed=%d insert_failed=%d",
		path, table, rep.Inserted, rep.Malformed, rep.CoerceFailed, rep.InsertFailed)
	return rep, nil
}

// loadLine runs one record through arity check, coercion and insert.
func (ld *Loader) loadLine(ctx context.Context, table, path string, c *transformer.Coercer, line tsv.Line) (RecordFailure, bool) {
	f := RecordFailure{Line: line.Number, Fields: line.Fields}

	fields, ok := tsv.Fit(line.Fields, c.Width())
	if !ok {
		f.Outcome = OutcomeMalformed
		f.Err = fmt.Errorf("got %d fields, want %d", len(line.Fields), c.Width())
		ld.logger.Printf("load: [line %d] skipping malformed line in %s (%v): %q", line.Number, path, f.Err, line.Raw)
		return f, false
	}

	values, err := c.Apply(fields)
	if err != nil {
		f.Outcome = OutcomeCoerceFailed
		f.Err = err
		ld.logger.Printf("load: [line %d] error coercing line %q: %v", line.Number, line.Fields, err)
		return f, false
	}

	if err := ld.repo.Insert(ctx, table, c.Columns(), values); err != nil {
		f.Outcome = OutcomeInsertFailed
		f.Err = err
		ld.logger.Printf("load: [line %d] error inserting line %q: %v", line.Number, line.Fields, err)
		return f, false
	}
	return f, true
}
