// Package probe samples a reference TSV file and reports what a load would
// see: the detected encoding, the header, record arity, and a per-column type
// guess, optionally checked against the live table schema.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/zeebo/xxh3"

	"kombuchadb/internal/charset"
	"kombuchadb/internal/datasource"
	"kombuchadb/internal/datasource/file"
	"kombuchadb/internal/parser/tsv"
	"kombuchadb/internal/storage"
)

// Options control sampling.
type Options struct {
	// MaxRecords caps the records sampled for type inference. Zero means all.
	MaxRecords int
	// Columns, when set, is the live schema of the target table.
	Columns []storage.Column
}

// ColumnProbe is the finding for one header column.
type ColumnProbe struct {
	Name     string
	Inferred storage.ColumnKind
	// Empty counts empty fields; they load as NULL.
	Empty int
	// Declared is the schema's declared type, "" when the column is unknown
	// or no schema was given.
	Declared string
	// Compatible reports whether every sampled value coerces to the declared
	// type. Always false when Declared is "".
	Compatible bool
}

// Result is the outcome of probing one file.
type Result struct {
	Path      string
	Encoding  string
	Checksum  uint64
	Header    []string
	Records   int
	Malformed int
	Columns   []ColumnProbe
}

// File probes the file at path.
func File(ctx context.Context, path string, opt Options) (Result, error) {
	res := Result{Path: path}

	raw, err := datasource.ReadAll(ctx, file.NewLocal(path))
	if err != nil {
		return res, err
	}
	res.Checksum = xxh3.Hash(raw)
	if res.Encoding, err = charset.Detect(raw); err != nil {
		return res, err
	}
	decoded, err := charset.NewReader(bytes.NewReader(raw), res.Encoding)
	if err != nil {
		return res, err
	}

	r := tsv.NewReader(decoded)
	res.Header, err = r.Header()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("probe: header: %w", err)
	}

	cols := make([][]string, len(res.Header))
	for opt.MaxRecords <= 0 || res.Records+res.Malformed < opt.MaxRecords {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("probe: read: %w", err)
		}
		fields, ok := tsv.Fit(line.Fields, len(res.Header))
		if !ok {
			res.Malformed++
			continue
		}
		res.Records++
		for i, v := range fields {
			cols[i] = append(cols[i], v)
		}
	}

	declared := make(map[string]string, len(opt.Columns))
	for _, c := range opt.Columns {
		declared[strings.ToLower(c.Name)] = c.DeclaredType
	}
	for i, name := range res.Header {
		cp := ColumnProbe{Name: name, Inferred: inferKind(cols[i])}
		for _, v := range cols[i] {
			if v == "" {
				cp.Empty++
			}
		}
		if d, ok := declared[strings.ToLower(name)]; ok {
			cp.Declared = d
			// All-empty columns load as NULL whatever the declared kind.
			cp.Compatible = cp.Empty == len(cols[i]) || compatible(storage.KindOf(d), cp.Inferred)
		}
		res.Columns = append(res.Columns, cp)
	}
	return res, nil
}

// inferKind picks the narrowest kind every non-empty value parses as.
func inferKind(values []string) storage.ColumnKind {
	seen := false
	isInt, isReal := true, true
	for _, v := range values {
		if v == "" {
			continue
		}
		seen = true
		s := strings.TrimSpace(v)
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			isReal = false
		}
	}
	switch {
	case !seen:
		return storage.KindText
	case isInt:
		return storage.KindInteger
	case isReal:
		return storage.KindReal
	default:
		return storage.KindText
	}
}

func compatible(declared, inferred storage.ColumnKind) bool {
	switch declared {
	case storage.KindReal:
		return inferred == storage.KindReal || inferred == storage.KindInteger
	case storage.KindInteger:
		return inferred == storage.KindInteger
	default:
		return true
	}
}

// Render writes a human-readable summary of res.
func Render(w io.Writer, res Result) error {
	fmt.Fprintf(w, "file:      %s\n", res.Path)
	fmt.Fprintf(w, "encoding:  %s\n", res.Encoding)
	fmt.Fprintf(w, "xxh3:      %016x\n", res.Checksum)
	fmt.Fprintf(w, "records:   %d (malformed %d)\n\n", res.Records, res.Malformed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tINFERRED\tDECLARED\tEMPTY\tOK")
	for _, c := range res.Columns {
		declared, ok := c.Declared, "yes"
		if declared == "" {
			declared, ok = "-", "unknown"
		} else if !c.Compatible {
			ok = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.Name, c.Inferred, declared, c.Empty, ok)
	}
	return tw.Flush()
}
