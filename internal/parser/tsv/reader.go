// Package tsv reads tab-separated reference files line by line.
//
// The first non-blank line is the header; every later non-blank line is one
// record. Fields are split on '\t' only, with no quoting rules: the reference
// data never quotes, and a literal '"' must survive as text. Field contents
// are never trimmed, so trailing empty fields are preserved; Fit drops them
// when they run past the header.
package tsv

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

// Line is one non-blank record line.
type Line struct {
	// Number is 1-based and counts the header as line 1; every physical line
	// after the header (blank ones included) advances it.
	Number int
	// Raw is the line without its terminator.
	Raw    string
	Fields []string
}

// Reader splits a stream into a header and record lines.
type Reader struct {
	br         *bufio.Reader
	line       int
	headerRead bool
}

// NewReader returns a Reader over r. r is expected to yield UTF-8.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Header skips leading blank lines and returns the column names of the first
// non-blank line, without trailing empty names. It returns io.EOF when the
// input holds no such line.
func (r *Reader) Header() ([]string, error) {
	if r.headerRead {
		return nil, errors.New("tsv: header already read")
	}
	for {
		raw, err := r.readLine()
		if err != nil {
			return nil, err
		}
		raw = strings.TrimPrefix(raw, utf8BOM)
		if isBlank(raw) {
			continue
		}
		r.headerRead = true
		r.line = 1

		names := strings.Split(raw, "\t")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		// Trailing tabs after the last name do not add columns.
		for names[len(names)-1] == "" {
			names = names[:len(names)-1]
		}
		return names, nil
	}
}

// Next returns the next non-blank line, or io.EOF at the end of input.
func (r *Reader) Next() (Line, error) {
	if !r.headerRead {
		return Line{}, errors.New("tsv: Next called before Header")
	}
	for {
		raw, err := r.readLine()
		if err != nil {
			return Line{}, err
		}
		r.line++
		if isBlank(raw) {
			continue
		}
		return Line{Number: r.line, Raw: raw, Fields: strings.Split(raw, "\t")}, nil
	}
}

// Fit matches fields to a header of width names. Extra trailing fields are
// dropped when they are all blank; any other count mismatch reports false.
func Fit(fields []string, width int) ([]string, bool) {
	if len(fields) < width {
		return fields, false
	}
	for _, f := range fields[width:] {
		if strings.TrimSpace(f) != "" {
			return fields, false
		}
	}
	return fields[:width], true
}

// readLine returns one physical line without "\n" or "\r\n". A final line
// without a terminator is returned normally; io.EOF follows it.
func (r *Reader) readLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimSuffix(s, "\r"), nil
		}
		return "", err
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
