// Package charset guesses the byte encoding of a source file and wraps a
// reader so that it yields UTF-8.
//
// Detection is statistical (ICU-style recognisers via saintfish/chardet) over
// the full file content; only the best guess is used. Decoders come from
// golang.org/x/text, looked up by WHATWG label first and IANA name second.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is reported for empty and plain 7-bit input.
const Default = "UTF-8"

// ErrUnsupported is returned when a detected label has no known decoder.
var ErrUnsupported = errors.New("charset: unsupported encoding")

// Detect returns the best-guess encoding label for raw.
func Detect(raw []byte) (string, error) {
	if isASCII(raw) {
		return Default, nil
	}
	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return "", fmt.Errorf("charset: detect: %w", err)
	}
	return res.Charset, nil
}

// isASCII reports whether raw is 7-bit text. Such input decodes the same under
// every ASCII-compatible label, and the statistical recognisers tend to call
// it ISO-8859-1. NUL bytes are left to the detector since they hint at UTF-16.
func isASCII(raw []byte) bool {
	for _, b := range raw {
		if b == 0 || b >= 0x80 {
			return false
		}
	}
	return true
}

// Lookup resolves label to an x/text encoding.
func Lookup(label string) (encoding.Encoding, error) {
	name := strings.TrimSpace(label)
	if name == "" {
		return nil, fmt.Errorf("%w: empty label", ErrUnsupported)
	}
	if strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8") {
		return unicode.UTF8, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	// chardet spells a few names its own way (GB-18030, ISO-8859-8-I).
	for _, candidate := range []string{name, strings.ReplaceAll(name, "-", "")} {
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, label)
}

// NewReader wraps r so it decodes from label into UTF-8.
func NewReader(r io.Reader, label string) (io.Reader, error) {
	enc, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
