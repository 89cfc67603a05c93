package charset

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const sample = "id\tname\tMolecularWeight\nC\tCarbon\t12.011\nO\tOxygen\t15.999\nN\tNitrogen\t14.007\n"

func TestDetect_Empty(t *testing.T) {
	t.Parallel()

	got, err := Detect(nil)
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestDetect_PlainASCII(t *testing.T) {
	t.Parallel()

	got, err := Detect([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestDetect_UTF8WithMultibyte(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("Glucose\tα-D-glucopyranose\tß-Ketoglutarat\tÄpfelsäure\n", 20)
	got, err := Detect([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", got)
}

func TestDetect_UTF16LEWithBOM(t *testing.T) {
	t.Parallel()

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	raw, err := enc.Bytes([]byte(sample))
	require.NoError(t, err)

	got, err := Detect(raw)
	require.NoError(t, err)
	assert.Equal(t, "UTF-16LE", got)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label   string
		wantErr bool
	}{
		{"UTF-8", false},
		{"utf8", false},
		{"ISO-8859-1", false},
		{"windows-1252", false},
		{"UTF-16LE", false},
		{"Shift_JIS", false},
		{"GB-18030", false},
		{"", true},
		{"klingon-7", true},
	}
	for _, tt := range tests {
		_, err := Lookup(tt.label)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupported, tt.label)
			continue
		}
		assert.NoError(t, err, tt.label)
	}
}

func TestNewReader_Windows1252(t *testing.T) {
	t.Parallel()

	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Äpfelsäure\t134.09\n"))
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(raw), "windows-1252")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Äpfelsäure\t134.09\n", string(out))
}

func TestNewReader_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := NewReader(strings.NewReader("x"), "klingon-7")
	assert.ErrorIs(t, err, ErrUnsupported)
}
