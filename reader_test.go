package ppm

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPixels() []Pixel {
	return []Pixel{
		{7, 91, 43},
		{14, 32, 56},
		{23, 43, 32},
	}
}

func TestDecode(t *testing.T) {
	in := "P3\r\n#test.ppm\r\n1 3\r\n91\r\n7 91 43 14 32 56 23 43 32 \r\n"

	m, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "P3", m.Format)
	assert.Equal(t, 1, m.Height)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 91, m.MaxValue)
	assert.Equal(t, testPixels(), m.Pixels)
	assert.True(t, m.Valid())
}

func TestDecodeHeightBeforeWidth(t *testing.T) {
	m, err := Decode(strings.NewReader("P3\n2 5\n255\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Height)
	assert.Equal(t, 5, m.Width)
}

func TestDecodeComments(t *testing.T) {
	in := strings.Join([]string{
		"# leading comment",
		"P3 # format",
		"",
		"# between",
		"1 2 # size",
		"255",
		"1 2 3",
		"#4 5 6",
		"",
		"  7 8 9 # trailing",
	}, "\n")

	m, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "P3", m.Format)
	assert.Equal(t, 1, m.Height)
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, []Pixel{{1, 2, 3}, {7, 8, 9}}, m.Pixels)
}

func TestDecodeMismatchedCount(t *testing.T) {
	m, err := Decode(strings.NewReader("P3\n2 2\n255\n1 2 3\n"))
	require.NoError(t, err)

	assert.Len(t, m.Pixels, 1)
	assert.False(t, m.Valid())
}

func TestDecodeMissingHeader(t *testing.T) {
	tables := []struct {
		in    string
		field string
	}{
		{"", "format"},
		{"# only a comment\n", "format"},
		{"P3\n", "size"},
		{"P3\n1 3\n", "max value"},
		{"P3\n1 3\n# no max value\n", "max value"},
	}

	for _, table := range tables {
		_, err := Decode(strings.NewReader(table.in))
		assert.ErrorIs(t, err, ErrMissingHeader, table.in)

		var fe *FormatError
		if assert.ErrorAs(t, err, &fe, table.in) {
			assert.Equal(t, table.field, fe.Field)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	tables := []struct {
		in    string
		line  int
		field string
		err   error
	}{
		{"P3\nx 3\n255\n", 2, "height", strconv.ErrSyntax},
		{"P3\n1\n255\n", 2, "width", strconv.ErrSyntax},
		{"P3\n1 3\nmax\n", 3, "max value", strconv.ErrSyntax},
		{"P3\n1 1\n255\n1 2 z\n", 4, "pixel", strconv.ErrSyntax},
		{"P3\n1 1\n255\n1 2\n", 4, "pixel", ErrShortPixel},
		{"P3\n1 1\n99999999999999999999999\n", 3, "max value", strconv.ErrRange},
	}

	for _, table := range tables {
		_, err := Decode(strings.NewReader(table.in))

		var fe *FormatError
		if assert.ErrorAs(t, err, &fe, table.in) {
			assert.Equal(t, table.line, fe.Line, table.in)
			assert.Equal(t, table.field, fe.Field, table.in)
		}
		assert.ErrorIs(t, err, table.err, table.in)
	}
}

func TestDecodeErrorText(t *testing.T) {
	assert.EqualError(t, ErrMissingHeader, "ppm: missing header field")
	assert.EqualError(t, ErrShortPixel, "ppm: not enough values for pixel")

	_, err := Decode(strings.NewReader("P3\n1 1\n255\n1 2\n"))
	assert.EqualError(t, err, "ppm: line 4: pixel: not enough values for pixel")

	_, err = Decode(strings.NewReader("P3\n"))
	assert.EqualError(t, err, "ppm: line 1: size: missing header field")
}

func TestDecodeConfig(t *testing.T) {
	// The body is never read so the garbage after the header is ignored
	cfg, err := DecodeConfig(strings.NewReader("P3\n#x\n4 6\n255\nnot pixels\n"))
	require.NoError(t, err)

	assert.Equal(t, Config{Format: "P3", Height: 4, Width: 6, MaxValue: 255}, cfg)
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "load.ppm")
	require.NoError(t, os.WriteFile(file, []byte("P3\n1 3\n91\n7 91 43\n14 32 56\n23 43 32\n"), 0o644))

	m, err := Load(file)
	require.NoError(t, err)

	assert.True(t, New(testPixels(), 1, 3, "P3", 91).Equal(m))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ppm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
