package ppm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMissingHeader is returned when the input ends before all of the
	// header fields have been read.
	ErrMissingHeader = errors.New("ppm: missing header field")

	// ErrShortPixel is returned when a line ends part way through a pixel.
	ErrShortPixel = errors.New("ppm: not enough values for pixel")
)

// Cap on the initial pixel allocation so a bogus header can't ask for
// gigabytes up front.
const maxPreallocPixels = 1 << 20

// A FormatError reports the line and field that could not be decoded.
type FormatError struct {
	Line  int
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ppm: line %d: %s: %s", e.Line, e.Field, strings.TrimPrefix(e.Err.Error(), "ppm: "))
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

type decoder struct {
	lr *lineReader
	m  Image
}

func (d *decoder) fail(field string, err error) error {
	return &FormatError{Line: d.lr.line, Field: field, Err: err}
}

func (d *decoder) readErr() error {
	if err := d.lr.err(); err != nil {
		return errors.Wrap(err, "ppm: read")
	}
	return nil
}

func (d *decoder) headerLine(field string) (string, error) {
	line, ok := d.lr.nextContent()
	if !ok {
		if err := d.readErr(); err != nil {
			return "", err
		}
		return "", d.fail(field, ErrMissingHeader)
	}
	return line, nil
}

func (d *decoder) readFormat() error {
	line, err := d.headerLine("format")
	if err != nil {
		return err
	}
	d.m.Format = line
	return nil
}

func (d *decoder) readSize() error {
	line, err := d.headerLine("size")
	if err != nil {
		return err
	}
	if d.m.Height, err = nextNumber(&line); err != nil {
		return d.fail("height", err)
	}
	if d.m.Width, err = nextNumber(&line); err != nil {
		return d.fail("width", err)
	}
	return nil
}

func (d *decoder) readMaxValue() error {
	line, err := d.headerLine("max value")
	if err != nil {
		return err
	}
	if d.m.MaxValue, err = nextNumber(&line); err != nil {
		return d.fail("max value", err)
	}
	return nil
}

func (d *decoder) readPixels() error {
	n := d.m.Height * d.m.Width
	if n < 0 || n > maxPreallocPixels || (d.m.Width != 0 && n/d.m.Width != d.m.Height) {
		n = maxPreallocPixels
	}
	d.m.Pixels = make([]Pixel, 0, n)

	for {
		line, ok := d.lr.next()
		if !ok {
			return d.readErr()
		}
		line = strings.TrimLeft(line, " ")
		for line != "" && line[0] != '#' {
			p, err := nextPixel(&line)
			if err != nil {
				return d.fail("pixel", err)
			}
			d.m.Pixels = append(d.m.Pixels, p)
		}
	}
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.lr = newLineReader(r)

	if err := d.readFormat(); err != nil {
		return err
	}

	if err := d.readSize(); err != nil {
		return err
	}

	if err := d.readMaxValue(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	return d.readPixels()
}

// Decode reads a PPM image from r. The number of pixels read is not
// checked against the dimensions in the header, use Image.Valid for that.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &d.m, nil
}

// DecodeConfig returns the header fields of a PPM image without decoding
// the pixel data.
func DecodeConfig(r io.Reader) (Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Config{}, err
	}
	return d.m.Config(), nil
}

// Load decodes the PPM image stored in the named file.
func Load(file string) (*Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "ppm")
	}
	defer f.Close()

	return Decode(f)
}
