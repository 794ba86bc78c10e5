/*
Package ppm implements a decoder and encoder for plain text Portable Pixel
Map images.

A file is a header of three fields, each on its own line, followed by the
pixel data:

	P3
	#image.ppm
	1 3
	91
	7 91 43 14 32 56 23 43 32

The first field is the format tag and is kept verbatim. The second holds
the height followed by the width, which is the reverse of the usual
Netpbm order; the encoder writes the same order so files round trip. The
third is the maximum channel value. Anything after a '#' is ignored when
looking for header fields and a body line starting with '#' is skipped.

The encoder terminates lines with CRLF and writes three pixels per line.
*/
package ppm

import "fmt"

// Pixel is a single RGB value.
type Pixel struct {
	R, G, B uint8
}

// String returns the pixel as three space separated decimal values.
func (p Pixel) String() string {
	return fmt.Sprintf("%d %d %d", p.R, p.G, p.B)
}

// Image is a decoded PPM image. Pixels are stored in row-major order and
// are expected to number Height * Width, although nothing enforces that.
type Image struct {
	Pixels   []Pixel
	Height   int
	Width    int
	Format   string
	MaxValue int
}

// Config holds the header fields of an image.
type Config struct {
	Format   string
	Height   int
	Width    int
	MaxValue int
}

// New returns an image built from the given pixels and header fields.
func New(pixels []Pixel, height, width int, format string, maxValue int) *Image {
	return &Image{
		Pixels:   pixels,
		Height:   height,
		Width:    width,
		Format:   format,
		MaxValue: maxValue,
	}
}

// Config returns the header fields of m.
func (m *Image) Config() Config {
	return Config{
		Format:   m.Format,
		Height:   m.Height,
		Width:    m.Width,
		MaxValue: m.MaxValue,
	}
}

// Valid reports whether the number of pixels matches the dimensions.
func (m *Image) Valid() bool {
	return len(m.Pixels) == m.Height*m.Width
}

// Equal reports whether m and o hold the same pixels and header fields.
func (m *Image) Equal(o *Image) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.Pixels) != len(o.Pixels) {
		return false
	}
	for i := len(m.Pixels) - 1; i >= 0; i-- {
		if m.Pixels[i] != o.Pixels[i] {
			return false
		}
	}
	return m.Format == o.Format &&
		m.MaxValue == o.MaxValue &&
		m.Height == o.Height &&
		m.Width == o.Width
}
