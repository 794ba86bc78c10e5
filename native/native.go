/*
Package native reads and writes PPM images through a small C library,
ppma_read and ppma_write, so that it can be compared against the pure Go
codec in package ppm.

Everything crossing the boundary is copied. Pixel planes allocated by C
are copied into Go slices straight away and released with C's free, and
lengths are checked on both sides before any buffer is touched.

Without cgo every function returns ErrUnavailable.
*/
package native

import (
	"math"

	"github.com/bodgit/ppm"
	"github.com/pkg/errors"
)

var (
	ErrUnavailable  = errors.New("native: built without cgo")
	ErrOpen         = errors.New("native: unable to open file")
	ErrFormat       = errors.New("native: malformed file")
	ErrShortData    = errors.New("native: not enough pixel data")
	ErrNoMemory     = errors.New("native: out of memory")
	ErrWrite        = errors.New("native: unable to write file")
	ErrDimensions   = errors.New("native: invalid image dimensions")
	ErrPixelCount   = errors.New("native: pixel count does not match dimensions")
	ErrUnknownError = errors.New("native: unknown error code")
)

// planeLength returns the number of values in each color plane of a
// height by width image, ensuring it can be indexed by a C int32_t.
func planeLength(height, width int) (int, error) {
	if height < 0 || width < 0 || height > math.MaxInt32 || width > math.MaxInt32 {
		return 0, ErrDimensions
	}
	n := int64(height) * int64(width)
	if n > math.MaxInt32 {
		return 0, ErrDimensions
	}
	return int(n), nil
}

// split separates pixels into red, green and blue planes.
func split(pixels []ppm.Pixel) (r, g, b []int32) {
	r = make([]int32, len(pixels))
	g = make([]int32, len(pixels))
	b = make([]int32, len(pixels))
	for i, p := range pixels {
		r[i], g[i], b[i] = int32(p.R), int32(p.G), int32(p.B)
	}
	return
}

// join combines red, green and blue planes into pixels, narrowing each
// value to eight bits.
func join(r, g, b []int32) ([]ppm.Pixel, error) {
	if len(r) != len(g) || len(r) != len(b) {
		return nil, ErrShortData
	}
	pixels := make([]ppm.Pixel, len(r))
	for i := range r {
		pixels[i] = ppm.Pixel{R: uint8(r[i]), G: uint8(g[i]), B: uint8(b[i])}
	}
	return pixels, nil
}
