//go:build cgo

package native

// #include <stdlib.h>
// #include "ppma.h"
import "C"

import (
	"unsafe"

	"github.com/bodgit/ppm"
	"github.com/pkg/errors"
)

func errFromC(ret C.int) error {
	switch ret {
	case C.PPMA_OK:
		return nil
	case C.PPMA_ERR_OPEN:
		return ErrOpen
	case C.PPMA_ERR_FORMAT:
		return ErrFormat
	case C.PPMA_ERR_SHORT:
		return ErrShortData
	case C.PPMA_ERR_NOMEM:
		return ErrNoMemory
	case C.PPMA_ERR_WRITE:
		return ErrWrite
	default:
		return ErrUnknownError
	}
}

// copyPlane copies n values from a C allocated plane into Go memory.
func copyPlane(p *C.int32_t, n int) ([]int32, error) {
	out := make([]int32, n)
	if n == 0 {
		return out, nil
	}
	if p == nil {
		return nil, ErrShortData
	}
	copy(out, unsafe.Slice((*int32)(unsafe.Pointer(p)), n))
	return out, nil
}

func planePointer(p []int32) *C.int32_t {
	if len(p) == 0 {
		return nil
	}
	return (*C.int32_t)(unsafe.Pointer(&p[0]))
}

// Decode reads the named file using the C reader. The format is always
// reported as P3 and the first dimension in the header is the height.
func Decode(file string) (*ppm.Image, error) {
	name := C.CString(file)
	defer C.free(unsafe.Pointer(name))

	var rows, cols, maxValue C.int32_t
	var r, g, b *C.int32_t
	if err := errFromC(C.ppma_read(name, &rows, &cols, &maxValue, &r, &g, &b)); err != nil {
		return nil, errors.Wrap(err, file)
	}
	defer func() {
		C.free(unsafe.Pointer(r))
		C.free(unsafe.Pointer(g))
		C.free(unsafe.Pointer(b))
	}()

	n, err := planeLength(int(rows), int(cols))
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	var planes [3][]int32
	for i, p := range []*C.int32_t{r, g, b} {
		if planes[i], err = copyPlane(p, n); err != nil {
			return nil, errors.Wrap(err, file)
		}
	}

	pixels, err := join(planes[0], planes[1], planes[2])
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	return ppm.New(pixels, int(rows), int(cols), "P3", int(maxValue)), nil
}

// Encode writes m to the named file using the C writer. Only the pixels and
// dimensions are passed across, the C writer derives the maximum value
// from the pixel data.
func Encode(file string, m *ppm.Image) error {
	n, err := planeLength(m.Height, m.Width)
	if err != nil {
		return err
	}
	if len(m.Pixels) != n {
		return ErrPixelCount
	}

	r, g, b := split(m.Pixels)

	name := C.CString(file)
	defer C.free(unsafe.Pointer(name))

	if err := errFromC(C.ppma_write(name, C.int32_t(m.Height), C.int32_t(m.Width), planePointer(r), planePointer(g), planePointer(b))); err != nil {
		return errors.Wrap(err, file)
	}

	return nil
}
