//go:build !cgo

package native

import "github.com/bodgit/ppm"

// Decode always fails with ErrUnavailable when built without cgo.
func Decode(file string) (*ppm.Image, error) {
	return nil, ErrUnavailable
}

// Encode always fails with ErrUnavailable when built without cgo.
func Encode(file string, m *ppm.Image) error {
	return ErrUnavailable
}
