package ppm

import "math"

// ITU-R BT.601 luma weights
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Gray returns the luma of p as a gray pixel.
func (p Pixel) Gray() Pixel {
	y := uint8(math.Round(lumaR*float64(p.R) + lumaG*float64(p.G) + lumaB*float64(p.B)))
	return Pixel{y, y, y}
}

// Grayscale returns a copy of m with every pixel converted to gray.
func (m *Image) Grayscale() *Image {
	pixels := make([]Pixel, len(m.Pixels))
	for i, p := range m.Pixels {
		pixels[i] = p.Gray()
	}
	return New(pixels, m.Height, m.Width, m.Format, m.MaxValue)
}
