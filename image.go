package ppm

import (
	"image"
	"image/color"
)

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image. Channels are scaled from MaxValue to 255.
// Points outside the image, or past the end of a short pixel slice, are
// transparent black.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA{}
	}
	i := y*m.Width + x
	if i < 0 || i >= len(m.Pixels) {
		return color.RGBA{}
	}
	p := m.Pixels[i]
	return color.RGBA{
		scale(p.R, m.MaxValue),
		scale(p.G, m.MaxValue),
		scale(p.B, m.MaxValue),
		0xff,
	}
}

func scale(c uint8, max int) uint8 {
	if max <= 0 || max == 0xff {
		return c
	}
	v := int(c) * 0xff / max
	if v > 0xff {
		v = 0xff
	}
	return uint8(v)
}

// FromImage converts any image.Image to a P3 image with a maximum value of
// 255. Alpha is discarded.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	pixels := make([]Pixel, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, Pixel{c.R, c.G, c.B})
		}
	}
	return New(pixels, b.Dy(), b.Dx(), "P3", 0xff)
}
