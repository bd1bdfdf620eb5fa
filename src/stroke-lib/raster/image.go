package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strings"
)

// Image is a single-channel raster produced by the Renderer.
type Image struct {
	gray *image.Gray
}

// FromImage converts any image to a grayscale Image using the standard luma weights.
func FromImage(src image.Image) *Image {
	if g, ok := src.(*image.Gray); ok {
		cp := image.NewGray(g.Bounds())
		copy(cp.Pix, g.Pix)
		return &Image{gray: cp}
	}
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), src, b.Min, draw.Src)
	return &Image{gray: g}
}

// Width returns the width in pixels.
func (i *Image) Width() int { return i.gray.Rect.Dx() }

// Height returns the height in pixels.
func (i *Image) Height() int { return i.gray.Rect.Dy() }

// GrayAt returns the intensity of the pixel at (x, y).
func (i *Image) GrayAt(x, y int) uint8 { return i.gray.GrayAt(x, y).Y }

// Pix returns a copy of the row-major pixel intensities.
func (i *Image) Pix() []uint8 {
	out := make([]uint8, i.Width()*i.Height())
	for y := 0; y < i.Height(); y++ {
		row := i.gray.Pix[y*i.gray.Stride : y*i.gray.Stride+i.Width()]
		copy(out[y*i.Width():], row)
	}
	return out
}

// Gray returns the underlying image. Callers must not modify it.
func (i *Image) Gray() *image.Gray { return i.gray }

// Encode writes the image as PNG.
func (i *Image) Encode(w io.Writer) error {
	return png.Encode(w, i.gray)
}

// Bytes returns the PNG encoding of the image.
func (i *Image) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := i.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a PNG into a grayscale Image.
func Decode(r io.Reader) (*Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding png: %w", err)
	}
	return FromImage(src), nil
}

// ASCII renders the image as text, one line per row: '#' for dark, '+' for mid and '.' for light pixels.
func (i *Image) ASCII() string {
	var sb strings.Builder
	sb.Grow((i.Width() + 1) * i.Height())
	for y := 0; y < i.Height(); y++ {
		for x := 0; x < i.Width(); x++ {
			switch v := i.GrayAt(x, y); {
			case v < 64:
				sb.WriteByte('#')
			case v < 192:
				sb.WriteByte('+')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
