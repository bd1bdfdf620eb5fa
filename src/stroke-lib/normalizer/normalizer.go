// Package normalizer maps a stroke of arbitrary scale and offset into a padded target canvas.
package normalizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
)

// ErrDegenerateStroke is returned for strokes without a drawable bounding box.
var ErrDegenerateStroke = errors.New("stroke needs at least 2 points to be normalized")

// Affine is a uniform scale followed by a translation.
type Affine struct {
	MinX, MinY float64
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// Apply maps p from the source coordinate space into the canvas.
func (a Affine) Apply(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X-a.MinX)*a.Scale + a.TranslateX,
		Y: (p.Y-a.MinY)*a.Scale + a.TranslateY,
	}
}

// Transform computes the aspect-preserving transform that centers the stroke's bounding box in a
// canvasWidth x canvasHeight canvas, fitting it within the canvas less padding.
//
// The +1 on each extent keeps a zero-width or zero-height box finite.
func Transform(stroke geometry.Stroke, canvasWidth, canvasHeight int, padding float64) (Affine, error) {
	if stroke.Degenerate() {
		return Affine{}, ErrDegenerateStroke
	}
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return Affine{}, fmt.Errorf("invalid canvas %dx%d", canvasWidth, canvasHeight)
	}

	b, _ := stroke.Bounds()
	w, h := float64(canvasWidth), float64(canvasHeight)

	scaleX := (w - padding) / (b.Width() + 1)
	scaleY := (h - padding) / (b.Height() + 1)
	scale := math.Min(scaleX, scaleY)

	return Affine{
		MinX:       b.MinX,
		MinY:       b.MinY,
		Scale:      scale,
		TranslateX: (w - b.Width()*scale) / 2,
		TranslateY: (h - b.Height()*scale) / 2,
	}, nil
}

// Normalize returns the stroke mapped into the canvas by Transform.
func Normalize(stroke geometry.Stroke, canvasWidth, canvasHeight int, padding float64) (geometry.Stroke, error) {
	a, err := Transform(stroke, canvasWidth, canvasHeight, padding)
	if err != nil {
		return geometry.Stroke{}, err
	}
	return stroke.Map(a.Apply), nil
}
