package geometry

import (
	"fmt"
	"iter"
	"math"
	"strings"
)

// MinDrawablePoints is the smallest stroke length that has drawable geometry.
const MinDrawablePoints = 2

// Stroke is an ordered, immutable sequence of points in draw order.
// The zero value is an empty stroke.
type Stroke struct {
	points []Point
}

// NewStroke builds a Stroke from the given points. The input is copied.
func NewStroke(points ...Point) Stroke {
	if len(points) == 0 {
		return Stroke{}
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	return Stroke{points: cp}
}

// Len returns the number of points.
func (s Stroke) Len() int { return len(s.points) }

// At returns the i-th point and panics when i is out of range, like slice indexing.
func (s Stroke) At(i int) Point { return s.points[i] }

// Points returns a copy of the points.
func (s Stroke) Points() []Point {
	cp := make([]Point, len(s.points))
	copy(cp, s.points)
	return cp
}

// All iterates points in draw order.
func (s Stroke) All() iter.Seq2[int, Point] {
	return func(yield func(int, Point) bool) {
		for i, p := range s.points {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Degenerate reports whether the stroke has no drawable geometry.
func (s Stroke) Degenerate() bool { return len(s.points) < MinDrawablePoints }

// Bounds returns the bounding box of the stroke, or false if it is empty.
func (s Stroke) Bounds() (BoundingBox, bool) {
	if len(s.points) == 0 {
		return BoundingBox{}, false
	}
	b := BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range s.points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Map returns a new Stroke with f applied to every point.
func (s Stroke) Map(f func(Point) Point) Stroke {
	out := make([]Point, len(s.points))
	for i, p := range s.points {
		out[i] = f(p)
	}
	return Stroke{points: out}
}

// String implements fmt.Stringer.
func (s Stroke) String() string {
	parts := make([]string, len(s.points))
	for i, p := range s.points {
		parts[i] = p.String()
	}
	return fmt.Sprintf("Stroke[%s]", strings.Join(parts, " "))
}
