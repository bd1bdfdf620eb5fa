// Package raster draws normalized strokes onto fixed-size grayscale canvases.
package raster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/normalizer"
)

// Renderer rasterizes strokes for a fixed CanvasSpec. It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	spec CanvasSpec
}

// NewRenderer returns a Renderer for the given spec.
func NewRenderer(spec CanvasSpec) (*Renderer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{spec: spec}, nil
}

// Spec returns the canvas spec used by the renderer.
func (r *Renderer) Spec() CanvasSpec { return r.spec }

// Render draws the stroke as a polyline on a background-filled canvas.
// Strokes with fewer than two points produce a blank canvas.
func (r *Renderer) Render(stroke geometry.Stroke) (*Image, error) {
	dc := gg.NewContext(r.spec.Width, r.spec.Height)
	defer dc.Close()

	// The analytic scanline filler is pinned so output never depends on auto-selection heuristics.
	dc.SetRasterizerMode(gg.RasterizerAnalytic)
	dc.ClearWithColor(gg.Hex(r.spec.BackgroundColor))

	if !stroke.Degenerate() {
		normalized, err := normalizer.Normalize(stroke, r.spec.Width, r.spec.Height, r.spec.Padding)
		if err != nil {
			return nil, fmt.Errorf("normalizing stroke: %w", err)
		}

		dc.SetColor(gg.Hex(r.spec.StrokeColor).Color())
		dc.SetLineWidth(r.spec.StrokeWidth)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)

		first := normalized.At(0)
		dc.MoveTo(first.X, first.Y)
		for i, p := range normalized.All() {
			if i == 0 {
				continue
			}
			dc.LineTo(p.X, p.Y)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroking path: %w", err)
		}
	}

	return FromImage(dc.Image()), nil
}

// Export writes img as a PNG at path, creating parent directories as needed.
// On success the file is flushed to disk and its absolute path is returned.
func Export(img *Image, path string) (_ string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), os.ModePerm); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("creating %q: %w", abs, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %q: %w", abs, cerr)
		}
	}()

	if err := img.Encode(f); err != nil {
		return "", fmt.Errorf("encoding %q: %w", abs, err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("flushing %q: %w", abs, err)
	}
	return abs, nil
}

// Import reads a PNG written by Export.
func Import(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}
