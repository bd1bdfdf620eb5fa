package raster

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
)

// assertSameRaster fails with a character diff of the ASCII dumps when the rasters differ.
func assertSameRaster(t *testing.T, want, got *Image) {
	t.Helper()
	if bytes.Equal(want.Pix(), got.Pix()) {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want.ASCII(), got.ASCII(), false)
	t.Errorf("rasters differ:\n%s", dmp.DiffPrettyText(diffs))
}

func TestCanvasSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*CanvasSpec)
		wantErr string
	}{
		{
			name:   "defaults",
			modify: func(*CanvasSpec) {},
		},
		{
			name:   "short hex colors",
			modify: func(c *CanvasSpec) { c.StrokeColor = "#000"; c.BackgroundColor = "fff" },
		},
		{
			name:    "zero width",
			modify:  func(c *CanvasSpec) { c.Width = 0 },
			wantErr: "dimensions must be positive",
		},
		{
			name:    "negative height",
			modify:  func(c *CanvasSpec) { c.Height = -1 },
			wantErr: "dimensions must be positive",
		},
		{
			name:    "padding too large",
			modify:  func(c *CanvasSpec) { c.Padding = 70 },
			wantErr: "padding",
		},
		{
			name:    "negative padding",
			modify:  func(c *CanvasSpec) { c.Padding = -1 },
			wantErr: "padding",
		},
		{
			name:    "zero stroke width",
			modify:  func(c *CanvasSpec) { c.StrokeWidth = 0 },
			wantErr: "stroke width",
		},
		{
			name:    "bad stroke color",
			modify:  func(c *CanvasSpec) { c.StrokeColor = "black" },
			wantErr: "stroke color",
		},
		{
			name:    "bad background color",
			modify:  func(c *CanvasSpec) { c.BackgroundColor = "#GGGGGG" },
			wantErr: "background color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultCanvasSpec()
			tt.modify(&spec)
			err := spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithDimensions(t *testing.T) {
	base := DefaultCanvasSpec()
	got := base.WithDimensions(28, 36)
	assert.Equal(t, 28, got.Width)
	assert.Equal(t, 36, got.Height)
	assert.Equal(t, base.Padding, got.Padding)
	assert.Equal(t, DefaultWidth, base.Width, "receiver must not change")
}

func TestNewRendererRejectsInvalidSpec(t *testing.T) {
	_, err := NewRenderer(CanvasSpec{})
	assert.Error(t, err)
}

func TestRenderDegenerateIsBlank(t *testing.T) {
	r, err := NewRenderer(DefaultCanvasSpec())
	require.NoError(t, err)

	for _, s := range []geometry.Stroke{
		geometry.NewStroke(),
		geometry.NewStroke(geometry.Pt(10, 10)),
	} {
		img, err := r.Render(s)
		require.NoError(t, err)
		assert.Equal(t, DefaultWidth, img.Width())
		assert.Equal(t, DefaultHeight, img.Height())
		for _, v := range img.Pix() {
			if v != 255 {
				t.Fatalf("expected blank canvas for %v, found intensity %d", s, v)
			}
		}
	}
}

func TestRenderDiagonal(t *testing.T) {
	r, err := NewRenderer(DefaultCanvasSpec())
	require.NoError(t, err)

	img, err := r.Render(geometry.NewStroke(geometry.Pt(0, 0), geometry.Pt(50, 50)))
	require.NoError(t, err)

	assert.Less(t, img.GrayAt(35, 35), uint8(64), "line passes through the canvas center")
	assert.Equal(t, uint8(255), img.GrayAt(0, 0))
	assert.Equal(t, uint8(255), img.GrayAt(69, 69))
	assert.Equal(t, uint8(255), img.GrayAt(69, 0), "off-diagonal corner stays background")
	assert.Equal(t, uint8(255), img.GrayAt(0, 69), "off-diagonal corner stays background")
}

func TestRenderCustomColors(t *testing.T) {
	spec := DefaultCanvasSpec()
	spec.BackgroundColor = "#000000"
	spec.StrokeColor = "#FFFFFF"
	r, err := NewRenderer(spec)
	require.NoError(t, err)

	img, err := r.Render(geometry.NewStroke(geometry.Pt(0, 0), geometry.Pt(50, 50)))
	require.NoError(t, err)

	assert.Equal(t, uint8(0), img.GrayAt(69, 0))
	assert.Greater(t, img.GrayAt(35, 35), uint8(192))
}

func TestRenderDeterministic(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "geometry", "testdata", "arc_console.txt"))
	require.NoError(t, err)
	defer f.Close()
	arc, err := geometry.ParseConsoleLog(f)
	require.NoError(t, err)

	r, err := NewRenderer(DefaultCanvasSpec())
	require.NoError(t, err)

	first, err := r.Render(arc)
	require.NoError(t, err)
	second, err := r.Render(arc)
	require.NoError(t, err)
	assertSameRaster(t, first, second)

	a, err := first.Bytes()
	require.NoError(t, err)
	b, err := second.Bytes()
	require.NoError(t, err)
	assert.Equal(t, a, b, "png encoding must be byte-identical")

	assert.Contains(t, first.ASCII(), "#")
}

func TestRenderTranslationInvariant(t *testing.T) {
	r, err := NewRenderer(DefaultCanvasSpec())
	require.NoError(t, err)

	tri := geometry.NewStroke(geometry.Pt(0, 40), geometry.Pt(20, 0), geometry.Pt(40, 40), geometry.Pt(0, 40))
	shifted := tri.Map(func(p geometry.Point) geometry.Point {
		return geometry.Pt(p.X+300, p.Y+125)
	})

	want, err := r.Render(tri)
	require.NoError(t, err)
	got, err := r.Render(shifted)
	require.NoError(t, err)
	assertSameRaster(t, want, got)
}

func TestExportImportRoundTrip(t *testing.T) {
	r, err := NewRenderer(DefaultCanvasSpec())
	require.NoError(t, err)
	img, err := r.Render(geometry.NewStroke(geometry.Pt(1, 1), geometry.Pt(30, 5), geometry.Pt(12, 40)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "dir", "gen_img.png")
	abs, err := Export(img, path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	back, err := Import(abs)
	require.NoError(t, err)
	assertSameRaster(t, img, back)
}

func TestExportFailsOnFileAsDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	img := FromImage(image.NewGray(image.Rect(0, 0, 2, 2)))
	_, err := Export(img, filepath.Join(blocker, "out.png"))
	assert.Error(t, err)
}

func TestImportMissing(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not a png"))
	assert.ErrorContains(t, err, "decoding png")
}

func TestFromImageConvertsRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.RGBA{255, 255, 255, 255})
	src.Set(6, 5, color.RGBA{0, 0, 0, 255})

	img := FromImage(src)
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 1, img.Height())
	assert.Equal(t, []uint8{255, 0}, img.Pix())
}

func TestFromImageCopiesGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 1, 1))
	img := FromImage(src)
	src.Pix[0] = 200
	assert.Equal(t, uint8(0), img.GrayAt(0, 0))
}

func TestASCII(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(g.Pix, []uint8{0, 100, 255, 63, 191, 192})

	assert.Equal(t, "#+.\n#+.\n", FromImage(g).ASCII())
}
