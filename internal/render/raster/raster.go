// Package raster is a headless hostapi.Canvas backed by an in-memory image.
// It is used by the command-line runner to write PNG snapshots and by tests.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/enemyradar/extension/pkg/hostapi"
)

// Canvas draws into an NRGBA image.
type Canvas struct {
	img     *image.NRGBA
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

var _ hostapi.Canvas = (*Canvas)(nil)

// New creates a w by h canvas filled with bg.
func New(w, h int, bg color.Color) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	c := &Canvas{
		img:     image.NewNRGBA(image.Rect(0, 0, w, h)),
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}
	c.Clear(bg)
	return c, nil
}

// Image returns the backing image.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// Clear fills the whole canvas with bg.
func (c *Canvas) Clear(bg color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Size implements hostapi.Canvas.
func (c *Canvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// DrawQuad implements hostapi.Canvas. The source image is scaled into Dst,
// then rotated clockwise around Pivot.
func (c *Canvas) DrawQuad(q hostapi.Quad) {
	if q.Image == nil || q.Dst.W <= 0 || q.Dst.H <= 0 {
		return
	}
	src := tinted(q.Image, q.Tint)
	sb := src.Bounds()
	sx := q.Dst.W / float64(sb.Dx())
	sy := q.Dst.H / float64(sb.Dy())
	draw.BiLinear.Transform(c.img, Transform(q.Dst, q.Pivot, q.Rotation, sx, sy), src, sb, draw.Over, nil)
}

// Transform maps source pixel space to canvas space: scale by (sx, sy) into
// dst, then rotate clockwise by deg around pivot.
func Transform(dst hostapi.Rect, pivot hostapi.Point, deg, sx, sy float64) f64.Aff3 {
	s, co := math.Sincos(deg * math.Pi / 180)
	ox, oy := dst.X-pivot.X, dst.Y-pivot.Y
	return f64.Aff3{
		co * sx, -s * sy, pivot.X + co*ox - s*oy,
		s * sx, co * sy, pivot.Y + s*ox + co*oy,
	}
}

// FillRect implements hostapi.Canvas.
func (c *Canvas) FillRect(r hostapi.Rect, col color.NRGBA) {
	draw.Draw(c.img, bounds(r), image.NewUniform(col), image.Point{}, draw.Over)
}

// DrawText implements hostapi.Canvas. The text is centred in r. Glyphs the
// bundled Go fonts lack are drawn as the font's missing-glyph box.
func (c *Canvas) DrawText(r hostapi.Rect, s string, st hostapi.TextStyle) {
	face, err := c.face(st)
	if err != nil {
		return
	}
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(st.Color), Face: face}
	m := face.Metrics()
	width := d.MeasureString(s)
	x := fixed.Int26_6(r.X*64) + (fixed.Int26_6(r.W*64)-width)/2
	y := fixed.Int26_6(r.Y*64) + (fixed.Int26_6(r.H*64)-m.Ascent-m.Descent)/2 + m.Ascent
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(s)
}

// WritePNG encodes the canvas as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Close releases cached font faces.
func (c *Canvas) Close() error {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
	return nil
}

func (c *Canvas) face(st hostapi.TextStyle) (font.Face, error) {
	size := st.Size
	if size <= 0 {
		size = 12
	}
	key := faceKey{size: size, bold: st.Bold}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	src := c.regular
	if st.Bold {
		src = c.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

func bounds(r hostapi.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// tinted multiplies every pixel of src by tint.
func tinted(src image.Image, tint color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{
				R: mul(p.R, tint.R),
				G: mul(p.G, tint.G),
				B: mul(p.B, tint.B),
				A: mul(p.A, tint.A),
			})
		}
	}
	return out
}

func mul(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}
