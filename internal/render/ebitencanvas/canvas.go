// Package ebitencanvas adapts an ebiten screen to hostapi.Canvas.
package ebitencanvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/enemyradar/extension/pkg/hostapi"
)

// Canvas draws onto a target ebiten image. Source images are uploaded once
// and kept for the lifetime of the Canvas.
type Canvas struct {
	dst     *ebiten.Image
	images  map[image.Image]*ebiten.Image
	pixel   *ebiten.Image
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
}

var _ hostapi.Canvas = (*Canvas)(nil)

// New loads the bundled fonts. Call SetTarget before drawing.
func New() (*Canvas, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Canvas{
		images:  make(map[image.Image]*ebiten.Image),
		pixel:   pixel,
		regular: regular,
		bold:    bold,
	}, nil
}

// SetTarget sets the image the next frame is drawn on.
func (c *Canvas) SetTarget(dst *ebiten.Image) {
	c.dst = dst
}

// Size implements hostapi.Canvas.
func (c *Canvas) Size() (float64, float64) {
	if c.dst == nil {
		return 0, 0
	}
	b := c.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// DrawQuad implements hostapi.Canvas.
func (c *Canvas) DrawQuad(q hostapi.Quad) {
	if c.dst == nil || q.Image == nil {
		return
	}
	img := c.upload(q.Image)
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM = QuadGeoM(q, float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleWithColor(q.Tint)
	c.dst.DrawImage(img, op)
}

// QuadGeoM scales a srcW by srcH image into q.Dst and rotates it clockwise
// around q.Pivot.
func QuadGeoM(q hostapi.Quad, srcW, srcH float64) ebiten.GeoM {
	var m ebiten.GeoM
	if srcW <= 0 || srcH <= 0 {
		return m
	}
	m.Scale(q.Dst.W/srcW, q.Dst.H/srcH)
	m.Translate(q.Dst.X-q.Pivot.X, q.Dst.Y-q.Pivot.Y)
	m.Rotate(q.Rotation * math.Pi / 180)
	m.Translate(q.Pivot.X, q.Pivot.Y)
	return m
}

// FillRect implements hostapi.Canvas.
func (c *Canvas) FillRect(r hostapi.Rect, col color.NRGBA) {
	if c.dst == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.W, r.H)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.ScaleWithColor(col)
	c.dst.DrawImage(c.pixel, op)
}

// DrawText implements hostapi.Canvas. The text is centred in r.
func (c *Canvas) DrawText(r hostapi.Rect, s string, st hostapi.TextStyle) {
	if c.dst == nil {
		return
	}
	src := c.regular
	if st.Bold {
		src = c.bold
	}
	face := &text.GoTextFace{Source: src, Size: st.Size}
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	center := r.Center()
	op.GeoM.Translate(center.X, center.Y)
	op.ColorScale.ScaleWithColor(st.Color)
	text.Draw(c.dst, s, face, op)
}

// Dispose releases uploaded images.
func (c *Canvas) Dispose() {
	for k, img := range c.images {
		img.Deallocate()
		delete(c.images, k)
	}
}

func (c *Canvas) upload(src image.Image) *ebiten.Image {
	if img, ok := c.images[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	c.images[src] = img
	return img
}
