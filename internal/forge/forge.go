// Package forge rasterises the radar's glyphs from polar parameters.
//
// Every glyph is a square texture centred on ((size-1)/2, (size-1)/2) with an
// outer radius of 0.48*size. Band radii are fractions of that outer radius.
// Angles are measured counter-clockwise from the +X axis with Y pointing up the
// screen, so 90 degrees is "up" and glyphs are built pointing up.
package forge

import (
	"image"
	"image/color"
	"math"

	"github.com/enemyradar/extension/internal/geo"
)

// OuterRatio is the radar disc radius as a fraction of the texture size.
const OuterRatio = 0.48

// up is the centre angle of slices and arcs.
const up = 90.0

// RGBA is a straight-alpha colour with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Lerp interpolates component-wise, t clamped to [0, 1].
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	return RGBA{
		R: geo.Lerp(c.R, o.R, t),
		G: geo.Lerp(c.G, o.G, t),
		B: geo.Lerp(c.B, o.B, t),
		A: geo.Lerp(c.A, o.A, t),
	}
}

// NRGBA converts to 8-bit straight alpha.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(math.Round(geo.Clamp01(v) * 255))
}

var (
	// White is opaque white.
	White       = RGBA{1, 1, 1, 1}
	transparent = color.NRGBA{}
)

// Band is a radial band as fractions of the outer radius. Edges are inclusive.
type Band struct {
	Inner, Outer float64
}

type pixelFunc func(dx, dy, distSq float64) color.NRGBA

// paint evaluates fn for every pixel of a size*size texture. dx grows right,
// dy grows up.
func paint(size int, fn pixelFunc) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) * 0.5
	for y := 0; y < size; y++ {
		dy := c - float64(y)
		for x := 0; x < size; x++ {
			dx := float64(x) - c
			img.SetNRGBA(x, y, fn(dx, dy, dx*dx+dy*dy))
		}
	}
	return img
}

func outerRadius(size int) float64 {
	return float64(size) * OuterRatio
}

func bandSq(size int, b Band) (innerSq, outerSq float64) {
	r := outerRadius(size)
	in, out := r*b.Inner, r*b.Outer
	return in * in, out * out
}

// angleDelta is the signed rotation from the pixel's angle to up.
func angleDelta(dx, dy float64) float64 {
	a := math.Atan2(dy, dx) * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	return geo.DeltaAngle(a, up)
}

// Background renders the radar disc: a t-squared gradient from inner to outer
// with an edge-coloured border of the given width in pixels. Pixels outside
// the disc are transparent.
func Background(size int, inner, outer, edge RGBA, border float64) *image.NRGBA {
	r := outerRadius(size)
	rSq := r * r
	edgeC := edge.NRGBA()
	return paint(size, func(_, _, distSq float64) color.NRGBA {
		if distSq > rSq {
			return transparent
		}
		dist := math.Sqrt(distSq)
		if math.Abs(dist-r) <= border {
			return edgeC
		}
		t := dist / r
		return inner.Lerp(outer, t*t).NRGBA()
	})
}

// Ring renders a solid annulus.
func Ring(size int, band Band, c RGBA) *image.NRGBA {
	innerSq, outerSq := bandSq(size, band)
	fill := c.NRGBA()
	return paint(size, func(_, _, distSq float64) color.NRGBA {
		if distSq >= innerSq && distSq <= outerSq {
			return fill
		}
		return transparent
	})
}

// Slice renders a solid annular sector centred on up.
func Slice(size int, band Band, halfAngle float64, c RGBA) *image.NRGBA {
	innerSq, outerSq := bandSq(size, band)
	fill := c.NRGBA()
	return paint(size, func(dx, dy, distSq float64) color.NRGBA {
		if distSq < innerSq || distSq > outerSq {
			return transparent
		}
		if math.Abs(angleDelta(dx, dy)) <= halfAngle {
			return fill
		}
		return transparent
	})
}

// DashedArc renders an annular sector centred on up, split into segments
// equal slots of which the leading fill fraction is painted.
func DashedArc(size int, band Band, halfAngle float64, segments int, fill float64, c RGBA) *image.NRGBA {
	if segments <= 0 {
		segments = 1
	}
	fill = math.Min(math.Max(fill, 0.01), 1)
	innerSq, outerSq := bandSq(size, band)
	col := c.NRGBA()
	total := halfAngle * 2
	return paint(size, func(dx, dy, distSq float64) color.NRGBA {
		if distSq < innerSq || distSq > outerSq {
			return transparent
		}
		delta := angleDelta(dx, dy)
		if math.Abs(delta) > halfAngle || total <= 0 {
			return transparent
		}
		scaled := (delta + halfAngle) / total * float64(segments)
		seg := min(int(math.Floor(scaled)), segments-1)
		if scaled-float64(seg) <= fill {
			return col
		}
		return transparent
	})
}

// Dot renders a filled white disc of radius 0.45*size, meant to be tinted at
// draw time.
func Dot(size int) *image.NRGBA {
	r := float64(size) * 0.45
	rSq := r * r
	white := White.NRGBA()
	return paint(size, func(_, _, distSq float64) color.NRGBA {
		if distSq <= rSq {
			return white
		}
		return transparent
	})
}
