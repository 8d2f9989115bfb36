package forge

import "image"

// Params are the glyph parameters for an Atlas.
type Params struct {
	Size    int
	DotSize int

	BackgroundInner RGBA
	BackgroundOuter RGBA
	BackgroundEdge  RGBA
	Border          float64

	Alert RGBA

	NearBand Band

	MidBand      Band
	MidHalfAngle float64

	FarBand      Band
	FarHalfAngle float64
	FarSegments  int
	FarFill      float64
}

// DefaultParams are the stock glyphs.
var DefaultParams = Params{
	Size:    256,
	DotSize: 32,

	BackgroundInner: RGBA{0.9, 0.9, 0.9, 0.03},
	BackgroundOuter: RGBA{0, 0, 0, 0.55},
	BackgroundEdge:  RGBA{1, 0.6, 0.1, 1},
	Border:          2,

	Alert: RGBA{1, 0.1, 0.1, 0.95},

	NearBand: Band{Inner: 0.20, Outer: 0.38},

	MidBand:      Band{Inner: 0.50, Outer: 0.56},
	MidHalfAngle: 40,

	FarBand:      Band{Inner: 0.80, Outer: 0.88},
	FarHalfAngle: 45,
	FarSegments:  9,
	FarFill:      0.65,
}

// Textures is the full glyph set.
type Textures struct {
	Background *image.NRGBA
	Near       *image.NRGBA
	Mid        *image.NRGBA
	Far        *image.NRGBA
	Dot        *image.NRGBA
}

// Atlas builds the glyph set on first use and hands out the same images
// afterwards. Callers must not modify the returned images.
type Atlas struct {
	params Params
	tex    *Textures
	builds int
}

// NewAtlas creates an unbuilt Atlas.
func NewAtlas(p Params) *Atlas {
	return &Atlas{params: p}
}

// Params returns the glyph parameters.
func (a *Atlas) Params() Params {
	return a.params
}

// Textures returns the glyph set, building it on the first call.
func (a *Atlas) Textures() *Textures {
	if a.tex == nil {
		a.tex = Build(a.params)
		a.builds++
	}
	return a.tex
}

// Builds reports how many times the glyph set was rasterised.
func (a *Atlas) Builds() int {
	return a.builds
}

// Build rasterises every glyph.
func Build(p Params) *Textures {
	return &Textures{
		Background: Background(p.Size, p.BackgroundInner, p.BackgroundOuter, p.BackgroundEdge, p.Border),
		Near:       Ring(p.Size, p.NearBand, p.Alert),
		Mid:        Slice(p.Size, p.MidBand, p.MidHalfAngle, p.Alert),
		Far:        DashedArc(p.Size, p.FarBand, p.FarHalfAngle, p.FarSegments, p.FarFill, p.Alert),
		Dot:        Dot(p.DotSize),
	}
}
