// Package render composites the radar glyphs, loot dots and the low-health
// banner onto a host canvas.
package render

import (
	"image/color"
	"time"

	"github.com/enemyradar/extension/internal/forge"
	"github.com/enemyradar/extension/internal/geo"
	"github.com/enemyradar/extension/internal/loot"
	"github.com/enemyradar/extension/internal/proximity"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Frame is everything drawn in one frame.
type Frame struct {
	Now       time.Duration
	Radar     proximity.State
	Loot      []loot.Spot
	LowHealth bool
}

// Stats counts what a Draw call put on screen.
type Stats struct {
	Near   bool
	Mid    int
	Far    int
	Dots   int
	Banner bool
	Alpha  float64
}

// Renderer draws the overlay. Glyphs come from the atlas, built on the first
// Draw.
type Renderer struct {
	atlas    *forge.Atlas
	layout   Layout
	rings    geo.Rings
	locale   hostapi.Locale
	override Language
}

// NewRenderer creates a Renderer. locale may be nil.
func NewRenderer(atlas *forge.Atlas, layout Layout, rings geo.Rings, locale hostapi.Locale) *Renderer {
	return &Renderer{
		atlas:  atlas,
		layout: layout,
		rings:  rings,
		locale: locale,
	}
}

// Layout returns the screen layout.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// CycleLanguage advances the banner language override and returns it.
func (r *Renderer) CycleLanguage() Language {
	r.override = r.override.Next()
	return r.override
}

// Language returns the current override.
func (r *Renderer) Language() Language {
	return r.override
}

// BannerText is the warning text for the current override or, in auto
// mode, the host's system language.
func (r *Renderer) BannerText() string {
	if r.override != LanguageAuto {
		return BannerText(r.override)
	}
	if r.locale == nil {
		return BannerText(LanguageKorean)
	}
	return BannerText(DetectLanguage(r.locale.SystemLanguage()))
}

// Draw renders one frame.
func (r *Renderer) Draw(c hostapi.Canvas, f Frame) Stats {
	var st Stats
	if c == nil {
		return st
	}
	tex := r.atlas.Textures()
	w, h := c.Size()
	rect := r.layout.RadarRect(w, h)
	pivot := rect.Center()
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	c.DrawQuad(hostapi.Quad{Image: tex.Background, Dst: rect, Pivot: pivot, Tint: white})

	radar := f.Radar
	if radar.HasPlayer && len(radar.Contacts) > 0 {
		st.Alpha = PulseAlpha(f.Now, r.layout.PulseSpeed)
		tint := white
		tint.A = uint8(st.Alpha*255 + 0.5)

		var mid, far []float64
		for _, ct := range radar.Contacts {
			switch ct.Band {
			case geo.BandNear:
				st.Near = true
			case geo.BandMid:
				if ct.HasBearing {
					mid = append(mid, ct.Bearing)
				}
			case geo.BandFar:
				if ct.HasBearing {
					far = append(far, ct.Bearing)
				}
			}
		}

		if st.Near {
			c.DrawQuad(hostapi.Quad{Image: tex.Near, Dst: rect, Pivot: pivot, Tint: tint})
		}
		for _, b := range mid {
			c.DrawQuad(hostapi.Quad{Image: tex.Mid, Dst: rect, Rotation: b, Pivot: pivot, Tint: tint})
		}
		for _, b := range far {
			c.DrawQuad(hostapi.Quad{Image: tex.Far, Dst: rect, Rotation: b, Pivot: pivot, Tint: tint})
		}
		st.Mid, st.Far = len(mid), len(far)
	}

	if radar.HasPlayer {
		st.Dots = r.drawLoot(c, tex, rect, radar, f.Loot)
	}

	if f.LowHealth {
		box := r.layout.BannerRect(w, h)
		c.FillRect(box, r.layout.BannerFill)
		c.DrawText(box, r.BannerText(), r.layout.BannerText)
		st.Banner = true
	}
	return st
}

func (r *Renderer) drawLoot(c hostapi.Canvas, tex *forge.Textures, rect hostapi.Rect, radar proximity.State, spots []loot.Spot) int {
	maxRange := r.rings.MaxRange()
	cutoff := maxRange * r.layout.LootRangeFactor
	centre := rect.Center()
	half := rect.W * 0.5
	size := r.layout.DotSize

	drawn := 0
	for _, sp := range spots {
		if !loot.Beamed(sp.Tier) {
			continue
		}
		n, ok := sp.Node.Get()
		if !ok {
			continue
		}
		pos := n.Position()
		d := geo.PlanarDistance(radar.PlayerPos, pos)
		if d < r.layout.MinLootDistance || d > cutoff {
			continue
		}
		bearing, ok := geo.Bearing(radar.PlayerPos, pos, radar.Forward)
		if !ok {
			continue
		}
		dx, dy := geo.Polar(bearing, half*DotRadius(d, maxRange))
		px, py := centre.X+dx, centre.Y+dy
		c.DrawQuad(hostapi.Quad{
			Image: tex.Dot,
			Dst:   hostapi.Rect{X: px - size*0.5, Y: py - size*0.5, W: size, H: size},
			Pivot: hostapi.Point{X: px, Y: py},
			Tint:  loot.TierColor(sp.Tier),
		})
		drawn++
	}
	return drawn
}
