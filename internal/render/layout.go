package render

import (
	"image/color"
	"math"
	"time"

	"github.com/enemyradar/extension/internal/geo"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Layout places the overlay on screen.
type Layout struct {
	// RadarSize is the radar's side in pixels.
	RadarSize float64
	Margin    float64
	// Lift raises the radar above the bottom margin.
	Lift float64

	DotSize float64
	// LootRangeFactor scales the far ring edge into the loot dot cut-off.
	LootRangeFactor float64
	// MinLootDistance hides drops the player is standing on.
	MinLootDistance float64

	PulseSpeed         float64
	LowHealthThreshold float64

	BannerWidth  float64
	BannerHeight float64
	BannerLift   float64
	BannerFill   color.NRGBA
	BannerText   hostapi.TextStyle
}

// DefaultLayout is the stock bottom-right placement.
var DefaultLayout = Layout{
	RadarSize:          200,
	Margin:             20,
	Lift:               80,
	DotSize:            7,
	LootRangeFactor:    1.2,
	MinLootDistance:    0.1,
	PulseSpeed:         4,
	LowHealthThreshold: 0.3,
	BannerWidth:        520,
	BannerHeight:       60,
	BannerLift:         180,
	BannerFill:         color.NRGBA{A: 179},
	BannerText: hostapi.TextStyle{
		Size:  18,
		Bold:  true,
		Color: color.NRGBA{R: 255, G: 230, B: 51, A: 255},
	},
}

// RadarRect is the radar's screen rectangle for a screen of w by h pixels.
func (l Layout) RadarRect(w, h float64) hostapi.Rect {
	return hostapi.Rect{
		X: w - l.RadarSize - l.Margin,
		Y: h - l.RadarSize - l.Margin - l.Lift,
		W: l.RadarSize,
		H: l.RadarSize,
	}
}

// BannerRect is the low-health banner's rectangle, centred horizontally.
func (l Layout) BannerRect(w, h float64) hostapi.Rect {
	return hostapi.Rect{
		X: (w - l.BannerWidth) * 0.5,
		Y: h - l.BannerHeight - l.BannerLift,
		W: l.BannerWidth,
		H: l.BannerHeight,
	}
}

// PulseAlpha is the glyph opacity at time now: a sine between 0.5 and 1.
func PulseAlpha(now time.Duration, speed float64) float64 {
	p := 0.5 + 0.5*math.Sin(now.Seconds()*speed)
	return geo.Lerp(0.5, 1, p)
}

// DotRadius is the fraction of the radar's half-width a drop at distance d
// sits at.
func DotRadius(d, maxRange float64) float64 {
	if maxRange <= 0 {
		maxRange = 1
	}
	return 0.25 + 0.65*geo.Clamp01(d/maxRange)
}
