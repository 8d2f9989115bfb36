package loot

import (
	"image/color"
	"math"
)

// MaxTier is the highest tier with its own colour.
const MaxTier = 7

// TierFromQuality maps a raw item quality to a display tier. Negative
// qualities count as 0; 9 and above is gold, 7 and 8 are light red.
func TierFromQuality(raw int64) int {
	switch {
	case raw < 0:
		return 0
	case raw >= 9:
		return 5
	case raw > 6:
		return 6
	}
	return int(raw)
}

// Beamed reports whether a tier earns a world beam and a radar dot.
func Beamed(tier int) bool {
	return tier > 2
}

// TierColor returns the dot colour for a tier. Tiers 0 and 1 are ungraded grey.
func TierColor(tier int) color.NRGBA {
	switch {
	case tier <= 1:
		return rgba(0.5, 0.5, 0.5, 0.9)
	case tier == 2:
		return rgba(0.3, 1, 0.3, 0.95)
	case tier == 3:
		return rgba(0.3, 0.6, 1, 0.95)
	case tier == 4:
		return rgba(0.75, 0.3, 1, 0.95)
	case tier == 5:
		return rgba(1, 0.9, 0.3, 0.95)
	case tier == 6:
		return rgba(1, 0.5, 0.5, 0.95)
	default:
		return rgba(1, 0.1, 0.1, 0.95)
	}
}

// TierName is a short label for logs.
func TierName(tier int) string {
	switch {
	case tier <= 1:
		return "ungraded"
	case tier == 2:
		return "green(2)"
	case tier == 3:
		return "blue(3)"
	case tier == 4:
		return "purple(4)"
	case tier == 5:
		return "gold(5)"
	case tier == 6:
		return "light-red(6)"
	default:
		return "red(7+)"
	}
}

// WithAlpha replaces the alpha channel of c.
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = unit(a)
	return c
}

func rgba(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{R: unit(r), G: unit(g), B: unit(b), A: unit(a)}
}

func unit(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
