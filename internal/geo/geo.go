// Package geo is the horizontal-plane math behind the radar: azimuths,
// bearings relative to a heading, distance bands and polar placement.
//
// World space is Y-up with +Z forward. On the horizontal plane, X maps to
// geom.XY.X and Z maps to geom.XY.Y, so an azimuth of 0 is straight ahead and
// positive azimuths turn right.
package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"golang.org/x/exp/constraints"

	"github.com/enemyradar/extension/pkg/core"
)

// Epsilon is the squared horizontal length below which a direction is unusable.
const Epsilon = 1e-4

// canonical is core.Forward on the horizontal plane.
var canonical = geom.XY{X: 0, Y: 1}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// Planar projects p onto the horizontal plane.
func Planar(p core.Position3D) geom.XY {
	return geom.XY{X: p.X, Y: p.Z}
}

// Normalize returns v scaled to unit length. ok is false when v is shorter
// than the epsilon, in which case the zero vector is returned.
func Normalize(v geom.XY) (geom.XY, bool) {
	l := v.Length()
	if l*l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return geom.XY{}, false
	}
	return geom.XY{X: v.X / l, Y: v.Y / l}, true
}

// Heading flattens a forward vector, falling back to +Z when it is vertical
// or degenerate.
func Heading(forward core.Position3D) geom.XY {
	if h, ok := Normalize(Planar(forward)); ok {
		return h
	}
	return canonical
}

// Azimuth is the clockwise angle of v from +Z in degrees, in [-180, 180].
func Azimuth(v geom.XY) float64 {
	return math.Atan2(v.X, v.Y) * 180 / math.Pi
}

// DeltaAngle is the signed shortest rotation from current to target in
// degrees, in (-180, 180].
func DeltaAngle(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}

// Bearing returns the signed angle of target relative to heading, as seen
// from origin on the horizontal plane. ok is false when target sits directly
// above or below origin.
func Bearing(origin, target, forward core.Position3D) (deg float64, ok bool) {
	dir, ok := Normalize(Planar(target.Sub(origin)))
	if !ok {
		return 0, false
	}
	return DeltaAngle(Azimuth(Heading(forward)), Azimuth(dir)), true
}

// PlanarDistance is the horizontal distance between a and b.
func PlanarDistance(a, b core.Position3D) float64 {
	return Planar(b.Sub(a)).Length()
}

// Polar converts a bearing and radius into a screen-space offset from the
// radar centre. Bearing 0 points up; screen Y grows downwards.
func Polar(bearingDeg, radius float64) (dx, dy float64) {
	rad := (90 - bearingDeg) * math.Pi / 180
	return math.Cos(rad) * radius, -math.Sin(rad) * radius
}
