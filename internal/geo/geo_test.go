package geo

import (
	"math"
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enemyradar/extension/pkg/core"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{7, 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp01(tt.in), "Clamp01(%v)", tt.in)
	}
	assert.Equal(t, 3, Clamp(9, 0, 3))
	assert.Equal(t, "b", Clamp("a", "b", "c"))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.5, Lerp(0.5, 1, 0))
	assert.Equal(t, 1.0, Lerp(0.5, 1, 1))
	assert.Equal(t, 0.75, Lerp(0.5, 1, 0.5))
	assert.Equal(t, 1.0, Lerp(0.5, 1, 2))
}

func TestDeltaAngle(t *testing.T) {
	tests := []struct {
		name            string
		current, target float64
		want            float64
	}{
		{"same", 30, 30, 0},
		{"right", 0, 90, 90},
		{"left", 0, -90, -90},
		{"wraps forward", 170, -170, 20},
		{"wraps backward", -170, 170, -20},
		{"half turn is positive", 0, 180, 180},
		{"half turn from the other side", 180, 0, 180},
		{"multiple turns", 0, 725, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DeltaAngle(tt.current, tt.target), 1e-9)
		})
	}
}

func TestDeltaAngle_RangeAndAntisymmetry(t *testing.T) {
	for a := -720.0; a <= 720; a += 37 {
		for b := -720.0; b <= 720; b += 41 {
			d := DeltaAngle(a, b)
			assert.Greater(t, d, -180.0)
			assert.LessOrEqual(t, d, 180.0)
			if math.Abs(d) < 179.999 {
				assert.InDelta(t, -d, DeltaAngle(b, a), 1e-9)
			}
		}
	}
}

func TestAzimuth(t *testing.T) {
	assert.InDelta(t, 0, Azimuth(geom.XY{X: 0, Y: 1}), 1e-9)
	assert.InDelta(t, 90, Azimuth(geom.XY{X: 1, Y: 0}), 1e-9)
	assert.InDelta(t, -90, Azimuth(geom.XY{X: -1, Y: 0}), 1e-9)
	assert.InDelta(t, 180, Azimuth(geom.XY{X: 0, Y: -1}), 1e-9)
}

func TestHeading(t *testing.T) {
	h := Heading(core.Position3D{X: 3, Y: 100, Z: 4})
	assert.InDelta(t, 0.6, h.X, 1e-9)
	assert.InDelta(t, 0.8, h.Y, 1e-9)

	assert.Equal(t, canonical, Heading(core.Position3D{Y: 1}))
	assert.Equal(t, canonical, Heading(core.Position3D{}))
	assert.Equal(t, canonical, Heading(core.Position3D{X: math.NaN()}))
}

func TestBearing(t *testing.T) {
	origin := core.Position3D{}
	tests := []struct {
		name    string
		target  core.Position3D
		forward core.Position3D
		want    float64
	}{
		{"ahead", core.Position3D{Z: 5}, core.Forward, 0},
		{"right", core.Position3D{X: 5}, core.Forward, 90},
		{"left", core.Position3D{X: -5}, core.Forward, -90},
		{"behind", core.Position3D{Z: -5}, core.Forward, 180},
		{"facing right, target ahead of world", core.Position3D{Z: 5}, core.Position3D{X: 1}, -90},
		{"height ignored", core.Position3D{Y: 40, Z: 5}, core.Position3D{Y: -1, Z: 1}, 0},
		{"vertical forward falls back to +Z", core.Position3D{X: 5}, core.Position3D{Y: 1}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Bearing(origin, tt.target, tt.forward)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, ok := Bearing(origin, core.Position3D{Y: 10}, core.Forward)
	assert.False(t, ok, "directly overhead has no bearing")
}

func TestBearing_ForwardIsZero(t *testing.T) {
	for _, f := range []core.Position3D{{Z: 1}, {X: 1}, {X: -2, Z: -3}, {X: 0.3, Y: 5, Z: 0.1}} {
		got, ok := Bearing(core.Position3D{}, f.Flatten(), f)
		require.True(t, ok)
		assert.InDelta(t, 0, got, 1e-9)
	}
}

func TestPolar(t *testing.T) {
	dx, dy := Polar(0, 10)
	assert.InDelta(t, 0, dx, 1e-9)
	assert.InDelta(t, -10, dy, 1e-9, "ahead is up the screen")

	dx, dy = Polar(90, 10)
	assert.InDelta(t, 10, dx, 1e-9)
	assert.InDelta(t, 0, dy, 1e-9)

	dx, dy = Polar(180, 10)
	assert.InDelta(t, 0, dx, 1e-9)
	assert.InDelta(t, 10, dy, 1e-9)
}

func TestPlanarDistance(t *testing.T) {
	assert.InDelta(t, 5, PlanarDistance(core.Position3D{Y: 9}, core.Position3D{X: 3, Z: 4}), 1e-9)
}

func TestRings(t *testing.T) {
	r := DefaultRings
	tests := []struct {
		d    float64
		want Band
	}{
		{0, BandNear},
		{7, BandNear},
		{7.01, BandMid},
		{20, BandMid},
		{35, BandFar},
		{35.5, BandBeyond},
		{math.NaN(), BandBeyond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Band(tt.d), "Band(%v)", tt.d)
	}
	assert.Equal(t, "mid", BandMid.String())
	assert.Equal(t, "beyond", BandBeyond.String())
}

func TestRings_Normalized(t *testing.T) {
	r := DefaultRings
	assert.Equal(t, 0.0, r.Normalized(0))
	assert.InDelta(t, 0.5, r.Normalized(17.5), 1e-9)
	assert.Equal(t, 1.0, r.Normalized(35))
	assert.Equal(t, 1.0, r.Normalized(500))
	for d := 0.0; d < 100; d += 0.7 {
		n := r.Normalized(d)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.LessOrEqual(t, n, 1.0)
	}

	assert.Equal(t, 1.0, Rings{}.MaxRange())
	assert.Equal(t, 1.0, Rings{}.Normalized(3))
}
