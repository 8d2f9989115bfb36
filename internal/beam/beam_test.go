package beam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enemyradar/extension/internal/loot"
	"github.com/enemyradar/extension/internal/sim"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

func spot(w *sim.World, pos core.Position3D, tier int) loot.Spot {
	n := w.Spawn("lootbox_enemydie_template", pos)
	return loot.Spot{Node: handle.Of[hostapi.Node](n), Name: n.Name(), Tier: tier}
}

func TestEffects_Rebuild(t *testing.T) {
	w := sim.NewWorld()
	e := NewEffects(w, DefaultConfig, nil)

	spots := []loot.Spot{
		spot(w, core.Position3D{X: 3, Y: 1, Z: 4}, 5),
		spot(w, core.Position3D{}, 2),
		spot(w, core.Position3D{X: -1}, 7),
	}
	assert.Equal(t, 2, e.Rebuild(spots))

	ms := w.Markers()
	require.Len(t, ms, 2)
	assert.Equal(t, Group, ms[0].Group)
	assert.Equal(t, core.Position3D{X: 3, Y: 1.2, Z: 4}, ms[0].From)
	assert.InDelta(t, 7.2, ms[0].To.Y, 1e-9)
	assert.Equal(t, 0.25, ms[0].Style.Width)
	assert.Equal(t, uint8(204), ms[0].Style.Color.A)
	assert.Equal(t, loot.TierColor(5).R, ms[0].Style.Color.R)
	assert.Equal(t, loot.TierColor(7).G, ms[1].Style.Color.G)
}

func TestEffects_RebuildReplaces(t *testing.T) {
	w := sim.NewWorld()
	e := NewEffects(w, DefaultConfig, nil)

	a := spot(w, core.Position3D{}, 4)
	b := spot(w, core.Position3D{X: 5}, 6)
	require.Equal(t, 2, e.Rebuild([]loot.Spot{a, b}))
	first := w.Markers()

	require.Equal(t, 1, e.Rebuild([]loot.Spot{b}))
	ms := w.Markers()
	require.Len(t, ms, 1)
	for _, old := range first {
		assert.NotEqual(t, old.ID, ms[0].ID)
	}
	assert.Equal(t, 1, e.Len())
}

func TestEffects_DuplicateSpotBeamedOnce(t *testing.T) {
	w := sim.NewWorld()
	e := NewEffects(w, DefaultConfig, nil)

	bag := spot(w, core.Position3D{Z: 12}, 5)
	assert.Equal(t, 1, e.Rebuild([]loot.Spot{bag, bag}))
	require.Len(t, w.Markers(), 1)

	e.Clear()
	assert.Empty(t, w.Markers(), "no beam outlives its cache entry")
}

func TestEffects_SkipsDeadAndFailed(t *testing.T) {
	w := sim.NewWorld()
	e := NewEffects(w, DefaultConfig, nil)

	gone := spot(w, core.Position3D{}, 5)
	n, _ := gone.Node.Get()
	n.(*sim.Node).Destroy()
	assert.Zero(t, e.Rebuild([]loot.Spot{gone}))

	w.DisableMarkers(true)
	assert.Zero(t, e.Rebuild([]loot.Spot{spot(w, core.Position3D{}, 5)}))
	assert.Empty(t, w.Markers())
}

func TestEffects_Shutdown(t *testing.T) {
	w := sim.NewWorld()
	e := NewEffects(w, DefaultConfig, nil)
	e.Rebuild([]loot.Spot{spot(w, core.Position3D{}, 3), spot(w, core.Position3D{X: 2}, 4)})
	require.Len(t, w.Markers(), 2)

	e.Shutdown()
	assert.Empty(t, w.Markers())
	assert.Zero(t, e.Len())

	assert.NotPanics(t, e.Shutdown)
}

func TestEffects_NilLayer(t *testing.T) {
	w := sim.NewWorld()
	e := NewEffects(nil, DefaultConfig, nil)
	assert.Zero(t, e.Rebuild([]loot.Spot{spot(w, core.Position3D{}, 6)}))
	assert.NotPanics(t, e.Shutdown)
}

func TestEffects_StyleCached(t *testing.T) {
	e := NewEffects(nil, DefaultConfig, nil)
	s := e.Style(6)
	assert.Equal(t, s, e.Style(6))
	assert.Len(t, e.styles, 1)
}
