package overlay

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enemyradar/extension/internal/beam"
	"github.com/enemyradar/extension/internal/config"
	"github.com/enemyradar/extension/internal/influx"
	"github.com/enemyradar/extension/internal/sim"
	"github.com/enemyradar/extension/internal/storage"
	"github.com/enemyradar/extension/internal/storage/memory"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/hostapi"
)

type unit struct {
	Team string `attr:"team"`
}

type PlayerHealth struct {
	Team string  `attr:"team"`
	HP   float64 `attr:"hp"`
}

// Item matches the default item type name.
type Item struct {
	DisplayQuality int `attr:"displayQuality"`
}

type Inventory struct {
	Slots []*Item
}

type countingCanvas struct {
	quads int
	rects int
	texts []string
}

func (c *countingCanvas) Size() (float64, float64)                               { return 1280, 720 }
func (c *countingCanvas) DrawQuad(hostapi.Quad)                                  { c.quads++ }
func (c *countingCanvas) FillRect(hostapi.Rect, color.NRGBA)                     { c.rects++ }
func (c *countingCanvas) DrawText(_ hostapi.Rect, s string, _ hostapi.TextStyle) { c.texts = append(c.texts, s) }

type recordedMetrics struct {
	scans []influx.ScanMetrics
	loots []influx.LootMetrics
}

func (m *recordedMetrics) WriteScan(s influx.ScanMetrics, _ time.Time) error {
	m.scans = append(m.scans, s)
	return nil
}

func (m *recordedMetrics) WriteLoot(l influx.LootMetrics, _ time.Time) error {
	m.loots = append(m.loots, l)
	return nil
}

// testConfig keeps the atlas small so tests stay fast.
func testConfig() Config {
	cfg := DefaultConfig
	cfg.Glyphs.Size = 32
	cfg.Glyphs.DotSize = 8
	return cfg
}

func newWorld() *sim.World {
	w := sim.NewWorld()
	w.SetCamera(core.Position3D{}, core.Forward)
	w.SetLanguage("en-US")
	return w
}

func spawnPlayer(w *sim.World) (*sim.Node, *PlayerHealth) {
	hero := w.Spawn("Hero", core.Position3D{})
	hero.Attach(&unit{Team: "PlayerSquad"})
	hp := &PlayerHealth{Team: "PlayerSquad", HP: 40}
	hero.Attach(hp)
	return hero, hp
}

func newOverlay(t *testing.T, w *sim.World, deps Dependencies) *Overlay {
	t.Helper()
	o, err := New(w, testConfig(), deps)
	require.NoError(t, err)
	return o
}

func TestNew_NilHost(t *testing.T) {
	_, err := New(nil, testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestOverlay_RegistersTasks(t *testing.T) {
	o := newOverlay(t, newWorld(), Dependencies{})
	assert.True(t, o.Scheduler().HasTask(TaskClassify))
	assert.True(t, o.Scheduler().HasTask(TaskLoot))
	assert.False(t, o.Scheduler().HasTask(TaskJournal), "no journal without a backend")

	o = newOverlay(t, newWorld(), Dependencies{Journal: storage.NewJournal(memory.New(config.MemoryConfig{}))})
	assert.True(t, o.Scheduler().HasTask(TaskJournal))
	next, _ := o.Scheduler().Next(TaskJournal)
	assert.Equal(t, testConfig().FlushInterval, next)
}

func TestOverlay_EnemyAhead(t *testing.T) {
	w := newWorld()
	spawnPlayer(w)
	raider := w.Spawn("Raider", core.Position3D{Z: 5})
	raider.Attach(&unit{Team: "HostileRaiders"})

	o := newOverlay(t, w, Dependencies{})
	o.Update(0)

	st := o.State()
	require.True(t, st.HasPlayer)
	require.True(t, st.HasTarget)
	assert.True(t, st.Nearest.Is(raider.ID()))
	assert.InDelta(t, 5, st.Distance, 1e-9)
	assert.InDelta(t, 0, st.Bearing, 1e-9)
	assert.InDelta(t, 5.0/35.0, st.Normalized, 1e-9)
	assert.Equal(t, "Hero", o.LastScan().PlayerName)

	c := &countingCanvas{}
	o.Draw(c, 0)
	stats := o.LastStats()
	assert.True(t, stats.Near)
	assert.Zero(t, stats.Mid)
	assert.Equal(t, 2, c.quads, "background and near ring")
}

func TestOverlay_EnemyMovesBetweenScans(t *testing.T) {
	w := newWorld()
	spawnPlayer(w)
	raider := w.Spawn("Raider", core.Position3D{Z: 5})
	raider.Attach(&unit{Team: "HostileRaiders"})

	o := newOverlay(t, w, Dependencies{})
	o.Update(0)

	// Proximity follows every frame even though the next scan is seconds away.
	raider.SetPosition(core.Position3D{X: 15})
	o.Update(16 * time.Millisecond)
	st := o.State()
	assert.InDelta(t, 15, st.Distance, 1e-9)
	assert.InDelta(t, 90, st.Bearing, 1e-9)

	o.Draw(&countingCanvas{}, 16*time.Millisecond)
	assert.Equal(t, 1, o.LastStats().Mid)
}

func TestOverlay_LootTiers(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		beams   int
		dots    int
		tier    int
	}{
		{"quality 9 is tier 5", 9, 1, 1, 5},
		{"quality 1 shows nothing", 1, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			spawnPlayer(w)
			bag := w.Spawn("lootbox_enemydie_template(Clone)", core.Position3D{Z: 10})
			bag.Attach(&Inventory{Slots: []*Item{{DisplayQuality: tt.quality}}})

			o := newOverlay(t, w, Dependencies{})
			o.Update(0)

			require.Len(t, o.Spots(), 1)
			assert.Equal(t, tt.tier, o.Spots()[0].Tier)
			assert.Equal(t, tt.beams, o.Beams())
			assert.Len(t, w.Markers(), tt.beams)

			o.Draw(&countingCanvas{}, 0)
			assert.Equal(t, tt.dots, o.LastStats().Dots)
		})
	}
}

func TestOverlay_BeamsRebuiltPerLootScan(t *testing.T) {
	w := newWorld()
	spawnPlayer(w)
	bag := w.Spawn("lootbox_enemydie_template", core.Position3D{Z: 10})
	bag.Attach(&Inventory{Slots: []*Item{{DisplayQuality: 9}}})

	o := newOverlay(t, w, Dependencies{})
	o.Update(0)
	first := w.Markers()
	require.Len(t, first, 1)
	assert.Equal(t, beam.Group, first[0].Group)

	o.Update(100 * time.Millisecond)
	assert.Equal(t, first, w.Markers(), "no loot scan before the interval")

	o.Update(500 * time.Millisecond)
	second := w.Markers()
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	bag.Destroy()
	o.Update(time.Second)
	assert.Empty(t, w.Markers())
	assert.Empty(t, o.Spots())

	bag2 := w.Spawn("lootbox_enemydie_template", core.Position3D{X: 4})
	bag2.Attach(&Inventory{Slots: []*Item{{DisplayQuality: 7}}})
	o.Update(1500 * time.Millisecond)
	require.Len(t, w.Markers(), 1)

	o.Shutdown()
	assert.Empty(t, w.Markers())
}

func TestOverlay_BeamsDisabled(t *testing.T) {
	w := newWorld()
	spawnPlayer(w)
	bag := w.Spawn("lootbox_enemydie_template", core.Position3D{Z: 10})
	bag.Attach(&Inventory{Slots: []*Item{{DisplayQuality: 9}}})

	cfg := testConfig()
	cfg.Beams = false
	o, err := New(w, cfg, Dependencies{})
	require.NoError(t, err)
	o.Update(0)

	assert.Zero(t, o.Beams())
	assert.Empty(t, w.Markers())
	o.Draw(&countingCanvas{}, 0)
	assert.Equal(t, 1, o.LastStats().Dots)
}

func TestOverlay_HealthSequence(t *testing.T) {
	w := newWorld()
	_, hp := spawnPlayer(w)

	o := newOverlay(t, w, Dependencies{})
	now := time.Duration(0)
	step := func(v float64) (float64, bool) {
		hp.HP = v
		o.Update(now)
		now += 16 * time.Millisecond
		return o.Probe().Ratio()
	}

	for _, tc := range []struct {
		hp   float64
		want float64
		low  bool
	}{
		{40, 1, false},
		{25, 0.625, false},
		{50, 1, false},
		{10, 0.2, true},
		{15, 0.3, true},
		{0, 0, false},
	} {
		r, ok := step(tc.hp)
		require.True(t, ok, "hp %v", tc.hp)
		assert.InDelta(t, tc.want, r, 1e-9, "hp %v", tc.hp)
		assert.Equal(t, tc.low, o.LowHealth(), "hp %v", tc.hp)
	}
	assert.Equal(t, 50.0, o.Probe().ObservedMax())

	hp.HP = 10
	o.Update(now)
	c := &countingCanvas{}
	o.Draw(c, now)
	assert.True(t, o.LastStats().Banner)
	assert.Equal(t, []string{"Vital signs are at critical levels."}, c.texts)

	o.Renderer().CycleLanguage()
	c = &countingCanvas{}
	o.Draw(c, now)
	assert.Equal(t, []string{"바이털 사인이 위험 수준입니다."}, c.texts)
}

func TestOverlay_EmptyWorld(t *testing.T) {
	w := sim.NewWorld()
	o := newOverlay(t, w, Dependencies{})

	assert.NotPanics(t, func() {
		o.Update(0)
		o.Update(5 * time.Second)
		o.Draw(&countingCanvas{}, 0)
		o.Draw(nil, 0)
		o.Shutdown()
	})
	st := o.State()
	assert.False(t, st.HasPlayer)
	assert.False(t, st.HasTarget)
	assert.Equal(t, 1.0, st.Normalized)
	assert.Empty(t, o.Spots())
	assert.False(t, o.Probe().Bound())
	assert.False(t, o.LowHealth())
}

func TestOverlay_JournalAndMetrics(t *testing.T) {
	w := newWorld()
	hero, _ := spawnPlayer(w)
	raider := w.Spawn("Raider", core.Position3D{Z: 5})
	raider.Attach(&unit{Team: "HostileRaiders"})
	bag := w.Spawn("lootbox_enemydie_template", core.Position3D{Z: 10})
	bag.Attach(&Inventory{Slots: []*Item{{DisplayQuality: 9}}})

	backend := memory.New(config.MemoryConfig{})
	require.NoError(t, backend.Init())
	metrics := &recordedMetrics{}
	clock := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	o := newOverlay(t, w, Dependencies{
		Journal: storage.NewJournal(backend),
		Metrics: metrics,
		Version: "1.0.0",
		Clock:   func() time.Time { return clock },
	})
	o.Update(0)

	// Dropping the player invalidates the health binding.
	hero.Destroy()
	o.Update(16 * time.Millisecond)
	o.Shutdown()

	exp := backend.Snapshot()
	assert.Equal(t, "1.0.0", exp.Session.Version)
	assert.True(t, clock.Equal(exp.Session.StartedAt))

	require.Len(t, exp.Scans, 1)
	scan := exp.Scans[0]
	assert.Equal(t, exp.Session.ID, scan.SessionID)
	assert.Equal(t, "Hero", scan.PlayerName)
	assert.Equal(t, 1, scan.Enemies)
	assert.Equal(t, 2, scan.Candidates)
	assert.Equal(t, []float64{0}, scan.EnemyBearings)

	require.Len(t, exp.LootScans, 1)
	require.Len(t, exp.LootScans[0].Spots, 1)
	assert.Equal(t, core.LootSpotEvent{
		Name:     "lootbox_enemydie_template",
		Position: core.Position3D{Z: 10},
		Tier:     5,
		Beamed:   true,
	}, exp.LootScans[0].Spots[0])

	require.Len(t, exp.HealthBindings, 2)
	assert.True(t, exp.HealthBindings[0].Bound)
	assert.Equal(t, "PlayerHealth", exp.HealthBindings[0].TypeName)
	assert.Equal(t, "hp", exp.HealthBindings[0].Member)
	assert.False(t, exp.HealthBindings[1].Bound)
	assert.NotEmpty(t, exp.HealthBindings[1].Reason)

	require.Len(t, metrics.scans, 1)
	assert.InDelta(t, 5, metrics.scans[0].Nearest, 1e-9)
	require.Len(t, metrics.loots, 1)
	assert.Equal(t, influx.LootMetrics{SessionID: exp.Session.ID, Spots: 1, Beams: 1, BestTier: 5}, metrics.loots[0])
}

func TestOverlay_HealthRebindsOnNextScan(t *testing.T) {
	w := newWorld()
	hero, _ := spawnPlayer(w)

	o := newOverlay(t, w, Dependencies{})
	o.Update(0)
	require.True(t, o.Probe().Bound())

	hero.Destroy()
	o.Update(time.Second)
	assert.False(t, o.Probe().Bound())

	spawnPlayer(w)
	o.Update(2 * time.Second)
	assert.False(t, o.Probe().Bound(), "rebinding waits for the next classification scan")
	o.Update(3 * time.Second)
	assert.True(t, o.Probe().Bound())
}

func TestFactory_WithBootstrap(t *testing.T) {
	w := newWorld()
	spawnPlayer(w)
	bag := w.Spawn("lootbox_enemydie_template", core.Position3D{Z: 10})
	bag.Attach(&Inventory{Slots: []*Item{{DisplayQuality: 9}}})

	b := hostapi.NewBootstrap("1.0.0", NewFactory(testConfig(), Dependencies{}), nil)
	require.NoError(t, b.OnAfterSetup(w))
	b.Update(0)
	b.Draw(&countingCanvas{}, 0)
	assert.Len(t, w.Markers(), 1)

	b.OnTeardown()
	assert.Empty(t, w.Markers())
	assert.False(t, b.Active())
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(
		config.RadarConfig{NearDistance: 5, ClassifyInterval: time.Second, TextureSize: 128, PulseSpeed: 2},
		config.LootConfig{ContainerMarker: "crate"},
		config.BeamConfig{Enabled: false, Height: 10},
		config.StorageConfig{FlushInterval: time.Minute},
	)
	assert.Equal(t, 5.0, cfg.Rings.Near)
	assert.Equal(t, DefaultConfig.Rings.Far, cfg.Rings.Far)
	assert.Equal(t, time.Second, cfg.ClassifyInterval)
	assert.Equal(t, DefaultConfig.LootInterval, cfg.LootInterval)
	assert.Equal(t, time.Minute, cfg.FlushInterval)
	assert.Equal(t, 128, cfg.Glyphs.Size)
	assert.Equal(t, 2.0, cfg.Layout.PulseSpeed)
	assert.Equal(t, "crate", cfg.Loot.ContainerMarker)
	assert.Equal(t, DefaultConfig.Loot.ItemTypeName, cfg.Loot.ItemTypeName)
	assert.False(t, cfg.Beams)
	assert.Equal(t, 10.0, cfg.Beam.Height)
	assert.Equal(t, DefaultConfig.Beam.Width, cfg.Beam.Width)
}

func TestLoadConfig_Defaults(t *testing.T) {
	config.SetDefaults()
	cfg := LoadConfig()
	assert.Equal(t, DefaultConfig, cfg)
}
