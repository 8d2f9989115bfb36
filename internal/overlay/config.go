package overlay

import (
	"time"

	"github.com/enemyradar/extension/internal/beam"
	"github.com/enemyradar/extension/internal/config"
	"github.com/enemyradar/extension/internal/forge"
	"github.com/enemyradar/extension/internal/geo"
	"github.com/enemyradar/extension/internal/loot"
	"github.com/enemyradar/extension/internal/render"
)

// Config holds everything the overlay is built from.
type Config struct {
	Rings            geo.Rings
	ClassifyInterval time.Duration
	LootInterval     time.Duration
	// FlushInterval is how often the scan journal is written out.
	FlushInterval time.Duration

	Layout render.Layout
	Glyphs forge.Params
	Loot   loot.Config
	Beam   beam.Config
	Beams  bool
}

// DefaultConfig is the stock overlay.
var DefaultConfig = Config{
	Rings:            geo.DefaultRings,
	ClassifyInterval: 3 * time.Second,
	LootInterval:     500 * time.Millisecond,
	FlushInterval:    5 * time.Second,
	Layout:           render.DefaultLayout,
	Glyphs:           forge.DefaultParams,
	Loot:             loot.DefaultConfig,
	Beam:             beam.DefaultConfig,
	Beams:            true,
}

// ConfigFrom maps loaded settings onto a Config. Zero settings keep the
// stock value.
func ConfigFrom(radar config.RadarConfig, lc config.LootConfig, bc config.BeamConfig, sc config.StorageConfig) Config {
	cfg := DefaultConfig

	setF(&cfg.Rings.Near, radar.NearDistance)
	setF(&cfg.Rings.Mid, radar.MidDistance)
	setF(&cfg.Rings.Far, radar.FarDistance)
	setD(&cfg.ClassifyInterval, radar.ClassifyInterval)
	setD(&cfg.LootInterval, radar.LootInterval)
	setD(&cfg.FlushInterval, sc.FlushInterval)

	setF(&cfg.Layout.LowHealthThreshold, radar.LowHealthThreshold)
	setF(&cfg.Layout.RadarSize, radar.Size)
	setF(&cfg.Layout.Margin, radar.Margin)
	setF(&cfg.Layout.Lift, radar.Lift)
	setF(&cfg.Layout.DotSize, radar.DotSize)
	setF(&cfg.Layout.LootRangeFactor, radar.LootRangeFactor)
	setF(&cfg.Layout.PulseSpeed, radar.PulseSpeed)
	if radar.TextureSize > 0 {
		cfg.Glyphs.Size = radar.TextureSize
	}
	if radar.DotTextureSize > 0 {
		cfg.Glyphs.DotSize = radar.DotTextureSize
	}

	if lc.ContainerMarker != "" {
		cfg.Loot.ContainerMarker = lc.ContainerMarker
	}
	if lc.ItemTypeName != "" {
		cfg.Loot.ItemTypeName = lc.ItemTypeName
	}

	cfg.Beams = bc.Enabled
	setF(&cfg.Beam.Height, bc.Height)
	setF(&cfg.Beam.Width, bc.Width)
	setF(&cfg.Beam.Offset, bc.Offset)
	setF(&cfg.Beam.Alpha, bc.Alpha)
	return cfg
}

// LoadConfig reads the overlay settings from the global config.
func LoadConfig() Config {
	return ConfigFrom(config.GetRadarConfig(), config.GetLootConfig(), config.GetBeamConfig(), config.GetStorageConfig())
}

func setF(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setD(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
