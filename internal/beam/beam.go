// Package beam maintains vertical world-space markers over graded loot.
package beam

import (
	"log/slog"

	"github.com/enemyradar/extension/internal/cache"
	"github.com/enemyradar/extension/internal/loot"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Group is the marker-layer group every beam is spawned under.
const Group = "EnemyLootBeamsRoot"

// Config shapes a beam.
type Config struct {
	Height float64
	Width  float64
	// Offset lifts the beam's base off the ground.
	Offset float64
	Alpha  float64
}

// DefaultConfig is the stock beam shape.
var DefaultConfig = Config{Height: 6, Width: 0.25, Offset: 0.2, Alpha: 0.8}

// Effects owns every beam it spawned. Each Rebuild replaces the full set.
type Effects struct {
	layer   hostapi.MarkerLayer
	cfg     Config
	markers *cache.MarkerCache
	styles  map[int]hostapi.LineStyle
	logger  *slog.Logger
}

// NewEffects creates Effects on layer. logger may be nil.
func NewEffects(layer hostapi.MarkerLayer, cfg Config, logger *slog.Logger) *Effects {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Effects{
		layer:   layer,
		cfg:     cfg,
		markers: cache.NewMarkerCache(),
		styles:  make(map[int]hostapi.LineStyle),
		logger:  logger,
	}
}

// Len returns the number of live beams.
func (e *Effects) Len() int {
	return e.markers.Len()
}

// Style returns the line style for tier, cached per tier.
func (e *Effects) Style(tier int) hostapi.LineStyle {
	if s, ok := e.styles[tier]; ok {
		return s
	}
	s := hostapi.LineStyle{
		Width: e.cfg.Width,
		Color: loot.WithAlpha(loot.TierColor(tier), e.cfg.Alpha),
	}
	e.styles[tier] = s
	return s
}

// Rebuild destroys every existing beam and spawns one per beamed spot. A spot
// listed more than once gets a single beam. It returns the number of beams
// spawned.
func (e *Effects) Rebuild(spots []loot.Spot) int {
	e.Clear()
	if e.layer == nil {
		return 0
	}
	for _, sp := range spots {
		if !loot.Beamed(sp.Tier) {
			continue
		}
		if _, done := e.markers.Get(sp.Node.ID()); done {
			continue
		}
		n, ok := sp.Node.Get()
		if !ok {
			continue
		}
		base := n.Position().Add(core.Up.Scale(e.cfg.Offset))
		top := base.Add(core.Up.Scale(e.cfg.Height))
		id, err := e.layer.SpawnLine(Group, base, top, e.Style(sp.Tier))
		if err != nil {
			e.logger.Debug("failed to spawn beam", "name", sp.Name, "tier", sp.Tier, "error", err)
			continue
		}
		e.markers.Set(sp.Node.ID(), id)
	}
	return e.markers.Len()
}

// Clear destroys every beam.
func (e *Effects) Clear() {
	ids := e.markers.Drain()
	if e.layer == nil {
		return
	}
	for _, id := range ids {
		e.layer.Destroy(id)
	}
}

// Shutdown releases every beam on teardown.
func (e *Effects) Shutdown() {
	e.Clear()
}
