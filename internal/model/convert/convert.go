// Package convert maps journal records onto their GORM models.
package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/enemyradar/extension/internal/model"
	"github.com/enemyradar/extension/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// PositionToPoint converts a world position to a geom.Point. The ground
// plane (X, Z) becomes the point's XY; height becomes its Z.
func PositionToPoint(p core.Position3D) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Z},
		Z:    p.Y,
		Type: geom.DimXYZ,
	})
}

// PointToPosition is the inverse of PositionToPoint. An empty point maps to
// the origin.
func PointToPosition(pt geom.Point) core.Position3D {
	c, ok := pt.Coordinates()
	if !ok {
		return core.Position3D{}
	}
	return core.Position3D{X: c.XY.X, Y: c.Z, Z: c.XY.Y}
}

func toJSON(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// ToScanEvent converts a classification scan record.
func ToScanEvent(e core.ScanEvent) (model.ScanEvent, error) {
	bearings := e.EnemyBearings
	if bearings == nil {
		bearings = []float64{}
	}
	js, err := toJSON(bearings)
	if err != nil {
		return model.ScanEvent{}, fmt.Errorf("failed to encode bearings: %w", err)
	}
	return model.ScanEvent{
		SessionID:      e.SessionID,
		Time:           e.Time.UTC(),
		Frame:          e.Frame,
		Entities:       e.Entities,
		Candidates:     e.Candidates,
		Excluded:       e.Excluded,
		Enemies:        e.Enemies,
		HasPlayer:      e.HasPlayer,
		PlayerName:     e.PlayerName,
		PlayerPosition: PositionToPoint(e.PlayerPos),
		EnemyBearings:  js,
	}, nil
}

// ToLootScanEvent converts a loot scan record with its spots.
func ToLootScanEvent(e core.LootScanEvent) (model.LootScanEvent, error) {
	tiers := make([]int, 0, len(e.Spots))
	spots := make([]model.LootSpot, 0, len(e.Spots))
	best := 0
	for _, s := range e.Spots {
		tiers = append(tiers, s.Tier)
		best = max(best, s.Tier)
		spots = append(spots, model.LootSpot{
			Name:     s.Name,
			Location: PositionToPoint(s.Position),
			Tier:     s.Tier,
			Beamed:   s.Beamed,
		})
	}
	js, err := toJSON(tiers)
	if err != nil {
		return model.LootScanEvent{}, fmt.Errorf("failed to encode tiers: %w", err)
	}
	return model.LootScanEvent{
		SessionID: e.SessionID,
		Time:      e.Time.UTC(),
		Frame:     e.Frame,
		SpotCount: len(e.Spots),
		BestTier:  best,
		Tiers:     js,
		Spots:     spots,
	}, nil
}

// ToHealthBindingEvent converts a health binding record.
func ToHealthBindingEvent(e core.HealthBindingEvent) model.HealthBindingEvent {
	return model.HealthBindingEvent{
		SessionID: e.SessionID,
		Time:      e.Time.UTC(),
		Frame:     e.Frame,
		TypeName:  e.TypeName,
		Member:    e.Member,
		Accessor:  e.Accessor,
		Bound:     e.Bound,
		Reason:    e.Reason,
	}
}

// ToSession builds the session row.
func ToSession(id string, started time.Time, version string) model.Session {
	return model.Session{ID: id, StartedAt: started.UTC(), Version: version}
}
