// Package loot finds enemy drop containers and grades them by the best item
// inside.
package loot

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/enemyradar/extension/pkg/attr"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Config selects which objects are containers and which values are items.
type Config struct {
	// ContainerMarker is matched case-insensitively against object names.
	ContainerMarker string
	// ItemTypeName is the runtime type name of an item.
	ItemTypeName string
}

// DefaultConfig matches the stock enemy drop bag.
var DefaultConfig = Config{
	ContainerMarker: "lootbox_enemydie_template",
	ItemTypeName:    "Item",
}

// Spot is a graded drop container.
type Spot struct {
	Node handle.Handle[hostapi.Node]
	Name string
	Tier int
}

// Surveyor grades containers. It is stateless between scans.
type Surveyor struct {
	marker   string
	itemType string
	logger   *slog.Logger
}

// NewSurveyor creates a Surveyor. logger may be nil.
func NewSurveyor(cfg Config, logger *slog.Logger) *Surveyor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.ContainerMarker == "" {
		cfg.ContainerMarker = DefaultConfig.ContainerMarker
	}
	if cfg.ItemTypeName == "" {
		cfg.ItemTypeName = DefaultConfig.ItemTypeName
	}
	return &Surveyor{
		marker:   strings.ToLower(cfg.ContainerMarker),
		itemType: cfg.ItemTypeName,
		logger:   logger,
	}
}

// IsContainer reports whether an object name carries the container marker.
func (s *Surveyor) IsContainer(name string) bool {
	return name != "" && strings.Contains(strings.ToLower(name), s.marker)
}

// Survey grades every live container among objects, in enumeration order.
func (s *Surveyor) Survey(objects []hostapi.Object) []Spot {
	var spots []Spot
	for _, o := range objects {
		if o == nil || !o.Alive() {
			continue
		}
		name := o.Name()
		if !s.IsContainer(name) {
			continue
		}
		tier := s.BestTier(o)
		spots = append(spots, Spot{Node: handle.Of[hostapi.Node](o), Name: name, Tier: tier})
		s.logger.Debug("Loot spot found", "name", name, "tier", TierName(tier))
	}
	s.logger.Debug("Loot scan complete", "objects", len(objects), "spots", len(spots))
	return spots
}

// BestTier is the highest item tier across all components of o.
func (s *Surveyor) BestTier(o hostapi.Object) (best int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("Component enumeration failed", "object", o.Name(), "error", r)
		}
	}()
	for _, c := range o.Components() {
		if c == nil {
			continue
		}
		best = max(best, s.componentTier(c))
	}
	return best
}

// componentTier scans the component's fields for single items, arrays of
// items and ordered collections of items.
func (s *Surveyor) componentTier(c attr.Source) int {
	best := 0
	members, _ := attr.SafeMembers(c)
	for _, m := range members {
		if m.Accessor != attr.Field {
			continue
		}
		v, err := attr.SafeGet(c, m.Name, m.Accessor)
		if err != nil {
			s.logger.Debug("Item field unreadable", "type", c.TypeName(), "field", m.Name, "error", err)
			continue
		}
		switch {
		case v.Kind() == attr.KindObject:
			best = max(best, s.valueTier(v))
		case v.Kind().Sequence():
			for _, e := range v.Elems() {
				best = max(best, s.valueTier(e))
			}
		}
	}
	return best
}

func (s *Surveyor) valueTier(v attr.Value) int {
	item, ok := v.Object()
	if !ok || !s.isItem(item) {
		return 0
	}
	return TierFromQuality(s.Quality(item))
}

func (s *Surveyor) isItem(src attr.Source) bool {
	return src != nil && strings.EqualFold(src.TypeName(), s.itemType)
}

// Quality reads an item's raw quality: displayQuality as a field, then as a
// property, then the quality field, each consulted only while the result is
// still zero. Any read failure yields 0.
func (s *Surveyor) Quality(item attr.Source) int64 {
	steps := []struct {
		name string
		acc  attr.Accessor
	}{
		{"displayQuality", attr.Field},
		{"displayQuality", attr.Property},
		{"quality", attr.Field},
	}
	var q int64
	for _, st := range steps {
		if q != 0 {
			break
		}
		v, err := attr.Lookup(item, st.name, st.acc)
		if errors.Is(err, attr.ErrAbsent) || (err == nil && v.IsNil()) {
			continue
		}
		if err != nil {
			s.logger.Debug("Item quality unreadable", "type", item.TypeName(), "member", st.name, "error", err)
			return 0
		}
		n, ok := v.Int()
		if !ok {
			s.logger.Debug("Item quality not numeric", "type", item.TypeName(), "member", st.name, "kind", v.Kind())
			return 0
		}
		q = n
	}
	return q
}

// Summary reports the spot count and the best tier seen.
func Summary(spots []Spot) (count, bestTier int) {
	for _, sp := range spots {
		bestTier = max(bestTier, sp.Tier)
	}
	return len(spots), bestTier
}
