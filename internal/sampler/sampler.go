// Package sampler takes point-in-time snapshots of the host's live components.
package sampler

import (
	"log/slog"

	"github.com/enemyradar/extension/pkg/attr"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// RawEntity is one sampled component and the node it is attached to.
type RawEntity struct {
	Node     handle.Handle[hostapi.Node]
	Name     string
	TypeName string
	Source   attr.Source
}

// WorldSampler enumerates live components on demand.
type WorldSampler struct {
	world  hostapi.World
	logger *slog.Logger
}

// New creates a WorldSampler over world. logger may be nil.
func New(world hostapi.World, logger *slog.Logger) *WorldSampler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WorldSampler{world: world, logger: logger}
}

// Sample returns every live component attached to a live node. A missing
// world, or a host failure during enumeration, yields an empty snapshot.
func (s *WorldSampler) Sample() (out []RawEntity) {
	if s.world == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("World enumeration failed", "error", r)
			out = nil
		}
	}()

	comps := s.world.Components()
	out = make([]RawEntity, 0, len(comps))
	for _, c := range comps {
		if c == nil {
			continue
		}
		n := c.Node()
		if n == nil || !n.Alive() {
			continue
		}
		out = append(out, RawEntity{
			Node:     handle.Of(n),
			Name:     n.Name(),
			TypeName: c.TypeName(),
			Source:   c,
		})
	}
	return out
}

// Objects returns the live top-level objects, or nil on host failure.
func (s *WorldSampler) Objects() (out []hostapi.Object) {
	if s.world == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("Object enumeration failed", "error", r)
			out = nil
		}
	}()

	objs := s.world.Objects()
	out = make([]hostapi.Object, 0, len(objs))
	for _, o := range objs {
		if o != nil && o.Alive() {
			out = append(out, o)
		}
	}
	return out
}
