// Package proximity tracks the player's nearest hostile and the per-frame
// placement of every hostile on the radar.
package proximity

import (
	"math"

	"github.com/enemyradar/extension/internal/geo"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Contact is one live hostile as seen from the player this frame.
type Contact struct {
	Node     handle.Handle[hostapi.Node]
	Distance float64
	Band     geo.Band
	// Bearing is only meaningful when HasBearing is set.
	Bearing    float64
	HasBearing bool
}

// State is the radar state recomputed every frame.
type State struct {
	HasPlayer bool
	PlayerPos core.Position3D
	// Forward is the heading the radar's "up" follows: the view when one
	// exists, else the player's facing.
	Forward core.Position3D

	HasTarget  bool
	Nearest    handle.Handle[hostapi.Node]
	Distance   float64
	Normalized float64
	Bearing    float64

	Contacts []Contact
}

// Tracker owns the player handle and the enemy list from the latest
// classification scan.
type Tracker struct {
	rings   geo.Rings
	player  handle.Handle[hostapi.Node]
	enemies []handle.Handle[hostapi.Node]
	state   State
}

// NewTracker creates a Tracker with the given band edges.
func NewTracker(rings geo.Rings) *Tracker {
	t := &Tracker{rings: rings}
	t.reset()
	return t
}

// Rings returns the band edges.
func (t *Tracker) Rings() geo.Rings {
	return t.rings
}

// SetScan replaces the player and enemy list wholesale. The player is
// dropped from the enemy list if present.
func (t *Tracker) SetScan(player handle.Handle[hostapi.Node], enemies []handle.Handle[hostapi.Node]) {
	t.player = player
	t.enemies = make([]handle.Handle[hostapi.Node], 0, len(enemies))
	for _, e := range enemies {
		if e.Same(player) {
			continue
		}
		t.enemies = append(t.enemies, e)
	}
}

// Player returns the live player node.
func (t *Tracker) Player() (hostapi.Node, bool) {
	return t.player.Get()
}

// PlayerHandle returns the player handle, live or not.
func (t *Tracker) PlayerHandle() handle.Handle[hostapi.Node] {
	return t.player
}

// Enemies returns the enemy list from the latest scan.
func (t *Tracker) Enemies() []handle.Handle[hostapi.Node] {
	return t.enemies
}

// State returns the result of the latest Update.
func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) reset() {
	t.state = State{Normalized: 1, Forward: core.Forward}
}

// Update recomputes the state for this frame. view may be nil.
func (t *Tracker) Update(view hostapi.View) State {
	t.reset()

	p, ok := t.player.Get()
	if !ok {
		return t.state
	}
	pos := p.Position()
	t.state.HasPlayer = true
	t.state.PlayerPos = pos
	t.state.Forward = forwardOf(view, p)

	if len(t.enemies) == 0 {
		return t.state
	}

	best := math.Inf(1)
	contacts := make([]Contact, 0, len(t.enemies))
	for _, h := range t.enemies {
		e, ok := h.Get()
		if !ok {
			continue
		}
		ep := e.Position()
		d := pos.Distance(ep)
		bearing, hasBearing := geo.Bearing(pos, ep, t.state.Forward)
		contacts = append(contacts, Contact{
			Node:       h,
			Distance:   d,
			Band:       t.rings.Band(d),
			Bearing:    bearing,
			HasBearing: hasBearing,
		})
		if d < best {
			best = d
			t.state.HasTarget = true
			t.state.Nearest = h
			t.state.Distance = d
			t.state.Bearing = bearing
		}
	}
	t.state.Contacts = contacts
	if t.state.HasTarget {
		t.state.Normalized = t.rings.Normalized(t.state.Distance)
	}
	return t.state
}

func forwardOf(view hostapi.View, player hostapi.Node) core.Position3D {
	if view != nil {
		if _, fwd, ok := view.View(); ok {
			return fwd
		}
	}
	return player.Forward()
}

// Origin is the point used to pick the player: the view origin when a view
// exists, else the world origin.
func Origin(view hostapi.View) core.Position3D {
	if view != nil {
		if origin, _, ok := view.View(); ok {
			return origin
		}
	}
	return core.Position3D{}
}
