// Package sim is an in-memory host. It backs the headless runner, the demo
// window and the scenario tests.
package sim

import (
	"errors"
	"sort"

	"github.com/enemyradar/extension/pkg/attr"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// ErrMarkersDisabled is returned by SpawnLine when marker spawning is switched off.
var ErrMarkersDisabled = errors.New("marker layer disabled")

// World is a flat scene with parent links. It is not safe for concurrent use.
type World struct {
	nextID  handle.ID
	nodes   []*Node
	markers map[hostapi.MarkerID]Marker
	nextMkr hostapi.MarkerID

	camOrigin, camForward core.Position3D
	hasCamera             bool
	language              string
	markersOff            bool
}

var _ hostapi.Host = (*World)(nil)

// NewWorld creates an empty world with no camera and an English locale.
func NewWorld() *World {
	return &World{
		markers:  make(map[hostapi.MarkerID]Marker),
		language: "en-US",
	}
}

// Spawn adds a top-level node facing +Z.
func (w *World) Spawn(name string, pos core.Position3D) *Node {
	return w.SpawnChild(nil, name, pos)
}

// SpawnChild adds a node owned by parent. A nil parent makes it top-level.
func (w *World) SpawnChild(parent *Node, name string, pos core.Position3D) *Node {
	w.nextID++
	n := &Node{
		world:   w,
		id:      w.nextID,
		name:    name,
		pos:     pos,
		forward: core.Forward,
		parent:  parent,
		alive:   true,
	}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	w.nodes = append(w.nodes, n)
	return n
}

// Components implements hostapi.World.
func (w *World) Components() []hostapi.Component {
	var out []hostapi.Component
	for _, n := range w.nodes {
		if !n.alive {
			continue
		}
		for _, c := range n.comps {
			out = append(out, c)
		}
	}
	return out
}

// Objects implements hostapi.World. Child nodes are listed too.
func (w *World) Objects() []hostapi.Object {
	var out []hostapi.Object
	for _, n := range w.nodes {
		if n.alive {
			out = append(out, n)
		}
	}
	return out
}

// SetCamera places the view.
func (w *World) SetCamera(origin, forward core.Position3D) {
	w.camOrigin, w.camForward, w.hasCamera = origin, forward, true
}

// ClearCamera removes the view.
func (w *World) ClearCamera() {
	w.hasCamera = false
}

// View implements hostapi.View.
func (w *World) View() (core.Position3D, core.Position3D, bool) {
	return w.camOrigin, w.camForward, w.hasCamera
}

// SetLanguage sets the system language indicator.
func (w *World) SetLanguage(lang string) {
	w.language = lang
}

// SystemLanguage implements hostapi.Locale.
func (w *World) SystemLanguage() string {
	return w.language
}

// Marker is a spawned world-space line.
type Marker struct {
	ID       hostapi.MarkerID
	Group    string
	From, To core.Position3D
	Style    hostapi.LineStyle
}

// DisableMarkers makes SpawnLine fail.
func (w *World) DisableMarkers(off bool) {
	w.markersOff = off
}

// SpawnLine implements hostapi.MarkerLayer.
func (w *World) SpawnLine(group string, from, to core.Position3D, style hostapi.LineStyle) (hostapi.MarkerID, error) {
	if w.markersOff {
		return 0, ErrMarkersDisabled
	}
	w.nextMkr++
	w.markers[w.nextMkr] = Marker{ID: w.nextMkr, Group: group, From: from, To: to, Style: style}
	return w.nextMkr, nil
}

// Destroy implements hostapi.MarkerLayer. Unknown ids are ignored.
func (w *World) Destroy(id hostapi.MarkerID) {
	delete(w.markers, id)
}

// Markers returns the live markers ordered by id.
func (w *World) Markers() []Marker {
	out := make([]Marker, 0, len(w.markers))
	for _, m := range w.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Node is a scene node. It implements hostapi.Object.
type Node struct {
	world    *World
	id       handle.ID
	name     string
	pos      core.Position3D
	forward  core.Position3D
	parent   *Node
	children []*Node
	comps    []*Component
	alive    bool
}

var _ hostapi.Object = (*Node)(nil)

func (n *Node) ID() handle.ID                 { return n.id }
func (n *Node) Alive() bool                   { return n.alive }
func (n *Node) Name() string                  { return n.name }
func (n *Node) Position() core.Position3D     { return n.pos }
func (n *Node) Forward() core.Position3D      { return n.forward }
func (n *Node) SetPosition(p core.Position3D) { n.pos = p }
func (n *Node) SetForward(f core.Position3D)  { n.forward = f }

// Parent implements hostapi.Node.
func (n *Node) Parent() (hostapi.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// Components implements hostapi.Object.
func (n *Node) Components() []hostapi.Component {
	out := make([]hostapi.Component, 0, len(n.comps))
	for _, c := range n.comps {
		out = append(out, c)
	}
	return out
}

// Attach exposes v through reflection and attaches it. v should be a pointer
// so that later mutations are visible to readers.
func (n *Node) Attach(v any) *Component {
	return n.AttachSource(attr.Reflect(v))
}

// AttachSource attaches an arbitrary attribute source.
func (n *Node) AttachSource(src attr.Source) *Component {
	c := &Component{Source: src, node: n}
	n.comps = append(n.comps, c)
	return c
}

// Destroy kills the node and its descendants.
func (n *Node) Destroy() {
	n.alive = false
	for _, c := range n.children {
		c.Destroy()
	}
}

// Component binds an attribute source to its node.
type Component struct {
	attr.Source
	node *Node
}

var _ hostapi.Component = (*Component)(nil)

// Node implements hostapi.Component.
func (c *Component) Node() hostapi.Node {
	return c.node
}
