// Package hostapi holds the narrow contracts the overlay consumes from the host
// simulation, and the bootstrap the host calls to bring the overlay up and down.
package hostapi

import (
	"image"
	"image/color"

	"github.com/enemyradar/extension/pkg/attr"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/handle"
)

// Node is a spatial node in the host scene graph.
type Node interface {
	handle.Target
	Name() string
	Position() core.Position3D
	Forward() core.Position3D
	// Parent returns the ownership parent, if any.
	Parent() (Node, bool)
}

// Component is a script object attached to a node. Its attributes are
// readable only through attr.Source.
type Component interface {
	attr.Source
	Node() Node
}

// Object is a top-level scene object with its attached components.
type Object interface {
	Node
	Components() []Component
}

// World enumerates live host objects. Results are a snapshot and may be empty.
type World interface {
	Components() []Component
	Objects() []Object
}

// View reports the active camera. ok is false when no camera is available.
type View interface {
	View() (origin, forward core.Position3D, ok bool)
}

// Locale reports the host's system language, either as a BCP 47 tag ("ja-JP")
// or as a language name ("Japanese").
type Locale interface {
	SystemLanguage() string
}

// MarkerID identifies a spawned world-space marker.
type MarkerID uint64

// LineStyle describes a world-space line marker.
type LineStyle struct {
	Width float64
	Color color.NRGBA
}

// MarkerLayer spawns and destroys world-space line markers.
type MarkerLayer interface {
	SpawnLine(group string, from, to core.Position3D, style LineStyle) (MarkerID, error)
	Destroy(id MarkerID)
}

// Host is everything the overlay consumes.
type Host interface {
	World
	View
	Locale
	MarkerLayer
}

// Rect is a screen-space rectangle in pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's centre point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W*0.5, Y: r.Y + r.H*0.5}
}

// Point is a screen-space point in pixels.
type Point struct {
	X, Y float64
}

// Quad is a textured quad draw. The image is stretched into Dst, then rotated
// clockwise by Rotation degrees around Pivot and multiplied by Tint.
type Quad struct {
	Image    image.Image
	Dst      Rect
	Rotation float64
	Pivot    Point
	Tint     color.NRGBA
}

// TextStyle describes a centred text label.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color color.NRGBA
}

// Canvas is the host's screen-space drawing surface for one frame.
type Canvas interface {
	Size() (w, h float64)
	DrawQuad(q Quad)
	FillRect(dst Rect, c color.NRGBA)
	DrawText(dst Rect, text string, style TextStyle)
}
