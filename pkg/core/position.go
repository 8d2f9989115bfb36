// Package core holds the plain value types shared across the overlay.
package core

import "math"

// Position3D is a world-space point or direction in metres.
// Y is the vertical axis; forward is +Z.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Forward is the canonical forward direction used when no usable heading exists.
var Forward = Position3D{Z: 1}

// Up is the world vertical.
var Up = Position3D{Y: 1}

// Add returns p + o.
func (p Position3D) Add(o Position3D) Position3D {
	return Position3D{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Sub returns p - o.
func (p Position3D) Sub(o Position3D) Position3D {
	return Position3D{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Scale returns p scaled by s.
func (p Position3D) Scale(s float64) Position3D {
	return Position3D{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Length returns the Euclidean norm.
func (p Position3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Distance returns the Euclidean distance between p and o.
func (p Position3D) Distance(o Position3D) float64 {
	return p.Sub(o).Length()
}

// Flatten zeroes the vertical component.
func (p Position3D) Flatten() Position3D {
	return Position3D{X: p.X, Z: p.Z}
}
