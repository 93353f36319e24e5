// Package math provides the small vector type used by the particle simulation.
package math

import "math"

// Vec2 is a 2D vector in canvas coordinates (Y grows downward).
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// Near reports whether both axis offsets to other are strictly under eps.
func (v Vec2) Near(other Vec2, eps float64) bool {
	return math.Abs(v.X-other.X) < eps && math.Abs(v.Y-other.Y) < eps
}
