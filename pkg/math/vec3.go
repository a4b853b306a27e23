// Package math provides the small vector types used by the asset pipeline.
package math

import "math"

// Vec3 is a 3D vector. It encodes as {"x", "y", "z"}.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Length returns the magnitude. Hypot keeps large components from
// overflowing the intermediate sum of squares.
func (v Vec3) Length() float64 {
	return math.Hypot(math.Hypot(v.X, v.Y), v.Z)
}

// Normalize returns a unit vector and false if v has zero length.
func (v Vec3) Normalize() (Vec3, bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, false
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}, true
}

// Min returns the componentwise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{math.Min(v.X, other.X), math.Min(v.Y, other.Y), math.Min(v.Z, other.Z)}
}

// Max returns the componentwise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{math.Max(v.X, other.X), math.Max(v.Y, other.Y), math.Max(v.Z, other.Z)}
}

// Array returns the components as [x, y, z].
func (v Vec3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
