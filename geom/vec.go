// Package geom defines the vector, AABB and triangle primitives shared by
// the baker, the query core and the steering layer.
package geom

import (
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/aurelien-rainone/math32"
)

// Vec3 is a point or direction in 3D space; x is east, y is up, z is
// north. It is a thin re-export of d3.Vec3 so every package in this
// module shares one vector type and its rich method set (Add, Cross,
// Dot, Normalize...).
type Vec3 = d3.Vec3

// NewVec3 returns the zero vector.
func NewVec3() Vec3 { return d3.NewVec3() }

// NewVec3XYZ returns Vec3{x, y, z}.
func NewVec3XYZ(x, y, z float32) Vec3 { return d3.NewVec3XYZ(x, y, z) }

// Vec2 is a point on the horizontal xz-plane; avoidance and funnel math
// operate here, with height (y) carried separately where needed.
type Vec2 struct {
	X, Z float32
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Z - o.Z} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }

// Scale returns v * t.
func (v Vec2) Scale(t float32) Vec2 { return Vec2{v.X * t, v.Z * t} }

// Dot returns the dot product v.o.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Z*o.Z }

// Det returns the 2D "determinant" (z-component of the 3D cross
// product) of v and o; its sign gives the turn direction from v to o.
func (v Vec2) Det(o Vec2) float32 { return v.X*o.Z - v.Z*o.X }

// LenSqr returns the squared length of v.
func (v Vec2) LenSqr() float32 { return v.X*v.X + v.Z*v.Z }

// Len returns the length of v.
func (v Vec2) Len() float32 { return math32.Sqrt(v.LenSqr()) }

// Normalize returns v scaled to unit length, or the zero vector if v is
// (near) zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// DistSqr returns the squared distance between v and o.
func (v Vec2) DistSqr(o Vec2) float32 { return v.Sub(o).LenSqr() }

// Vec2Of projects a Vec3 onto the xz-plane.
func Vec2Of(v Vec3) Vec2 { return Vec2{v.X(), v.Z()} }

// SignedArea2D returns twice the signed area of the triangle (a, b, c)
// on the xz-plane; positive when the triangle winds counter-clockwise.
func SignedArea2D(a, b, c Vec3) float32 {
	abx := b.X() - a.X()
	abz := b.Z() - a.Z()
	acx := c.X() - a.X()
	acz := c.Z() - a.Z()
	return abx*acz - acx*abz
}

// Clamp clamps v between lo and hi.
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
