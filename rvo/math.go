// Package rvo implements 2D multi-agent collision avoidance: half-plane
// (ORCA) construction per neighboring agent and obstacle edge, an
// incremental linear-program solver, and the KD-tree / BSP spatial
// indexes that feed it candidate neighbors.
package rvo

import "github.com/aurelien-rainone/math32"

// Epsilon is the tolerance used throughout the solver for near-parallel
// line tests and "already covered" checks.
const Epsilon = 0.00001

// MaxLeafSize bounds the number of agents stored at a KD-tree leaf
// before it is split further.
const MaxLeafSize = 10

// Vec2 is a planar (x, z projected onto x, y here) vector used
// throughout the avoidance solver. Agents and obstacles live on the
// navmesh's horizontal plane, so RVO operates in 2D.
type Vec2 struct {
	X, Y float32
}

func V2(x, y float32) Vec2 { return Vec2{x, y} }

func (a Vec2) Add(b Vec2) Vec2   { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2   { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Negate() Vec2      { return Vec2{-a.X, -a.Y} }
func (a Vec2) Scale(s float32) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Perp returns a vector rotated -90 degrees from a (the (y, -x) used
// repeatedly when turning a direction into an ORCA line normal).
func (a Vec2) Perp() Vec2 { return Vec2{a.Y, -a.X} }

func Dot(a, b Vec2) float32 { return a.X*b.X + a.Y*b.Y }

// Det is the 2D cross product a.x*b.y - a.y*b.x.
func Det(a, b Vec2) float32 { return a.X*b.Y - a.Y*b.X }

func AbsSq(a Vec2) float32 { return Dot(a, a) }

func Length(a Vec2) float32 { return math32.Sqrt(AbsSq(a)) }

func Normalize(a Vec2) Vec2 {
	l := Length(a)
	if l < Epsilon {
		return Vec2{}
	}
	return a.Scale(1 / l)
}

// LeftOf reports the signed area of the triangle (a, b, c): positive
// when c lies to the left of the directed line a->b.
func LeftOf(a, b, c Vec2) float32 {
	return Det(a.Sub(c), b.Sub(a))
}

// DistSqPointLineSegment returns the squared distance from c to the
// closest point on segment [a, b].
func DistSqPointLineSegment(a, b, c Vec2) float32 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	r := Dot(ac, ab) / AbsSq(ab)
	if r < 0 {
		return AbsSq(ac)
	}
	if r > 1 {
		return AbsSq(c.Sub(b))
	}
	closest := a.Add(ab.Scale(r))
	return AbsSq(c.Sub(closest))
}

// Line is a directed line described by a point on it and a unit
// direction; ORCA half-planes and obstacle edges share this shape.
type Line struct {
	Point     Vec2
	Direction Vec2
}
