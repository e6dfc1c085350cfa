package geom

import "github.com/aurelien-rainone/gogeo/f32/d3"

// AABB3 is an axis-aligned bounding box with Min <= Max componentwise.
type AABB3 struct {
	Min, Max Vec3
}

// NewAABB3 returns the degenerate AABB at p.
func NewAABB3(p Vec3) AABB3 {
	return AABB3{Min: NewVec3XYZ(p.X(), p.Y(), p.Z()), Max: NewVec3XYZ(p.X(), p.Y(), p.Z())}
}

// Union grows a to also contain b, returning the result.
func (a AABB3) Union(b AABB3) AABB3 {
	out := a
	d3.Vec3Min(out.Min, b.Min)
	d3.Vec3Max(out.Max, b.Max)
	return out
}

// Extend grows a to also contain the point p.
func (a AABB3) Extend(p Vec3) AABB3 {
	out := AABB3{Min: NewVec3XYZ(a.Min.X(), a.Min.Y(), a.Min.Z()), Max: NewVec3XYZ(a.Max.X(), a.Max.Y(), a.Max.Z())}
	d3.Vec3Min(out.Min, p)
	d3.Vec3Max(out.Max, p)
	return out
}

// Inflate grows the box by delta on every axis; used by the BVH package
// to keep a slack margin around tight tree-node bounds.
func (a AABB3) Inflate(delta float32) AABB3 {
	return AABB3{
		Min: NewVec3XYZ(a.Min.X()-delta, a.Min.Y()-delta, a.Min.Z()-delta),
		Max: NewVec3XYZ(a.Max.X()+delta, a.Max.Y()+delta, a.Max.Z()+delta),
	}
}

// Contains2D reports whether p's xz projection lies within a's xz
// extents; y is ignored, matching TriangleBVH.Sample's rule of
// descending only into children whose AABB contains p, tested on the
// horizontal plane.
func (a AABB3) Contains2D(p Vec3) bool {
	return p.X() >= a.Min.X() && p.X() <= a.Max.X() &&
		p.Z() >= a.Min.Z() && p.Z() <= a.Max.Z()
}

// ExtentX returns the box's extent along x.
func (a AABB3) ExtentX() float32 { return a.Max.X() - a.Min.X() }

// ExtentZ returns the box's extent along z.
func (a AABB3) ExtentZ() float32 { return a.Max.Z() - a.Min.Z() }

// LongerAxisXZ reports which of x/z has the larger extent: 0 for x, 2
// for z, matching the direction-index convention used elsewhere for
// axis-aligned offsets.
func (a AABB3) LongerAxisXZ() int {
	if a.ExtentX() >= a.ExtentZ() {
		return 0
	}
	return 2
}

// IntersectRaySlab performs the standard slab test of a ray against a,
// returning the entry/exit parametric distances and whether they
// overlap the box at all.
func (a AABB3) IntersectRaySlab(origin, dir Vec3) (tmin, tmax float32, hit bool) {
	tmin, tmax = 0, maxFloat32
	for axis := 0; axis < 3; axis++ {
		o, d := comp(origin, axis), comp(dir, axis)
		lo, hi := comp(a.Min, axis), comp(a.Max, axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}

func comp(v Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

const maxFloat32 = 3.4028234663852886e+38
