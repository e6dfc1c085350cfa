package geom

// Triangle is a 3D triangle with precomputed edge-basis quantities used
// by ClosestPoint.
type Triangle struct {
	V0, V1, V2 Vec3

	aabb   AABB3
	center Vec3

	e1, e2 Vec3
	a, b, c, det float32
}

// NewTriangle builds a Triangle from its three vertices, precomputing
// the edge basis used by ClosestPoint.
func NewTriangle(v0, v1, v2 Vec3) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2}

	t.e1 = v1.Sub(v0)
	t.e2 = v2.Sub(v0)
	t.a = t.e1.Dot(t.e1)
	t.b = t.e1.Dot(t.e2)
	t.c = t.e2.Dot(t.e2)
	t.det = t.a*t.c - t.b*t.b

	t.center = NewVec3XYZ(
		(v0.X()+v1.X()+v2.X())/3,
		(v0.Y()+v1.Y()+v2.Y())/3,
		(v0.Z()+v1.Z()+v2.Z())/3,
	)

	t.aabb = NewAABB3(v0).Extend(v1).Extend(v2)
	return t
}

// AABB returns the triangle's bounding box.
func (t *Triangle) AABB() AABB3 { return t.aabb }

// Center returns the triangle's centroid.
func (t *Triangle) Center() Vec3 { return t.center }

// ClosestPoint projects p onto the triangle's plane using the
// edge-basis (e1, e2) and classifies it against the triangle's region
// graph (interior, three vertex regions, three edge regions), clamping
// (s, t) accordingly. The result always lies inside or on the triangle.
func (t *Triangle) ClosestPoint(p Vec3) Vec3 {
	pv0 := t.V0.Sub(p)
	d := t.e1.Dot(pv0)
	e := t.e2.Dot(pv0)
	s := t.b*e - t.c*d
	tt := t.b*d - t.a*e

	switch {
	case s+tt < t.det:
		switch {
		case s < 0:
			switch {
			case tt < 0:
				if d < 0 {
					s = Clamp(-d/t.a, 0, 1)
					tt = 0
				} else {
					s = 0
					tt = Clamp(-e/t.c, 0, 1)
				}
			default:
				s = 0
				tt = Clamp(-e/t.c, 0, 1)
			}
		case tt < 0:
			s = Clamp(-d/t.a, 0, 1)
			tt = 0
		default:
			invDet := 1 / t.det
			s *= invDet
			tt *= invDet
		}
	default:
		switch {
		case s < 0:
			tmp0 := t.b + d
			tmp1 := t.c + e
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				denom := t.a - 2*t.b + t.c
				s = Clamp(numer/denom, 0, 1)
				tt = 1 - s
			} else {
				tt = Clamp(-e/t.c, 0, 1)
				s = 0
			}
		case tt < 0:
			if t.a+d > t.b+e {
				numer := t.c + e - t.b - d
				denom := t.a - 2*t.b + t.c
				s = Clamp(numer/denom, 0, 1)
				tt = 1 - s
			} else {
				s = Clamp(-d/t.a, 0, 1)
				tt = 0
			}
		default:
			numer := t.c + e - t.b - d
			denom := t.a - 2*t.b + t.c
			s = Clamp(numer/denom, 0, 1)
			tt = 1 - s
		}
	}

	return NewVec3XYZ(
		t.V0.X()+s*t.e1.X()+tt*t.e2.X(),
		t.V0.Y()+s*t.e1.Y()+tt*t.e2.Y(),
		t.V0.Z()+s*t.e1.Z()+tt*t.e2.Z(),
	)
}

// RayIntersect performs a Möller-Trumbore ray-triangle intersection.
// Parallel rays and intersections behind the ray origin report no hit;
// the triangle is hit from either side, whatever its winding.
func (t *Triangle) RayIntersect(origin, dir Vec3) (hit Vec3, ok bool) {
	const epsilon = 1e-7

	pvec := dir.Cross(t.e2)
	det := t.e1.Dot(pvec)
	if det > -epsilon && det < epsilon {
		return NewVec3(), false
	}
	invDet := 1 / det

	tvec := origin.Sub(t.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return NewVec3(), false
	}

	qvec := tvec.Cross(t.e1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return NewVec3(), false
	}

	dist := t.e2.Dot(qvec) * invDet
	if dist < 0 {
		return NewVec3(), false
	}

	return origin.Add(dir.Scale(dist)), true
}

// Normal returns the triangle's unit face normal.
func (t *Triangle) Normal() Vec3 {
	n := t.e1.Cross(t.e2)
	n.Normalize()
	return n
}
