// Package bvh implements the median-split bounding-volume hierarchies
// used for closest-point, point-in-polygon and ray-cast queries over
// the triangle set and the polygon navmesh.
package bvh

import "github.com/arl/pathfinder3d/geom"

// AABBDelta is the slack margin every leaf's AABB is inflated by
// (internal nodes take the union of their children), so a query point
// sitting exactly on a shared edge still matches both neighboring leaves.
const AABBDelta = 0.5

// TriangleBVH is a binary tree over geom.Triangle leaves.
type TriangleBVH struct {
	aabb geom.AABB3
	tri  *geom.Triangle // non-nil at leaves
	left, right *TriangleBVH
}

// BuildTriangleBVH recursively partitions tris by the longer of x/z
// extent at the centroid mean, migrating one element across if a side
// would otherwise be empty.
func BuildTriangleBVH(tris []*geom.Triangle) *TriangleBVH {
	if len(tris) == 0 {
		return nil
	}
	if len(tris) == 1 {
		return &TriangleBVH{aabb: tris[0].AABB().Inflate(AABBDelta), tri: tris[0]}
	}

	axis, median := splitAxisMedianTri(tris)
	var leftSet, rightSet []*geom.Triangle
	for _, t := range tris {
		if compAxis(t.Center(), axis) < median {
			leftSet = append(leftSet, t)
		} else {
			rightSet = append(rightSet, t)
		}
	}
	if len(leftSet) == 0 {
		leftSet = append(leftSet, rightSet[len(rightSet)-1])
		rightSet = rightSet[:len(rightSet)-1]
	} else if len(rightSet) == 0 {
		rightSet = append(rightSet, leftSet[len(leftSet)-1])
		leftSet = leftSet[:len(leftSet)-1]
	}

	left := BuildTriangleBVH(leftSet)
	right := BuildTriangleBVH(rightSet)
	return &TriangleBVH{aabb: left.aabb.Union(right.aabb), left: left, right: right}
}

func splitAxisMedianTri(tris []*geom.Triangle) (axis int, median float32) {
	xmin, xmax := float32(3.4e38), float32(-3.4e38)
	zmin, zmax := float32(3.4e38), float32(-3.4e38)
	var xsum, zsum float32
	for _, t := range tris {
		c := t.Center()
		xsum += c.X()
		zsum += c.Z()
		if c.X() < xmin {
			xmin = c.X()
		}
		if c.X() > xmax {
			xmax = c.X()
		}
		if c.Z() < zmin {
			zmin = c.Z()
		}
		if c.Z() > zmax {
			zmax = c.Z()
		}
	}
	n := float32(len(tris))
	if xmax-xmin > zmax-zmin {
		return 0, xsum / n
	}
	return 2, zsum / n
}

func compAxis(v geom.Vec3, axis int) float32 {
	if axis == 0 {
		return v.X()
	}
	return v.Z()
}

// AABB returns the node's bounding box.
func (n *TriangleBVH) AABB() geom.AABB3 { return n.aabb }

func (n *TriangleBVH) insideAABB3(p geom.Vec3) bool {
	return p.X() > n.aabb.Min.X() && p.Y() > n.aabb.Min.Y() && p.Z() > n.aabb.Min.Z() &&
		p.X() < n.aabb.Max.X() && p.Y() < n.aabb.Max.Y() && p.Z() < n.aabb.Max.Z()
}

// Sample returns the closest point on the triangle set to p. When slow
// is true the AABB prune is skipped so every leaf is visited
// (exhaustive search); otherwise only subtrees whose AABB contains p
// on the xz-plane are descended into.
func (n *TriangleBVH) Sample(p geom.Vec3, slow bool) (geom.Vec3, bool) {
	if n == nil {
		return geom.NewVec3(), false
	}
	if !slow && !n.aabb.Contains2D(p) {
		return geom.NewVec3(), false
	}
	if n.tri != nil {
		return n.tri.ClosestPoint(p), true
	}
	lp, lok := n.left.Sample(p, slow)
	rp, rok := n.right.Sample(p, slow)
	switch {
	case !lok:
		return rp, rok
	case !rok:
		return lp, lok
	default:
		if lp.DistSqr(p) < rp.DistSqr(p) {
			return lp, true
		}
		return rp, true
	}
}

// Raycast returns the closest intersection of the ray (origin, dir)
// with the triangle set, descending subtrees whose AABB the ray's slab
// test intersects.
func (n *TriangleBVH) Raycast(origin, dir geom.Vec3) (geom.Vec3, bool) {
	if n == nil {
		return geom.NewVec3(), false
	}
	if _, _, hit := n.aabb.IntersectRaySlab(origin, dir); !hit {
		return geom.NewVec3(), false
	}
	if n.tri != nil {
		return n.tri.RayIntersect(origin, dir)
	}
	lp, lok := n.left.Raycast(origin, dir)
	rp, rok := n.right.Raycast(origin, dir)
	switch {
	case !lok:
		return rp, rok
	case !rok:
		return lp, lok
	default:
		if lp.DistSqr(origin) < rp.DistSqr(origin) {
			return lp, true
		}
		return rp, true
	}
}
