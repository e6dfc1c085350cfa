package bvh

import (
	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/navgraph"
)

// PolygonBVH is a binary tree over navgraph.Node leaves, used to sample
// the polygon enclosing a point.
type PolygonBVH struct {
	aabb geom.AABB3
	node *navgraph.Node
	left, right *PolygonBVH
}

// BuildPolygonBVH builds the tree over every node of a navmesh (or one
// group of it).
func BuildPolygonBVH(nodes []*navgraph.Node) *PolygonBVH {
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		n := nodes[0]
		pts := n.Positions()
		box := geom.NewAABB3(pts[0])
		for _, v := range pts[1:] {
			box = box.Extend(v)
		}
		return &PolygonBVH{aabb: box.Inflate(AABBDelta), node: n}
	}

	axis, median := splitAxisMedianNode(nodes)
	var leftSet, rightSet []*navgraph.Node
	for _, n := range nodes {
		if compAxis(n.Center, axis) < median {
			leftSet = append(leftSet, n)
		} else {
			rightSet = append(rightSet, n)
		}
	}
	if len(leftSet) == 0 {
		leftSet = append(leftSet, rightSet[len(rightSet)-1])
		rightSet = rightSet[:len(rightSet)-1]
	} else if len(rightSet) == 0 {
		rightSet = append(rightSet, leftSet[len(leftSet)-1])
		leftSet = leftSet[:len(leftSet)-1]
	}

	left := BuildPolygonBVH(leftSet)
	right := BuildPolygonBVH(rightSet)
	return &PolygonBVH{aabb: left.aabb.Union(right.aabb), left: left, right: right}
}

func splitAxisMedianNode(nodes []*navgraph.Node) (axis int, median float32) {
	xmin, xmax := float32(3.4e38), float32(-3.4e38)
	zmin, zmax := float32(3.4e38), float32(-3.4e38)
	var xsum, zsum float32
	for _, n := range nodes {
		c := n.Center
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
	n := float32(len(nodes))
	if xmax-xmin > zmax-zmin {
		return 0, xsum / n
	}
	return 2, zsum / n
}

// AABB returns the node's bounding box.
func (n *PolygonBVH) AABB() geom.AABB3 { return n.aabb }

func (n *PolygonBVH) insideAABB3(p geom.Vec3) bool {
	return p.X() > n.aabb.Min.X() && p.Y() > n.aabb.Min.Y() && p.Z() > n.aabb.Min.Z() &&
		p.X() < n.aabb.Max.X() && p.Y() < n.aabb.Max.Y() && p.Z() < n.aabb.Max.Z()
}

// Sample returns the polygon node enclosing p, or nil if p is outside
// every leaf's AABB or fails every point-in-polygon test. Ties between
// overlapping leaves are broken by picking the candidate with the
// smaller plane-distance to p.
func (n *PolygonBVH) Sample(p geom.Vec3) *navgraph.Node {
	if n == nil || !n.insideAABB3(p) {
		return nil
	}
	if n.node != nil {
		if n.node.IsPointInside(p) {
			return n.node
		}
		return nil
	}
	l := n.left.Sample(p)
	r := n.right.Sample(p)
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	default:
		ld := planeDist(p, l)
		rd := planeDist(p, r)
		if ld < rd {
			return l
		}
		return r
	}
}

func planeDist(p geom.Vec3, n *navgraph.Node) float32 {
	d := p.Sub(n.Center).Dot(n.Normal)
	if d < 0 {
		return -d
	}
	return d
}
