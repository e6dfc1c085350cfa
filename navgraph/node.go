// Package navgraph builds the polygon adjacency graph over a baked
// navmesh: node construction, connected-component grouping, the
// per-group dual graph, A* search and k-shortest path enumeration.
package navgraph

import (
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/arl/pathfinder3d/geom"
)

// NoGroup marks a node whose group has not yet been assigned.
const NoGroup = -1

// Neighbor is one adjacency link: the neighbor's node index and the
// shared-edge portal, oriented consistently with this node's winding
// (the mirror image is stored on the other side).
type Neighbor struct {
	Node         int
	PortalLeft   geom.Vec3
	PortalRight  geom.Vec3
}

// Node wraps one navmesh polygon with the adjacency and point-
// containment data the rest of the package needs.
type Node struct {
	Index     int
	Vertices  []int // indices into the shared vertex pool
	Group     int
	Neighbors []Neighbor

	Center geom.Vec3
	Normal geom.Vec3

	vertexNormals []geom.Vec3
	positions     []geom.Vec3 // vertex coordinates, same order as Vertices
}

// NewNode builds a Node for the polygon described by vertIdx (indices
// into verts), assigning it index idx. Center/normal/per-vertex normals
// are precomputed for IsPointInside and the BVH sample tie-break.
func NewNode(verts []geom.Vec3, idx int, vertIdx []int) *Node {
	n := &Node{Index: idx, Vertices: append([]int(nil), vertIdx...), Group: NoGroup}

	n.positions = make([]geom.Vec3, len(vertIdx))
	for i, vi := range vertIdx {
		n.positions[i] = verts[vi]
	}
	n.Center = calcCenter(n.positions)
	n.Normal = calcAverageNormal(n.Center, n.positions)
	n.vertexNormals = calcVertexNormals(n.positions)
	return n
}

// AddNeighbor records a shared-edge adjacency link to another node.
func (n *Node) AddNeighbor(other int, v0, v1 geom.Vec3) {
	for _, nb := range n.Neighbors {
		if nb.Node == other {
			return
		}
	}
	n.Neighbors = append(n.Neighbors, Neighbor{Node: other, PortalLeft: v0, PortalRight: v1})
}

// Positions returns the polygon's vertex coordinates, in winding order.
func (n *Node) Positions() []geom.Vec3 { return n.positions }

// Portal returns the portal shared with the given neighbor node, and
// whether that neighbor exists.
func (n *Node) Portal(other int) (left, right geom.Vec3, ok bool) {
	for _, nb := range n.Neighbors {
		if nb.Node == other {
			return nb.PortalLeft, nb.PortalRight, true
		}
	}
	return nil, nil, false
}

// IsPointInside reports whether p lies inside the polygon, tested by
// the sign of each edge's cross product with p dotted against that
// corner's face normal (the cross product of the edge and the next
// vertex, precomputed by NewNode).
func (n *Node) IsPointInside(p geom.Vec3) bool {
	size := len(n.positions)
	for i := 0; i < size; i++ {
		u := n.positions[i]
		v := n.positions[(i+1)%size]
		edge := v.Sub(u)
		up := p.Sub(u)
		cross := edge.Cross(up)
		if cross.Dot(n.vertexNormals[i]) < 0 {
			return false
		}
	}
	return true
}

func calcCenter(pts []geom.Vec3) geom.Vec3 {
	s := geom.NewVec3()
	for _, p := range pts {
		d3.Vec3Add(s, s, p)
	}
	return s.Scale(1 / float32(len(pts)))
}

func calcVertexNormals(pts []geom.Vec3) []geom.Vec3 {
	size := len(pts)
	out := make([]geom.Vec3, size)
	for i := 0; i < size; i++ {
		u := pts[i]
		v := pts[(i+1)%size]
		w := pts[(i+2)%size]
		n := v.Sub(u).Cross(w.Sub(u))
		n.Normalize()
		out[i] = n
	}
	return out
}

func calcAverageNormal(center geom.Vec3, pts []geom.Vec3) geom.Vec3 {
	n := geom.NewVec3()
	size := len(pts)
	for i := 0; i < size; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%size]
		c := p0.Sub(center).Cross(p1.Sub(center))
		d3.Vec3Add(n, n, c)
	}
	n.Normalize()
	return n
}
