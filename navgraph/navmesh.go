package navgraph

import "github.com/arl/pathfinder3d/geom"

// Navmesh owns the polygon node array, the per-group dual graphs and
// the group assignment produced by BuildAdjacency/AssignGroups. It is
// immutable once Build returns.
type Navmesh struct {
	Verts []geom.Vec3
	Nodes []*Node

	Groups [][]int // group id -> member node ids
	Graphs []*Graph // group id -> dual graph
}

// Build constructs the full adjacency/group/graph structure for a
// polygon soup: node creation, adjacency linking, connected-component
// grouping, and one dual graph per group.
func Build(verts []geom.Vec3, polys [][]int) *Navmesh {
	nm := &Navmesh{Verts: verts}
	nm.Nodes = make([]*Node, len(polys))
	for i, p := range polys {
		nm.Nodes[i] = NewNode(verts, i, p)
	}

	BuildAdjacency(nm.Nodes, len(verts))
	nm.Groups = AssignGroups(nm.Nodes)

	nm.Graphs = make([]*Graph, len(nm.Groups))
	for gi, members := range nm.Groups {
		nm.Graphs[gi] = NewGraph(nm.Nodes, members)
	}
	return nm
}

// GroupOf returns the group id shared by a and b, or -1 if they are in
// different groups (or either index is out of range).
func (nm *Navmesh) GroupOf(a, b int) int {
	if a < 0 || a >= len(nm.Nodes) || b < 0 || b >= len(nm.Nodes) {
		return -1
	}
	ga, gb := nm.Nodes[a].Group, nm.Nodes[b].Group
	if ga != gb {
		return -1
	}
	return ga
}
