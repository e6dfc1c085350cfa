package navgraph

import "github.com/aurelien-rainone/assertgo"

// BuildAdjacency constructs neighbor links and portals between every
// pair of nodes that share an edge. For each vertex it records the list
// of incident polygons, then for each directed polygon edge (u, v) it
// intersects the incident-polygon lists of u and v: an intersection of
// size 2 is a manifold shared edge, 0 or 1 is a mesh boundary, and more
// than 2 is a non-manifold edge that gets no adjacency link but doesn't
// otherwise stop the build.
func BuildAdjacency(nodes []*Node, vertexCount int) {
	incident := make([][]int, vertexCount)
	for _, n := range nodes {
		for _, vi := range n.Vertices {
			incident[vi] = append(incident[vi], n.Index)
		}
	}

	for _, n := range nodes {
		verts := n.Vertices
		size := len(verts)
		for i := 0; i < size; i++ {
			u := verts[i]
			v := verts[(i+1)%size]
			common := intersect(incident[u], incident[v])
			switch len(common) {
			case 2:
				var other int
				found := false
				for _, c := range common {
					if c != n.Index {
						other = c
						found = true
					}
				}
				if found {
					n.AddNeighbor(other, n.positions[i], n.positions[(i+1)%size])
				}
			default:
				// 0 or 1: boundary edge, nothing to link.
				// >2: non-manifold edge; skip the adjacency link and
				// leave the navmesh built anyway.
			}
		}
	}

	assertInvariant(nodes)
}

func intersect(a, b []int) []int {
	var out []int
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

// assertInvariant checks adjacency symmetry: for every node P and
// neighbor Q, Q's neighbor list contains P.
func assertInvariant(nodes []*Node) {
	for _, n := range nodes {
		for _, nb := range n.Neighbors {
			other := nodes[nb.Node]
			_, _, ok := other.Portal(n.Index)
			assert.True(ok)
		}
	}
}

// AssignGroups flood-fills connected components over the neighbor
// graph using an explicit worklist (not recursion, per the Design
// Notes on large-mesh stack safety) and returns, for each group id, the
// list of node indices belonging to it.
func AssignGroups(nodes []*Node) [][]int {
	var groups [][]int
	for _, start := range nodes {
		if start.Group != NoGroup {
			continue
		}
		groupIdx := len(groups)
		var members []int
		stack := []int{start.Index}
		start.Group = groupIdx
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, cur)
			for _, nb := range nodes[cur].Neighbors {
				if nodes[nb.Node].Group == NoGroup {
					nodes[nb.Node].Group = groupIdx
					stack = append(stack, nb.Node)
				}
			}
		}
		groups = append(groups, members)
	}
	return groups
}
