package navgraph

import "github.com/arl/pathfinder3d/geom"

// Graph is the per-group dual graph: vertices are polygon centers,
// edges are neighbor pairs, edge cost is the 3D Euclidean distance
// between centers.
type Graph struct {
	nodes   []*Node // shared with the owning navmesh; indices are node ids
	members []int   // node ids belonging to this group, in the order AssignGroups visited them
	index   map[int]int
	adj     map[int][]int
}

// NewGraph builds the dual graph for one connected component.
func NewGraph(nodes []*Node, members []int) *Graph {
	g := &Graph{nodes: nodes, members: append([]int(nil), members...)}
	g.index = make(map[int]int, len(members))
	for i, m := range members {
		g.index[m] = i
	}
	g.adj = make(map[int][]int, len(members))
	for _, m := range members {
		for _, nb := range nodes[m].Neighbors {
			g.adj[m] = append(g.adj[m], nb.Node)
		}
	}
	return g
}

// Members returns the node ids in this group.
func (g *Graph) Members() []int { return g.members }

func dist(nodes []*Node, a, b int) float32 {
	return nodes[a].Center.Dist(nodes[b].Center)
}

// FindPath runs A* between start and end node ids (both must belong to
// this group). The open set is scanned linearly for the minimum f; a
// node still open may be reopened if a better g is found. Returns the
// node-id path from start to end inclusive, or nil if unreachable.
func (g *Graph) FindPath(start, end int) []int {
	if len(g.members) == 0 {
		return nil
	}

	g_, h, f := map[int]float32{}, map[int]float32{}, map[int]float32{}
	parent := map[int]int{}
	closed := map[int]bool{}
	inOpen := map[int]bool{}

	for _, m := range g.members {
		h[m] = dist(g.nodes, m, end)
		parent[m] = -1
	}

	open := []int{start}
	inOpen[start] = true
	g_[start] = 0
	f[start] = h[start]

	for len(open) > 0 {
		minIdx := 0
		for i := 1; i < len(open); i++ {
			if f[open[i]] < f[open[minIdx]] {
				minIdx = i
			}
		}
		cur := open[minIdx]
		open = append(open[:minIdx], open[minIdx+1:]...)
		inOpen[cur] = false
		closed[cur] = true

		if cur == end {
			var path []int
			for v := cur; v != -1; v = parent[v] {
				path = append([]int{v}, path...)
				if v == start {
					break
				}
			}
			return path
		}

		for _, child := range g.adj[cur] {
			if closed[child] {
				continue
			}
			cand := g_[cur] + dist(g.nodes, cur, child)
			if !inOpen[child] {
				parent[child] = cur
				g_[child] = cand
				f[child] = cand + h[child]
				open = append(open, child)
				inOpen[child] = true
			} else if cand < g_[child] {
				parent[child] = cur
				g_[child] = cand
				f[child] = cand + h[child]
			}
		}
	}
	return nil
}

// PathLength returns the total Euclidean length of a node-id path's
// polygon centers.
func (g *Graph) PathLength(path []int) float32 {
	var total float32
	for i := 1; i < len(path); i++ {
		total += dist(g.nodes, path[i-1], path[i])
	}
	return total
}

// KShortestPaths enumerates every simple path from minPath's endpoints
// whose total length is <= multiplier * PathLength(minPath), by breadth-first
// expansion that forbids revisiting a vertex within the same partial
// path (cycles across different emitted paths are allowed). Expansion
// is capped at kShortestStepCap partial paths, to bound the worst case
// on a densely connected group.
const kShortestStepCap = 1000

func (g *Graph) KShortestPaths(minPath []int, multiplier float32) [][]int {
	if len(minPath) == 0 {
		return nil
	}
	start, end := minPath[0], minPath[len(minPath)-1]
	limit := g.PathLength(minPath) * multiplier

	type partial struct {
		nodes []int
		len   float32
	}

	var results [][]int
	queue := []partial{{nodes: []int{start}, len: 0}}
	steps := 0

	visited := func(path []int, v int) bool {
		for _, p := range path {
			if p == v {
				return true
			}
		}
		return false
	}

	for len(queue) > 0 && steps < kShortestStepCap {
		steps++
		cur := queue[0]
		queue = queue[1:]

		last := cur.nodes[len(cur.nodes)-1]
		if last == end && len(cur.nodes) > 1 {
			results = append(results, append([]int(nil), cur.nodes...))
		}
		for _, child := range g.adj[last] {
			if visited(cur.nodes, child) {
				continue
			}
			newLen := cur.len + dist(g.nodes, last, child)
			if newLen > limit {
				continue
			}
			newPath := append(append([]int(nil), cur.nodes...), child)
			queue = append(queue, partial{nodes: newPath, len: newLen})
		}
	}
	return results
}
