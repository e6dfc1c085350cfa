package navgraph

import (
	"testing"

	"github.com/arl/pathfinder3d/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a flat 2x2 quad grid, four cells sharing a center vertex, used
// throughout this file.
func quadGrid() (verts []geom.Vec3, polys [][]int) {
	verts = []geom.Vec3{
		geom.NewVec3XYZ(0, 0, 0), geom.NewVec3XYZ(1, 0, 0), geom.NewVec3XYZ(2, 0, 0),
		geom.NewVec3XYZ(0, 0, 1), geom.NewVec3XYZ(1, 0, 1), geom.NewVec3XYZ(2, 0, 1),
		geom.NewVec3XYZ(0, 0, 2), geom.NewVec3XYZ(1, 0, 2), geom.NewVec3XYZ(2, 0, 2),
	}
	polys = [][]int{
		{0, 1, 4, 3},
		{1, 2, 5, 4},
		{3, 4, 7, 6},
		{4, 5, 8, 7},
	}
	return
}

func TestAdjacencySymmetry(t *testing.T) {
	verts, polys := quadGrid()
	nm := Build(verts, polys)

	for _, n := range nm.Nodes {
		for _, nb := range n.Neighbors {
			other := nm.Nodes[nb.Node]
			left, right, ok := other.Portal(n.Index)
			require.True(t, ok, "neighbor %d of %d must list it back", nb.Node, n.Index)
			assert.True(t, left.Approx(nb.PortalRight) || left.Approx(nb.PortalLeft),
				"mirrored portal endpoints should match")
			_ = right
		}
	}
}

func TestGroupClosure(t *testing.T) {
	verts, polys := quadGrid()
	nm := Build(verts, polys)
	require.Len(t, nm.Groups, 1, "fully connected grid is one group")

	// a disjoint square, far away, forms a second group.
	disjoint := []geom.Vec3{
		geom.NewVec3XYZ(100, 0, 100), geom.NewVec3XYZ(101, 0, 100),
		geom.NewVec3XYZ(101, 0, 101), geom.NewVec3XYZ(100, 0, 101),
	}
	verts2 := append(append([]geom.Vec3(nil), verts...), disjoint...)
	polys2 := append(append([][]int(nil), polys...), []int{8, 9, 10, 11})
	nm2 := Build(verts2, polys2)
	require.Len(t, nm2.Groups, 2)
}

func TestFindPathOptimality(t *testing.T) {
	verts, polys := quadGrid()
	nm := Build(verts, polys)
	g := nm.Graphs[0]

	path := g.FindPath(0, 3)
	require.NotEmpty(t, path)
	assert.Equal(t, 0, path[0])
	assert.Equal(t, 3, path[len(path)-1])
	// 0 and 3 only share a corner, so the shortest route crosses one
	// side cell: two unit hops between centers.
	assert.Len(t, path, 3)
	assert.InDelta(t, 2, g.PathLength(path), 1e-5)
}

func TestFindPathUnreachable(t *testing.T) {
	verts := []geom.Vec3{
		geom.NewVec3XYZ(0, 0, 0), geom.NewVec3XYZ(1, 0, 0), geom.NewVec3XYZ(1, 0, 1), geom.NewVec3XYZ(0, 0, 1),
		geom.NewVec3XYZ(10, 8, 0), geom.NewVec3XYZ(11, 8, 0), geom.NewVec3XYZ(11, 8, 1), geom.NewVec3XYZ(10, 8, 1),
	}
	polys := [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}
	nm := Build(verts, polys)
	require.Len(t, nm.Groups, 2)
	assert.Equal(t, -1, nm.GroupOf(0, 1))
	assert.Empty(t, nm.Graphs[nm.Nodes[0].Group].FindPath(0, 1))
}
