package bvh

import (
	"testing"

	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/navgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleBVHClosestPoint(t *testing.T) {
	tris := []*geom.Triangle{
		geom.NewTriangle(geom.NewVec3XYZ(0, 0, 0), geom.NewVec3XYZ(1, 0, 0), geom.NewVec3XYZ(0, 0, 1)),
		geom.NewTriangle(geom.NewVec3XYZ(2, 0, 0), geom.NewVec3XYZ(3, 0, 0), geom.NewVec3XYZ(2, 0, 1)),
	}
	root := BuildTriangleBVH(tris)
	p, ok := root.Sample(geom.NewVec3XYZ(0.2, 1, 0.2), false)
	require.True(t, ok)
	assert.InDelta(t, 0, p.Y(), 1e-5)
}

func TestTriangleBVHRaycast(t *testing.T) {
	tris := []*geom.Triangle{
		geom.NewTriangle(geom.NewVec3XYZ(-1, 0, -1), geom.NewVec3XYZ(1, 0, -1), geom.NewVec3XYZ(-1, 0, 1)),
		geom.NewTriangle(geom.NewVec3XYZ(1, 0, -1), geom.NewVec3XYZ(1, 0, 1), geom.NewVec3XYZ(-1, 0, 1)),
	}
	root := BuildTriangleBVH(tris)

	hit, ok := root.Raycast(geom.NewVec3XYZ(0.5, 1, 0.5), geom.NewVec3XYZ(0, -1, 0))
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Y(), 1e-5)

	_, missed := root.Raycast(geom.NewVec3XYZ(-5, 1, -5), geom.NewVec3XYZ(0, -1, 0))
	assert.False(t, missed)
}

func TestPolygonBVHSampleCompleteness(t *testing.T) {
	verts := []geom.Vec3{
		geom.NewVec3XYZ(0, 0, 0), geom.NewVec3XYZ(1, 0, 0), geom.NewVec3XYZ(1, 0, 1), geom.NewVec3XYZ(0, 0, 1),
		geom.NewVec3XYZ(2, 0, 0), geom.NewVec3XYZ(2, 0, 1),
	}
	nodes := []*navgraph.Node{
		navgraph.NewNode(verts, 0, []int{0, 1, 2, 3}),
		navgraph.NewNode(verts, 1, []int{1, 4, 5, 2}),
	}
	tree := BuildPolygonBVH(nodes)

	got := tree.Sample(geom.NewVec3XYZ(0.5, 0, 0.5))
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Index)

	got2 := tree.Sample(geom.NewVec3XYZ(1.5, 0, 0.5))
	require.NotNil(t, got2)
	assert.Equal(t, 1, got2.Index)

	assert.Nil(t, tree.Sample(geom.NewVec3XYZ(50, 0, 50)))
}
