package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/pathfinder3d/geom"
)

func squareGrid() ([]geom.Vec3, [][]int) {
	verts := []geom.Vec3{
		geom.NewVec3XYZ(1, 0, 1), geom.NewVec3XYZ(-1, 0, 1), geom.NewVec3XYZ(-1, 0, -1), geom.NewVec3XYZ(1, 0, -1),
		geom.NewVec3XYZ(0, 0, 1), geom.NewVec3XYZ(0, 0, -1),
	}
	polys := [][]int{{0, 3, 5, 4}, {4, 5, 2, 1}}
	return verts, polys
}

func TestSearchPathAcrossTwoPolygons(t *testing.T) {
	verts, polys := squareGrid()
	pf := New(verts, polys, DefaultParams())

	path, st := pf.SearchPath(geom.NewVec3XYZ(0.5, 0, 0.5), geom.NewVec3XYZ(-0.5, 0, -0.5))
	require.True(t, st.OK())
	require.NotEmpty(t, path)
	assert.InDelta(t, 0.5, path[0].X(), 1e-5)
	assert.InDelta(t, -0.5, path[len(path)-1].X(), 1e-5)
}

func TestSearchPathOutsideMesh(t *testing.T) {
	verts, polys := squareGrid()
	pf := New(verts, polys, DefaultParams())

	_, st := pf.SearchPath(geom.NewVec3XYZ(50, 0, 50), geom.NewVec3XYZ(0, 0, 0))
	assert.True(t, st.Failed())
}

func TestAddAgentAndUpdateMovesTowardDestination(t *testing.T) {
	verts, polys := squareGrid()
	params := DefaultParams()
	params.AgentRadius = 0.05
	pf := New(verts, polys, params)

	id, st := pf.AddAgent(geom.NewVec3XYZ(0.8, 0, 0.8), 0.05, 1.0)
	require.True(t, st.OK())

	st = pf.SetAgentDestination(id, geom.NewVec3XYZ(-0.8, 0, -0.8))
	require.True(t, st.OK())

	start, _ := pf.AgentPosition(id)
	for i := 0; i < 50; i++ {
		pf.Update(0.05)
	}
	end, _ := pf.AgentPosition(id)

	startDist := (0.8-start.X)*(0.8-start.X) + (0.8-start.Y)*(0.8-start.Y)
	endDist := (0.8-end.X)*(0.8-end.X) + (0.8-end.Y)*(0.8-end.Y)
	assert.Greater(t, endDist, startDist)
}

func TestDeleteAgent(t *testing.T) {
	verts, polys := squareGrid()
	pf := New(verts, polys, DefaultParams())

	id, st := pf.AddAgent(geom.NewVec3XYZ(0.5, 0, 0.5), 0.1, 1.0)
	require.True(t, st.OK())
	assert.Equal(t, 1, pf.AgentCount())

	pf.DeleteAgent(id)
	pf.Update(0.016)
	assert.Equal(t, 0, pf.AgentCount())
}
