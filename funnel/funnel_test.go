package funnel

import (
	"testing"

	"github.com/arl/pathfinder3d/geom"
	"github.com/stretchr/testify/assert"
)

func TestStringPullEndpoints(t *testing.T) {
	start := geom.NewVec3XYZ(0, 0, 0)
	finish := geom.NewVec3XYZ(4, 0, 0)
	portals := []Portal{
		{Left: geom.NewVec3XYZ(1, 0, -1), Right: geom.NewVec3XYZ(1, 0, 1)},
		{Left: geom.NewVec3XYZ(3, 0, -1), Right: geom.NewVec3XYZ(3, 0, 1)},
	}
	path := StringPull(start, portals, finish)
	assert.True(t, vEqual(path[0], start))
	assert.True(t, vEqual(path[len(path)-1], finish))
}

func TestStringPullStraightCorridor(t *testing.T) {
	// a straight corridor: the funnel should collapse to just start,
	// finish (no portal constrains the straight line).
	start := geom.NewVec3XYZ(0, 0, 0)
	finish := geom.NewVec3XYZ(10, 0, 0)
	portals := []Portal{
		{Left: geom.NewVec3XYZ(5, 0, -5), Right: geom.NewVec3XYZ(5, 0, 5)},
	}
	path := StringPull(start, portals, finish)
	assert.Len(t, path, 2)
}
