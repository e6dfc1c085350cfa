package rvo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeftOf(t *testing.T) {
	a := V2(0, 0)
	b := V2(1, 0)
	c := V2(0, 1)
	assert.Greater(t, LeftOf(a, b, c), float32(0))
	assert.Less(t, LeftOf(a, b, V2(0, -1)), float32(0))
}

func TestLinearProgram1Feasible(t *testing.T) {
	lines := []Line{
		{Point: V2(1, 0), Direction: V2(0, 1)},
	}
	result, ok := linearProgram1(lines, 0, 5, V2(1, 0), false, V2(0, 0))
	assert.True(t, ok)
	assert.InDelta(t, 1, result.X, 1e-4)
}

func TestTwoAgentsAvoidCollision(t *testing.T) {
	sim := NewSimulator(DefaultAgentParams{
		NeighborDist: 10, MaxNeighbors: 5, TimeHorizon: 2, TimeHorizonObst: 2,
		Radius: 0.5, MaxSpeed: 1,
	})
	i := sim.AddAgent(V2(-5, 0), 0.5, 1)
	j := sim.AddAgent(V2(5, 0), 0.5, 1)
	sim.SetAgentPrefVelocity(i, V2(1, 0))
	sim.SetAgentPrefVelocity(j, V2(-1, 0))

	for step := 0; step < 200; step++ {
		sim.Simulate(0.1, true)
		sim.SetAgentPrefVelocity(i, V2(1, 0))
		sim.SetAgentPrefVelocity(j, V2(-1, 0))
	}

	pi := sim.AgentPosition(i)
	pj := sim.AgentPosition(j)
	dist := Length(pi.Sub(pj))
	assert.GreaterOrEqual(t, dist, float32(0.95))
}

func TestObstacleBlocksVisibility(t *testing.T) {
	sim := NewSimulator(DefaultAgentParams{
		NeighborDist: 10, MaxNeighbors: 5, TimeHorizon: 2, TimeHorizonObst: 2,
		Radius: 0.2, MaxSpeed: 1,
	})
	sim.AddObstacle([]Vec2{V2(-1, -5), V2(-1, 5), V2(1, 5), V2(1, -5)})
	sim.ProcessObstacles()

	assert.False(t, sim.QueryVisibility(V2(-10, 0), V2(10, 0), 0.1))
	assert.True(t, sim.QueryVisibility(V2(-10, 20), V2(10, 20), 0.1))
}
