package rvo

import "sort"

// DefaultAgentParams bundles the parameters new agents fall back to
// when not overridden at AddAgent time.
type DefaultAgentParams struct {
	NeighborDist    float32
	MaxNeighbors    int
	TimeHorizon     float32
	TimeHorizonObst float32
	Radius          float32
	MaxSpeed        float32
}

// Simulator owns one group's agents, static obstacles and spatial
// indexes. PathFinder creates one Simulator per navmesh connected
// component, since agents in different components can never interact.
type Simulator struct {
	defaults DefaultAgentParams

	agents    []*Agent
	obstacles []*Obstacle

	agentTree    *agentKDTree
	obstacleTree *obstacleBSP
}

// NewSimulator creates an empty simulator with the given default agent
// parameters.
func NewSimulator(defaults DefaultAgentParams) *Simulator {
	return &Simulator{defaults: defaults}
}

// AddAgent adds a new agent at position with the given radius and max
// speed, falling back to the simulator defaults for the other
// parameters, and returns its index within this simulator.
func (s *Simulator) AddAgent(position Vec2, radius, maxSpeed float32) int {
	a := &Agent{
		Position:        position,
		Radius:          radius,
		MaxSpeed:        maxSpeed,
		NeighborDist:    s.defaults.NeighborDist,
		MaxNeighbors:    s.defaults.MaxNeighbors,
		TimeHorizon:     s.defaults.TimeHorizon,
		TimeHorizonObst: s.defaults.TimeHorizonObst,
	}
	s.agents = append(s.agents, a)
	return len(s.agents) - 1
}

// DeleteAgents removes the agents at the given simulator-local indices.
// indices must be sorted ascending.
func (s *Simulator) DeleteAgents(indices []int) {
	if len(indices) == 0 {
		return
	}
	sort.Ints(indices)
	for i := len(indices) - 1; i >= 0; i-- {
		idx := indices[i]
		s.agents = append(s.agents[:idx], s.agents[idx+1:]...)
	}
}

// AddObstacle registers a closed polygonal obstacle chain (given as
// consecutive 2D points, last implicitly connected to first) and
// returns the chain's first Obstacle vertex.
func (s *Simulator) AddObstacle(points []Vec2) *Obstacle {
	if len(points) < 2 {
		return nil
	}
	obstacleID := len(s.obstacles)
	chain := make([]*Obstacle, len(points))
	for i, p := range points {
		chain[i] = &Obstacle{Point: p, ID: obstacleID + i}
	}
	n := len(chain)
	for i, o := range chain {
		o.Next = chain[(i+1)%n]
		o.Prev = chain[(i-1+n)%n]
		o.SetUnitDir(o.Point, o.Next.Point)
		o.SetConvex(o.Prev.Point, o.Point, o.Next.Point)
	}
	s.obstacles = append(s.obstacles, chain...)
	return chain[0]
}

// ProcessObstacles finalizes the obstacle set after every AddObstacle
// call for this simulator, building the obstacle BSP.
func (s *Simulator) ProcessObstacles() {
	s.obstacleTree = buildObstacleBSP(s.obstacles)
}

// QueryVisibility reports whether the segment [q1, q2] has clearance
// radius from every static obstacle.
func (s *Simulator) QueryVisibility(q1, q2 Vec2, radius float32) bool {
	if s.obstacleTree == nil {
		return true
	}
	return s.obstacleTree.queryVisibility(q1, q2, radius)
}

func (s *Simulator) AgentPosition(i int) Vec2 { return s.agents[i].Position }

func (s *Simulator) SetAgentPrefVelocity(i int, v Vec2) { s.agents[i].PrefVelocity = v }

func (s *Simulator) AgentCount() int { return len(s.agents) }

// Simulate advances every agent in this simulator by deltaTime: rebuild
// the spatial indexes, compute neighbors and new velocities for every
// agent, then commit. New velocities are computed from a consistent
// snapshot of all positions before any agent moves, so the result does
// not depend on iteration order.
func (s *Simulator) Simulate(deltaTime float32, moveAgents bool) {
	s.agentTree = buildAgentKDTree(s.agents)

	for _, a := range s.agents {
		a.computeNeighbors(s.obstacleTree, s.agentTree)
	}
	for _, a := range s.agents {
		a.computeNewVelocity(deltaTime)
	}
	for _, a := range s.agents {
		a.update(deltaTime, moveAgents)
	}
}
