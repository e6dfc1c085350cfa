// Package pathfinder glues the navmesh query core (navgraph, funnel,
// bvh) to the ORCA steering layer (rvo): it builds one rvo.Simulator
// per navmesh connected component, insets the navmesh boundary into
// static RVO obstacles, and drives per-agent path following.
package pathfinder

import (
	"github.com/aurelien-rainone/math32"

	"github.com/arl/pathfinder3d/bvh"
	"github.com/arl/pathfinder3d/funnel"
	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/navgraph"
	"github.com/arl/pathfinder3d/rvo"
	"github.com/arl/pathfinder3d/status"
)

// Params collects the defaults applied to every agent and simulator a
// PathFinder creates, and the path-following policy. Mirrors the
// original's PathFinder constructor keyword arguments; all fields carry
// yaml tags so cmd/simulate can load them from a config file.
type Params struct {
	NeighborDist    float32 `yaml:"neighbor_dist"`
	MaxNeighbors    int     `yaml:"max_neighbors"`
	TimeHorizon     float32 `yaml:"time_horizon"`
	TimeHorizonObst float32 `yaml:"time_horizon_obst"`
	MaxSpeed        float32 `yaml:"max_speed"`
	AgentRadius     float32 `yaml:"agent_radius"`

	// UpdatePathFind is the minimum interval, in seconds, between
	// automatic path re-searches for active agents.
	UpdatePathFind float32 `yaml:"update_path_find"`
	// ContinuousMoving keeps an agent active (re-targeting itself) once
	// it reaches the end of its path instead of deactivating it.
	ContinuousMoving bool `yaml:"continuous_moving"`
	// MoveAgents, when false, computes velocities without integrating
	// agent positions (useful for driving external movement code).
	MoveAgents bool `yaml:"move_agents"`
}

// DefaultParams returns reasonable defaults for every Params field.
func DefaultParams() Params {
	return Params{
		NeighborDist:    1.5,
		MaxNeighbors:    5,
		TimeHorizon:     1.5,
		TimeHorizonObst: 2.0,
		MaxSpeed:        10.0,
		AgentRadius:     0.2,
		UpdatePathFind:  1.0,
		MoveAgents:      true,
	}
}

// PathFinder is the public entry point: it owns the baked navmesh (if
// any), one rvo.Simulator per navmesh group, and every live agent's
// path-follow state.
type PathFinder struct {
	params Params

	verts []geom.Vec3
	mesh  *navgraph.Navmesh
	bvhs  []*bvh.PolygonBVH // one per group, sampling that group's nodes

	simulators []*rvo.Simulator
	obstacles  [][]rvo.Vec2 // the shifted boundary chains actually installed as RVO obstacles

	agents       map[int]*agentState
	nextAgentID  int
	toDelete     []int
	elapsed      float32 // time accumulated since the last update path refresh
}

// agentState is the per-agent bookkeeping PathFinder needs beyond what
// rvo.Simulator tracks: which simulator/group the agent lives in, its
// path-follow state, and its preferred cruise speed.
type agentState struct {
	group   int
	simIdx  int
	speed   float32
	follower follower
}

// New builds a PathFinder over the given navmesh geometry. If verts or
// polys is nil, path finding is disabled and the pathfinder degrades to
// a single RVO simulator on an obstacle-free plane (matching the
// original's "no navmesh" mode).
func New(verts []geom.Vec3, polys [][]int, params Params) *PathFinder {
	pf := &PathFinder{
		params: params,
		agents: make(map[int]*agentState),
	}

	groupCount := 1
	if verts != nil && polys != nil {
		pf.verts = verts
		pf.mesh = navgraph.Build(verts, polys)
		groupCount = len(pf.mesh.Groups)
		pf.bvhs = make([]*bvh.PolygonBVH, groupCount)
		for g, members := range pf.mesh.Groups {
			nodes := make([]*navgraph.Node, len(members))
			for i, idx := range members {
				nodes[i] = pf.mesh.Nodes[idx]
			}
			pf.bvhs[g] = bvh.BuildPolygonBVH(nodes)
		}
	}

	pf.simulators = make([]*rvo.Simulator, groupCount)
	defaults := rvo.DefaultAgentParams{
		NeighborDist:    params.NeighborDist,
		MaxNeighbors:    params.MaxNeighbors,
		TimeHorizon:     params.TimeHorizon,
		TimeHorizonObst: params.TimeHorizonObst,
		Radius:          params.AgentRadius,
		MaxSpeed:        params.MaxSpeed,
	}
	for g := 0; g < groupCount; g++ {
		pf.simulators[g] = rvo.NewSimulator(defaults)
	}

	if pf.mesh != nil {
		pf.buildObstacles()
	}

	return pf
}

// buildObstacles extracts each group's outer/inner boundary chains,
// insets them by the default agent radius, and installs them as static
// RVO obstacles in that group's simulator.
func (pf *PathFinder) buildObstacles() {
	shift := pf.params.AgentRadius
	for g := range pf.mesh.Groups {
		chains := pf.groupBoundaryChains(g)
		for _, chain := range chains {
			shifted := insetChain(chain, shift)
			pf.simulators[g].AddObstacle(shifted)
			pf.obstacles = append(pf.obstacles, shifted)
		}
		pf.simulators[g].ProcessObstacles()
	}
}

// groupBoundaryChains collects the group's unshared polygon edges (the
// ones with no matching reverse edge in the group) and threads them
// into closed cycles.
func (pf *PathFinder) groupBoundaryChains(group int) [][]geom.Vec3 {
	type edge struct{ a, b int }
	var all []edge
	for _, idx := range pf.mesh.Groups[group] {
		verts := pf.mesh.Nodes[idx].Vertices
		n := len(verts)
		for i := 0; i < n; i++ {
			all = append(all, edge{verts[i], verts[(i+1)%n]})
		}
	}
	has := make(map[edge]bool, len(all))
	for _, e := range all {
		has[e] = true
	}
	var boundary []edge
	for _, e := range all {
		if !has[edge{e.b, e.a}] {
			boundary = append(boundary, e)
		}
	}

	var chains [][]edge
	for len(boundary) > 0 {
		chain := []edge{boundary[len(boundary)-1]}
		boundary = boundary[:len(boundary)-1]
		closed := false
		for {
			last := chain[len(chain)-1]
			found := -1
			for i, e := range boundary {
				if e.a == last.b {
					found = i
					break
				}
			}
			if found < 0 {
				break
			}
			f := boundary[found]
			boundary = append(boundary[:found], boundary[found+1:]...)
			if f.b == chain[0].a {
				chain = append(chain, f)
				closed = true
				break
			}
			chain = append(chain, f)
		}
		if closed {
			chains = append(chains, chain)
		}
	}

	out := make([][]geom.Vec3, len(chains))
	for i, chain := range chains {
		pts := make([]geom.Vec3, len(chain))
		for j, e := range chain {
			pts[j] = pf.verts[e.a]
		}
		out[i] = pts
	}
	return out
}

// insetChain shifts every vertex of a closed xz-plane chain inward by
// shift, mitering consecutive edges at each vertex (falling back to a
// plain normal-shift when the two edges are nearly parallel, within a
// 1e-4 tolerance).
func insetChain(chain []geom.Vec3, shift float32) []rvo.Vec2 {
	n := len(chain)
	pts2 := make([]rvo.Vec2, n)
	for i, v := range chain {
		pts2[i] = rvo.V2(v.X(), v.Z())
	}

	out := make([]rvo.Vec2, n)
	for i := 0; i < n; i++ {
		pre := pts2[(i-1+n)%n]
		cur := pts2[i]
		post := pts2[(i+1)%n]

		a1 := rvo.Normalize(cur.Sub(pre))
		a2 := rvo.Normalize(cur.Sub(post))
		n1 := rvo.V2(-a1.Y, a1.X)
		n2 := rvo.V2(a2.Y, -a2.X)

		det := a1.Y*a2.X - a1.X*a2.Y
		if math32.Abs(det) < 0.0001 {
			out[i] = cur.Add(n1.Scale(shift))
			continue
		}
		t := (a2.X*(post.Y+n2.Y*shift-pre.Y-n1.Y*shift) + a2.Y*(pre.X+n1.X*shift-post.X-n2.X*shift)) / det
		out[i] = pre.Add(n1.Scale(shift)).Add(a1.Scale(t))
	}
	return out
}

// AddAgent registers a new agent at position with the given radius and
// cruise speed, returning its id. The agent's group is the navmesh
// group its start position samples into; if no navmesh was given,
// every agent shares a single implicit group. Returns
// status.Fail(status.AgentAddFailed) if position does not sample onto
// any navmesh polygon.
func (pf *PathFinder) AddAgent(position geom.Vec3, radius, speed float32) (int, status.Status) {
	group := 0
	if pf.mesh != nil {
		node := pf.samplePolygon(position)
		if node == nil {
			return -1, status.Fail(status.AgentAddFailed)
		}
		group = node.Group
	}

	simIdx := pf.simulators[group].AddAgent(rvo.V2(position.X(), position.Z()), radius, speed)

	id := pf.nextAgentID
	pf.nextAgentID++
	pf.agents[id] = &agentState{group: group, simIdx: simIdx, speed: speed}
	return id, status.Success
}

// DeleteAgent marks an agent for removal before the next Update call;
// the agent stays live (and visible to neighbor queries) until then.
func (pf *PathFinder) DeleteAgent(id int) {
	if _, ok := pf.agents[id]; ok {
		pf.toDelete = append(pf.toDelete, id)
	}
}

func (pf *PathFinder) samplePolygon(p geom.Vec3) *navgraph.Node {
	for _, tree := range pf.bvhs {
		if n := tree.Sample(p); n != nil {
			return n
		}
	}
	return nil
}

// SearchPath finds a path from start to finish across the baked
// navmesh. Returns status.SampleOutside if either point is off the
// mesh, status.NoPath if they lie in disconnected groups, or the
// degenerate [start, finish] pair when no navmesh was supplied.
func (pf *PathFinder) SearchPath(start, finish geom.Vec3) ([]geom.Vec3, status.Status) {
	if pf.mesh == nil {
		return []geom.Vec3{start, finish}, status.Success
	}

	startNode := pf.samplePolygon(start)
	finishNode := pf.samplePolygon(finish)
	if startNode == nil || finishNode == nil {
		return nil, status.Fail(status.SampleOutside)
	}
	if startNode.Group != finishNode.Group {
		return nil, status.Fail(status.NoPath)
	}

	graph := pf.graphOf(startNode.Group)
	nodePath := graph.FindPath(startNode.Index, finishNode.Index)
	if nodePath == nil {
		return nil, status.Fail(status.NoPath)
	}

	portals := make([]funnel.Portal, 0, len(nodePath)-1)
	for i := 0; i < len(nodePath)-1; i++ {
		l, r, ok := pf.mesh.Nodes[nodePath[i]].Portal(nodePath[i+1])
		if !ok {
			return nil, status.Fail(status.NoPath)
		}
		portals = append(portals, funnel.Portal{Left: l, Right: r})
	}
	path := funnel.StringPull(start, portals, finish)
	return path, status.Success
}

// SetAgentDestination searches a path from the agent's current position
// to destination and starts following it.
func (pf *PathFinder) SetAgentDestination(id int, destination geom.Vec3) status.Status {
	as, ok := pf.agents[id]
	if !ok {
		return status.Fail(status.DeleteUnknownAgent)
	}
	current := pf.simulators[as.group].AgentPosition(as.simIdx)
	start := geom.NewVec3XYZ(current.X, 0, current.Y)
	path, st := pf.SearchPath(start, destination)
	if st.Failed() {
		return st
	}
	as.follower.setPath(path, current)
	return status.Success
}

// AgentPosition returns the agent's current 2D (x, z) position.
func (pf *PathFinder) AgentPosition(id int) (rvo.Vec2, bool) {
	as, ok := pf.agents[id]
	if !ok {
		return rvo.Vec2{}, false
	}
	return pf.simulators[as.group].AgentPosition(as.simIdx), true
}

// AgentPath returns the agent's current 3D path, or nil if it is not
// following one.
func (pf *PathFinder) AgentPath(id int) []geom.Vec3 {
	as, ok := pf.agents[id]
	if !ok {
		return nil
	}
	return as.follower.path
}

// AgentCount returns the number of live agents (pending deletions still
// counted until the next Update call).
func (pf *PathFinder) AgentCount() int { return len(pf.agents) }

// Update advances the whole simulation by deltaTime: deletes agents
// queued by DeleteAgent, refreshes paths whose UpdatePathFind interval
// has elapsed, computes every active agent's preferred velocity, and
// steps every group's simulator. Deletions happen first so a removed
// agent never takes part in that step's neighbor search; the neighbor
// search and velocity integration themselves happen inside
// Simulator.Simulate.
func (pf *PathFinder) Update(deltaTime float32) {
	pf.applyDeletions()

	pf.elapsed += deltaTime
	refreshPaths := pf.elapsed >= pf.params.UpdatePathFind
	if refreshPaths {
		pf.elapsed = 0
	}

	for _, as := range pf.agents {
		if !as.follower.active {
			pf.simulators[as.group].SetAgentPrefVelocity(as.simIdx, rvo.Vec2{})
			continue
		}

		current := pf.simulators[as.group].AgentPosition(as.simIdx)
		sim := pf.simulators[as.group]
		visible := func(a, b rvo.Vec2) bool { return sim.QueryVisibility(a, b, 0) }
		as.follower.advanceIfOvershot(current, visible)

		v, arrived := as.follower.approachVelocity(current, as.speed, deltaTime)

		if arrived {
			if pf.params.ContinuousMoving {
				pf.simulators[as.group].SetAgentPrefVelocity(as.simIdx, v)
			} else {
				as.follower.stop()
				pf.simulators[as.group].SetAgentPrefVelocity(as.simIdx, rvo.Vec2{})
			}
			continue
		}

		if refreshPaths {
			last := len(as.follower.path) - 1
			startHeight := as.follower.height(as.follower.index)
			start := geom.NewVec3XYZ(current.X, startHeight, current.Y)
			finish := as.follower.path[last]
			if path, st := pf.SearchPath(start, finish); st.OK() {
				as.follower.setPath(path, current)
			}
		}

		pf.simulators[as.group].SetAgentPrefVelocity(as.simIdx, v)
	}

	for _, sim := range pf.simulators {
		sim.Simulate(deltaTime, pf.params.MoveAgents)
	}
}

func (pf *PathFinder) applyDeletions() {
	if len(pf.toDelete) == 0 {
		return
	}
	byGroup := make(map[int][]int)
	for _, id := range pf.toDelete {
		as := pf.agents[id]
		byGroup[as.group] = append(byGroup[as.group], as.simIdx)
		delete(pf.agents, id)
	}
	for group, indices := range byGroup {
		pf.simulators[group].DeleteAgents(indices)
		// every remaining agent in this group with a simIdx greater
		// than a deleted one must shift down to match.
		for _, as := range pf.agents {
			if as.group != group {
				continue
			}
			shift := 0
			for _, removed := range indices {
				if removed < as.simIdx {
					shift++
				}
			}
			as.simIdx -= shift
		}
	}
	pf.toDelete = nil
}

func (pf *PathFinder) graphOf(group int) *navgraph.Graph {
	for _, g := range pf.mesh.Graphs {
		if len(g.Members()) > 0 && pf.mesh.Nodes[g.Members()[0]].Group == group {
			return g
		}
	}
	return nil
}
