package rvo

import "github.com/aurelien-rainone/math32"

// agentTreeNode is one node of the agent KD-tree, stored flat in a
// slice: node i's children live at fixed offsets computed during the
// build, not via pointers.
type agentTreeNode struct {
	begin, end int
	left, right int
	minX, maxX, minY, maxY float32
}

// agentKDTree indexes a simulator's agents for range queries used by
// Agent.computeNeighbors.
type agentKDTree struct {
	agents []*Agent
	nodes  []agentTreeNode
}

func buildAgentKDTree(agents []*Agent) *agentKDTree {
	t := &agentKDTree{agents: append([]*Agent(nil), agents...)}
	if len(t.agents) == 0 {
		return t
	}
	t.nodes = make([]agentTreeNode, 2*len(t.agents)-1)
	t.build(0, len(t.agents), 0)
	return t
}

func (t *agentKDTree) build(begin, end, node int) {
	n := &t.nodes[node]
	n.begin, n.end = begin, end
	p := t.agents[begin].Position
	n.minX, n.maxX = p.X, p.X
	n.minY, n.maxY = p.Y, p.Y
	for i := begin + 1; i < end; i++ {
		p := t.agents[i].Position
		n.maxX = math32.Max(n.maxX, p.X)
		n.minX = math32.Min(n.minX, p.X)
		n.maxY = math32.Max(n.maxY, p.Y)
		n.minY = math32.Min(n.minY, p.Y)
	}

	if end-begin <= MaxLeafSize {
		return
	}

	isVertical := n.maxX-n.minX > n.maxY-n.minY
	var splitValue float32
	if isVertical {
		splitValue = 0.5 * (n.maxX + n.minX)
	} else {
		splitValue = 0.5 * (n.maxY + n.minY)
	}

	left, right := begin, end
	for left < right {
		for left < right && coord(t.agents[left].Position, isVertical) < splitValue {
			left++
		}
		for right > left && coord(t.agents[right-1].Position, isVertical) >= splitValue {
			right--
		}
		if left < right {
			t.agents[left], t.agents[right-1] = t.agents[right-1], t.agents[left]
			left++
			right--
		}
	}
	if left == begin {
		left++
	}

	n.left = node + 1
	n.right = node + 2*(left-begin)
	t.build(begin, left, n.left)
	t.build(left, end, n.right)
}

func coord(p Vec2, vertical bool) float32 {
	if vertical {
		return p.X
	}
	return p.Y
}

// computeAgentNeighbors inserts every agent within rangeSq of a into
// a's sorted neighbor list (Agent.insertAgentNeighbor).
func (t *agentKDTree) computeAgentNeighbors(a *Agent, rangeSq float32) {
	if len(t.agents) > 0 {
		t.queryAgents(a, rangeSq, 0)
	}
}

func (t *agentKDTree) queryAgents(a *Agent, rangeSq float32, node int) float32 {
	n := &t.nodes[node]
	if n.end-n.begin <= MaxLeafSize {
		for i := n.begin; i < n.end; i++ {
			rangeSq = a.insertAgentNeighbor(t.agents[i], rangeSq)
		}
		return rangeSq
	}

	left, right := &t.nodes[n.left], &t.nodes[n.right]
	distSqLeft := sqDistToBox(left, a.Position)
	distSqRight := sqDistToBox(right, a.Position)

	if distSqRight > distSqLeft {
		if distSqLeft < rangeSq {
			rangeSq = t.queryAgents(a, rangeSq, n.left)
			if distSqRight < rangeSq {
				rangeSq = t.queryAgents(a, rangeSq, n.right)
			}
		}
	} else {
		if distSqRight < rangeSq {
			rangeSq = t.queryAgents(a, rangeSq, n.right)
			if distSqLeft < rangeSq {
				rangeSq = t.queryAgents(a, rangeSq, n.left)
			}
		}
	}
	return rangeSq
}

func sqDistToBox(n *agentTreeNode, p Vec2) float32 {
	dx := math32.Max(0, n.minX-p.X)
	dx2 := math32.Max(0, p.X-n.maxX)
	dy := math32.Max(0, n.minY-p.Y)
	dy2 := math32.Max(0, p.Y-n.maxY)
	return dx*dx + dx2*dx2 + dy*dy + dy2*dy2
}
