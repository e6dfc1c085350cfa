package rvo

// obstacleTreeNode is one split node of the obstacle BSP: every
// obstacle edge not fully on one side of the splitting edge is itself
// split in two, with the new vertex recorded in
// obstacleBSP.newObstacles.
type obstacleTreeNode struct {
	obstacle    *Obstacle
	left, right *obstacleTreeNode
}

// obstacleBSP indexes a simulator's static obstacle edges for
// neighbor range queries and line-of-sight queries.
type obstacleBSP struct {
	root *obstacleTreeNode
	// newObstacles collects vertices synthesized while splitting edges
	// across the tree; the simulator keeps these alive for the lifetime
	// of the BSP.
	newObstacles []*Obstacle
}

func buildObstacleBSP(obstacles []*Obstacle) *obstacleBSP {
	t := &obstacleBSP{}
	live := append([]*Obstacle(nil), obstacles...)
	t.root = t.buildRecursive(live)
	return t
}

func (t *obstacleBSP) buildRecursive(obstacles []*Obstacle) *obstacleTreeNode {
	if len(obstacles) == 0 {
		return nil
	}

	optimalSplit := 0
	minLeft, minRight := len(obstacles), len(obstacles)

	for i, oi1 := range obstacles {
		if oi1 == nil {
			continue
		}
		oi2 := oi1.Next
		leftSize, rightSize := 0, 0

		for j, oj1 := range obstacles {
			if i == j || oj1 == nil {
				continue
			}
			oj2 := oj1.Next
			j1Left := LeftOf(oi1.Point, oi2.Point, oj1.Point)
			j2Left := LeftOf(oi1.Point, oi2.Point, oj2.Point)
			switch {
			case j1Left >= -Epsilon && j2Left >= -Epsilon:
				leftSize++
			case j1Left <= Epsilon && j2Left <= Epsilon:
				rightSize++
			default:
				leftSize++
				rightSize++
			}
			if !cmpPair(leftSize, rightSize, minLeft, minRight) {
				break
			}
		}
		if cmpPair(leftSize, rightSize, minLeft, minRight) {
			minLeft, minRight = leftSize, rightSize
			optimalSplit = i
		}
	}

	leftObstacles := make([]*Obstacle, 0, minLeft)
	rightObstacles := make([]*Obstacle, 0, minRight)

	oi1 := obstacles[optimalSplit]
	oi2 := oi1.Next
	for j, oj1 := range obstacles {
		if j == optimalSplit || oj1 == nil {
			continue
		}
		oj2 := oj1.Next

		j1Left := LeftOf(oi1.Point, oi2.Point, oj1.Point)
		j2Left := LeftOf(oi1.Point, oi2.Point, oj2.Point)

		switch {
		case j1Left >= -Epsilon && j2Left >= -Epsilon:
			leftObstacles = append(leftObstacles, oj1)
		case j1Left <= Epsilon && j2Left <= Epsilon:
			rightObstacles = append(rightObstacles, oj1)
		default:
			// Edge j straddles the splitting line: cut it in two and
			// insert the new vertex into both obstacle's rings.
			pi1, pi2 := oi1.Point, oi2.Point
			pj1, pj2 := oj1.Point, oj2.Point
			v1 := pi2.Sub(pi1)
			v12 := pj1.Sub(pi1)
			v22 := pj1.Sub(pj2)
			s := (v1.X*v12.Y - v1.Y*v12.X) / (v1.X*v22.Y - v1.Y*v22.X)
			splitPoint := Vec2{pj1.X + s*(pj2.X-pj1.X), pj1.Y + s*(pj2.Y-pj1.Y)}

			newObstacle := &Obstacle{
				Point:    splitPoint,
				Prev:     oj1,
				Next:     oj2,
				IsConvex: true,
				UnitDir:  oj1.UnitDir,
			}
			t.newObstacles = append(t.newObstacles, newObstacle)
			oj1.Next = newObstacle
			oj2.Prev = newObstacle

			if j1Left > 0 {
				leftObstacles = append(leftObstacles, oj1)
				rightObstacles = append(rightObstacles, newObstacle)
			} else {
				rightObstacles = append(rightObstacles, oj1)
				leftObstacles = append(leftObstacles, newObstacle)
			}
		}
	}

	node := &obstacleTreeNode{obstacle: oi1}
	node.left = t.buildRecursive(leftObstacles)
	node.right = t.buildRecursive(rightObstacles)
	return node
}

// cmpPair compares obstacle-split candidates lexicographically on
// (max(left,right), min(left,right)), preferring the more balanced
// split.
func cmpPair(leftA, rightA, leftB, rightB int) bool {
	maxA, minA := leftA, rightA
	if rightA > leftA {
		maxA, minA = rightA, leftA
	}
	maxB, minB := leftB, rightB
	if rightB > leftB {
		maxB, minB = rightB, leftB
	}
	if maxA != maxB {
		return maxA < maxB
	}
	return minA < minB
}

func (t *obstacleBSP) computeObstacleNeighbors(a *Agent, rangeSq float32) {
	t.queryObstacles(a, rangeSq, t.root)
}

func (t *obstacleBSP) queryObstacles(a *Agent, rangeSq float32, node *obstacleTreeNode) {
	if node == nil {
		return
	}
	o1 := node.obstacle
	o2 := o1.Next
	agentLeft := LeftOf(o1.Point, o2.Point, a.Position)

	if agentLeft >= 0 {
		t.queryObstacles(a, rangeSq, node.left)
	} else {
		t.queryObstacles(a, rangeSq, node.right)
	}

	distSqLine := (agentLeft * agentLeft) / AbsSq(o2.Point.Sub(o1.Point))
	if distSqLine < rangeSq {
		if agentLeft < 0 {
			a.insertObstacleNeighbor(o1, rangeSq)
		}
		if agentLeft >= 0 {
			t.queryObstacles(a, rangeSq, node.right)
		} else {
			t.queryObstacles(a, rangeSq, node.left)
		}
	}
}

// queryVisibility reports whether the segment [q1, q2] clears every
// obstacle edge by at least radius.
func (t *obstacleBSP) queryVisibility(q1, q2 Vec2, radius float32) bool {
	return t.queryVisibilityRecursive(q1, q2, radius, t.root)
}

func (t *obstacleBSP) queryVisibilityRecursive(q1, q2 Vec2, radius float32, node *obstacleTreeNode) bool {
	if node == nil {
		return true
	}
	o1 := node.obstacle
	o2 := o1.Next

	q1Left := LeftOf(o1.Point, o2.Point, q1)
	q2Left := LeftOf(o1.Point, o2.Point, q2)
	invLengthI := 1 / AbsSq(o2.Point.Sub(o1.Point))

	switch {
	case q1Left >= 0 && q2Left >= 0:
		return t.queryVisibilityRecursive(q1, q2, radius, node.left) &&
			((q1Left*q1Left*invLengthI >= radius*radius && q2Left*q2Left*invLengthI >= radius*radius) ||
				t.queryVisibilityRecursive(q1, q2, radius, node.right))
	case q1Left <= 0 && q2Left <= 0:
		return t.queryVisibilityRecursive(q1, q2, radius, node.right) &&
			((q1Left*q1Left*invLengthI >= radius*radius && q2Left*q2Left*invLengthI >= radius*radius) ||
				t.queryVisibilityRecursive(q1, q2, radius, node.left))
	case q1Left >= 0 && q2Left <= 0:
		return t.queryVisibilityRecursive(q1, q2, radius, node.left) &&
			t.queryVisibilityRecursive(q1, q2, radius, node.right)
	default:
		p1Left := LeftOf(q1, q2, o1.Point)
		p2Left := LeftOf(q1, q2, o2.Point)
		invLengthQ := 1 / AbsSq(q2.Sub(q1))
		return p1Left*p2Left >= 0 &&
			p1Left*p1Left*invLengthQ > radius*radius &&
			p2Left*p2Left*invLengthQ > radius*radius &&
			t.queryVisibilityRecursive(q1, q2, radius, node.left) &&
			t.queryVisibilityRecursive(q1, q2, radius, node.right)
	}
}
