package rvo

import "github.com/aurelien-rainone/math32"

// neighborAgent pairs a neighboring agent with its squared distance,
// kept sorted ascending (insertAgentNeighbor).
type neighborAgent struct {
	distSq float32
	agent  *Agent
}

type neighborObstacle struct {
	distSq   float32
	obstacle *Obstacle
}

// Agent is one RVO-simulated disc: it tracks its neighbors, builds ORCA
// half-planes against them each step, and solves for a collision-free
// velocity as close as possible to its preferred velocity.
type Agent struct {
	ID       int
	Position Vec2
	Velocity Vec2
	PrefVelocity Vec2

	Radius          float32
	MaxSpeed        float32
	NeighborDist    float32
	MaxNeighbors    int
	TimeHorizon     float32
	TimeHorizonObst float32

	agentNeighbors    []neighborAgent
	obstacleNeighbors []neighborObstacle
	orcaLines         []Line
	newVelocity       Vec2
}

// computeNeighbors refreshes the agent's obstacle and agent neighbor
// lists against the owning simulator's spatial indexes.
func (a *Agent) computeNeighbors(obstacles *obstacleBSP, agents *agentKDTree) {
	a.obstacleNeighbors = a.obstacleNeighbors[:0]
	rangeSqObst := (a.TimeHorizonObst*a.MaxSpeed + a.Radius) * (a.TimeHorizonObst*a.MaxSpeed + a.Radius)
	if obstacles != nil {
		obstacles.computeObstacleNeighbors(a, rangeSqObst)
	}

	a.agentNeighbors = a.agentNeighbors[:0]
	if a.MaxNeighbors > 0 && agents != nil {
		rangeSq := a.NeighborDist * a.NeighborDist
		agents.computeAgentNeighbors(a, rangeSq)
	}
}

func (a *Agent) insertAgentNeighbor(other *Agent, rangeSq float32) float32 {
	if other == a {
		return rangeSq
	}
	distSq := AbsSq(a.Position.Sub(other.Position))
	if distSq >= rangeSq {
		return rangeSq
	}
	if len(a.agentNeighbors) < a.MaxNeighbors {
		a.agentNeighbors = append(a.agentNeighbors, neighborAgent{})
	}
	i := len(a.agentNeighbors) - 1
	for i != 0 && distSq < a.agentNeighbors[i-1].distSq {
		a.agentNeighbors[i] = a.agentNeighbors[i-1]
		i--
	}
	a.agentNeighbors[i] = neighborAgent{distSq, other}
	if len(a.agentNeighbors) == a.MaxNeighbors {
		rangeSq = a.agentNeighbors[len(a.agentNeighbors)-1].distSq
	}
	return rangeSq
}

func (a *Agent) insertObstacleNeighbor(obstacle *Obstacle, rangeSq float32) {
	next := obstacle.Next
	distSq := DistSqPointLineSegment(obstacle.Point, next.Point, a.Position)
	if distSq >= rangeSq {
		return
	}
	a.obstacleNeighbors = append(a.obstacleNeighbors, neighborObstacle{})
	i := len(a.obstacleNeighbors) - 1
	for i != 0 && distSq < a.obstacleNeighbors[i-1].distSq {
		a.obstacleNeighbors[i] = a.obstacleNeighbors[i-1]
		i--
	}
	a.obstacleNeighbors[i] = neighborObstacle{distSq, obstacle}
}

// computeNewVelocity builds every ORCA half-plane against the current
// obstacle and agent neighbors and solves the resulting linear program
// for the new velocity, stored in a.newVelocity until update commits it.
func (a *Agent) computeNewVelocity(deltaTime float32) {
	a.orcaLines = a.orcaLines[:0]
	invTimeHorizonObst := 1 / a.TimeHorizonObst

	for _, no := range a.obstacleNeighbors {
		obstacle1 := no.obstacle
		obstacle2 := obstacle1.Next

		relativePosition1 := obstacle1.Point.Sub(a.Position)
		relativePosition2 := obstacle2.Point.Sub(a.Position)

		alreadyCovered := false
		for _, line := range a.orcaLines {
			d1 := Det(relativePosition1.Scale(invTimeHorizonObst).Sub(line.Point), line.Direction)
			d2 := Det(relativePosition2.Scale(invTimeHorizonObst).Sub(line.Point), line.Direction)
			if d1-invTimeHorizonObst*a.Radius >= -Epsilon && d2-invTimeHorizonObst*a.Radius >= -Epsilon {
				alreadyCovered = true
				break
			}
		}
		if alreadyCovered {
			continue
		}

		distSq1 := AbsSq(relativePosition1)
		distSq2 := AbsSq(relativePosition2)
		radiusSq := a.Radius * a.Radius

		obstacleVector := obstacle2.Point.Sub(obstacle1.Point)
		s := Dot(relativePosition1.Negate(), obstacleVector) / AbsSq(obstacleVector)
		distSqLine := AbsSq(relativePosition1.Negate().Sub(obstacleVector.Scale(s)))

		var line Line
		collision := false

		switch {
		case s < 0 && distSq1 <= radiusSq:
			if obstacle1.IsConvex {
				line.Point = Vec2{}
				line.Direction = Normalize(Vec2{-relativePosition1.Y, relativePosition1.X})
				a.orcaLines = append(a.orcaLines, line)
			}
			collision = true
		case s > 1 && distSq2 <= radiusSq:
			if obstacle2.IsConvex && Det(relativePosition2, obstacle2.UnitDir) >= 0 {
				line.Point = Vec2{}
				line.Direction = Normalize(Vec2{-relativePosition2.Y, relativePosition2.X})
				a.orcaLines = append(a.orcaLines, line)
			}
			collision = true
		case s >= 0 && s <= 1 && distSqLine <= radiusSq:
			line.Point = Vec2{}
			line.Direction = obstacle1.UnitDir.Negate()
			a.orcaLines = append(a.orcaLines, line)
			collision = true
		}
		if collision {
			continue
		}

		// No collision: legs of the velocity-obstacle cone tangent to
		// the two vertex discs (or the segment itself for non-convex
		// vertices, per the "usual situation" below).
		var leftLegDirection, rightLegDirection Vec2

		switch {
		case s < 0 && distSqLine <= radiusSq:
			if !obstacle1.IsConvex {
				continue
			}
			obstacle2 = obstacle1
			leg1 := math32.Sqrt(distSq1 - radiusSq)
			leftLegDirection = Vec2{
				relativePosition1.X*leg1 - relativePosition1.Y*a.Radius,
				relativePosition1.X*a.Radius + relativePosition1.Y*leg1,
			}.Scale(1 / distSq1)
			rightLegDirection = Vec2{
				relativePosition1.X*leg1 + relativePosition1.Y*a.Radius,
				-relativePosition1.X*a.Radius + relativePosition1.Y*leg1,
			}.Scale(1 / distSq1)
		case s > 1 && distSqLine <= radiusSq:
			if !obstacle2.IsConvex {
				continue
			}
			obstacle1 = obstacle2
			leg2 := math32.Sqrt(distSq2 - radiusSq)
			leftLegDirection = Vec2{
				relativePosition2.X*leg2 - relativePosition2.Y*a.Radius,
				relativePosition2.X*a.Radius + relativePosition2.Y*leg2,
			}.Scale(1 / distSq2)
			rightLegDirection = Vec2{
				relativePosition2.X*leg2 + relativePosition2.Y*a.Radius,
				-relativePosition2.X*a.Radius + relativePosition2.Y*leg2,
			}.Scale(1 / distSq2)
		default:
			if obstacle1.IsConvex {
				leg1 := math32.Sqrt(distSq1 - radiusSq)
				leftLegDirection = Vec2{
					relativePosition1.X*leg1 - relativePosition1.Y*a.Radius,
					relativePosition1.X*a.Radius + relativePosition1.Y*leg1,
				}.Scale(1 / distSq1)
			} else {
				leftLegDirection = obstacle1.UnitDir.Negate()
			}
			if obstacle2.IsConvex {
				leg2 := math32.Sqrt(distSq2 - radiusSq)
				rightLegDirection = Vec2{
					relativePosition2.X*leg2 + relativePosition2.Y*a.Radius,
					-relativePosition2.X*a.Radius + relativePosition2.Y*leg2,
				}.Scale(1 / distSq2)
			} else {
				rightLegDirection = obstacle1.UnitDir
			}
		}

		leftNeighbor := obstacle1.Prev
		isLeftLegForeign, isRightLegForeign := false, false

		if obstacle1.IsConvex && Det(leftLegDirection, leftNeighbor.UnitDir.Negate()) >= 0 {
			leftLegDirection = leftNeighbor.UnitDir.Negate()
			isLeftLegForeign = true
		}
		if obstacle2.IsConvex && Det(rightLegDirection, obstacle2.UnitDir) <= 0 {
			rightLegDirection = obstacle2.UnitDir
			isRightLegForeign = true
		}

		leftCutoff := obstacle1.Point.Sub(a.Position).Scale(invTimeHorizonObst)
		rightCutoff := obstacle2.Point.Sub(a.Position).Scale(invTimeHorizonObst)
		cutoffVec := rightCutoff.Sub(leftCutoff)

		var t float32
		if obstacle1 == obstacle2 {
			t = 0.5
		} else {
			t = Dot(a.Velocity.Sub(leftCutoff), cutoffVec) / AbsSq(cutoffVec)
		}
		tLeft := Dot(a.Velocity.Sub(leftCutoff), leftLegDirection)
		tRight := Dot(a.Velocity.Sub(rightCutoff), rightLegDirection)

		if (t < 0 && tLeft < 0) || (obstacle1 == obstacle2 && tLeft < 0 && tRight < 0) {
			unitW := Normalize(a.Velocity.Sub(leftCutoff))
			line.Direction = Vec2{unitW.Y, -unitW.X}
			line.Point = leftCutoff.Add(unitW.Scale(a.Radius * invTimeHorizonObst))
			a.orcaLines = append(a.orcaLines, line)
			continue
		} else if t > 1 && tRight < 0 {
			unitW := Normalize(a.Velocity.Sub(rightCutoff))
			line.Direction = Vec2{unitW.Y, -unitW.X}
			line.Point = rightCutoff.Add(unitW.Scale(a.Radius * invTimeHorizonObst))
			a.orcaLines = append(a.orcaLines, line)
			continue
		}

		distSqCutoff := float32(math32.MaxFloat32)
		if t >= 0 && t <= 1 && obstacle1 != obstacle2 {
			w := a.Velocity.Sub(leftCutoff.Add(cutoffVec.Scale(t)))
			distSqCutoff = AbsSq(w)
		}
		distSqLeft := float32(math32.MaxFloat32)
		if tLeft >= 0 {
			w := a.Velocity.Sub(leftCutoff.Add(leftLegDirection.Scale(tLeft)))
			distSqLeft = AbsSq(w)
		}
		distSqRight := float32(math32.MaxFloat32)
		if tRight >= 0 {
			w := a.Velocity.Sub(rightCutoff.Add(rightLegDirection.Scale(tRight)))
			distSqRight = AbsSq(w)
		}

		switch {
		case distSqCutoff <= distSqLeft && distSqCutoff <= distSqRight:
			d := obstacle1.UnitDir.Negate()
			p := leftCutoff.Add(Vec2{-d.Y, d.X}.Scale(a.Radius * invTimeHorizonObst))
			line.Direction = d
			line.Point = p
			a.orcaLines = append(a.orcaLines, line)
		case distSqLeft <= distSqRight:
			if isLeftLegForeign {
				continue
			}
			line.Direction = leftLegDirection
			p := leftCutoff.Add(Vec2{-leftLegDirection.Y, leftLegDirection.X}.Scale(a.Radius * invTimeHorizonObst))
			line.Point = p
			a.orcaLines = append(a.orcaLines, line)
		default:
			if isRightLegForeign {
				continue
			}
			line.Direction = rightLegDirection.Negate()
			p := rightCutoff.Add(Vec2{rightLegDirection.Y, -rightLegDirection.X}.Scale(a.Radius * invTimeHorizonObst))
			line.Point = p
			a.orcaLines = append(a.orcaLines, line)
		}
	}

	numObstLines := len(a.orcaLines)
	invTimeHorizon := 1 / a.TimeHorizon

	for _, na := range a.agentNeighbors {
		other := na.agent

		relativePosition := other.Position.Sub(a.Position)
		relativeVelocity := a.Velocity.Sub(other.Velocity)
		distSq := AbsSq(relativePosition)
		combinedRadius := a.Radius + other.Radius
		combinedRadiusSq := combinedRadius * combinedRadius

		var line Line
		var u Vec2

		if distSq > combinedRadiusSq {
			w := relativeVelocity.Sub(relativePosition.Scale(invTimeHorizon))
			wLengthSq := AbsSq(w)
			dotProduct1 := Dot(w, relativePosition)

			if dotProduct1 < 0 && dotProduct1*dotProduct1 > combinedRadiusSq*wLengthSq {
				wLength := math32.Sqrt(wLengthSq)
				unitW := w.Scale(1 / wLength)
				line.Direction = Vec2{unitW.Y, -unitW.X}
				u = unitW.Scale(combinedRadius*invTimeHorizon - wLength)
			} else {
				leg := math32.Sqrt(distSq - combinedRadiusSq)

				if Det(relativePosition, w) > 0 {
					d := Vec2{
						relativePosition.X*leg - relativePosition.Y*combinedRadius,
						relativePosition.X*combinedRadius + relativePosition.Y*leg,
					}
					line.Direction = d.Scale(1 / distSq)
				} else {
					d := Vec2{
						relativePosition.X*leg + relativePosition.Y*combinedRadius,
						-relativePosition.X*combinedRadius + relativePosition.Y*leg,
					}
					line.Direction = d.Scale(-1 / distSq)
				}

				dotProduct2 := Dot(relativeVelocity, line.Direction)
				u = line.Direction.Scale(dotProduct2).Sub(relativeVelocity)
			}
		} else {
			invTimeStep := 1 / deltaTime
			w := relativeVelocity.Sub(relativePosition.Scale(invTimeStep))
			wLength := Length(w)
			var unitW Vec2
			if wLength > 0.0001 {
				unitW = w.Scale(1 / wLength)
			}
			line.Direction = Vec2{unitW.Y, -unitW.X}
			u = unitW.Scale(combinedRadius*invTimeStep - wLength)
		}

		line.Point = a.Velocity.Add(u.Scale(0.5))
		a.orcaLines = append(a.orcaLines, line)
	}

	lineFail, result := linearProgram2(a.orcaLines, a.MaxSpeed, a.PrefVelocity, false)
	if lineFail < len(a.orcaLines) {
		result = linearProgram3(a.orcaLines, numObstLines, lineFail, a.MaxSpeed, result)
	}
	a.newVelocity = result
}

// update commits the velocity computed by computeNewVelocity and,
// when move is true, integrates position over deltaTime.
func (a *Agent) update(deltaTime float32, move bool) {
	a.Velocity = a.newVelocity
	if move {
		a.Position = a.Position.Add(a.Velocity.Scale(deltaTime))
	}
}
