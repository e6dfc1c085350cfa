// Package funnel implements the "pull the rope" string-pulling
// algorithm that turns a sequence of portal pairs into a geodesic 3D
// polyline.
package funnel

import "github.com/arl/pathfinder3d/geom"

// Portal is one shared polygon edge, oriented left/right consistently
// with the direction of travel.
type Portal struct {
	Left, Right geom.Vec3
}

// StringPull runs the funnel algorithm over start, the given portals in
// traversal order, and finish. The result's first point is start, its
// last is finish, and every interior vertex lies on one of the portals.
func StringPull(start geom.Vec3, portals []Portal, finish geom.Vec3) []geom.Vec3 {
	raw := make([]geom.Vec3, 0, 2*len(portals)+4)
	raw = append(raw, start, start)
	for _, p := range portals {
		raw = append(raw, p.Left, p.Right)
	}
	raw = append(raw, finish, finish)

	portalApex := raw[0]
	portalLeft := raw[0]
	portalRight := raw[1]

	apexIndex, leftIndex, rightIndex := 0, 0, 0

	path := []geom.Vec3{portalApex}

	i := 1
	for i < len(raw)/2 {
		left := raw[2*i]
		right := raw[2*i+1]

		skipLeftUpdate := false

		// update right vertex.
		if triangleArea2(portalApex, portalRight, right) <= 0 {
			if vEqual(portalApex, portalRight) || triangleArea2(portalApex, portalLeft, right) > 0 {
				portalRight = right
				rightIndex = i
			} else {
				if !vEqual(portalLeft, path[len(path)-1]) {
					path = append(path, portalLeft)
				}
				portalApex = portalLeft
				apexIndex = leftIndex
				portalLeft = portalApex
				portalRight = portalApex
				leftIndex = apexIndex
				rightIndex = apexIndex
				i = apexIndex
				skipLeftUpdate = true
			}
		}

		if !skipLeftUpdate {
			// update left vertex.
			if triangleArea2(portalApex, portalLeft, left) >= 0 {
				if vEqual(portalApex, portalLeft) || triangleArea2(portalApex, portalRight, left) < 0 {
					portalLeft = left
					leftIndex = i
				} else {
					path = append(path, portalRight)
					portalApex = portalRight
					apexIndex = rightIndex
					portalLeft = portalApex
					portalRight = portalApex
					leftIndex = apexIndex
					rightIndex = apexIndex
					i = apexIndex
				}
			}
		}
		i++
	}

	if len(path) == 0 || !vEqual(path[len(path)-1], raw[len(raw)-2]) {
		path = append(path, raw[len(raw)-2])
	}
	return path
}

// triangleArea2 returns twice the signed area of (a, b, c) on the
// xz-plane: positive when c is to the left of a->b.
func triangleArea2(a, b, c geom.Vec3) float32 {
	return (c.X()-a.X())*(b.Z()-a.Z()) - (b.X()-a.X())*(c.Z()-a.Z())
}

func vEqual(a, b geom.Vec3) bool {
	const epsilon = 0.0001
	dx := a.X() - b.X()
	dy := a.Y() - b.Y()
	dz := a.Z() - b.Z()
	return dx*dx+dy*dy+dz*dz < epsilon
}

// PathLength returns the total 3D arc length of a polyline.
func PathLength(path []geom.Vec3) float32 {
	var total float32
	for i := 1; i < len(path); i++ {
		total += path[i].Dist(path[i-1])
	}
	return total
}

// BestOfK runs StringPull over every candidate portal sequence and
// returns the polyline with the smallest 3D arc length. Pair it with
// Graph.KShortestPaths to pick the shortest string-pulled route among
// several topologically distinct polygon paths, not just the single
// A* minimum.
func BestOfK(start geom.Vec3, candidates [][]Portal, finish geom.Vec3) []geom.Vec3 {
	var best []geom.Vec3
	bestLen := float32(-1)
	for _, portals := range candidates {
		p := StringPull(start, portals, finish)
		l := PathLength(p)
		if bestLen < 0 || l < bestLen {
			best = p
			bestLen = l
		}
	}
	return best
}
