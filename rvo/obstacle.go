package rvo

// Obstacle is one vertex of a static polygonal obstacle boundary, such
// as a navmesh boundary chain offset out into agent space. Obstacles
// form a doubly linked ring per chain; the edge used for ORCA
// construction runs from this vertex to Next.
type Obstacle struct {
	Point    Vec2
	UnitDir  Vec2
	IsConvex bool
	ID       int

	Prev, Next *Obstacle
}

// SetUnitDir sets the obstacle's edge direction from p1 to p2.
func (o *Obstacle) SetUnitDir(p1, p2 Vec2) {
	o.UnitDir = Normalize(p2.Sub(p1))
}

// SetConvex marks the obstacle vertex convex when p3 does not lie to
// the right of the directed line p1->p2 (i.e. the boundary turns left
// or stays straight at p2, as seen from outside the obstacle).
func (o *Obstacle) SetConvex(p1, p2, p3 Vec2) {
	o.IsConvex = LeftOf(p1, p2, p3) >= 0
}
