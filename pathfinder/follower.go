package pathfinder

import (
	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/rvo"
)

// follower tracks one agent's progress along a funnel-pulled path:
// which corner it is steering toward, the y-height at each corner (for
// reporting 3D positions back to the caller), and whether it is
// currently active (has somewhere to go).
type follower struct {
	active    bool
	path      []geom.Vec3  // full 3D path, path[0] is the start point
	targets   []rvo.Vec2   // xz projection of path, same indexing
	heights   []float32    // y of each path point
	index     int          // index of the corner currently being steered toward
	direction rvo.Vec2     // unit direction from the previous corner to the current target, set whenever index advances
}

// setPath installs a freshly searched path and starts following it. A
// single-point path is doubled into a zero-length two-point path, so
// the agent arrives at it on the next update.
func (f *follower) setPath(path []geom.Vec3, from rvo.Vec2) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		path = []geom.Vec3{path[0], path[0]}
	}
	f.path = path
	f.targets = make([]rvo.Vec2, len(path))
	f.heights = make([]float32, len(path))
	for i, p := range path {
		f.targets[i] = rvo.V2(p.X(), p.Z())
		f.heights[i] = p.Y()
	}
	f.index = 1
	f.direction = toDirection(from, f.targets[1])
	f.active = true
}

func (f *follower) stop() {
	f.active = false
	f.path = nil
}

// target returns the corner currently being steered toward.
func (f *follower) target() rvo.Vec2 { return f.targets[f.index] }

func (f *follower) atFinalTarget() bool { return f.index == len(f.targets)-1 }

// height reports the y-coordinate recorded for the segment start at or
// before index i, clamped to range (used when re-searching a path
// partway through the current segment).
func (f *follower) height(i int) float32 {
	if i < 0 {
		i = 0
	}
	if i >= len(f.heights) {
		i = len(f.heights) - 1
	}
	return f.heights[i]
}

func toDirection(from, to rvo.Vec2) rvo.Vec2 {
	v := to.Sub(from)
	l := rvo.Length(v)
	if l < 0.00001 {
		return rvo.Vec2{}
	}
	return v.Scale(1 / l)
}

// advanceIfOvershot switches to the next corner when the agent's
// heading has turned away from the current target and the next one is
// directly visible, so an agent that blows past a corner while
// avoiding another agent doesn't backtrack to it.
func (f *follower) advanceIfOvershot(current rvo.Vec2, visible func(a, b rvo.Vec2) bool) {
	if f.atFinalTarget() {
		return
	}
	local := toDirection(current, f.target())
	if rvo.Dot(local, f.direction) >= 0 {
		return
	}
	next := f.targets[f.index+1]
	if visible(current, next) {
		f.direction = toDirection(f.target(), next)
		f.index++
	}
}

// approachVelocity returns the preferred velocity for this tick: the
// full-speed direction to the current target, or (on the final leg,
// close enough to arrive within deltaTime) the exact speed needed to
// land on the target — the "final approach" partial-speed behavior
// supplementing the funnel-only original spec.
func (f *follower) approachVelocity(current rvo.Vec2, speed, deltaTime float32) (v rvo.Vec2, arrived bool) {
	toTarget := f.target().Sub(current)
	dist := rvo.Length(toTarget)
	if f.atFinalTarget() && dist < deltaTime*speed {
		unit := rvo.Normalize(toTarget)
		lastSpeed := dist / deltaTime
		return unit.Scale(lastSpeed), true
	}
	return rvo.Normalize(toTarget).Scale(speed), false
}
