package rvo

import "github.com/aurelien-rainone/math32"

// linearProgram1 optimizes the velocity along lines[lineNo], subject to
// every earlier line in lines and the max-speed disc of the given
// radius. directionOpt selects whether optVelocity is a preferred
// direction (true) or a preferred point (false).
func linearProgram1(lines []Line, lineNo int, radius float32, optVelocity Vec2, directionOpt bool, result Vec2) (Vec2, bool) {
	dotProduct := Dot(lines[lineNo].Point, lines[lineNo].Direction)
	discriminant := dotProduct*dotProduct + radius*radius - AbsSq(lines[lineNo].Point)
	if discriminant < 0 {
		return result, false
	}

	sqrtDiscriminant := math32.Sqrt(discriminant)
	tLeft := -dotProduct - sqrtDiscriminant
	tRight := -dotProduct + sqrtDiscriminant

	for i := 0; i < lineNo; i++ {
		denominator := Det(lines[lineNo].Direction, lines[i].Direction)
		numerator := Det(lines[i].Direction, lines[lineNo].Point.Sub(lines[i].Point))

		if math32.Abs(denominator) <= Epsilon {
			if numerator < 0 {
				return result, false
			}
			continue
		}

		t := numerator / denominator
		if denominator >= 0 {
			tRight = math32.Min(tRight, t)
		} else {
			tLeft = math32.Max(tLeft, t)
		}
		if tLeft > tRight {
			return result, false
		}
	}

	if directionOpt {
		if Dot(optVelocity, lines[lineNo].Direction) > 0 {
			result = lines[lineNo].Point.Add(lines[lineNo].Direction.Scale(tRight))
		} else {
			result = lines[lineNo].Point.Add(lines[lineNo].Direction.Scale(tLeft))
		}
		return result, true
	}

	t := Dot(lines[lineNo].Direction, optVelocity.Sub(lines[lineNo].Point))
	if t < tLeft {
		t = tLeft
	} else if t > tRight {
		t = tRight
	}
	result = lines[lineNo].Point.Add(lines[lineNo].Direction.Scale(t))
	return result, true
}

// linearProgram2 solves the full set of lines in order, falling back to
// linearProgram1 on the first violated constraint. It returns the
// optimized velocity and the index of the first line it could not
// satisfy directly (len(lines) if all were satisfied) — that index
// becomes the starting point for linearProgram3's relaxation.
func linearProgram2(lines []Line, radius float32, optVelocity Vec2, directionOpt bool) (int, Vec2) {
	var result Vec2
	switch {
	case directionOpt:
		result = optVelocity.Scale(radius)
	case AbsSq(optVelocity) > radius*radius:
		result = Normalize(optVelocity).Scale(radius)
	default:
		result = optVelocity
	}

	for i := range lines {
		if Det(lines[i].Direction, lines[i].Point.Sub(result)) > 0 {
			tmp := result
			res, ok := linearProgram1(lines, i, radius, optVelocity, directionOpt, tmp)
			if !ok {
				return i, tmp
			}
			result = res
		}
	}
	return len(lines), result
}

// linearProgram3 relaxes an infeasible system (one that linearProgram2
// could not satisfy past beginLine) by progressively projecting onto
// each remaining violated line's feasible intersection with the lines
// seen so far, preferring minimal distance from the lines already
// satisfied. numObstLines lines at the front of lines are obstacle ORCA
// lines and are never relaxed away.
func linearProgram3(lines []Line, numObstLines, beginLine int, radius float32, result Vec2) Vec2 {
	distance := float32(0)
	for i := beginLine; i < len(lines); i++ {
		if Det(lines[i].Direction, lines[i].Point.Sub(result)) <= distance {
			continue
		}

		projLines := make([]Line, numObstLines, len(lines))
		copy(projLines, lines[:numObstLines])

		for j := numObstLines; j < i; j++ {
			var line Line

			determinant := Det(lines[i].Direction, lines[j].Direction)
			if math32.Abs(determinant) <= Epsilon {
				if Dot(lines[i].Direction, lines[j].Direction) > 0 {
					continue
				}
				line.Point = lines[i].Point.Add(lines[j].Point).Scale(0.5)
			} else {
				s := Det(lines[j].Direction, lines[i].Point.Sub(lines[j].Point)) / determinant
				line.Point = lines[i].Point.Add(lines[i].Direction.Scale(s))
			}
			line.Direction = Normalize(lines[j].Direction.Sub(lines[i].Direction))
			projLines = append(projLines, line)
		}

		_, result = linearProgram2(projLines, radius, lines[i].Direction.Perp(), true)
		distance = Det(lines[i].Direction, lines[i].Point.Sub(result))
	}
	return result
}
