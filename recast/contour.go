package recast

import (
	"sort"

	"github.com/aurelien-rainone/assertgo"
)

// cornerHeight returns the height of the shared corner of the spans
// around (x, y, i) in direction dir, along with whether that corner sits
// on a border between two same-area exterior regions — such corners are
// flagged so the simplifier can drop them later without changing the
// mesh's outer silhouette.
func cornerHeight(x, y, i, dir int32, chf *CompactHeightfield) (ch int32, isBorderVertex bool) {
	s := &chf.Spans[i]
	ch = int32(s.Y)
	dirp := (dir + 1) & 0x3

	regs := [4]uint32{0, 0, 0, 0}

	// Region and area are packed together so a border vertex sitting
	// between two different areas is never mistaken for a removable one.
	regs[0] = uint32(chf.Spans[i].Reg) | (uint32(chf.Areas[i]) << 16)

	if GetCon(s, dir) != notConnected {
		ax := x + GetDirOffsetX(dir)
		ay := y + GetDirOffsetY(dir)
		ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dir)
		as := &chf.Spans[ai]
		ch = iMax(ch, int32(as.Y))
		regs[1] = uint32(chf.Spans[ai].Reg) | (uint32(chf.Areas[ai]) << 16)
		if GetCon(as, dirp) != notConnected {
			ax2 := ax + GetDirOffsetX(dirp)
			ay2 := ay + GetDirOffsetY(dirp)
			ai2 := int32(chf.Cells[ax2+ay2*chf.Width].Index) + GetCon(as, dirp)
			ch = iMax(ch, int32(chf.Spans[ai2].Y))
			regs[2] = uint32(chf.Spans[ai2].Reg) | (uint32(chf.Areas[ai2]) << 16)
		}
	}
	if GetCon(s, dirp) != notConnected {
		ax := x + GetDirOffsetX(dirp)
		ay := y + GetDirOffsetY(dirp)
		ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dirp)
		as := &chf.Spans[ai]
		ch = iMax(ch, int32(as.Y))
		regs[3] = uint32(chf.Spans[ai].Reg) | (uint32(chf.Areas[ai]) << 16)
		if GetCon(as, dir) != notConnected {
			ax2 := ax + GetDirOffsetX(dir)
			ay2 := ay + GetDirOffsetY(dir)
			ai2 := int32(chf.Cells[ax2+ay2*chf.Width].Index) + GetCon(as, dir)
			ch = iMax(ch, int32(chf.Spans[ai2].Y))
			regs[2] = uint32(chf.Spans[ai2].Reg) | (uint32(chf.Areas[ai2]) << 16)
		}
	}

	// A corner is a border vertex when two identical exterior regions
	// appear consecutively, followed by two interior ones of the same
	// area, with none of the four slots empty.
	for j := int32(0); j < 4; j++ {
		a := j
		b := (j + 1) & 0x3
		c := (j + 2) & 0x3
		d := (j + 3) & 0x3

		twoSameExts := (regs[a]&regs[b]&uint32(borderReg)) != 0 && regs[a] == regs[b]
		twoInts := ((regs[c] | regs[d]) & uint32(borderReg)) == 0
		intsSameArea := (regs[c] >> 16) == (regs[d] >> 16)
		noZeros := regs[a] != 0 && regs[b] != 0 && regs[c] != 0 && regs[d] != 0
		if twoSameExts && twoInts && intsSameArea && noZeros {
			isBorderVertex = true
			break
		}
	}

	return ch, isBorderVertex
}

// Contour is a simple, non-overlapping polygon boundary in voxel space.
type Contour struct {
	Verts   []int32 // simplified vertex/connection data, 4 int32s per vertex
	NVerts  int32
	RVerts  []int32 // raw (unsimplified) vertex/connection data
	NRVerts int32
	Reg     uint16 // region this contour was traced from
	Area    uint8
}

// ContourSet is the collection of contours traced from one
// CompactHeightfield's regions, the input to PolyMesh construction.
type ContourSet struct {
	Conts      []Contour
	NConts     int32
	BMin       [3]float32
	BMax       [3]float32
	Cs         float32
	Ch         float32
	Width      int32
	Height     int32
	BorderSize int32
	MaxError   float32
}

// mergeRegionHoles stitches every hole contour of region into its
// outline, processing holes left to right so nested holes never leave a
// dangling bridge edge behind.
func mergeRegionHoles(ctx *BuildContext, region *contourRegion) {
	for i := int32(0); i < region.nholes; i++ {
		region.holes[i].minx, region.holes[i].minz, region.holes[i].leftmost = findLeftMostVertex(region.holes[i].contour)
	}

	sort.Sort(compareHoles(region.holes))

	maxVerts := region.outline.NVerts
	for i := int32(0); i < region.nholes; i++ {
		maxVerts += region.holes[i].contour.NVerts
	}

	diags := make([]potentialDiagonal, maxVerts)

	outline := region.outline

	for i := int32(0); i < region.nholes; i++ {
		hole := region.holes[i].contour

		index := int32(-1)
		bestVertex := region.holes[i].leftmost
		for iter := int32(0); iter < hole.NVerts; iter++ {
			// The candidate bridge vertex on the outline must fall in
			// the cone formed by three consecutive outline vertices
			// around it:
			//  ..o j-1
			//    |
			//    |   * best
			//    |
			//  j o-----o j+1
			var ndiags int32
			corner := hole.Verts[bestVertex*4:]
			for j := int32(0); j < outline.NVerts; j++ {
				if inCone4(j, outline.NVerts, outline.Verts, corner) {
					dx := outline.Verts[j*4+0] - corner[0]
					dz := outline.Verts[j*4+2] - corner[2]
					diags[ndiags].vert = j
					diags[ndiags].dist = dx*dx + dz*dz
					ndiags++
				}
			}

			// Shortest candidate bridge first.
			sort.Sort(compareDiagDist(diags[:ndiags]))

			// Pick the shortest diagonal that crosses neither the
			// outline nor any remaining hole.
			index = -1
			for j := int32(0); j < ndiags; j++ {
				pt := outline.Verts[diags[j].vert*4:]
				intersect := segmentCrossesContour(pt, corner, diags[j].vert, outline.NVerts, outline.Verts)
				for k := i; k < region.nholes && !intersect; k++ {
					intersect = intersect || segmentCrossesContour(pt, corner, -1, region.holes[k].contour.NVerts, region.holes[k].contour.Verts)
				}
				if !intersect {
					index = diags[j].vert
					break
				}
			}
			if index != -1 {
				break
			}
			// Every diagonal from this hole vertex crossed something;
			// try the next hole vertex around.
			bestVertex = (bestVertex + 1) % hole.NVerts
		}

		if index == -1 {
			ctx.Warningf("mergeRegionHoles: no bridge vertex found between outline and hole of region %d", region.outline.Reg)
			continue
		}
		if !mergeContours(region.outline, hole, index, bestVertex) {
			ctx.Warningf("mergeRegionHoles: failed to splice hole into outline of region %d", region.outline.Reg)
			continue
		}
	}
}

// BuildContours traces the boundary of every region in chf into a
// ContourSet. Each region's raw contour follows its voxel outline
// exactly; simplifyContour then reduces it to the fewest vertices that
// still stay within maxError of that raw outline, always preserving the
// vertices where the boundary crosses into another region or area
// (since those are load-bearing for the polygon mesh that follows).
//
// maxEdgeLen, when non-zero, additionally splits any simplified edge
// along the mesh border longer than that many voxels — useful for
// keeping tile-border polygons small enough for later stitching.
// buildFlags selects which edge classes maxEdgeLen applies to; see
// RC_CONTOUR_TESS_WALL_EDGES and RC_CONTOUR_TESS_AREA_EDGES.
//
// cset must already be allocated; its fields are overwritten. Reports
// whether contour construction succeeded.
func BuildContours(ctx *BuildContext, chf *CompactHeightfield,
	maxError float32, maxEdgeLen int32,
	cset *ContourSet, buildFlags int32) bool {
	assert.True(ctx != nil, "ctx should not be nil")

	w := chf.Width
	h := chf.Height
	borderSize := chf.BorderSize

	ctx.StartTimer(TimerBuildContours)
	defer ctx.StopTimer(TimerBuildContours)

	copy(cset.BMin[:], chf.BMin[:])
	copy(cset.BMax[:], chf.BMax[:])
	if borderSize > 0 {
		// Undo the offset the border padding introduced during baking.
		pad := float32(borderSize) * chf.Cs
		cset.BMin[0] += pad
		cset.BMin[2] += pad
		cset.BMax[0] -= pad
		cset.BMax[2] -= pad
	}
	cset.Cs = chf.Cs
	cset.Ch = chf.Ch
	cset.Width = chf.Width - chf.BorderSize*2
	cset.Height = chf.Height - chf.BorderSize*2
	cset.BorderSize = chf.BorderSize
	cset.MaxError = maxError

	maxContours := iMax(int32(chf.MaxRegions), 8)
	cset.Conts = make([]Contour, maxContours)
	cset.NConts = 0

	flags := make([]uint8, chf.SpanCount)

	ctx.StartTimer(TimerBuildContoursTrace)

	// Flag every span edge that crosses into a different region (or
	// the outside), so walkContourEdges knows where to turn.
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := &chf.Cells[x+y*w]
			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				var res uint8
				s := &chf.Spans[i]
				if (s.Reg == 0) || ((s.Reg & borderReg) != 0) {
					flags[i] = 0
					continue
				}
				for dir := int32(0); dir < 4; dir++ {
					var r uint16
					if GetCon(s, dir) != notConnected {
						ax := x + GetDirOffsetX(dir)
						ay := y + GetDirOffsetY(dir)
						ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, dir)
						r = chf.Spans[ai].Reg
					}
					if r == chf.Spans[i].Reg {
						res |= (1 << uint(dir))
					}
				}
				flags[i] = res ^ 0xf // invert: bit set means boundary edge
			}
		}
	}

	ctx.StopTimer(TimerBuildContoursTrace)

	verts := make([]int32, 256)
	simplified := make([]int32, 64)

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := &chf.Cells[x+y*w]
			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				if flags[i] == 0 || flags[i] == 0xf {
					flags[i] = 0
					continue
				}
				reg := chf.Spans[i].Reg
				if (reg == 0) || ((reg & borderReg) != 0) {
					continue
				}
				area := chf.Areas[i]

				verts = make([]int32, 0)
				simplified = make([]int32, 0)

				ctx.StartTimer(TimerBuildContoursTrace)
				walkContourEdges(x, y, i, chf, flags, &verts)
				ctx.StopTimer(TimerBuildContoursTrace)

				ctx.StartTimer(TimerBuildContoursSimplify)
				simplifyContour(&verts, &simplified, maxError, maxEdgeLen, buildFlags)
				removeDegenerateSegments(&simplified)
				ctx.StopTimer(TimerBuildContoursSimplify)

				if len(simplified)/4 >= 3 {
					if cset.NConts >= maxContours {
						// A region turned out to have holes, which need
						// extra contour slots beyond the single-outline
						// estimate above.
						oldMax := maxContours
						maxContours *= 2
						newConts := make([]Contour, maxContours)
						for j := int32(0); j < cset.NConts; j++ {
							newConts[j] = cset.Conts[j]
							cset.Conts[j].Verts = nil
							cset.Conts[j].RVerts = nil
						}
						cset.Conts = newConts

						ctx.Warningf("BuildContours: expanded max contours from %d to %d", oldMax, maxContours)
					}

					cont := &cset.Conts[cset.NConts]
					cset.NConts++
					cont.NVerts = int32(len(simplified) / 4)
					cont.Verts = make([]int32, cont.NVerts*4)
					copy(cont.Verts, simplified[:cont.NVerts*4])
					if borderSize > 0 {
						for j := int32(0); j < cont.NVerts; j++ {
							v := cont.Verts[j*4:]
							v[0] -= borderSize
							v[2] -= borderSize
						}
					}

					cont.NRVerts = int32(len(verts) / 4)
					cont.RVerts = make([]int32, cont.NRVerts*4)
					copy(cont.RVerts, verts[:cont.NRVerts*4])
					if borderSize > 0 {
						for j := int32(0); j < cont.NRVerts; j++ {
							v := cont.RVerts[j*4:]
							v[0] -= borderSize
							v[2] -= borderSize
						}
					}

					cont.Reg = reg
					cont.Area = area
				}
			}
		}
	}

	// Contours wound clockwise are outlines; counter-clockwise ones are
	// holes that need bridging into their region's outline.
	if cset.NConts > 0 {
		winding := make([]int8, cset.NConts)
		var nholes int32
		for i := int32(0); i < cset.NConts; i++ {
			cont := &cset.Conts[i]
			if calcAreaOfPolygon2D(cont.Verts, cont.NVerts) < 0 {
				winding[i] = -1
			} else {
				winding[i] = 1
			}
			if winding[i] < 0 {
				nholes++
			}
		}

		if nholes > 0 {
			// One outline and zero or more holes are expected per
			// region.
			nregions := chf.MaxRegions + 1
			regions := make([]contourRegion, nregions)
			holes := make([]contourHole, cset.NConts)

			for i := int32(0); i < cset.NConts; i++ {
				cont := &cset.Conts[i]
				if winding[i] > 0 {
					if regions[cont.Reg].outline != nil {
						ctx.Errorf("BuildContours: multiple outlines for region %d", cont.Reg)
					}
					regions[cont.Reg].outline = cont
				} else {
					regions[cont.Reg].nholes++
				}
			}
			index := int32(0)
			for i := uint16(0); i < nregions; i++ {
				if regions[i].nholes > 0 {
					regions[i].holes = holes[index:]
					index += regions[i].nholes
					regions[i].nholes = 0
				}
			}
			for i := int32(0); i < cset.NConts; i++ {
				cont := &cset.Conts[i]
				reg := &regions[cont.Reg]
				if winding[i] < 0 {
					reg.holes[reg.nholes].contour = cont
					reg.nholes++
				}
			}

			for i := uint16(0); i < nregions; i++ {
				reg := &regions[i]
				if reg.nholes == 0 {
					continue
				}

				if reg.outline != nil {
					mergeRegionHoles(ctx, reg)
				} else {
					// Can happen when overly aggressive simplification
					// settings made the region's contour self-overlap.
					ctx.Errorf("BuildContours: region %d has holes but no outline; contour simplification is likely too aggressive", i)
				}
			}
		}
	}

	return true
}

// walkContourEdges walks the boundary of the region touching span i,
// starting from its first unvisited boundary edge, and appends one
// point per boundary edge crossed to *points (4 int32s: x, y, z and a
// packed flags/region word). This produces the raw, unsimplified
// contour that simplifyContour then reduces.
func walkContourEdges(x, y, i int32,
	chf *CompactHeightfield,
	flags []uint8, points *[]int32) {
	var dir uint8
	for (flags[i] & (1 << dir)) == 0 {
		dir++
	}

	startDir := dir
	starti := i

	area := chf.Areas[i]

	iter := int32(0)
	for iter+1 < 40000 {
		iter++
		if (flags[i] & (1 << uint(dir))) != 0 {
			isAreaBorder := false
			px := x
			py, isBorderVertex := cornerHeight(x, y, i, int32(dir), chf)
			pz := y
			switch dir {
			case 0:
				pz++
			case 1:
				px++
				pz++
			case 2:
				px++
			}
			r := int32(0)
			s := &chf.Spans[i]
			if GetCon(s, int32(dir)) != notConnected {
				ax := x + GetDirOffsetX(int32(dir))
				ay := y + GetDirOffsetY(int32(dir))
				ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, int32(dir))
				r = int32(chf.Spans[ai].Reg)
				if area != chf.Areas[ai] {
					isAreaBorder = true
				}
			}
			if isBorderVertex {
				r |= borderVertex
			}
			if isAreaBorder {
				r |= areaBorder
			}
			*points = append(*points, px, py, pz, r)

			flags[i] &= ^(1 << dir) // mark edge visited
			dir = (dir + 1) & 0x3   // rotate CW
		} else {
			ni := int32(-1)
			nx := x + GetDirOffsetX(int32(dir))
			ny := y + GetDirOffsetY(int32(dir))
			s := &chf.Spans[i]
			if GetCon(s, int32(dir)) != notConnected {
				ni = int32(chf.Cells[nx+ny*chf.Width].Index) + GetCon(s, int32(dir))
			}
			if ni == -1 {
				return
			}
			x = nx
			y = ny
			i = ni
			dir = (dir + 3) & 0x3 // rotate CCW
		}

		if starti == i && startDir == dir {
			break
		}
	}
}

// distancePtSeg returns the squared distance from point (x, z) to the
// closest point on segment (px,pz)-(qx,qz).
func distancePtSeg(x, z int32, px, pz, qx, qz int32) float32 {
	pqx := float32(qx - px)
	pqz := float32(qz - pz)
	dx := float32(x - px)
	dz := float32(z - pz)
	d := pqx*pqx + pqz*pqz
	t := pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	dx = float32(px) + t*pqx - float32(x)
	dz = float32(pz) + t*pqz - float32(z)

	return dx*dx + dz*dz
}

// simplifyContour reduces the raw contour in points to the smallest set
// of vertices in simplified whose segments still stay within maxError
// of the original, using a recursive-subdivision-style greedy pass:
// mandatory vertices (region/area transitions, or the bounding corners
// when there are none) seed the simplified polygon, then the point of
// greatest deviation on each segment is added until every segment is
// within tolerance. When maxEdgeLen is set, long wall/area-border
// segments are additionally split regardless of deviation.
func simplifyContour(points, simplified *[]int32,
	maxError float32, maxEdgeLen, buildFlags int32) {
	hasConnections := false
	for i := 0; i < len(*points); i += 4 {
		if ((*points)[i+3] & contourRegMask) != 0 {
			hasConnections = true
			break
		}
	}

	if hasConnections {
		// Seed the simplified contour with every vertex where the
		// neighboring region or area changes; these are mandatory.
		var i int
		for ni := len(*points) / 4; i < ni; i++ {
			ii := (i + 1) % ni
			differentRegs := ((*points)[i*4+3] & contourRegMask) != ((*points)[ii*4+3] & contourRegMask)
			areaBorders := ((*points)[i*4+3] & areaBorder) != ((*points)[ii*4+3] & areaBorder)
			if differentRegs || areaBorders {
				*simplified = append(*simplified, (*points)[i*4+0])
				*simplified = append(*simplified, (*points)[i*4+1])
				*simplified = append(*simplified, (*points)[i*4+2])
				*simplified = append(*simplified, int32(i))
			}
		}
	}

	if len(*simplified) == 0 {
		// No portals to seed from: start from the lower-left and
		// upper-right corners of the raw contour instead.
		llx := (*points)[0]
		lly := (*points)[1]
		llz := (*points)[2]
		lli := int32(0)
		urx := (*points)[0]
		ury := (*points)[1]
		urz := (*points)[2]
		uri := int32(0)
		for i := 0; i < len(*points); i += 4 {
			x := (*points)[i+0]
			y := (*points)[i+1]
			z := (*points)[i+2]
			if x < llx || (x == llx && z < llz) {
				llx = x
				lly = y
				llz = z
				lli = int32(i / 4)
			}
			if x > urx || (x == urx && z > urz) {
				urx = x
				ury = y
				urz = z
				uri = int32(i / 4)
			}
		}
		*simplified = append(*simplified, llx)
		*simplified = append(*simplified, lly)
		*simplified = append(*simplified, llz)
		*simplified = append(*simplified, lli)

		*simplified = append(*simplified, urx)
		*simplified = append(*simplified, ury)
		*simplified = append(*simplified, urz)
		*simplified = append(*simplified, uri)
	}

	// Add a vertex on each segment whose deviation from the raw contour
	// exceeds maxError, until every segment is within tolerance.
	pn := int32(len(*points) / 4)
	for i := 0; i < len(*simplified)/4; {
		ii := (i + 1) % (len(*simplified) / 4)

		ax := (*simplified)[i*4+0]
		az := (*simplified)[i*4+2]
		ai := (*simplified)[i*4+3]

		bx := (*simplified)[ii*4+0]
		bz := (*simplified)[ii*4+2]
		bi := (*simplified)[ii*4+3]

		var maxd float32
		maxi := int32(-1)
		var ci, cinc, endi int32

		// Walk the segment in a consistent lexical order so deviation
		// is computed the same way regardless of traversal direction.
		if bx > ax || (bx == ax && bz > az) {
			cinc = 1
			ci = (ai + cinc) % pn
			endi = bi
		} else {
			cinc = pn - 1
			ci = (bi + cinc) % pn
			endi = ai
			ax, bx = bx, ax
			az, bz = bz, az
		}

		// Only outer edges or area-border edges get subdivided here.
		if ((*points)[ci*4+3]&contourRegMask) == 0 ||
			(((*points)[ci*4+3] & areaBorder) != 0) {
			for ci != endi {
				d := distancePtSeg((*points)[ci*4+0], (*points)[ci*4+2], ax, az, bx, bz)
				if d > maxd {
					maxd = d
					maxi = ci
				}
				ci = (ci + cinc) % pn
			}
		}

		if maxi != -1 && maxd > (maxError*maxError) {
			*simplified = append(*simplified, make([]int32, 4)...)
			n := len(*simplified) / 4
			for j := n - 1; j > i; j-- {
				(*simplified)[j*4+0] = (*simplified)[(j-1)*4+0]
				(*simplified)[j*4+1] = (*simplified)[(j-1)*4+1]
				(*simplified)[j*4+2] = (*simplified)[(j-1)*4+2]
				(*simplified)[j*4+3] = (*simplified)[(j-1)*4+3]
			}
			(*simplified)[(i+1)*4+0] = (*points)[maxi*4+0]
			(*simplified)[(i+1)*4+1] = (*points)[maxi*4+1]
			(*simplified)[(i+1)*4+2] = (*points)[maxi*4+2]
			(*simplified)[(i+1)*4+3] = maxi
		} else {
			i++
		}
	}

	// Split edges longer than maxEdgeLen along the wall/area borders
	// buildFlags asks for.
	if maxEdgeLen > 0 && (buildFlags&(RC_CONTOUR_TESS_WALL_EDGES|RC_CONTOUR_TESS_AREA_EDGES)) != 0 {
		for i := 0; i < len(*simplified)/4; {
			ii := (i + 1) % (len(*simplified) / 4)

			ax := (*simplified)[i*4+0]
			az := (*simplified)[i*4+2]
			ai := (*simplified)[i*4+3]

			bx := (*simplified)[ii*4+0]
			bz := (*simplified)[ii*4+2]
			bi := (*simplified)[ii*4+3]

			maxi := int32(-1)
			ci := (ai + 1) % pn

			tess := false
			if ((buildFlags & RC_CONTOUR_TESS_WALL_EDGES) != 0) && ((*points)[ci*4+3]&contourRegMask) == 0 {
				tess = true
			}
			if ((buildFlags & RC_CONTOUR_TESS_AREA_EDGES) != 0) && (((*points)[ci*4+3] & areaBorder) != 0) {
				tess = true
			}

			if tess {
				dx := bx - ax
				dz := bz - az
				if dx*dx+dz*dz > maxEdgeLen*maxEdgeLen {
					// Split at the raw-contour midpoint, in the same
					// lexical order used above for consistent results.
					var n int32
					if bi < ai {
						n = (bi + pn - ai)
					} else {
						n = (bi - ai)
					}
					if n > 1 {
						if bx > ax || (bx == ax && bz > az) {
							maxi = (ai + n/2) % pn
						} else {
							maxi = (ai + (n+1)/2) % pn
						}
					}
				}
			}

			if maxi != -1 {
				*simplified = append(*simplified, make([]int32, 4)...)

				n := len(*simplified) / 4
				for j := n - 1; j > i; j-- {
					(*simplified)[j*4+0] = (*simplified)[(j-1)*4+0]
					(*simplified)[j*4+1] = (*simplified)[(j-1)*4+1]
					(*simplified)[j*4+2] = (*simplified)[(j-1)*4+2]
					(*simplified)[j*4+3] = (*simplified)[(j-1)*4+3]
				}
				(*simplified)[(i+1)*4+0] = (*points)[maxi*4+0]
				(*simplified)[(i+1)*4+1] = (*points)[maxi*4+1]
				(*simplified)[(i+1)*4+2] = (*points)[maxi*4+2]
				(*simplified)[(i+1)*4+3] = maxi
			} else {
				i++
			}
		}
	}

	for i := 0; i < len(*simplified)/4; i++ {
		// The border-vertex flag comes from the raw point itself, the
		// neighboring region/area flags from the next raw point.
		ai := ((*simplified)[i*4+3] + 1) % pn
		bi := (*simplified)[i*4+3]
		(*simplified)[i*4+3] = ((*points)[ai*4+3] & (contourRegMask | areaBorder)) | ((*points)[bi*4+3] & borderVertex)
	}
}

// calcAreaOfPolygon2D returns the signed area of the polygon on the
// xz-plane, rounded to an integer; its sign gives the winding direction (negative for a
// hole contour traced counter-clockwise).
func calcAreaOfPolygon2D(verts []int32, nverts int32) int32 {
	var area, i int32
	for j := nverts - 1; i < nverts; i++ {
		vi := verts[i*4:]
		vj := verts[j*4:]
		area += vi[0]*vj[2] - vj[0]*vi[2]
		j = i
	}
	return (area + 1) / 2
}

func prev(i, n int32) int32 {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

func next(i, n int32) int32 {
	if i+1 < n {
		return i + 1
	}
	return 0
}

func area2(a, b, c []int32) int32 {
	return (b[0]-a[0])*(c[2]-a[2]) - (c[0]-a[0])*(b[2]-a[2])
}

func xorb(x, y bool) bool {
	return x != y
}

// left reports whether c is strictly to the left of the directed line
// from a to b.
func left(a, b, c []int32) bool {
	return area2(a, b, c) < 0
}

func leftOn(a, b, c []int32) bool {
	return area2(a, b, c) <= 0
}

func collinear(a, b, c []int32) bool {
	return area2(a, b, c) == 0
}

// intersectProp reports whether ab and cd cross at a point interior to
// both segments.
func intersectProp(a, b, c, d []int32) bool {
	if collinear(a, b, c) || collinear(a, b, d) ||
		collinear(c, d, a) || collinear(c, d, b) {
		return false
	}

	return xorb(left(a, b, c), left(a, b, d)) && xorb(left(c, d, a), left(c, d, b))
}

// between reports whether c lies on the closed segment ab, given that
// a, b and c are already known to be collinear.
func between(a, b, c []int32) bool {
	if !collinear(a, b, c) {
		return false
	}
	if a[0] != b[0] {
		return ((a[0] <= c[0]) && (c[0] <= b[0])) || ((a[0] >= c[0]) && (c[0] >= b[0]))
	}
	return ((a[2] <= c[2]) && (c[2] <= b[2])) || ((a[2] >= c[2]) && (c[2] >= b[2]))
}

// intersect reports whether segments ab and cd intersect, properly or
// by one endpoint touching the other segment.
func intersect(a, b, c, d []int32) bool {
	if intersectProp(a, b, c, d) {
		return true
	} else if between(a, b, c) || between(a, b, d) || between(c, d, a) || between(c, d, b) {
		return true
	}
	return false
}

func vequal(a, b []int32) bool {
	return a[0] == b[0] && a[2] == b[2]
}

// removeDegenerateSegments drops consecutive vertices that coincide on
// the xz-plane, which would otherwise confuse the triangulator in the
// polygon mesh stage.
func removeDegenerateSegments(simplified *[]int32) {
	npts := int32(len(*simplified) / 4)
	for i := int32(0); i < npts; i++ {
		ni := next(i, npts)

		if vequal((*simplified)[i*4:], (*simplified)[ni*4:]) {
			for j := i; j < int32(len(*simplified)/4-1); j++ {
				(*simplified)[j*4+0] = (*simplified)[(j+1)*4+0]
				(*simplified)[j*4+1] = (*simplified)[(j+1)*4+1]
				(*simplified)[j*4+2] = (*simplified)[(j+1)*4+2]
				(*simplified)[j*4+3] = (*simplified)[(j+1)*4+3]
			}

			*simplified = (*simplified)[:len(*simplified)-4]
			npts--
		}
	}
}

// findLeftMostVertex returns the index and coordinates of contour's
// lowest, leftmost vertex — the conventional starting point for
// comparing and merging holes.
func findLeftMostVertex(contour *Contour) (minx, minz, leftmost int32) {
	minx = contour.Verts[0]
	minz = contour.Verts[2]
	leftmost = 0
	for i := int32(1); i < contour.NVerts; i++ {
		x := contour.Verts[i*4+0]
		z := contour.Verts[i*4+2]
		if x < minx || (x == minx && z < minz) {
			minx = x
			minz = z
			leftmost = i
		}
	}
	return
}

// mergeContours splices cb into ca by duplicating the bridge vertices
// at ia (on ca) and ib (on cb) and walking each contour once starting
// from its bridge vertex, leaving cb empty.
func mergeContours(ca, cb *Contour, ia, ib int32) bool {
	maxVerts := ca.NVerts + cb.NVerts + 2
	verts := make([]int32, maxVerts*4)

	var nv int32

	for i := int32(0); i <= ca.NVerts; i++ {
		dst := verts[nv*4:]
		src := ca.Verts[((ia+i)%ca.NVerts)*4:]
		dst[0] = src[0]
		dst[1] = src[1]
		dst[2] = src[2]
		dst[3] = src[3]
		nv++
	}

	for i := int32(0); i <= cb.NVerts; i++ {
		dst := verts[nv*4:]
		src := cb.Verts[((ib+i)%cb.NVerts)*4:]
		dst[0] = src[0]
		dst[1] = src[1]
		dst[2] = src[2]
		dst[3] = src[3]
		nv++
	}

	ca.Verts = verts
	ca.NVerts = nv

	cb.Verts = nil
	cb.NVerts = 0

	return true
}

// contourRegion groups one region's outline contour with its holes,
// used only while BuildContours is bridging holes into outlines.
type contourRegion struct {
	outline *Contour
	holes   []contourHole
	nholes  int32
}

type contourHole struct {
	contour              *Contour
	minx, minz, leftmost int32
}

type compareHoles []contourHole

func (s compareHoles) Len() int { return len(s) }

// Less sorts holes left to right, then bottom to top.
func (s compareHoles) Less(i, j int) bool {
	a := s[i]
	b := s[j]
	if a.minx == b.minx {
		switch {
		case a.minz < b.minz:
			return true
		case a.minz > b.minz:
			return false
		}
	} else {
		switch {
		case a.minx < b.minx:
			return true
		case a.minx > b.minx:
			return false
		}
	}
	return false
}

func (s compareHoles) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// potentialDiagonal is a candidate bridge vertex on an outline,
// together with its squared distance to the hole vertex being bridged.
type potentialDiagonal struct {
	vert, dist int32
}

type compareDiagDist []potentialDiagonal

func (s compareDiagDist) Len() int { return len(s) }

func (s compareDiagDist) Less(i, j int) bool {
	a := s[i]
	b := s[j]

	switch {
	case a.dist < b.dist:
		return true
	case a.dist > b.dist:
		return false
	default:
		return false
	}
}

func (s compareDiagDist) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// segmentCrossesContour reports whether segment d0-d1 crosses any edge
// of the polygon verts, ignoring the two edges incident to vertex i
// (the vertex d0 or d1 was derived from, which trivially touches them).
func segmentCrossesContour(d0, d1 []int32, i, n int32, verts []int32) bool {
	for k := int32(0); k < n; k++ {
		k1 := next(k, n)
		if i == k || i == k1 {
			continue
		}
		p0 := verts[k*4:]
		p1 := verts[k1*4:]
		if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
			continue
		}

		if intersect(d0, d1, p0, p1) {
			return true
		}
	}
	return false
}

// inCone4 reports whether pj lies in the visibility cone of outline
// vertex i formed by its two neighbors, the standard test for whether
// a diagonal from i to pj could be a valid polygon-splitting bridge.
func inCone4(i, n int32, verts, pj []int32) bool {
	pi := verts[i*4:]
	pi1 := verts[next(i, n)*4:]
	pin1 := verts[prev(i, n)*4:]

	if leftOn(pin1, pi, pi1) {
		// Convex vertex.
		return left(pi, pj, pin1) && left(pj, pi, pi1)
	}
	// Reflex vertex (i-1, i, i+1 assumed non-collinear).
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}
