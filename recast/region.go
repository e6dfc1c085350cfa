package recast

import "github.com/aurelien-rainone/assertgo"

// BuildRegionsMonotone partitions chf into regions by sweeping rows of
// the compact heightfield left to right, top to bottom, assigning each
// walkable span the region of its left or upper neighbor when one
// exists and a fresh id otherwise. It is cheaper than the watershed
// partitioning in BuildRegions and produces regions with straighter,
// more "monotone" boundaries, at the cost of sometimes cutting a region
// where a human would not.
//
// borderSize carves a non-navigable strip of that many voxels around
// the heightfield into its own border regions. minRegionArea below
// which an isolated region's spans are discarded, and mergeRegionArea
// below which a region is folded into a larger neighbor instead, are
// both in voxel units — see Config for the rest of the build's units.
//
// BuildDistanceField is not required before calling this function
// (unlike BuildRegions); the resulting region ids are stored in
// chf.Spans[*].Reg and chf.MaxRegions is updated to the count produced.
// Reports whether region construction succeeded.
func BuildRegionsMonotone(ctx *BuildContext, chf *CompactHeightfield,
	borderSize, minRegionArea, mergeRegionArea int32) bool {
	ctx.StartTimer(TimerBuildRegions)
	defer ctx.StopTimer(TimerBuildRegions)

	w := chf.Width
	h := chf.Height
	id := uint16(1)

	srcReg := make([]uint16, chf.SpanCount)
	nsweeps := iMax(chf.Width, chf.Height)
	sweeps := make([]sweepSpan, nsweeps)

	// Mark border regions.
	if borderSize > 0 {
		// Make sure border will not overflow.
		bw := iMin(w, borderSize)
		bh := iMin(h, borderSize)
		// Paint regions
		paintRectRegion(0, bw, 0, h, id|borderReg, chf, srcReg)
		id++
		paintRectRegion(w-bw, w, 0, h, id|borderReg, chf, srcReg)
		id++
		paintRectRegion(0, w, 0, bh, id|borderReg, chf, srcReg)
		id++
		paintRectRegion(0, w, h-bh, h, id|borderReg, chf, srcReg)
		id++

		chf.BorderSize = borderSize
	}

	prev := make([]int32, 256)

	// Sweep one line at a time.
	for y := borderSize; y < h-borderSize; y++ {
		// Collect spans from this row.
		prev = make([]int32, id+1)
		rowID := uint16(1)

		for x := borderSize; x < w-borderSize; x++ {
			c := &chf.Cells[x+y*w]

			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == nullArea {
					continue
				}

				// Inherit the region of the west neighbor when it is a
				// walkable span of the same area.
				previd := uint16(0)
				if GetCon(s, 0) != notConnected {
					ax := x + GetDirOffsetX(0)
					ay := y + GetDirOffsetY(0)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 0)
					if (srcReg[ai]&borderReg) == 0 && chf.Areas[i] == chf.Areas[ai] {
						previd = srcReg[ai]
					}
				}

				if previd == 0 {
					previd = rowID
					rowID++
					sweeps[previd].rid = previd
					sweeps[previd].ns = 0
					sweeps[previd].nei = 0
				}

				// Record the north neighbor's region as a merge
				// candidate for this sweep row's id.
				if GetCon(s, 3) != notConnected {
					ax := x + GetDirOffsetX(3)
					ay := y + GetDirOffsetY(3)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 3)
					if (srcReg[ai] != 0) && (srcReg[ai]&borderReg) == 0 && chf.Areas[i] == chf.Areas[ai] {
						nr := uint16(srcReg[ai])
						if (sweeps[previd].nei == 0) || sweeps[previd].nei == nr {
							sweeps[previd].nei = nr
							sweeps[previd].ns++
							prev[nr]++
						} else {
							sweeps[previd].nei = noSweepNeighbor
						}
					}
				}

				srcReg[i] = previd
			}
		}

		// Assign a final id to each row id: reuse the north neighbor's
		// id when every span in the row agrees on it, else mint a new one.
		for i := uint16(1); i < rowID; i++ {
			if sweeps[i].nei != noSweepNeighbor && sweeps[i].nei != 0 && prev[sweeps[i].nei] == int32(sweeps[i].ns) {
				sweeps[i].id = sweeps[i].nei
			} else {
				sweeps[i].id = id
				id++
			}
		}

		// Remap the row-local ids to the final ones.
		for x := borderSize; x < w-borderSize; x++ {
			c := &chf.Cells[x+y*w]
			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				if srcReg[i] > 0 && srcReg[i] < rowID {
					srcReg[i] = sweeps[srcReg[i]].id
				}
			}
		}
	}

	ctx.StartTimer(TimerBuildRegionsFilter)
	overlaps := make([]int32, 0)
	chf.MaxRegions = id
	if !mergeAndFilterRegions(ctx, minRegionArea, mergeRegionArea, &chf.MaxRegions, chf, srcReg, &overlaps) {
		ctx.StopTimer(TimerBuildRegionsFilter)
		return false
	}
	// Monotone partitioning never produces overlapping regions, so
	// overlaps is always empty here.
	ctx.StopTimer(TimerBuildRegionsFilter)

	for i := int32(0); i < chf.SpanCount; i++ {
		chf.Spans[i].Reg = srcReg[i]
	}

	return true
}

// BuildRegions partitions chf into regions with a watershed flood fill:
// starting from the local distance-field maxima (the "ridgelines" of
// the walkable area) and expanding outward level by level, merging
// basins as they meet. It yields rounder, more natural-looking regions
// than BuildRegionsMonotone at higher cost, and can occasionally over-
// segment diagonal corridors; mergeRegionArea folds the resulting
// slivers back into their larger neighbors.
//
// BuildDistanceField must have already populated chf.Dist before this
// is called. borderSize, minRegionArea and mergeRegionArea are in voxel
// units, as in BuildRegionsMonotone. Region ids land in
// chf.Spans[*].Reg and chf.MaxRegions is updated. Reports whether
// region construction succeeded.
func BuildRegions(ctx *BuildContext, chf *CompactHeightfield,
	borderSize, minRegionArea, mergeRegionArea int32) bool {

	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerBuildRegions)
	defer ctx.StopTimer(TimerBuildRegions)

	w := chf.Width
	h := chf.Height

	buf := make([]uint16, chf.SpanCount*4)
	ctx.StartTimer(TimerBuildRegionsWatershed)

	const (
		logLevelStacks = 3
		levelStackCount = 1 << logLevelStacks
	)

	lvlStacks := make([][]int32, levelStackCount)
	for i := range lvlStacks {
		lvlStacks[i] = make([]int32, 1024)
	}
	stack := make([]int32, 2024)

	srcReg := buf[:]
	srcDist := buf[chf.SpanCount:]
	dstReg := buf[chf.SpanCount*2:]
	dstDist := buf[chf.SpanCount*3:]

	regionID := uint16(1)
	level := uint16(int(chf.MaxDistance+1) & int(^1))

	// expandIters bounds how far a region is allowed to "overflow" past
	// its basin each level before the next level starts. A flat value
	// works as well in practice as scaling it with walkable radius.
	const expandIters int = 8

	if borderSize > 0 {
		// Make sure border will not overflow.
		bw := iMin(w, borderSize)
		bh := iMin(h, borderSize)

		paintRectRegion(0, bw, 0, h, regionID|borderReg, chf, srcReg)
		regionID++
		paintRectRegion(w-bw, w, 0, h, regionID|borderReg, chf, srcReg)
		regionID++
		paintRectRegion(0, w, 0, bh, regionID|borderReg, chf, srcReg)
		regionID++
		paintRectRegion(0, w, h-bh, h, regionID|borderReg, chf, srcReg)
		regionID++

		chf.BorderSize = borderSize
	}

	sID := -1
	for level > 0 {
		if level >= 2 {
			level = level - 2
		} else {
			level = 0
		}
		sID = (sID + 1) & (levelStackCount - 1)

		if sID == 0 {
			sortCellsByLevel(level, chf, srcReg, levelStackCount, lvlStacks[:], 1)
		} else {
			// copy left overs from last level
			appendStacks(lvlStacks[sID-1], &lvlStacks[sID], srcReg)
		}

		ctx.StartTimer(TimerBuildRegionsExpand)
		// Expand current regions until no empty connected cells found.
		if swapped := expandRegions(expandIters, level, chf, &srcReg, &srcDist, &dstReg, &dstDist, &lvlStacks[sID], false); swapped {
			srcReg, dstReg = dstReg, srcReg
			srcDist, dstDist = dstDist, srcDist
		}
		ctx.StopTimer(TimerBuildRegionsExpand)

		ctx.StartTimer(TimerBuildRegionsFlood)
		// Mark newly-revealed basins with a fresh region id.
		for j := 0; j < len(lvlStacks[sID]); j += 3 {
			x := lvlStacks[sID][j]
			y := lvlStacks[sID][j+1]
			i := lvlStacks[sID][j+2]
			if i >= 0 && srcReg[i] == 0 {
				if floodRegion(x, y, i, level, regionID, chf, srcReg, srcDist, &stack) {
					if regionID == 0xFFFF {
						ctx.Errorf("BuildRegions: region id overflow")
						return false
					}
					regionID++
				}
			}
		}
		ctx.StopTimer(TimerBuildRegionsFlood)
	}

	// One final expansion pass to claim any cells the level sweep missed.
	if swapped := expandRegions(expandIters*8, 0, chf, &srcReg, &srcDist, &dstReg, &dstDist, &stack, true); swapped {
		srcReg, dstReg = dstReg, srcReg
		srcDist, dstDist = dstDist, srcDist
	}

	ctx.StopTimer(TimerBuildRegionsWatershed)

	ctx.StartTimer(TimerBuildRegionsFilter)
	var overlaps []int32
	chf.MaxRegions = regionID
	if !mergeAndFilterRegions(ctx, minRegionArea, mergeRegionArea, &chf.MaxRegions, chf, srcReg, &overlaps) {
		ctx.StopTimer(TimerBuildRegionsFilter)
		return false
	}
	if len(overlaps) > 0 {
		ctx.Errorf("BuildRegions: %d overlapping regions", len(overlaps))
	}
	ctx.StopTimer(TimerBuildRegionsFilter)

	for i := int32(0); i < chf.SpanCount; i++ {
		chf.Spans[i].Reg = srcReg[i]
	}

	return true
}

// paintRectRegion stamps regID onto every walkable span whose cell falls
// in [minx,maxx) x [miny,maxy), used to carve the border regions.
func paintRectRegion(minx, maxx, miny, maxy int32, regID uint16, chf *CompactHeightfield, srcReg []uint16) {
	w := chf.Width
	for y := miny; y < maxy; y++ {
		for x := minx; x < maxx; x++ {
			c := &chf.Cells[x+y*w]
			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				if chf.Areas[i] != nullArea {
					srcReg[i] = regID
				}
			}
		}
	}
}

// floodRegion grows region r outward from the seed span i using an
// explicit stack-based flood fill (4-connected, then a second-degree
// check to catch diagonal gaps), stopping at any span that already
// belongs to a different region. Reports whether any span was claimed.
func floodRegion(x, y, i int32,
	level, r uint16,
	chf *CompactHeightfield,
	srcReg, srcDist []uint16,
	stack *[]int32) bool {
	w := chf.Width
	area := chf.Areas[i]

	if stack == nil {
		(*stack) = make([]int32, 0)
	}
	*stack = append(*stack, x, y, i)
	srcReg[i] = r
	srcDist[i] = 0

	var (
		ci, cy, cx int32
		lev        uint16
		count      int32
	)
	if level >= 2 {
		lev = level - 2
	}

	for len(*stack) > 0 {
		// pop 3 last elements
		ci, *stack = (*stack)[len(*stack)-1], (*stack)[:len(*stack)-1]
		cy, *stack = (*stack)[len(*stack)-1], (*stack)[:len(*stack)-1]
		cx, *stack = (*stack)[len(*stack)-1], (*stack)[:len(*stack)-1]

		cs := &chf.Spans[ci]

		// If a neighbor (or its own second-degree neighbor) already
		// carries a different, non-border region, this span borders
		// that region instead of joining it here.
		var (
			ar  uint16
			dir int32
		)
		dir = 0
		for ; dir < 4; dir++ {
			if GetCon(cs, dir) != notConnected {
				ax := cx + GetDirOffsetX(dir)
				ay := cy + GetDirOffsetY(dir)
				ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(cs, dir)
				if chf.Areas[ai] != area {
					continue
				}
				nr := srcReg[ai]
				if (nr & borderReg) != 0 {
					// Do not take borders into account.
					continue
				}
				if nr != 0 && nr != r {
					ar = nr
					break
				}

				as := &chf.Spans[ai]

				dir2 := int32((dir + 1) & 0x3)
				if GetCon(as, dir2) != notConnected {
					ax2 := ax + GetDirOffsetX(dir2)
					ay2 := ay + GetDirOffsetY(dir2)
					ai2 := int32(chf.Cells[ax2+ay2*w].Index) + GetCon(as, dir2)
					if chf.Areas[ai2] != area {
						continue
					}
					nr2 := srcReg[ai2]
					if nr2 != 0 && nr2 != r {
						ar = nr2
						break
					}
				}
			}
		}
		if ar != 0 {
			srcReg[ci] = 0
			continue
		}

		count++

		// Expand to neighbors at or above the current level.
		for dir = 0; dir < 4; dir++ {
			if GetCon(cs, dir) != notConnected {
				ax := cx + GetDirOffsetX(dir)
				ay := cy + GetDirOffsetY(dir)
				ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(cs, dir)
				if chf.Areas[ai] != area {
					continue
				}
				if chf.Dist[ai] >= lev && srcReg[ai] == 0 {
					srcReg[ai] = r
					srcDist[ai] = 0
					*stack = append(*stack, ax, ay, ai)
				}
			}
		}
	}

	return count > 0
}

// expandRegions grows every region in stack by one ring of neighboring
// spans at a time, for up to maxIter iterations (skipped when level is
// 0, i.e. the final cleanup pass). When fillStack is true, stack is
// rebuilt from every unclaimed span at or above level instead of using
// the caller-supplied one. Reports whether srcReg/dstReg (and the
// matching dist buffers) ended up swapped an odd number of times, so
// the caller knows which buffer now holds the live result.
func expandRegions(maxIter int, level uint16,
	chf *CompactHeightfield,
	srcReg, srcDist, dstReg, dstDist *[]uint16,
	stack *[]int32, fillStack bool) (swapped bool) {

	w := chf.Width
	h := chf.Height

	if fillStack {
		// Find cells revealed by the raised level.
		*stack = make([]int32, 0)
		for y := int32(0); y < h; y++ {
			for x := int32(0); x < w; x++ {
				c := &chf.Cells[x+y*w]
				i := int32(c.Index)
				for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
					if chf.Dist[i] >= level && (*srcReg)[i] == 0 && chf.Areas[i] != nullArea {
						*stack = append(*stack, x, y, i)
					}
				}
			}
		}
	} else {
		// Cells that picked up a region since being stacked are done;
		// mark them so the loop below skips them.
		for j := 0; j < len(*stack); j += 3 {
			i := (*stack)[j+2]
			if (*srcReg)[i] != 0 {
				(*stack)[j+2] = -1
			}
		}
	}

	var iter int
	for len(*stack) > 0 {
		failed := 0

		copy(*dstReg, (*srcReg)[:chf.SpanCount])
		copy(*dstDist, (*srcDist)[:chf.SpanCount])

		for j := 0; j < len(*stack); j += 3 {
			x := (*stack)[j+0]
			y := (*stack)[j+1]
			i := (*stack)[j+2]
			if i < 0 {
				failed++
				continue
			}

			r := (*srcReg)[i]
			d2 := int32(0xffff)
			area := chf.Areas[i]
			s := &chf.Spans[i]
			var dir int32
			for dir = 0; dir < 4; dir++ {
				if GetCon(s, dir) == notConnected {
					continue
				}
				ax := x + GetDirOffsetX(dir)
				ay := y + GetDirOffsetY(dir)
				ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, dir)
				if chf.Areas[ai] != area {
					continue
				}
				if (*srcReg)[ai] > 0 && ((*srcReg)[ai]&borderReg) == 0 {
					if int32((*srcDist)[ai]+2) < int32(d2) {
						r = (*srcReg)[ai]
						d2 = int32((*srcDist)[ai] + 2)
					}
				}
			}
			if r != 0 {
				(*stack)[j+2] = -1 // mark as used
				(*dstReg)[i] = r
				(*dstDist)[i] = uint16(d2)
			} else {
				failed++
			}
		}

		*srcReg, *dstReg = *dstReg, *srcReg
		*srcDist, *dstDist = *dstDist, *srcDist
		swapped = !swapped

		if failed*3 == len(*stack) {
			break
		}

		if level > 0 {
			iter++
			if iter >= maxIter {
				break
			}
		}
	}

	// Hand the buffers back in the caller's original slots; the caller
	// swaps them itself when swapped is true.
	if swapped {
		*srcReg, *dstReg = *dstReg, *srcReg
		*srcDist, *dstDist = *dstDist, *srcDist
	}

	return swapped
}

// sortCellsByLevel buckets every unclaimed walkable span into stacks by
// its distance-field level (quantized by loglevelsPerStack bits),
// relative to startLevel, so the watershed sweep in BuildRegions can
// process basins from the ridgelines downward.
func sortCellsByLevel(startLevel uint16,
	chf *CompactHeightfield,
	srcReg []uint16,
	nbStacks uint32, stacks [][]int32,
	loglevelsPerStack uint16) {
	w := chf.Width
	h := chf.Height
	startLevel = startLevel >> loglevelsPerStack

	for j := uint32(0); j < nbStacks; j++ {
		stacks[j] = make([]int32, 0)
	}

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := &chf.Cells[x+y*w]
			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				if chf.Areas[i] == nullArea || srcReg[i] != 0 {
					continue
				}

				level := chf.Dist[i] >> loglevelsPerStack
				sID := int32(startLevel) - int32(level)
				if sID >= int32(nbStacks) {
					continue
				}
				if sID < 0 {
					sID = 0
				}

				stacks[sID] = append(stacks[sID], x)
				stacks[sID] = append(stacks[sID], y)
				stacks[sID] = append(stacks[sID], i)
			}
		}
	}
}

// appendStacks carries unclaimed entries of srcStack over into dstStack
// for the next watershed level, dropping anything already assigned.
func appendStacks(srcStack []int32, dstStack *[]int32, srcReg []uint16) {
	for j := 0; j < len(srcStack); j += 3 {
		i := srcStack[j+2]
		if (i < 0) || (srcReg[i] != 0) {
			continue
		}
		*dstStack = append(*dstStack, srcStack[j:j+3]...)
	}
}

// Region is region-growing bookkeeping for a single candidate region:
// its span count, neighbor connection list (walked around its
// contour), and the set of other regions sharing a floor with it (used
// to veto unsafe merges).
type Region struct {
	SpanCount        int32  // spans currently assigned to this region
	ID               uint16 // region id; 0 means unassigned/removed
	AreaType         uint8
	Remap, Visited   bool
	Overlap          bool
	ConnectsToBorder bool
	YMin, YMax       uint16
	Connections      []int32
	Floors           []int32
}

func newRegion(i int) *Region {
	return &Region{
		ID:   uint16(i),
		YMin: uint16(0xffff),
	}
}

// removeAdjacentNeighbours drops consecutive duplicate entries from the
// connection list, which walkContour can produce when it crosses the
// same neighbor's border more than once in a row.
func (reg *Region) removeAdjacentNeighbours() {
	for i := 0; i < len(reg.Connections) && len(reg.Connections) > 1; {
		ni := (i + 1) % len(reg.Connections)
		if reg.Connections[i] == reg.Connections[ni] {
			for j := i; j < len(reg.Connections)-1; j++ {
				reg.Connections[j] = reg.Connections[j+1]
			}
			reg.Connections = reg.Connections[:len(reg.Connections)-1]
		} else {
			i++
		}
	}
}

// replaceNeighbour rewrites every reference to oldID (in both the
// connection and floor lists) to newID, used while merging regions.
func (reg *Region) replaceNeighbour(oldID, newID uint16) {
	var neiChanged bool

	for i := range reg.Connections {
		if reg.Connections[i] == int32(oldID) {
			reg.Connections[i] = int32(newID)
			neiChanged = true
		}
	}
	for i := range reg.Floors {
		if reg.Floors[i] == int32(oldID) {
			reg.Floors[i] = int32(newID)
		}
	}

	if neiChanged {
		reg.removeAdjacentNeighbours()
	}
}

// canMergeWithRegion reports whether reg2 is a safe merge target: same
// area type, at most a single shared border (more than one would mean
// they touch along two separate seams), and not already sharing a
// floor (which would create a self-overlapping region).
func (reg *Region) canMergeWithRegion(reg2 *Region) bool {
	if reg.AreaType != reg2.AreaType {
		return false
	}
	var n int
	for i := 0; i < len(reg.Connections); i++ {
		if reg.Connections[i] == int32(reg2.ID) {
			n++
		}
	}
	if n > 1 {
		return false
	}
	for i := 0; i < len(reg.Floors); i++ {
		if reg.Floors[i] == int32(reg2.ID) {
			return false
		}
	}
	return true
}

func (reg *Region) addUniqueFloorRegion(n int32) {
	for i := 0; i < len(reg.Floors); i++ {
		if reg.Floors[i] == n {
			return
		}
	}
	reg.Floors = append(reg.Floors, n)
}

// mergeRegions absorbs regb into rega: splices regb's neighbor list
// into rega's at the point they meet, carries over regb's floors and
// span count, and empties regb. Reports false (and leaves both regions
// untouched) if rega and regb do not actually share a border.
func mergeRegions(rega, regb *Region) bool {
	aid := rega.ID
	bid := regb.ID

	acon := make([]int32, len(rega.Connections))
	copy(acon, rega.Connections)
	bcon := regb.Connections

	insa := int32(-1)
	for i := 0; i < len(acon); i++ {
		if acon[i] == int32(bid) {
			insa = int32(i)
			break
		}
	}
	if insa == -1 {
		return false
	}

	insb := int32(-1)
	for i := 0; i < len(bcon); i++ {
		if bcon[i] == int32(aid) {
			insb = int32(i)
			break
		}
	}
	if insb == -1 {
		return false
	}

	rega.Connections = make([]int32, 0)
	var i int32
	for ni := int32(len(acon)); i < ni-1; i++ {
		rega.Connections = append(rega.Connections, acon[(insa+1+int32(i))%ni])
	}

	i = 0
	for ni := int32(len(bcon)); i < ni-1; i++ {
		rega.Connections = append(rega.Connections, bcon[(insb+1+int32(i))%ni])
	}

	rega.removeAdjacentNeighbours()

	for j := 0; j < len(regb.Floors); j++ {
		rega.addUniqueFloorRegion(regb.Floors[j])
	}
	rega.SpanCount += regb.SpanCount
	regb.SpanCount = 0
	regb.Connections = make([]int32, 0)

	return true
}

// isConnectedToBorder reports whether reg touches the outer (null-id)
// region, i.e. the unwalkable area rather than another region.
func (reg *Region) isConnectedToBorder() bool {
	for _, conn := range reg.Connections {
		if conn == 0 {
			return true
		}
	}
	return false
}

// isSolidEdge reports whether the span at (x, y, i) has a different
// region on its dir side than its own — a region boundary rather than
// an interior connection.
func isSolidEdge(chf *CompactHeightfield, srcReg []uint16,
	x, y, i, dir int32) bool {
	s := &chf.Spans[i]
	var r uint16
	if GetCon(s, dir) != notConnected {
		ax := x + GetDirOffsetX(dir)
		ay := y + GetDirOffsetY(dir)
		ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dir)
		r = srcReg[ai]
	}
	return r != srcReg[i]
}

// walkContour traces the boundary of the region touching span i,
// starting in direction dir, and appends the id of every neighboring
// region it crosses (with consecutive duplicates already squashed) to
// *cont. This is how mergeAndFilterRegions discovers a region's full
// neighbor list without scanning the whole heightfield per region.
func walkContour(x, y, i, dir int32,
	chf *CompactHeightfield,
	srcReg []uint16,
	cont *[]int32) {
	startDir := dir
	starti := i

	ss := &chf.Spans[i]
	var curReg uint16
	if GetCon(ss, dir) != notConnected {
		ax := x + GetDirOffsetX(dir)
		ay := y + GetDirOffsetY(dir)
		ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(ss, dir)
		curReg = srcReg[ai]
	}
	*cont = append(*cont, int32(curReg))

	for iter := int32(1); iter < 39999; iter++ {
		s := &chf.Spans[i]

		if isSolidEdge(chf, srcReg, x, y, i, dir) {
			// Record the region across this border edge, then turn
			// clockwise to follow the boundary.
			var r uint16
			if GetCon(s, dir) != notConnected {
				ax := x + GetDirOffsetX(dir)
				ay := y + GetDirOffsetY(dir)
				ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dir)
				r = srcReg[ai]
			}
			if r != curReg {
				curReg = r
				*cont = append(*cont, int32(curReg))
			}

			dir = (dir + 1) & 0x3 // Rotate CW
		} else {
			// Not a border in this direction: step across it and turn
			// counter-clockwise to keep hugging the boundary.
			ni := int32(-1)
			nx := x + GetDirOffsetX(dir)
			ny := y + GetDirOffsetY(dir)
			if GetCon(s, dir) != notConnected {
				ni = int32(chf.Cells[nx+ny*chf.Width].Index) + GetCon(s, dir)
			}
			if ni == -1 {
				// Should not happen.
				return
			}
			x = nx
			y = ny
			i = ni
			dir = (dir + 3) & 0x3 // Rotate CCW
		}

		if starti == i && startDir == dir {
			break
		}
	}

	// Remove adjacent duplicates.
	if len(*cont) > 1 {
		for j := 0; j < len(*cont); {
			nj := (j + 1) % len(*cont)
			if (*cont)[j] == (*cont)[nj] {
				for k := j; k < len(*cont)-1; k++ {
					(*cont)[k] = (*cont)[k+1]
				}
				*cont = (*cont)[:len(*cont)-1]
			} else {
				j++
			}
		}
	}
}

// mergeAndFilterRegions is the shared second half of both
// BuildRegionsMonotone and BuildRegions: given the raw, possibly
// over-segmented region assignment in srcReg, it builds each region's
// neighbor list with walkContour, discards isolated regions smaller
// than minRegionArea, folds each region into a safely mergeable
// neighbor unless it is both bigger than mergeRegionSize and connected
// to the null border, then compresses the surviving ids down
// to a contiguous range starting at 1 and rewrites srcReg in place.
// maxRegionID is updated to the final id count. Any region id found
// to overlap itself (same floor twice) is appended to *overlaps for
// the caller to report. Reports whether the pass completed without a
// fatal error (region id overflow is the only current failure mode,
// surfaced from inside floodRegion/BuildRegions before this is reached).
func mergeAndFilterRegions(ctx *BuildContext,
	minRegionArea, mergeRegionSize int32,
	maxRegionID *uint16,
	chf *CompactHeightfield,
	srcReg []uint16,
	overlaps *[]int32) bool {

	w := chf.Width
	h := chf.Height

	nreg := (*maxRegionID) + 1
	regions := make([]*Region, nreg)

	for ridx := range regions {
		regions[ridx] = newRegion(ridx)
	}

	// Find edge of a region and find connections around the contour.
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := &chf.Cells[x+y*w]
			spanIdx := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); spanIdx < ni; spanIdx++ {
				r := srcReg[spanIdx]
				if r == 0 || r >= nreg {
					continue
				}

				reg := regions[r]
				reg.SpanCount++

				// Record floors: other spans in the same column that
				// belong to a region, so a later merge can't collapse
				// two floors of the same column into one region.
				for floorIdx := int32(c.Index); floorIdx < ni; floorIdx++ {
					if spanIdx == floorIdx {
						continue
					}
					floorID := srcReg[floorIdx]
					if floorID == 0 || floorID >= nreg {
						continue
					}
					if floorID == r {
						reg.Overlap = true
					}
					reg.addUniqueFloorRegion(int32(floorID))
				}

				// Neighbor list already built from a previous span in
				// this region.
				if len(reg.Connections) > 0 {
					continue
				}

				reg.AreaType = chf.Areas[spanIdx]

				ndir := int32(-1)
				for dir := int32(0); dir < 4; dir++ {
					if isSolidEdge(chf, srcReg, x, y, spanIdx, dir) {
						ndir = dir
						break
					}
				}

				if ndir != -1 {
					walkContour(x, y, spanIdx, ndir, chf, srcReg, &reg.Connections)
				}
			}
		}
	}

	// Remove regions whose total connected span count is below
	// minRegionArea, unless they reach a tile border (where the true
	// size can't be known locally and removing them risks punching a
	// hole through a larger region that continues in the next tile).
	stack := make([]int32, 32)
	trace := make([]int32, 32)
	for ri := uint16(0); ri < nreg; ri++ {
		reg := regions[ri]
		if reg.ID == 0 || ((reg.ID & borderReg) != 0) {
			continue
		}
		if reg.SpanCount == 0 {
			continue
		}
		if reg.Visited {
			continue
		}

		connectsToBorder := false
		spanCount := int32(0)
		stack = stack[:0]
		trace = trace[:0]

		reg.Visited = true
		stack = append(stack, int32(ri))

		for len(stack) > 0 {
			rid := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			creg := regions[rid]

			spanCount += creg.SpanCount
			trace = append(trace, rid)

			for ci := 0; ci < len(creg.Connections); ci++ {
				if (creg.Connections[ci] & int32(borderReg)) != 0 {
					connectsToBorder = true
					continue
				}
				neireg := regions[creg.Connections[ci]]
				if neireg.Visited {
					continue
				}
				if neireg.ID == 0 || ((neireg.ID & borderReg) != 0) {
					continue
				}
				stack = append(stack, int32(neireg.ID))
				neireg.Visited = true
			}
		}

		if spanCount < minRegionArea && !connectsToBorder {
			for _, rid := range trace {
				regions[rid].SpanCount = 0
				regions[rid].ID = 0
			}
		}
	}

	// Merge small-enough regions into a safely mergeable neighbor,
	// repeating until a full pass makes no further merges.
	for {
		mergeCount := 0
		for ri := uint16(0); ri < nreg; ri++ {
			reg := regions[ri]
			if reg.ID == 0 || ((reg.ID & borderReg) != 0) {
				continue
			}
			if reg.Overlap {
				continue
			}
			if reg.SpanCount == 0 {
				continue
			}

			if reg.SpanCount > mergeRegionSize && reg.isConnectedToBorder() {
				continue
			}

			// Find the smallest neighbor this region can safely merge
			// into.
			smallest := int32(0xfffffff)
			mergeID := uint16(reg.ID)
			for ci := 0; ci < len(reg.Connections); ci++ {
				if (reg.Connections[ci] & int32(borderReg)) != 0 {
					continue
				}
				mreg := regions[reg.Connections[ci]]
				if mreg.ID == 0 || ((mreg.ID & borderReg) != 0) || mreg.Overlap {
					continue
				}
				if mreg.SpanCount < smallest &&
					reg.canMergeWithRegion(mreg) &&
					mreg.canMergeWithRegion(reg) {
					smallest = mreg.SpanCount
					mergeID = mreg.ID
				}
			}
			if mergeID != reg.ID {
				oldID := reg.ID
				target := regions[mergeID]

				if mergeRegions(target, reg) {
					// Repoint every region that referenced the
					// absorbed id, including any that were already
					// remapped to it by an earlier merge this pass.
					for j := uint16(0); j < nreg; j++ {
						if regions[j].ID == 0 || ((regions[j].ID & borderReg) != 0) {
							continue
						}
						if regions[j].ID == oldID {
							regions[j].ID = mergeID
						}
						regions[j].replaceNeighbour(oldID, mergeID)
					}
					mergeCount++
				}
			}
		}
		if mergeCount == 0 {
			break
		}
	}

	// Compress surviving region ids to a contiguous range.
	for i := uint16(0); i < nreg; i++ {
		regions[i].Remap = false
		if regions[i].ID == 0 {
			continue
		}
		if (regions[i].ID & borderReg) != 0 {
			continue
		}
		regions[i].Remap = true
	}

	var regIDGen uint16
	for i := uint16(0); i < nreg; i++ {
		if !regions[i].Remap {
			continue
		}
		oldID := regions[i].ID
		regIDGen++
		newID := regIDGen
		for j := i; j < nreg; j++ {
			if regions[j].ID == oldID {
				regions[j].ID = newID
				regions[j].Remap = false
			}
		}
	}
	*maxRegionID = regIDGen

	for i := int32(0); i < chf.SpanCount; i++ {
		if (srcReg[i] & borderReg) == 0 {
			srcReg[i] = regions[srcReg[i]].ID
		}
	}

	for i := uint16(0); i < nreg; i++ {
		if regions[i].Overlap {
			*overlaps = append(*overlaps, int32(regions[i].ID))
		}
	}

	return true
}

// noSweepNeighbor marks a monotone-partitioning sweep row as having
// disagreeing neighbor candidates, forcing a fresh region id rather
// than reuse.
const noSweepNeighbor uint16 = 0xffff

// sweepSpan is one row-local region candidate tracked while
// BuildRegionsMonotone sweeps a heightfield row.
type sweepSpan struct {
	rid uint16 // row-local id
	id  uint16 // final region id assigned after the row completes
	ns  uint16 // number of spans that agreed on nei
	nei uint16 // neighboring region candidate for this row id
}
