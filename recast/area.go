package recast

import "github.com/aurelien-rainone/assertgo"

/// @par
///
/// Basically, any spans that are closer to a boundary or obstruction than the specified radius
/// are marked as unwalkable.
///
/// This method is usually called immediately after the heightfield has been built.
///
/// @see rcCompactHeightfield, rcBuildCompactHeightfield, rcConfig::walkableRadius
func ErodeWalkableArea(ctx *BuildContext, radius int32, chf *CompactHeightfield) bool {
	assert.True(ctx != nil, "ctx should not be nil")

	w := chf.Width
	h := chf.Height

	ctx.StartTimer(TimerErodeArea)
	defer ctx.StopTimer(TimerErodeArea)

	dist := make([]uint8, chf.SpanCount)

	// Init distance.
	for i := range dist {
		dist[i] = 0xff
	}

	// Mark boundary cells.
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				if chf.Areas[i] == RC_NULL_AREA {
					dist[i] = 0
				} else {
					s := &chf.Spans[i]
					nc := int32(0)
					for dir := int32(0); dir < 4; dir++ {
						if GetCon(s, dir) != RC_NOT_CONNECTED {
							nx := x + GetDirOffsetX(dir)
							ny := y + GetDirOffsetY(dir)
							nidx := int32(chf.Cells[nx+ny*w].Index) + GetCon(s, dir)
							if chf.Areas[nidx] != RC_NULL_AREA {
								nc++
							}
						}
					}
					// At least one missing neighbour.
					if nc != 4 {
						dist[i] = 0
					}
				}
			}
		}
	}

	var nd uint8

	// Pass 1
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]

				if GetCon(s, 0) != RC_NOT_CONNECTED {
					// (-1,0)
					ax := x + GetDirOffsetX(0)
					ay := y + GetDirOffsetY(0)
					ai := int32(chf.Cells[ax+ay*w].Index) + int32(GetCon(s, 0))
					as := &chf.Spans[ai]
					nd = uint8(iMin(int32(dist[ai])+2, int32(255)))
					if nd < dist[i] {
						dist[i] = nd
					}

					// (-1,-1)
					if GetCon(as, 3) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(3)
						aay := ay + GetDirOffsetY(3)
						aai := int32(chf.Cells[aax+aay*w].Index) + int32(GetCon(as, 3))
						nd = uint8(iMin(int32(dist[aai])+3, int32(255)))
						if nd < dist[i] {
							dist[i] = nd
						}
					}
				}

				if GetCon(s, 3) != RC_NOT_CONNECTED {
					// (0,-1)
					ax := x + GetDirOffsetX(3)
					ay := y + GetDirOffsetY(3)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 3)
					as := &chf.Spans[ai]
					nd = uint8(iMin(int32(dist[ai])+2, int32(255)))
					if nd < dist[i] {
						dist[i] = nd
					}

					// (1,-1)
					if GetCon(as, 2) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(2)
						aay := ay + GetDirOffsetY(2)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 2)
						nd = uint8(iMin(int32(dist[aai])+3, int32(255)))
						if nd < dist[i] {
							dist[i] = nd
						}
					}
				}
			}
		}
	}

	// Pass 2
	for y := int32(h - 1); y >= 0; y-- {
		for x := int32(w - 1); x >= 0; x-- {
			c := chf.Cells[x+y*w]
			i := int32(c.Index)
			for ni := int32(c.Index) + int32(c.Count); i < ni; i++ {
				s := &chf.Spans[i]

				if GetCon(s, 2) != RC_NOT_CONNECTED {
					// (1,0)
					ax := x + GetDirOffsetX(2)
					ay := y + GetDirOffsetY(2)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 2)
					as := &chf.Spans[ai]
					nd = uint8(iMin(int32(dist[ai])+2, int32(255)))
					if nd < dist[i] {
						dist[i] = nd
					}

					// (1,1)
					if GetCon(as, 1) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(1)
						aay := ay + GetDirOffsetY(1)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 1)
						nd = uint8(iMin(int32(dist[aai])+3, int32(255)))
						if nd < dist[i] {
							dist[i] = nd
						}
					}
				}
				if GetCon(s, 1) != RC_NOT_CONNECTED {
					// (0,1)
					ax := x + GetDirOffsetX(1)
					ay := y + GetDirOffsetY(1)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 1)
					as := &chf.Spans[ai]
					nd = uint8(iMin(int32(dist[ai])+2, int32(255)))
					if nd < dist[i] {
						dist[i] = nd
					}

					// (-1,1)
					if GetCon(as, 0) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(0)
						aay := ay + GetDirOffsetY(0)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 0)
						nd = uint8(iMin(int32(dist[aai])+3, int32(255)))
						if nd < dist[i] {
							dist[i] = nd
						}
					}
				}
			}
		}
	}

	thr := uint8(radius * 2)
	for i := int32(0); i < chf.SpanCount; i++ {
		if dist[i] < thr {
			chf.Areas[i] = RC_NULL_AREA
		}
	}

	dist = nil

	return true
}

// MarkConvexPolyArea applies the area id to the all spans within the
// specified convex polygon.
//
//  @ingroup recast
//  @param[in,out]	ctx		The build context to use during the operation.
//  @param[in]		verts	The vertices of the polygon [Fomr: (x, y, z) * @p nverts]
//  @param[in]		nverts	The number of vertices in the polygon.
//  @param[in]		hmin	The height of the base of the polygon.
//  @param[in]		hmax	The height of the top of the polygon.
//  @param[in]		area	The area id to apply. [Limit: <= #RC_WALKABLE_AREA]
//  @param[in,out]	chf		A populated compact heightfield.
func MarkConvexPolyArea(ctx *BuildContext, verts []float32, nverts int32, hmin, hmax float32, area uint8, chf *CompactHeightfield) {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerMarkConvexPolyArea)
	defer ctx.StopTimer(TimerMarkConvexPolyArea)

	var bmin, bmax [3]float32
	copy(bmin[:], verts[:3])
	copy(bmax[:], verts[:3])
	for i := int32(1); i < nverts; i++ {
		v := verts[i*3 : i*3+3]
		for j := 0; j < 3; j++ {
			if v[j] < bmin[j] {
				bmin[j] = v[j]
			}
			if v[j] > bmax[j] {
				bmax[j] = v[j]
			}
		}
	}
	bmin[1] = hmin
	bmax[1] = hmax

	minx := int32((bmin[0] - chf.BMin[0]) / chf.Cs)
	miny := int32((bmin[1] - chf.BMin[1]) / chf.Ch)
	minz := int32((bmin[2] - chf.BMin[2]) / chf.Cs)
	maxx := int32((bmax[0] - chf.BMin[0]) / chf.Cs)
	maxy := int32((bmax[1] - chf.BMin[1]) / chf.Ch)
	maxz := int32((bmax[2] - chf.BMin[2]) / chf.Cs)

	if maxx < 0 || minx >= chf.Width || maxz < 0 || minz >= chf.Height {
		return
	}

	minx = iMax(minx, 0)
	maxx = iMin(maxx, chf.Width-1)
	minz = iMax(minz, 0)
	maxz = iMin(maxz, chf.Height-1)

	for z := minz; z <= maxz; z++ {
		for x := minx; x <= maxx; x++ {
			c := &chf.Cells[x+z*chf.Width]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == RC_NULL_AREA {
					continue
				}
				if int32(s.Y) >= miny && int32(s.Y) <= maxy {
					px := chf.BMin[0] + (float32(x)+0.5)*chf.Cs
					pz := chf.BMin[2] + (float32(z)+0.5)*chf.Cs
					if pointInPoly(nverts, verts, px, pz) {
						chf.Areas[i] = area
					}
				}
			}
		}
	}
}

func pointInPoly(nvert int32, verts []float32, px, pz float32) bool {
	var (
		c bool
		i int32
		j int32
	)
	j = nvert - 1
	for i = 0; i < nvert; i++ {
		vi := verts[i*3 : i*3+3]
		vj := verts[j*3 : j*3+3]
		if ((vi[2] > pz) != (vj[2] > pz)) &&
			(px < (vj[0]-vi[0])*(pz-vi[2])/(vj[2]-vi[2])+vi[0]) {
			c = !c
		}
		j = i
	}
	return c
}

// calculateDistanceField computes, for every span in chf, the chamfer
// distance (2 per orthogonal step, 3 per diagonal step) to the nearest
// unwalkable span or area-type boundary, storing
// the result in src and returning the maximum distance found.
func calculateDistanceField(chf *CompactHeightfield, src []uint16) uint16 {
	w := chf.Width
	h := chf.Height

	for i := range src {
		src[i] = 0xffff
	}

	// Mark boundary cells.
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]
				area := chf.Areas[i]

				nc := int32(0)
				for dir := int32(0); dir < 4; dir++ {
					if GetCon(s, dir) != RC_NOT_CONNECTED {
						ax := x + GetDirOffsetX(dir)
						ay := y + GetDirOffsetY(dir)
						ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, dir)
						if area == chf.Areas[ai] {
							nc++
						}
					}
				}
				if nc != 4 {
					src[i] = 0
				}
			}
		}
	}

	// Pass 1
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]

				if GetCon(s, 0) != RC_NOT_CONNECTED {
					// (-1, 0)
					ax := x + GetDirOffsetX(0)
					ay := y + GetDirOffsetY(0)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 0)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (-1, -1)
					if GetCon(as, 3) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(3)
						aay := ay + GetDirOffsetY(3)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 3)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
				if GetCon(s, 3) != RC_NOT_CONNECTED {
					// (0, -1)
					ax := x + GetDirOffsetX(3)
					ay := y + GetDirOffsetY(3)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 3)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (1, -1)
					if GetCon(as, 2) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(2)
						aay := ay + GetDirOffsetY(2)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 2)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
			}
		}
	}

	// Pass 2
	for y := int32(h - 1); y >= 0; y-- {
		for x := int32(w - 1); x >= 0; x-- {
			c := chf.Cells[x+y*w]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]

				if GetCon(s, 2) != RC_NOT_CONNECTED {
					// (1, 0)
					ax := x + GetDirOffsetX(2)
					ay := y + GetDirOffsetY(2)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 2)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (1, 1)
					if GetCon(as, 1) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(1)
						aay := ay + GetDirOffsetY(1)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 1)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
				if GetCon(s, 1) != RC_NOT_CONNECTED {
					// (0, 1)
					ax := x + GetDirOffsetX(1)
					ay := y + GetDirOffsetY(1)
					ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, 1)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (-1, 1)
					if GetCon(as, 0) != RC_NOT_CONNECTED {
						aax := ax + GetDirOffsetX(0)
						aay := ay + GetDirOffsetY(0)
						aai := int32(chf.Cells[aax+aay*w].Index) + GetCon(as, 0)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
			}
		}
	}

	var maxDist uint16
	for i := int32(0); i < chf.SpanCount; i++ {
		if src[i] > maxDist {
			maxDist = src[i]
		}
	}

	return maxDist
}

func boxBlur(chf *CompactHeightfield, thr int32, src, dst []uint16) {
	w := chf.Width
	h := chf.Height

	thr = thr * 2

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+y*w]
			ni := int32(c.Index) + int32(c.Count)
			for i := int32(c.Index); i < ni; i++ {
				s := &chf.Spans[i]
				cd := int32(src[i])
				if cd <= thr {
					dst[i] = uint16(cd)
					continue
				}

				d := cd
				for dir := int32(0); dir < 4; dir++ {
					if GetCon(s, dir) != RC_NOT_CONNECTED {
						ax := x + GetDirOffsetX(dir)
						ay := y + GetDirOffsetY(dir)
						ai := int32(chf.Cells[ax+ay*w].Index) + GetCon(s, dir)
						d += int32(src[ai])

						as := &chf.Spans[ai]
						dir2 := (dir + 1) & 0x3
						if GetCon(as, dir2) != RC_NOT_CONNECTED {
							ax2 := ax + GetDirOffsetX(dir2)
							ay2 := ay + GetDirOffsetY(dir2)
							ai2 := int32(chf.Cells[ax2+ay2*w].Index) + GetCon(as, dir2)
							d += int32(src[ai2])
						} else {
							d += cd
						}
					} else {
						d += cd * 2
					}
				}
				dst[i] = uint16((d + 5) / 9)
			}
		}
	}
}

// BuildDistanceField builds a heightfield's distance field, used during
// watershed region partitioning to determine how far each span is from the
// nearest unwalkable boundary.
//
//  @ingroup recast
//  @param[in,out]	ctx		The build context to use during the operation.
//  @param[in,out]	chf		A populated compact heightfield.
//  @returns True if the operation completed successfully.
func BuildDistanceField(ctx *BuildContext, chf *CompactHeightfield) bool {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerBuildDistanceField)
	defer ctx.StopTimer(TimerBuildDistanceField)

	src := make([]uint16, chf.SpanCount)
	dst := make([]uint16, chf.SpanCount)

	ctx.StartTimer(TimerBuildDistanceFieldDist)
	maxDist := calculateDistanceField(chf, src)
	chf.MaxDistance = maxDist
	ctx.StopTimer(TimerBuildDistanceFieldDist)

	ctx.StartTimer(TimerBuildDistanceFieldBlur)
	boxBlur(chf, 1, src, dst)
	chf.Dist = dst
	ctx.StopTimer(TimerBuildDistanceFieldBlur)

	return true
}
