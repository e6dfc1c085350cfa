package recast

import (
	"github.com/aurelien-rainone/assertgo"
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/aurelien-rainone/math32"
)

// RasterizeTriangle rasterizes a single triangle into solid, tagging
// every span it produces with area. flagMergeThr controls how close in
// height a new span's walkable flag must be to an existing span's
// before the two are considered the same surface and merged (see
// Heightfield.addSpan). A triangle entirely outside solid's bounds adds
// no spans but is not an error.
func RasterizeTriangle(ctx *BuildContext, v0, v1, v2 d3.Vec3,
	area uint8, solid *Heightfield,
	flagMergeThr int32) bool {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerRasterizeTriangles)
	defer ctx.StopTimer(TimerRasterizeTriangles)

	ics := 1.0 / solid.Cs
	ich := 1.0 / solid.Ch
	if !rasterizeTri(v0, v1, v2, area, solid, solid.BMin[:], solid.BMax[:], solid.Cs, ics, ich, flagMergeThr) {
		ctx.Errorf("RasterizeTriangle: Out of memory.")
		return false
	}

	return true
}

// RasterizeTriangles rasterizes an indexed triangle mesh (nv vertices,
// nt triangles, one area id per triangle) into solid. Only triangles
// overlapping solid's bounds add spans.
func RasterizeTriangles(ctx *BuildContext, verts []float32, nv int32,
	tris []int32, areas []uint8, nt int32,
	solid *Heightfield, flagMergeThr int32) bool {

	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerRasterizeTriangles)
	defer ctx.StopTimer(TimerRasterizeTriangles)

	ics := 1.0 / solid.Cs
	ich := 1.0 / solid.Ch
	for i := int32(0); i < nt; i++ {
		v0 := verts[tris[i*3+0]*3:]
		v1 := verts[tris[i*3+1]*3:]
		v2 := verts[tris[i*3+2]*3:]
		if !rasterizeTri(v0, v1, v2, areas[i], solid, solid.BMin[:], solid.BMax[:], solid.Cs, ics, ich, flagMergeThr) {
			ctx.Errorf("RasterizeTriangles: Out of memory.")
			return false
		}
	}

	return true
}

// RasterizeTriangleSoup is RasterizeTriangles for callers holding
// triangles as a flat (ax, ay, az, bx, by, bz, cx, cy, cz) vertex
// stream rather than an indexed vert/tris pair.
func RasterizeTriangleSoup(ctx *BuildContext, verts []float32, areas []uint8, nt int32,
	solid *Heightfield, flagMergeThr int32) bool {

	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerRasterizeTriangles)
	defer ctx.StopTimer(TimerRasterizeTriangles)

	ics := float32(1.0 / solid.Cs)
	ich := float32(1.0 / solid.Ch)
	for i := int32(0); i < nt; i++ {
		v0 := verts[(i*3+0)*3:]
		v1 := verts[(i*3+1)*3:]
		v2 := verts[(i*3+2)*3:]
		if !rasterizeTri(v0, v1, v2, areas[i], solid, solid.BMin[:], solid.BMax[:], solid.Cs, ics, ich, flagMergeThr) {
			ctx.Errorf("RasterizeTriangleSoup: Out of memory.")
			return false
		}
	}

	return true
}

// rasterizeTri clips a single triangle into the heightfield's voxel
// columns (first against each z-row, then against each x-column within
// that row) and adds one span per column the triangle's projection
// touches, snapped to the height grid.
func rasterizeTri(v0, v1, v2 []float32,
	area uint8, hf *Heightfield,
	bmin, bmax []float32,
	cs, ics, ich float32,
	flagMergeThr int32) bool {

	w := hf.Width
	h := hf.Height
	var tmin, tmax [3]float32
	by := bmax[1] - bmin[1]

	copy(tmin[:], v0)
	copy(tmax[:], v0)
	d3.Vec3Min(tmin[:], v1)
	d3.Vec3Min(tmin[:], v2)
	d3.Vec3Max(tmax[:], v1)
	d3.Vec3Max(tmax[:], v2)

	if !overlapBounds(bmin, bmax, tmin[:], tmax[:]) {
		return true
	}

	y0 := int32((tmin[2] - bmin[2]) * ics)
	y1 := int32((tmax[2] - bmin[2]) * ics)
	y0 = int32Clamp(y0, 0, h-1)
	y1 = int32Clamp(y1, 0, h-1)

	var buf [7 * 3 * 4]float32

	in := buf[:]
	inrow := buf[7*3:]
	p1 := inrow[7*3:]
	p2 := p1[7*3:]

	copy(in, v0)
	copy(in[3:6], v1)
	copy(in[6:9], v2)

	var nvrow, nvIn int32
	nvIn = 3

	for y := y0; y <= y1; y++ {
		// Clip to this row, keeping the remainder for the next one.
		cz := bmin[2] + float32(y)*cs
		dividePoly(in, nvIn, inrow, &nvrow, p1, &nvIn, cz+cs, 2)
		in, p1 = p1, in
		if nvrow < 3 {
			continue
		}

		minX, maxX := inrow[0], inrow[0]
		for i := int32(1); i < nvrow; i++ {
			if minX > inrow[i*3] {
				minX = inrow[i*3]
			}
			if maxX < inrow[i*3] {
				maxX = inrow[i*3]
			}
		}
		x0 := int32((minX - bmin[0]) * ics)
		x1 := int32((maxX - bmin[0]) * ics)
		x0 = int32Clamp(x0, 0, w-1)
		x1 = int32Clamp(x1, 0, w-1)

		var nv, nv2 int32
		nv2 = nvrow

		for x := x0; x <= x1; x++ {
			cx := bmin[0] + float32(x)*cs
			dividePoly(inrow, nv2, p1, &nv, p2, &nv2, cx+cs, 0)
			inrow, p2 = p2, inrow
			if nv < 3 {
				continue
			}

			smin, smax := p1[1], p1[1]
			for i := int32(1); i < nv; i++ {
				smin = math32.Min(smin, p1[i*3+1])
				smax = math32.Max(smax, p1[i*3+1])
			}
			smin -= bmin[1]
			smax -= bmin[1]

			if smax < 0.0 {
				continue
			}
			if smin > by {
				continue
			}
			if smin < 0.0 {
				smin = 0
			}
			if smax > by {
				smax = by
			}

			ismin := uint16(int32Clamp(int32(math32.Floor(smin*ich)), 0, RC_SPAN_MAX_HEIGHT))
			ismax := uint16(int32Clamp(int32(math32.Ceil(smax*ich)), int32(ismin+1), RC_SPAN_MAX_HEIGHT))

			if !hf.addSpan(x, y, ismin, ismax, area, flagMergeThr) {
				return false
			}
		}
	}

	return true
}

func overlapBounds(amin, amax, bmin, bmax []float32) bool {
	if amin[0] > bmax[0] || amax[0] < bmin[0] {
		return false
	}
	if amin[1] > bmax[1] || amax[1] < bmin[1] {
		return false
	}
	if amin[2] > bmax[2] || amax[2] < bmin[2] {
		return false
	}
	return true
}

func int32Clamp(a, low, high int32) int32 {
	if a < low {
		return low
	} else if a > high {
		return high
	}
	return a
}

// dividePoly splits the convex polygon in (nin vertices) along the
// plane axis=x into the two convex polygons lying on either side,
// written to out1/out2. A vertex exactly on the plane is written to
// both outputs.
func dividePoly(in []float32, nin int32,
	out1 []float32, nout1 *int32,
	out2 []float32, nout2 *int32,
	x float32, axis int32) {
	var d [12]float32
	for i := int32(0); i < nin; i++ {
		d[i] = x - in[i*3+axis]
	}

	var m, n int32
	j := nin - 1
	for i := int32(0); i < nin; i++ {
		ina := d[j] >= 0
		inb := d[i] >= 0
		if ina != inb {
			s := d[j] / (d[j] - d[i])
			out1[m*3+0] = in[j*3+0] + (in[i*3+0]-in[j*3+0])*s
			out1[m*3+1] = in[j*3+1] + (in[i*3+1]-in[j*3+1])*s
			out1[m*3+2] = in[j*3+2] + (in[i*3+2]-in[j*3+2])*s

			copy(out2[n*3:n*3+3], out1[m*3:m*3+3])
			m++
			n++
			if d[i] > 0 {
				copy(out1[m*3:m*3+3], in[i*3:i*3+3])
				m++
			} else if d[i] < 0 {
				copy(out2[n*3:n*3+3], in[i*3:i*3+3])
				n++
			}
		} else {
			if d[i] >= 0 {
				copy(out1[m*3:m*3+3], in[i*3:i*3+3])
				m++
				if d[i] != 0 {
					j = i
					continue
				}
			}
			copy(out2[n*3:n*3+3], in[i*3:i*3+3])
			n++
		}
		j = i
	}

	*nout1 = m
	*nout2 = n
}
