package recast

import (
	assert "github.com/aurelien-rainone/assertgo"
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/aurelien-rainone/math32"
)

// PolyMeshDetail holds, per polygon of a PolyMesh, a small triangle
// mesh that follows the source heightfield's surface more closely than
// the coarse polygon does — used for accurate height queries and for
// rendering a navmesh without visible "floating" polygons on sloped
// ground.
type PolyMeshDetail struct {
	Meshes  []int32   // four int32s per submesh: (vert base, vert count, tri base, tri count)
	Verts   []float32 // (x, y, z) per vertex
	Tris    []uint8   // (a, b, c, flags) per triangle; flags marks which edges lie on the poly boundary
	NMeshes int32
	NVerts  int32
	NTris   int32
}

func (pmd *PolyMeshDetail) Free() {
	if pmd == nil {
		return
	}
	pmd.Meshes = make([]int32, 0)
	pmd.Verts = make([]float32, 0)
	pmd.Tris = make([]uint8, 0)
	pmd = nil
}

const unsetHeight = 0xffff

// heightPatch is a scratch window over a CompactHeightfield's span
// heights, covering one polygon's bounding rectangle in voxel space,
// used while sampling height data to build that polygon's detail mesh.
type heightPatch struct {
	data                      []uint16
	xmin, ymin, width, height int32
}

func vdot2(a, b []float32) float32 {
	return a[0]*b[0] + a[2]*b[2]
}

func vdistSq2(p, q []float32) float32 {
	dx := q[0] - p[0]
	dy := q[2] - p[2]
	return dx*dx + dy*dy
}

func vdist2(p, q []float32) float32 {
	return math32.Sqrt(vdistSq2(p, q))
}

func vcross2(p1, p2, p3 []float32) float32 {
	u1 := p2[0] - p1[0]
	v1 := p2[2] - p1[2]
	u2 := p3[0] - p1[0]
	v2 := p3[2] - p1[2]
	return u1*v2 - v1*u2
}

// circumCircle computes the xz-plane circumcircle of triangle
// (p1, p2, p3) into c, returning its radius. ret is false when the
// three points are (near) collinear and no circle exists.
func circumCircle(p1, p2, p3, c []float32) (r float32, ret bool) {
	const eps float32 = 1e-6
	// Work relative to p1 to avoid precision loss far from the origin.
	var v1, v2, v3 [3]float32
	d3.Vec3Sub(v2[:], p2, p1)
	d3.Vec3Sub(v3[:], p3, p1)

	cp := vcross2(v1[:], v2[:], v3[:])
	if math32.Abs(cp) > eps {
		v1Sq := vdot2(v1[:], v1[:])
		v2Sq := vdot2(v2[:], v2[:])
		v3Sq := vdot2(v3[:], v3[:])
		c[0] = (v1Sq*(v2[2]-v3[2]) + v2Sq*(v3[2]-v1[2]) + v3Sq*(v1[2]-v2[2])) / (2 * cp)
		c[1] = 0
		c[2] = (v1Sq*(v3[0]-v2[0]) + v2Sq*(v1[0]-v3[0]) + v3Sq*(v2[0]-v1[0])) / (2 * cp)
		r = vdist2(c, v1[:])
		d3.Vec3Add(c, c, p1)
		return r, true
	}

	copy(c, p1[:])
	return 0, false
}

// distPtTri returns the vertical distance from p to the plane of
// triangle (a, b, c), or math32.MaxFloat32 if p's xz-projection falls
// outside the triangle.
func distPtTri(p, a, b, c []float32) float32 {
	var v0, v1, v2 [3]float32

	d3.Vec3Sub(v0[:], c, a)
	d3.Vec3Sub(v1[:], b, a)
	d3.Vec3Sub(v2[:], p, a)

	dot00 := vdot2(v0[:], v0[:])
	dot01 := vdot2(v0[:], v1[:])
	dot02 := vdot2(v0[:], v2[:])
	dot11 := vdot2(v1[:], v1[:])
	dot12 := vdot2(v1[:], v2[:])

	invDenom := float32(1.0 / (dot00*dot11 - dot01*dot01))
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	const eps float32 = 1e-4
	if u >= -eps && v >= -eps && (u+v) <= 1+eps {
		y := a[1] + v0[1]*u + v1[1]*v
		return math32.Abs(y - p[1])
	}
	return math32.MaxFloat32
}

func distancePtSeg3Pt(pt, p, q []float32) float32 {
	pqx := q[0] - p[0]
	pqy := q[1] - p[1]
	pqz := q[2] - p[2]
	dx := pt[0] - p[0]
	dy := pt[1] - p[1]
	dz := pt[2] - p[2]
	d := pqx*pqx + pqy*pqy + pqz*pqz
	t := pqx*dx + pqy*dy + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	dx = p[0] + t*pqx - pt[0]
	dy = p[1] + t*pqy - pt[1]
	dz = p[2] + t*pqz - pt[2]

	return dx*dx + dy*dy + dz*dz
}

func distancePtSeg2d(pt, p, q []float32) float32 {
	pqx := q[0] - p[0]
	pqz := q[2] - p[2]
	dx := pt[0] - p[0]
	dz := pt[2] - p[2]
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

	dx = p[0] + t*pqx - pt[0]
	dz = p[2] + t*pqz - pt[2]

	return dx*dx + dz*dz
}

func distToTriMesh(p, verts []float32, nverts int32, tris []int32, ntris int32) float32 {
	dmin := math32.MaxFloat32
	for i := int32(0); i < ntris; i++ {
		va := verts[tris[i*4+0]*3:]
		vb := verts[tris[i*4+1]*3:]
		vc := verts[tris[i*4+2]*3:]
		d := distPtTri(p, va, vb, vc)
		if d < dmin {
			dmin = d
		}
	}
	if dmin == math32.MaxFloat32 {
		return -1
	}
	return dmin
}

func push3(queue *[]int32, v1, v2, v3 int32) {
	*queue = append(*queue, v1, v2, v3)
}

// getHeight samples hp at the voxel under world position (fx, fy, fz).
// When that cell has no recorded height (a gap left by a polygon that
// doesn't cover every cell in its bounding rectangle), it spirals
// outward up to radius voxels and takes whichever filled cell in the
// nearest complete ring is closest in height to fy.
func getHeight(fx, fy, fz, cs, ics, ch float32, radius int32, hp *heightPatch) uint16 {
	ix := int32(math32.Floor(fx*ics + 0.01))
	iz := int32(math32.Floor(fz*ics + 0.01))
	ix = int32Clamp(ix-hp.xmin, 0, hp.width-1)
	iz = int32Clamp(iz-hp.ymin, 0, hp.height-1)
	h := hp.data[ix+iz*hp.width]
	if uint32(h) == unsetHeight {
		x := int32(1)
		z := int32(0)
		dx := int32(1)
		dz := int32(0)
		maxSize := radius*2 + 1
		maxIter := maxSize*maxSize - 1

		nextRingIterStart := int32(8)
		nextRingIters := int32(16)

		dmin := math32.MaxFloat32
		for i := int32(0); i < maxIter; i++ {
			nx := ix + x
			nz := iz + z

			if nx >= 0 && nz >= 0 && nx < hp.width && nz < hp.height {
				nh := hp.data[nx+nz*hp.width]
				if uint32(nh) != unsetHeight {
					d := math32.Abs(float32(nh)*ch - fy)
					if d < dmin {
						h = nh
						dmin = d
					}
				}
			}

			// The search visits concentric square rings around the
			// center cell (1, then 8, then 16, ... cells). Once a hit
			// is found we finish the ring it was found in (to pick the
			// closest-in-height candidate within that ring) but do not
			// expand to the next one.
			if i+1 == nextRingIterStart {
				if uint32(h) != unsetHeight {
					break
				}
				nextRingIterStart += nextRingIters
				nextRingIters += 8
			}

			if (x == z) || ((x < 0) && (x == -z)) || ((x > 0) && (x == 1-z)) {
				dx, dz = -dz, dx
			}
			x += dx
			z += dz
		}
	}
	return h
}

// Sentinel edge-face values used by the incremental Delaunay
// triangulation below: edgeOpen marks a half-edge with no face
// assigned yet, edgeHull marks one that borders the polygon's convex
// hull.
const (
	edgeOpen int32 = -1
	edgeHull int32 = -2
)

func findEdge(edges []int32, nedges int32, s, t int32) int32 {
	for i := int32(0); i < nedges; i++ {
		e := edges[i*4:]
		if (e[0] == s && e[1] == t) || (e[0] == t && e[1] == s) {
			return i
		}
	}
	return edgeOpen
}

func addEdge(ctx *BuildContext, edges []int32, nedges *int32, maxEdges, s, t, l, r int32) int32 {
	if *nedges >= maxEdges {
		ctx.Errorf("addEdge: Too many edges (%d/%d).", *nedges, maxEdges)
		return edgeOpen
	}

	if findEdge(edges, *nedges, s, t) == edgeOpen {
		edge := edges[*nedges*4:]
		edge[0] = s
		edge[1] = t
		edge[2] = l
		edge[3] = r
		*nedges++
		return *nedges
	}
	return edgeOpen
}

// polyHasEdge reports whether segment (va, vb) coincides with an edge
// of polygon vpoly, within a small tolerance.
func polyHasEdge(va, vb, vpoly []float32, npoly int32) uint8 {
	thrSqr := float32(0.001 * 0.001)
	var i int32
	for j := int32(npoly - 1); i < npoly; i++ {
		if distancePtSeg2d(va, vpoly[j*3:], vpoly[i*3:]) < thrSqr &&
			distancePtSeg2d(vb, vpoly[j*3:], vpoly[i*3:]) < thrSqr {
			return 1
		}
		j = i
	}
	return 0
}

func getTriFlags(va, vb, vc, vpoly []float32, npoly int32) uint8 {
	var flags uint8
	flags |= polyHasEdge(va, vb, vpoly, npoly) << 0
	flags |= polyHasEdge(vb, vc, vpoly, npoly) << 2
	flags |= polyHasEdge(vc, va, vpoly, npoly) << 4
	return flags
}

// BuildPolyMeshDetail builds a height-accurate detail triangulation for
// every polygon of mesh, sampling chf's span heights at roughly
// sampleDist spacing and adding extra sample points wherever the
// surface deviates from the sampled mesh by more than sampleMaxError.
// Reports whether the build succeeded; an empty mesh (no polygons)
// succeeds trivially with a zeroed PolyMeshDetail.
func BuildPolyMeshDetail(ctx *BuildContext, mesh *PolyMesh, chf *CompactHeightfield, sampleDist, sampleMaxError float32) (*PolyMeshDetail, bool) {
	assert.True(ctx != nil, "ctx should not be nil")

	ctx.StartTimer(TimerBuildPolyMeshDetail)
	defer ctx.StopTimer(TimerBuildPolyMeshDetail)

	var dmesh PolyMeshDetail
	if mesh.NVerts == 0 || mesh.NPolys == 0 {
		return &dmesh, true
	}

	nvp := mesh.Nvp
	cs := mesh.Cs
	ch := mesh.Ch
	orig := mesh.BMin
	borderSize := mesh.BorderSize
	heightSearchRadius := iMax(1, int32(math32.Ceil(mesh.MaxEdgeError)))

	edges := make([]int32, 64)
	tris := make([]int32, 512)
	arr := make([]int32, 512)
	samples := make([]int32, 512)

	var (
		verts        []float32
		hp           heightPatch
		nPolyVerts   int32
		maxhw, maxhh int32
	)
	verts = make([]float32, 256*3)

	bounds := make([]int32, mesh.NPolys*4)
	poly := make([]float32, nvp*3)

	// Find the largest bounding rectangle among all polygons so hp's
	// backing array only needs one allocation.
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		xmin := &bounds[i*4+0]
		xmax := &bounds[i*4+1]
		ymin := &bounds[i*4+2]
		ymax := &bounds[i*4+3]

		*xmin = chf.Width
		*xmax = 0
		*ymin = chf.Height
		*ymax = 0
		for j := int32(0); j < nvp; j++ {
			if p[j] == meshNullIdx {
				break
			}
			v := mesh.Verts[p[j]*3:]
			*xmin = iMin(*xmin, int32(v[0]))
			*xmax = iMax(*xmax, int32(v[0]))
			*ymin = iMin(*ymin, int32(v[2]))
			*ymax = iMax(*ymax, int32(v[2]))
			nPolyVerts++
		}
		*xmin = iMax(0, *xmin-1)
		*xmax = iMin(chf.Width, *xmax+1)
		*ymin = iMax(0, *ymin-1)
		*ymax = iMin(chf.Height, *ymax+1)
		if *xmin >= *xmax || *ymin >= *ymax {
			continue
		}
		maxhw = iMax(maxhw, *xmax-*xmin)
		maxhh = iMax(maxhh, *ymax-*ymin)
	}

	hp.data = make([]uint16, maxhw*maxhh)

	dmesh.NMeshes = mesh.NPolys
	dmesh.Meshes = make([]int32, dmesh.NMeshes*4)

	vcap := nPolyVerts + nPolyVerts/2
	tcap := vcap * 2

	dmesh.Verts = make([]float32, vcap*3)
	dmesh.Tris = make([]uint8, tcap*4)

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]

		var npoly int32
		for j := int32(0); j < nvp; j++ {
			if p[j] == meshNullIdx {
				break
			}
			v := mesh.Verts[p[j]*3:]
			poly[j*3+0] = float32(v[0]) * cs
			poly[j*3+1] = float32(v[1]) * ch
			poly[j*3+2] = float32(v[2]) * cs
			npoly++
		}

		hp.xmin = bounds[i*4+0]
		hp.ymin = bounds[i*4+2]
		hp.width = bounds[i*4+1] - bounds[i*4+0]
		hp.height = bounds[i*4+3] - bounds[i*4+2]
		getHeightData(ctx, chf, p, npoly, mesh.Verts, borderSize, &hp, &arr, int32(mesh.Regs[i]))

		var nverts int32
		if !buildPolyDetail(ctx, poly, npoly,
			sampleDist, sampleMaxError,
			heightSearchRadius, chf, &hp,
			verts, &nverts, &tris,
			&edges, &samples) {
			return nil, false
		}

		for j := int32(0); j < nverts; j++ {
			verts[j*3+0] += orig[0]
			verts[j*3+1] += orig[1] + chf.Ch
			verts[j*3+2] += orig[2]
		}
		for j := int32(0); j < npoly; j++ {
			poly[j*3+0] += orig[0]
			poly[j*3+1] += orig[1]
			poly[j*3+2] += orig[2]
		}

		ntris := int32(len(tris) / 4)

		dmesh.Meshes[i*4+0] = dmesh.NVerts
		dmesh.Meshes[i*4+1] = nverts
		dmesh.Meshes[i*4+2] = dmesh.NTris
		dmesh.Meshes[i*4+3] = ntris

		if dmesh.NVerts+nverts > vcap {
			for dmesh.NVerts+nverts > vcap {
				vcap += 256
			}
			newv := make([]float32, vcap*3)
			if dmesh.NVerts != 0 {
				copy(newv, dmesh.Verts[:3*dmesh.NVerts])
			}
			dmesh.Verts = newv
		}
		for j := int32(0); j < nverts; j++ {
			dmesh.Verts[dmesh.NVerts*3+0] = verts[j*3+0]
			dmesh.Verts[dmesh.NVerts*3+1] = verts[j*3+1]
			dmesh.Verts[dmesh.NVerts*3+2] = verts[j*3+2]
			dmesh.NVerts++
		}

		if dmesh.NTris+ntris > tcap {
			for dmesh.NTris+ntris > tcap {
				tcap += 256
			}
			newt := make([]uint8, tcap*4)
			if dmesh.NTris != 0 {
				copy(newt, dmesh.Tris[:4*dmesh.NTris])
			}
			dmesh.Tris = newt
		}
		for j := int32(0); j < ntris; j++ {
			t := tris[j*4:]
			dmesh.Tris[dmesh.NTris*4+0] = uint8(t[0])
			dmesh.Tris[dmesh.NTris*4+1] = uint8(t[1])
			dmesh.Tris[dmesh.NTris*4+2] = uint8(t[2])
			dmesh.Tris[dmesh.NTris*4+3] = getTriFlags(verts[t[0]*3:], verts[t[1]*3:], verts[t[2]*3:], poly, npoly)
			dmesh.NTris++
		}
	}

	return &dmesh, true
}

func updateLeftFace(e []int32, s, t, f int32) {
	if e[0] == s && e[1] == t && e[2] == edgeOpen {
		e[2] = f
	} else if e[1] == s && e[0] == t && e[3] == edgeOpen {
		e[3] = f
	}
}

func overlapSegSeg2d(a, b, c, d []float32) bool {
	a1 := vcross2(a, b, d)
	a2 := vcross2(a, b, c)
	if a1*a2 < 0.0 {
		a3 := vcross2(c, d, a)
		a4 := a3 + a2 - a1
		if a3*a4 < 0.0 {
			return true
		}
	}
	return false
}

func overlapEdges(pts []float32, edges []int32, nedges, s1, t1 int32) bool {
	for i := int32(0); i < nedges; i++ {
		s0 := edges[i*4+0]
		t0 := edges[i*4+1]
		if s0 == s1 || s0 == t1 || t0 == s1 || t0 == t1 {
			continue
		}
		if overlapSegSeg2d(pts[s0*3:], pts[t0*3:], pts[s1*3:], pts[t1*3:]) {
			return true
		}
	}
	return false
}

// completeFacet closes edge e of the incremental Delaunay
// triangulation by picking, among points strictly to its left, the one
// whose circumcircle with the edge's endpoints contains no other
// candidate (ties broken in favor of points that don't introduce
// crossing edges). If no such point exists, the edge is marked as
// lying on the triangulation's convex hull instead.
func completeFacet(ctx *BuildContext, pts []float32, npts int32, edges []int32, nedges *int32, maxEdges int32, nfaces *int32, e int32) {
	const eps float32 = 1e-5

	edge := edges[e*4:]

	var s, t int32
	if edge[2] == edgeOpen {
		s = edge[0]
		t = edge[1]
	} else if edge[3] == edgeOpen {
		s = edge[1]
		t = edge[0]
	} else {
		return
	}

	pt := npts
	var c [3]float32
	r := float32(-1)
	for u := int32(0); u < npts; u++ {
		if u == s || u == t {
			continue
		}
		if vcross2(pts[s*3:], pts[t*3:], pts[u*3:]) > eps {
			if r < 0 {
				pt = u
				r, _ = circumCircle(pts[s*3:], pts[t*3:], pts[u*3:], c[:])
				continue
			}
			d := vdist2(c[:], pts[u*3:])
			tol := float32(0.001)
			if d > r*(1+tol) {
				continue
			} else if d < r*(1-tol) {
				pt = u
				r, _ = circumCircle(pts[s*3:], pts[t*3:], pts[u*3:], c[:])
			} else {
				// Inside the tolerance band: only accept u if it
				// doesn't introduce a crossing edge with s or t.
				if overlapEdges(pts, edges, *nedges, s, u) {
					continue
				}
				if overlapEdges(pts, edges, *nedges, t, u) {
					continue
				}
				pt = u
				r, _ = circumCircle(pts[s*3:], pts[t*3:], pts[u*3:], c[:])
			}
		}
	}

	if pt < npts {
		updateLeftFace(edges[e*4:], s, t, *nfaces)

		if e := findEdge(edges, *nedges, pt, s); e == edgeOpen {
			addEdge(ctx, edges, nedges, maxEdges, pt, s, *nfaces, edgeOpen)
		} else {
			updateLeftFace(edges[e*4:], pt, s, *nfaces)
		}

		if e := findEdge(edges, *nedges, t, pt); e == edgeOpen {
			addEdge(ctx, edges, nedges, maxEdges, t, pt, *nfaces, edgeOpen)
		} else {
			updateLeftFace(edges[e*4:], t, pt, *nfaces)
		}

		*nfaces++
	} else {
		updateLeftFace(edges[e*4:], s, t, edgeHull)
	}
}

// delaunayHull re-triangulates the point set pts (npts points, with
// convex hull given by hull) from scratch via the incremental
// edge-completion algorithm above, replacing tris/edges with the
// result.
func delaunayHull(ctx *BuildContext, npts int32, pts []float32,
	nhull int32, hull []int32,
	tris, edges *[]int32) {
	var nfaces, nedges int32
	maxEdges := npts * 10
	*edges = make([]int32, maxEdges*4)

	var i int32
	for j := nhull - 1; i < nhull; i++ {
		addEdge(ctx, (*edges)[:], &nedges, maxEdges, hull[j], hull[i], edgeHull, edgeOpen)
		j = i
	}

	var currentEdge int32
	for currentEdge < nedges {
		if (*edges)[currentEdge*4+2] == edgeOpen {
			completeFacet(ctx, pts, npts, *edges, &nedges, maxEdges, &nfaces, currentEdge)
		}
		if (*edges)[currentEdge*4+3] == edgeOpen {
			completeFacet(ctx, pts, npts, *edges, &nedges, maxEdges, &nfaces, currentEdge)
		}
		currentEdge++
	}

	*tris = make([]int32, nfaces*4)
	for i := int32(0); i < nfaces*4; i++ {
		(*tris)[i] = -1
	}

	for i := int32(0); i < nedges; i++ {
		e := (*edges)[i*4:]
		if e[3] >= 0 {
			t := (*tris)[e[3]*4:]
			if t[0] == -1 {
				t[0] = e[0]
				t[1] = e[1]
			} else if t[0] == e[1] {
				t[2] = e[0]
			} else if t[1] == e[0] {
				t[2] = e[1]
			}
		}
		if e[2] >= 0 {
			t := (*tris)[e[2]*4:]
			if t[0] == -1 {
				t[0] = e[1]
				t[1] = e[0]
			} else if t[0] == e[0] {
				t[2] = e[1]
			} else if t[1] == e[1] {
				t[2] = e[0]
			}
		}
	}

	for i := 0; i < len(*tris)/4; i++ {
		t := (*tris)[i*4:]
		if t[0] == -1 || t[1] == -1 || t[2] == -1 {
			// A face that never got all three edges assigned; this can
			// happen for degenerate point configurations. Drop it by
			// swapping in the last triangle.
			ctx.Warningf("delaunayHull: removing dangling face %d [%d,%d,%d]", i, t[0], t[1], t[2])
			last := len(*tris) - 4
			t[0] = (*tris)[last]
			t[1] = (*tris)[last+1]
			t[2] = (*tris)[last+2]
			t[3] = (*tris)[last+3]
			*tris = (*tris)[:last]
			i--
		}
	}
}

// polyMinExtent estimates how "thin" the polygon is: for each edge, the
// farthest any other vertex strays from it, minimized over edges. A
// sliver polygon has a small minimum extent and skips interior point
// sampling in buildPolyDetail.
func polyMinExtent(verts []float32, nverts int32) float32 {
	minDist := math32.MaxFloat32
	for i := int32(0); i < nverts; i++ {
		ni := (i + 1) % nverts
		p1 := verts[i*3:]
		p2 := verts[ni*3:]
		var maxEdgeDist float32
		for j := int32(0); j < nverts; j++ {
			if j == i || j == ni {
				continue
			}
			d := distancePtSeg2d(verts[j*3:], p1, p2)
			if d > maxEdgeDist {
				maxEdgeDist = d
			}
		}
		if maxEdgeDist < minDist {
			minDist = maxEdgeDist
		}
	}
	return math32.Sqrt(minDist)
}

// triangulateHull fans out the polygon's hull into triangles by
// repeatedly extending whichever side (left or right of a starting
// ear) keeps the new triangle's perimeter shorter. Used instead of
// delaunayHull when there are no interior sample points to add, since
// it handles long thin slivers along straight edges better.
func triangulateHull(nverts int32, verts []float32, nhull int32, hull []int32, tris *[]int32) {
	start := int32(0)
	left := int32(1)
	right := nhull - 1

	var dmin float32
	for i := int32(0); i < nhull; i++ {
		pi := prev(i, nhull)
		ni := next(i, nhull)
		pv := verts[hull[pi]*3:]
		cv := verts[hull[i]*3:]
		nv := verts[hull[ni]*3:]
		d := vdist2(pv, cv) + vdist2(cv, nv) + vdist2(nv, pv)
		if d < dmin {
			start = i
			left = ni
			right = pi
			dmin = d
		}
	}

	*tris = append(*tris, hull[start], hull[left], hull[right], 0)

	for next(left, nhull) != right {
		nleft := next(left, nhull)
		nright := prev(right, nhull)

		cvleft := verts[hull[left]*3:]
		nvleft := verts[hull[nleft]*3:]
		cvright := verts[hull[right]*3:]
		nvright := verts[hull[nright]*3:]
		dleft := vdist2(cvleft, nvleft) + vdist2(nvleft, cvright)
		dright := vdist2(cvright, nvright) + vdist2(cvleft, nvright)

		if dleft < dright {
			*tris = append(*tris, hull[left], hull[nleft], hull[right], 0)
			left = nleft
		} else {
			*tris = append(*tris, hull[left], hull[nright], hull[right], 0)
			right = nright
		}
	}
}

func jitterX(i int64) float32 {
	return (float32((i*0x8da6b343)&0xffff)/float32(65535.0))*2.0 - 1.0
}

func jitterY(i int64) float32 {
	return (float32((i*0xd8163841)&0xffff)/float32(65535.0))*2.0 - 1.0
}

// buildPolyDetail builds the detail triangulation for one polygon (in,
// nin vertices, in world units relative to the heightfield origin): it first re-samples the
// polygon's own edges at sampleDist spacing (so adjacent polygons
// agree on border heights), then triangulates, then — unless the
// polygon is a sliver — fills a sample grid over its interior and adds
// the sample with the worst height error one at a time, re-running
// delaunayHull after each addition, until every sample is within
// sampleMaxError or maxVerts is reached.
func buildPolyDetail(ctx *BuildContext, in []float32, nin int32,
	sampleDist, sampleMaxError float32,
	heightSearchRadius int32, chf *CompactHeightfield,
	hp *heightPatch, verts []float32, nverts *int32,
	tris, edges, samples *[]int32) bool {
	const (
		maxVerts        = 127
		maxTris         = 255 // Delaunay max is 2n-2-k (n verts, k hull verts).
		maxVertsPerEdge = 32
	)

	var edge [(maxVertsPerEdge + 1) * 3]float32
	var hull [maxVerts]int32
	var nhull int32

	*nverts = nin

	for i := int32(0); i < nin; i++ {
		copy(verts[i*3:], in[i*3:3+i*3])
	}

	*edges = make([]int32, 0)
	*tris = make([]int32, 0)

	cs := chf.Cs
	ics := 1.0 / cs

	minExtent := polyMinExtent(verts, *nverts)

	if sampleDist > 0 {
		i := int32(0)
		for j := nin - 1; i < nin; i++ {
			vj := in[j*3:]
			vi := in[i*3:]
			var swapped bool
			// Process each edge in a consistent direction (by
			// lexicographic order of its endpoints) so the two
			// polygons sharing it sample it identically and no seam
			// appears.
			if math32.Abs(vj[0]-vi[0]) < 1e-6 {
				if vj[2] > vi[2] {
					vj, vi = vi, vj
					swapped = true
				}
			} else {
				if vj[0] > vi[0] {
					vj, vi = vi, vj
					swapped = true
				}
			}
			dx := vi[0] - vj[0]
			dy := vi[1] - vj[1]
			dz := vi[2] - vj[2]
			d := math32.Sqrt(dx*dx + dz*dz)
			nn := 1 + int32(math32.Floor(d/sampleDist))
			if nn >= maxVertsPerEdge {
				nn = maxVertsPerEdge - 1
			}
			if *nverts+nn >= maxVerts {
				nn = maxVerts - 1 - *nverts
			}

			for k := int32(0); k <= nn; k++ {
				u := float32(k) / float32(nn)
				pos := edge[k*3:]
				pos[0] = vj[0] + dx*u
				pos[1] = vj[1] + dy*u
				pos[2] = vj[2] + dz*u
				pos[1] = float32(getHeight(pos[0], pos[1], pos[2], cs, ics, chf.Ch, heightSearchRadius, hp)) * chf.Ch
			}

			// Simplify the sampled edge down to the points needed to
			// stay within sampleMaxError, same recursive-split
			// approach as contour simplification.
			idx := [maxVertsPerEdge]int32{0, nn}
			nidx := int32(2)
			for k := int32(0); k < nidx-1; {
				a := idx[k]
				b := idx[k+1]
				va := edge[a*3:]
				vb := edge[b*3:]
				var maxd float32
				maxi := int32(-1)
				for m := a + 1; m < b; m++ {
					dev := distancePtSeg3Pt(edge[m*3:], va, vb)
					if dev > maxd {
						maxd = dev
						maxi = m
					}
				}
				if maxi != -1 && maxd > math32.Sqr(sampleMaxError) {
					for m := nidx; m > k; m-- {
						idx[m] = idx[m-1]
					}
					idx[k+1] = maxi
					nidx++
				} else {
					k++
				}
			}

			hull[nhull] = j
			nhull++
			if swapped {
				for k := nidx - 2; k > 0; k-- {
					copy(verts[*nverts*3:], edge[idx[k]*3:3+idx[k]*3])
					hull[nhull] = *nverts
					nhull++
					*nverts++
				}
			} else {
				for k := int32(1); k < nidx-1; k++ {
					copy(verts[*nverts*3:], edge[idx[k]*3:3+(idx[k]*3)])
					hull[nhull] = *nverts
					nhull++
					*nverts++
				}
			}
			j = i
		}
	}

	if minExtent < sampleDist*2 {
		triangulateHull(*nverts, verts, nhull, hull[:], tris)
		return true
	}

	// triangulateHull handles long thin triangles along straight edges
	// better than delaunayHull when there are no interior points yet.
	triangulateHull(*nverts, verts, nhull, hull[:], tris)

	if len(*tris) == 0 {
		ctx.Warningf("buildPolyDetail: could not triangulate polygon (%d verts)", nverts)
		return true
	}

	if sampleDist > 0 {
		var bmin, bmax [3]float32
		copy(bmin[:], in)
		copy(bmax[:], in)
		for i := int32(1); i < nin; i++ {
			d3.Vec3Min(bmin[:], in[i*3:])
			d3.Vec3Max(bmax[:], in[i*3:])
		}
		x0 := int32(math32.Floor(bmin[0] / sampleDist))
		x1 := int32(math32.Ceil(bmax[0] / sampleDist))
		z0 := int32(math32.Floor(bmin[2] / sampleDist))
		z1 := int32(math32.Ceil(bmax[2] / sampleDist))
		*samples = make([]int32, 0)
		for z := z0; z < z1; z++ {
			for x := x0; x < x1; x++ {
				var pt [3]float32
				pt[0] = float32(x) * sampleDist
				pt[1] = (bmax[1] + bmin[1]) * 0.5
				pt[2] = float32(z) * sampleDist
				if distToPoly(nin, in, pt[:]) > -sampleDist/2 {
					continue
				}
				*samples = append(*samples,
					x,
					int32(getHeight(pt[0], pt[1], pt[2], cs, ics, chf.Ch, heightSearchRadius, hp)),
					z,
					0)
			}
		}

		nsamples := int32(len(*samples) / 4)
		for iter := int32(0); iter < nsamples; iter++ {
			if *nverts >= maxVerts {
				break
			}

			var (
				bestpt [3]float32
				bestd  float32
			)
			besti := int32(-1)
			for i := int32(0); i < nsamples; i++ {
				s := (*samples)[i*4:]
				if s[3] != 0 {
					continue
				}
				var pt [3]float32
				// Jitter the candidate slightly so symmetrical grid
				// samples don't all tie and produce degenerate
				// triangulations.
				pt[0] = float32(s[0])*sampleDist + jitterX(int64(i))*cs*0.1
				pt[1] = float32(s[1]) * chf.Ch
				pt[2] = float32(s[2])*sampleDist + jitterY(int64(i))*cs*0.1
				d := distToTriMesh(pt[:], verts, *nverts, *tris, int32(len(*tris)/4))
				if d < 0 {
					continue
				}
				if d > bestd {
					bestd = d
					besti = i
					copy(bestpt[:], pt[:])
				}
			}

			if bestd <= sampleMaxError || besti == -1 {
				break
			}
			(*samples)[besti*4+3] = 1
			copy(verts[*nverts*3:], bestpt[:])
			*nverts++

			*edges = make([]int32, 0)
			*tris = make([]int32, 0)
			delaunayHull(ctx, *nverts, verts, nhull, hull[:], tris, edges)
		}
	}

	ntris := len(*tris) / 4
	if ntris > maxTris {
		ctx.Errorf("buildPolyDetail: shrinking triangle count from %d to max %d", ntris, maxTris)
		*tris = (*tris)[:maxTris*4]
	}

	return true
}

// cellSearchOffsets lists the 9 (dx, dz) offsets (self plus 8
// neighbors) seedArrayWithPolyCenter scans to find the compact span
// closest to each polygon vertex.
var cellSearchOffsets = [9 * 2]int32{0, 0, -1, -1, 0, -1, 1, -1, 1, 0, 1, 1, 0, 1, -1, 1, -1, 0}

// seedArrayWithPolyCenter picks the compact-heightfield span nearest to
// the polygon's vertex-averaged center, used as the flood-fill seed for
// getHeightData when no span inside the polygon belongs to the target
// region. It walks there voxel by voxel via a DFS (not a straight line)
// because contour simplification can leave the straight-line path
// blocked by spans with no direct connection. If no span lies near any
// polygon vertex, an error is logged and array is left unchanged.
func seedArrayWithPolyCenter(ctx *BuildContext, chf *CompactHeightfield,
	poly []uint16, npoly int32,
	verts []uint16, bs int32,
	hp *heightPatch, array *[]int32) {

	var (
		startCellX, startCellY int32
		startSpanIndex         int32 = -1
		dmin                   int32 = unsetHeight
	)
	for j := int32(0); j < npoly && dmin > 0; j++ {
		for k := int32(0); k < 9 && dmin > 0; k++ {
			ax := int32(verts[poly[j]*3+0]) + cellSearchOffsets[k*2+0]
			ay := int32(verts[poly[j]*3+1])
			az := int32(verts[poly[j]*3+2]) + cellSearchOffsets[k*2+1]
			if ax < hp.xmin || ax >= hp.xmin+hp.width ||
				az < hp.ymin || az >= hp.ymin+hp.height {
				continue
			}

			c := &chf.Cells[(ax+bs)+(az+bs)*chf.Width]
			for i, ni := int32(c.Index), int32(c.Index)+int32(c.Count); i < ni && dmin > 0; i++ {
				d := iAbs(ay - int32(chf.Spans[i].Y))
				if d < dmin {
					startCellX = ax
					startCellY = az
					startSpanIndex = i
					dmin = d
				}
			}
		}
	}

	if startSpanIndex == -1 {
		ctx.Errorf("seedArrayWithPolyCenter: no span found near polygon, dmin=%d", dmin)
		return
	}

	var pcx, pcy int32
	for j := int32(0); j < npoly; j++ {
		pcx += int32(verts[poly[j]*3+0])
		pcy += int32(verts[poly[j]*3+2])
	}
	pcx /= npoly
	pcy /= npoly

	*array = append([]int32{}, startCellX, startCellY, startSpanIndex)

	dirs := []int32{0, 1, 2, 3}
	for i := int32(0); i < hp.width*hp.height; i++ {
		hp.data[i] = 0
	}

	cx := int32(-1)
	cy := int32(-1)
	ci := int32(-1)
	for {
		if len(*array) < 3 {
			ctx.Warningf("seedArrayWithPolyCenter: walk towards polygon center failed to reach center")
			break
		}

		ci, *array = (*array)[len(*array)-1], (*array)[:len(*array)-1]
		cy, *array = (*array)[len(*array)-1], (*array)[:len(*array)-1]
		cx, *array = (*array)[len(*array)-1], (*array)[:len(*array)-1]

		if cx == pcx && cy == pcy {
			break
		}

		// Prefer the axis that still needs to close the gap to pcx/pcy.
		var directDir, off int32
		if cx == pcx {
			if pcy > cy {
				off = 1
			} else {
				off = -1
			}
			directDir = GetDirForOffset(0, off)
		} else {
			if pcx > cx {
				off = 1
			} else {
				off = -1
			}
			directDir = GetDirForOffset(off, 0)
		}

		dirs[directDir], dirs[3] = dirs[3], dirs[directDir]

		csp := &chf.Spans[ci]
		for i := int32(0); i < int32(4); i++ {
			dir := dirs[i]
			if GetCon(csp, dir) == notConnected {
				continue
			}

			newX := cx + GetDirOffsetX(dir)
			newY := cy + GetDirOffsetY(dir)

			hpx := newX - hp.xmin
			hpy := newY - hp.ymin
			if hpx < 0 || hpx >= hp.width || hpy < 0 || hpy >= hp.height {
				continue
			}

			if hp.data[hpx+hpy*hp.width] != 0 {
				continue
			}

			hp.data[hpx+hpy*hp.width] = 1
			*array = append(*array,
				newX,
				newY,
				int32(chf.Cells[(newX+bs)+(newY+bs)*chf.Width].Index)+GetCon(csp, dir))
		}

		dirs[directDir], dirs[3] = dirs[3], dirs[directDir]
	}

	*array = append([]int32{}, cx+bs, cy+bs, ci)

	for i := int32(0); i < hp.width*hp.height; i++ {
		hp.data[i] = 0xffff
	}

	hp.data[cx-hp.xmin+(cy-hp.ymin)*hp.width] = chf.Spans[ci].Y
}

// distToPoly returns the squared xz-plane distance from p to the
// boundary of polygon verts (negated when p is inside).
func distToPoly(nvert int32, verts, p []float32) float32 {
	dmin := math32.MaxFloat32
	var (
		i, j int32
		c    bool
	)

	for j = nvert - 1; i < nvert; i++ {
		vi := verts[i*3:]
		vj := verts[j*3:]
		if ((vi[2] > p[2]) != (vj[2] > p[2])) &&
			(p[0] < (vj[0]-vi[0])*(p[2]-vi[2])/(vj[2]-vi[2])+vi[0]) {
			c = !c
		}
		d := distancePtSeg2d(p, vj, vi)
		if d < dmin {
			dmin = d
		}
		j = i
	}
	if c {
		return -dmin
	}
	return dmin
}

// getHeightData fills hp with span heights for poly's region, flood
// filling outward from any span already known to belong to that
// region; if none does (the polygon was merged from multiple regions,
// or overlaps another polygon of the same region), it seeds from the
// polygon's center instead via seedArrayWithPolyCenter.
func getHeightData(ctx *BuildContext, chf *CompactHeightfield,
	poly []uint16, npoly int32,
	verts []uint16, bs int32,
	hp *heightPatch, queue *[]int32,
	region int32) {
	*queue = make([]int32, 0)
	for i := int32(0); i < hp.width*hp.height; i++ {
		hp.data[i] = 0xffff
	}

	empty := true

	if region != int32(multipleRegs) {
		for hy := int32(0); hy < hp.height; hy++ {
			y := hp.ymin + hy + bs
			for hx := int32(0); hx < hp.width; hx++ {
				x := hp.xmin + hx + bs
				c := &chf.Cells[x+y*chf.Width]

				for i, ni := int32(c.Index), int32(c.Index+uint32(c.Count)); i < ni; i++ {
					s := &chf.Spans[i]
					if int32(s.Reg) == region {
						hp.data[hx+hy*hp.width] = s.Y
						empty = false

						var border bool
						for dir := int32(0); dir < 4; dir++ {
							if GetCon(s, dir) != notConnected {
								ax := x + GetDirOffsetX(dir)
								ay := y + GetDirOffsetY(dir)
								ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dir)
								if int32(chf.Spans[ai].Reg) != region {
									border = true
									break
								}
							}
						}
						if border {
							push3(queue, x, y, i)
						}
						break
					}
				}
			}
		}
	}

	if empty {
		seedArrayWithPolyCenter(ctx, chf, poly, npoly, verts, bs, hp, queue)
	}

	const retractSize = 256
	var head int

	for head*3 < len(*queue) {
		cx := (*queue)[head*3+0]
		cy := (*queue)[head*3+1]
		ci := (*queue)[head*3+2]
		head++
		if head >= retractSize {
			head = 0
			if len(*queue) > retractSize*3 {
				copy((*queue)[:], (*queue)[retractSize*3:(retractSize*3)+len(*queue)-retractSize*3])
			}
			*queue = (*queue)[:len(*queue)-retractSize*3]
		}

		cs := &chf.Spans[ci]
		for dir := int32(0); dir < 4; dir++ {
			if GetCon(cs, dir) == notConnected {
				continue
			}

			ax := cx + GetDirOffsetX(dir)
			ay := cy + GetDirOffsetY(dir)
			hx := ax - hp.xmin - bs
			hy := ay - hp.ymin - bs

			if uint(hx) >= uint(hp.width) || uint(hy) >= uint(hp.height) {
				continue
			}

			if uint32(hp.data[hx+hy*hp.width]) != unsetHeight {
				continue
			}

			ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(cs, dir)

			hp.data[hx+hy*hp.width] = chf.Spans[ai].Y

			push3(queue, ax, ay, ai)
		}
	}
}
