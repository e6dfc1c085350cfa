package recast

// Edge is a shared boundary between at most two polygons, used while
// computing polygon adjacency across a PolyMesh.
type Edge struct {
	vert     [2]uint16
	polyEdge [2]uint16
	poly     [2]uint16
}

// buildMeshAdjacency fills in each polygon's neighbor slots (the second
// half of its vertsPerPoly*2 entries in polys) by pairing up polygons
// that share an edge. Based on the edge-hashing approach described by
// Eric Lengyel at http://www.terathon.com/code/edges.php: edges are
// bucketed by their lower-numbered vertex so the matching higher vertex
// can be found without an all-pairs scan.
func buildMeshAdjacency(polys []uint16, npolys int32, nverts, vertsPerPoly int32) bool {
	maxEdgeCount := npolys * vertsPerPoly
	firstEdge := make([]uint16, nverts+maxEdgeCount)
	nextEdge := firstEdge[nverts:]
	var edgeCount int32

	edges := make([]*Edge, maxEdgeCount)
	for i := range edges {
		edges[i] = new(Edge)
	}

	for i := int32(0); i < nverts; i++ {
		firstEdge[i] = meshNullIdx
	}

	for i := int32(0); i < npolys; i++ {
		t := polys[i*vertsPerPoly*2:]
		for j := int32(0); j < vertsPerPoly; j++ {
			if t[j] == meshNullIdx {
				break
			}
			var v0, v1 uint16
			v0 = t[j]
			if j+1 >= vertsPerPoly || t[j+1] == meshNullIdx {
				v1 = t[0]
			} else {
				v1 = t[j+1]
			}

			if v0 < v1 {
				edge := edges[edgeCount]
				edge.vert[0] = v0
				edge.vert[1] = v1
				edge.poly[0] = uint16(i)
				edge.polyEdge[0] = uint16(j)
				edge.poly[1] = uint16(i)
				edge.polyEdge[1] = 0
				nextEdge[edgeCount] = firstEdge[v0]
				firstEdge[v0] = uint16(edgeCount)
				edgeCount++
			}
		}
	}

	for i := int32(0); i < npolys; i++ {
		t := polys[i*vertsPerPoly*2:]
		for j := int32(0); j < vertsPerPoly; j++ {
			if t[j] == meshNullIdx {
				break
			}
			var v0, v1 uint16
			v0 = t[j]
			if j+1 >= vertsPerPoly || t[j+1] == meshNullIdx {
				v1 = t[0]
			} else {
				v1 = t[j+1]
			}
			if v0 > v1 {
				for e := uint16(firstEdge[v1]); e != meshNullIdx; e = nextEdge[e] {
					edge := edges[e]
					if edge.vert[1] == v0 && edge.poly[0] == edge.poly[1] {
						edge.poly[1] = uint16(i)
						edge.polyEdge[1] = uint16(j)
						break
					}
				}
			}
		}
	}

	for i := int32(0); i < edgeCount; i++ {
		e := edges[i]
		if e.poly[0] != e.poly[1] {
			p0 := polys[int32(e.poly[0])*vertsPerPoly*2:]
			p1 := polys[int32(e.poly[1])*vertsPerPoly*2:]
			p0[vertsPerPoly+int32(e.polyEdge[0])] = e.poly[1]
			p1[vertsPerPoly+int32(e.polyEdge[1])] = e.poly[0]
		}
	}

	return true
}

// vertexBucketCount is the size of the hash table addVertex uses to
// dedupe PolyMesh vertices while it is built from a ContourSet.
const vertexBucketCount int32 = 1 << 12

func computeVertexHash(x, y, z int32) int32 {
	const (
		h1 int64 = 0x8da6b343 // arbitrary large prime multipliers
		h2       = 0xd8163841
		h3       = 0xcb1ab31f
	)
	n := uint32(h1*int64(x) + h2*int64(y) + h3*int64(z))
	return int32(n & uint32(vertexBucketCount-1))
}

// addVertex looks up (x, y, z) in the hash-bucketed vertex table and
// returns its index, tolerating up to 2 voxels of height difference
// (vertices traced from adjacent contours can disagree slightly on
// height); if no match is found it appends a new vertex.
func addVertex(x, y, z uint16, verts []uint16, firstVert, nextVert []int32, nv *int32) uint16 {
	bucket := computeVertexHash(int32(x), 0, int32(z))
	i := firstVert[bucket]

	for i != -1 {
		v := verts[i*3:]
		if v[0] == x && (iAbs(int32(v[1])-int32(y)) <= 2) && v[2] == z {
			return uint16(i)
		}
		i = nextVert[i]
	}

	i = *nv
	*nv = *nv + 1
	v := verts[i*3:]
	v[0] = x
	v[1] = y
	v[2] = z
	nextVert[i] = firstVert[bucket]
	firstVert[bucket] = i

	return uint16(i)
}

// vertexInCone reports whether the diagonal from indices[i] to
// indices[j] stays strictly inside polygon verts near the i endpoint —
// the local half of the two-part test a valid ear-clipping diagonal
// must pass (see diagonalie for the other half, non-intersection).
func vertexInCone(i, j, n int32, verts []int32, indices []int64) bool {
	pi := verts[(indices[i]&0x0fffffff)*4:]
	pj := verts[(indices[j]&0x0fffffff)*4:]
	pi1 := verts[(indices[next(i, n)]&0x0fffffff)*4:]
	pin1 := verts[(indices[prev(i, n)]&0x0fffffff)*4:]

	if leftOn(pin1, pi, pi1) {
		// Convex vertex: i+1 is left of or on (i-1,i).
		return left(pi, pj, pin1) && left(pj, pi, pi1)
	}
	// Reflex vertex (i-1,i,i+1 assumed non-collinear).
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}

// diagonal reports whether (indices[i], indices[j]) is a valid ear-
// clipping diagonal of the polygon: it must both lie inside the cone at
// i and not cross any other edge of the polygon.
func diagonal(i, j, n int32, verts []int32, indices []int64) bool {
	return vertexInCone(i, j, n, verts, indices) && diagonalie(i, j, n, verts, indices)
}

// diagonalieLoose is diagonalie's relaxed sibling, used only as a
// recovery path when triangulate finds no strict diagonal because the
// contour has overlapping segments.
func diagonalieLoose(i, j, n int32, verts []int32, indices []int64) bool {
	d0 := verts[(indices[i]&0x0fffffff)*4:]
	d1 := verts[(indices[j]&0x0fffffff)*4:]

	for k := int32(0); k < n; k++ {
		k1 := next(k, n)
		if !((k == i) || (k1 == i) || (k == j) || (k1 == j)) {
			p0 := verts[(indices[k]&0x0fffffff)*4:]
			p1 := verts[(indices[k1]&0x0fffffff)*4:]

			if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
				continue
			}

			if intersectProp(d0, d1, p0, p1) {
				return false
			}
		}
	}
	return true
}

func vertexInConeLoose(i, j, n int32, verts []int32, indices []int64) bool {
	pi := verts[(indices[i]&0x0fffffff)*4:]
	pj := verts[(indices[j]&0x0fffffff)*4:]
	pi1 := verts[(indices[next(i, n)]&0x0fffffff)*4:]
	pin1 := verts[(indices[prev(i, n)]&0x0fffffff)*4:]

	if leftOn(pin1, pi, pi1) {
		return leftOn(pi, pj, pin1) && leftOn(pj, pi, pi1)
	}
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}

func diagonalLoose(i, j, n int32, verts []int32, indices []int64) bool {
	return vertexInConeLoose(i, j, n, verts, indices) && diagonalieLoose(i, j, n, verts, indices)
}

// triangulate ear-clips the simple polygon described by verts/indices
// (n vertices) into triangles appended to tris, always removing the ear
// with the shortest closing edge first to keep triangles well shaped.
// If no strict diagonal exists anywhere (self-intersecting contour from
// overly aggressive simplification), it retries once with the relaxed
// diagonalLoose test before giving up; a negative return value is the
// negated triangle count produced despite that failure.
func triangulate(n int32, verts []int32, indices []int64, tris []int32) int32 {
	var ntris int32
	dst := tris

	// High bit of each index flags whether that vertex is a valid ear tip.
	for i := int32(0); i < n; i++ {
		i1 := next(i, n)
		i2 := next(i1, n)
		if diagonal(i, i2, n, verts, indices) {
			indices[i1] |= 0x80000000
		}
	}

	for n > 3 {
		minLen := int32(-1)
		mini := int32(-1)
		for i := int32(0); i < n; i++ {
			i1 := next(i, n)
			if (indices[i1] & 0x80000000) != 0 {
				p0 := verts[(indices[i]&0x0fffffff)*4:]
				p2 := verts[(indices[next(i1, n)]&0x0fffffff)*4:]

				dx := p2[0] - p0[0]
				dy := p2[2] - p0[2]
				length := dx*dx + dy*dy

				if minLen < 0 || length < minLen {
					minLen = length
					mini = i
				}
			}
		}

		if mini == -1 {
			// Likely overlapping segments in the contour, e.g.:
			//  A o-o=====o---o B
			//   /  |C   D|    \
			//  o   o     o     o
			// Retry with the relaxed cone test so a diagonal like A-B
			// or C-D can still be found.
			minLen = -1
			mini = -1
			for i := int32(0); i < n; i++ {
				i1 := next(i, n)
				i2 := next(i1, n)
				if diagonalLoose(i, i2, n, verts, indices) {
					p0 := verts[(indices[i]&0x0fffffff)*4:]
					p2 := verts[(indices[next(i2, n)]&0x0fffffff)*4:]
					dx := p2[0] - p0[0]
					dy := p2[2] - p0[2]
					length := dx*dx + dy*dy

					if minLen < 0 || length < minLen {
						minLen = length
						mini = i
					}
				}
			}
			if mini == -1 {
				// Contour is too degenerate to triangulate at all.
				return -ntris
			}
		}

		i := mini
		i1 := next(i, n)
		i2 := next(i1, n)

		dst[0] = int32(indices[i] & 0x0fffffff)
		dst[1] = int32(indices[i1] & 0x0fffffff)
		dst[2] = int32(indices[i2] & 0x0fffffff)
		dst = dst[3:]
		ntris++

		// Remove i1 by shifting everything after it left one slot.
		n--
		for k := i1; k < n; k++ {
			indices[k] = indices[k+1]
		}

		if i1 >= n {
			i1 = 0
		}
		i = prev(i1, n)
		if diagonal(prev(i, n), i1, n, verts, indices) {
			indices[i] |= 0x80000000
		} else {
			indices[i] &= 0x0fffffff
		}

		if diagonal(i, next(i1, n), n, verts, indices) {
			indices[i1] |= 0x80000000
		} else {
			indices[i1] &= 0x0fffffff
		}
	}

	dst[0] = int32(indices[0] & 0x0fffffff)
	dst[1] = int32(indices[1] & 0x0fffffff)
	dst[2] = int32(indices[2] & 0x0fffffff)
	dst = dst[3:]

	ntris++
	return ntris
}

func countPolyVerts(p []uint16, nvp int32) int32 {
	for i := int32(0); i < nvp; i++ {
		if p[i] == meshNullIdx {
			return i
		}
	}
	return nvp
}

func uleft(a, b, c []uint16) bool {
	return (int32(b[0])-int32(a[0]))*(int32(c[2])-int32(a[2]))-
		(int32(c[0])-int32(a[0]))*(int32(b[2])-int32(a[2])) < 0
}

// diagonalie reports whether the segment (indices[i], indices[j]) fails
// to cross any edge of the polygon not incident to i or j — the
// non-intersection half of the diagonal test, independent of which side
// of the polygon it falls on.
func diagonalie(i, j, n int32, verts []int32, indices []int64) bool {
	d0 := verts[(indices[i]&0x0fffffff)*4:]
	d1 := verts[(indices[j]&0x0fffffff)*4:]

	for k := int32(0); k < n; k++ {
		k1 := next(k, n)
		if !((k == i) || (k1 == i) || (k == j) || (k1 == j)) {
			p0 := verts[(indices[k]&0x0fffffff)*4:]
			p1 := verts[(indices[k1]&0x0fffffff)*4:]

			if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
				continue
			}

			if intersect(d0, d1, p0, p1) {
				return false
			}
		}
	}
	return true
}

// getPolyMergeValue checks whether polygons pa and pb share exactly one
// edge and, if merging them along that edge would still produce a
// convex polygon with at most nvp vertices, returns the squared length
// of the shared edge (longer shared edges are preferred merge
// candidates); returns -1 when the polygons cannot be merged.
func getPolyMergeValue(pa, pb []uint16,
	verts []uint16, ea, eb *int32,
	nvp int32) int32 {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)

	if na+nb-2 > nvp {
		return -1
	}

	*ea = -1
	*eb = -1

	for i := int32(0); i < na; i++ {
		va0 := pa[i]
		va1 := pa[(i+1)%na]
		if va0 > va1 {
			va0, va1 = va1, va0
		}
		for j := int32(0); j < nb; j++ {
			vb0 := pb[j]
			vb1 := pb[(j+1)%nb]
			if vb0 > vb1 {
				vb0, vb1 = vb1, vb0
			}
			if va0 == vb0 && va1 == vb1 {
				*ea = i
				*eb = j
				break
			}
		}
	}

	if *ea == -1 || *eb == -1 {
		return -1
	}

	var va, vb, vc uint16

	va = pa[(*ea+na-1)%na]
	vb = pa[*ea]
	vc = pb[(*eb+2)%nb]
	if !uleft(verts[va*3:], verts[vb*3:], verts[vc*3:]) {
		return -1
	}

	va = pb[(*eb+nb-1)%nb]
	vb = pb[*eb]
	vc = pa[(*ea+2)%na]
	if !uleft(verts[va*3:], verts[vb*3:], verts[vc*3:]) {
		return -1
	}

	va = pa[*ea]
	vb = pa[(*ea+1)%na]

	dx := int32(verts[va*3+0]) - int32(verts[vb*3+0])
	dy := int32(verts[va*3+2]) - int32(verts[vb*3+2])

	return dx*dx + dy*dy
}

// mergePolyVerts splices pb into pa along the shared edge (ea, eb),
// overwriting pa in place via the scratch buffer tmp.
func mergePolyVerts(pa, pb []uint16, ea, eb int32,
	tmp []uint16, nvp int32) {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)

	for i := int32(0); i < nvp; i++ {
		tmp[i] = 0xffff
	}
	var n int32
	for i := int32(0); i < na-1; i++ {
		tmp[n] = pa[(ea+1+i)%na]
		n++
	}
	for i := int32(0); i < nb-1; i++ {
		tmp[n] = pb[(eb+1+i)%nb]
		n++
	}

	copy(pa, tmp[:nvp])
}

func pushFront(v int32, arr []int32, an *int32) {
	(*an)++
	for i := (*an) - 1; i > 0; i-- {
		arr[i] = arr[i-1]
	}
	arr[0] = v
}

func pushBack(v int32, arr []int32, an *int32) {
	arr[*an] = v
	(*an)++
}

// canRemoveVertex reports whether rem can be removed from mesh without
// leaving too few edges to re-triangulate the resulting hole, or
// splitting the mesh (more than two open edge ends around rem implies
// two non-adjacent polygons share it).
func canRemoveVertex(ctx *BuildContext, mesh *PolyMesh, rem uint16) bool {
	nvp := mesh.Nvp

	var (
		numRemovedVerts   int32
		numTouchedVerts   int32
		numRemainingEdges int32
	)
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		var numRemoved, numVerts int32
		for j := int32(0); j < nv; j++ {
			if p[j] == rem {
				numTouchedVerts++
				numRemoved++
			}
			numVerts++
		}
		if numRemoved != 0 {
			numRemovedVerts += numRemoved
			numRemainingEdges += numVerts - (numRemoved + 1)
		}
	}

	// Too few edges would remain to form a polygon; this happens e.g.
	// when a triangle's tip is marked for removal but no other polygon
	// shares that vertex.
	if numRemainingEdges <= 2 {
		return false
	}

	maxEdges := numTouchedVerts * 2
	var nedges int32
	edges := make([]int32, maxEdges*3)

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)

		var j int32
		for k := nv - 1; j < nv; k = j {
			if p[j] == rem || p[k] == rem {
				a, b := p[j], p[k]
				if b == rem {
					a, b = b, a
				}

				exists := false
				for m := int32(0); m < nedges; m++ {
					e := edges[m*3:]
					if e[1] == int32(b) {
						e[2]++
						exists = true
					}
				}
				if !exists {
					e := edges[nedges*3:]
					e[0] = int32(a)
					e[1] = int32(b)
					e[2] = 1
					nedges++
				}
			}
			j++
		}
	}

	// More than two open (single-use) edges around rem means two
	// non-adjacent polygons touch it; removing it would split the mesh.
	var numOpenEdges int32
	for i := int32(0); i < nedges; i++ {
		if edges[i*3+2] < 2 {
			numOpenEdges++
		}
	}
	if numOpenEdges > 2 {
		return false
	}

	return true
}

// removeVertex deletes rem from mesh, collects the boundary edges of
// every polygon that touched it into a hole outline, re-triangulates
// that hole, and merges the resulting triangles back into polygons of
// up to mesh.Nvp vertices before appending them (up to maxTris total).
// Reports whether the mesh stayed within maxTris.
func removeVertex(ctx *BuildContext, mesh *PolyMesh, rem uint16, maxTris int32) bool {
	nvp := mesh.Nvp

	var numRemovedVerts int32
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := int32(0); j < nv; j++ {
			if p[j] == rem {
				numRemovedVerts++
			}
		}
	}

	var nedges int32
	edges := make([]int32, numRemovedVerts*nvp*4)

	var nhole int32
	hole := make([]int32, numRemovedVerts*nvp)

	var nhreg int32
	hreg := make([]int32, numRemovedVerts*nvp)

	var nharea int32
	harea := make([]int32, numRemovedVerts*nvp)

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		hasRem := false
		for j := int32(0); j < nv; j++ {
			if p[j] == rem {
				hasRem = true
			}
		}
		if hasRem {
			for j, k := int32(0), nv-1; j < nv; k, j = j, j+1 {
				if p[j] != rem && p[k] != rem {
					e := edges[nedges*4:]
					e[0] = int32(p[k])
					e[1] = int32(p[j])
					e[2] = int32(mesh.Regs[i])
					e[3] = int32(mesh.Areas[i])
					nedges++
				}
			}

			p2 := mesh.Polys[(mesh.NPolys-1)*nvp*2:]
			if !sameBackingArray(p, p2) {
				copy(p, p2[:nvp])
			}

			for idx := int32(nvp); idx < nvp; idx++ {
				p[idx] = 0xffff
			}

			mesh.Regs[i] = mesh.Regs[mesh.NPolys-1]
			mesh.Areas[i] = mesh.Areas[mesh.NPolys-1]
			mesh.NPolys--
			i--
		}
	}

	for i := int32(rem); i < mesh.NVerts-1; i++ {
		mesh.Verts[i*3+0] = mesh.Verts[(i+1)*3+0]
		mesh.Verts[i*3+1] = mesh.Verts[(i+1)*3+1]
		mesh.Verts[i*3+2] = mesh.Verts[(i+1)*3+2]
	}
	mesh.NVerts--

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := int32(0); j < nv; j++ {
			if p[j] > rem {
				p[j]--
			}
		}
	}
	for i := int32(0); i < nedges; i++ {
		if edges[i*4+0] > int32(rem) {
			edges[i*4+0]--
		}
		if edges[i*4+1] > int32(rem) {
			edges[i*4+1]--
		}
	}

	if nedges == 0 {
		return true
	}

	// Walk connected edge segments into the hole boundary, growing it
	// from both ends.
	pushBack(edges[0], hole, &nhole)
	pushBack(edges[2], hreg, &nhreg)
	pushBack(edges[3], harea, &nharea)

	for nedges != 0 {
		var match bool

		for i := int32(0); i < nedges; i++ {
			ea := edges[i*4+0]
			eb := edges[i*4+1]
			r := edges[i*4+2]
			a := edges[i*4+3]
			var add bool
			if hole[0] == eb {
				pushFront(ea, hole, &nhole)
				pushFront(r, hreg, &nhreg)
				pushFront(a, harea, &nharea)
				add = true
			} else if hole[nhole-1] == ea {
				pushBack(eb, hole, &nhole)
				pushBack(r, hreg, &nhreg)
				pushBack(a, harea, &nharea)
				add = true
			}
			if add {
				edges[i*4+0] = edges[(nedges-1)*4+0]
				edges[i*4+1] = edges[(nedges-1)*4+1]
				edges[i*4+2] = edges[(nedges-1)*4+2]
				edges[i*4+3] = edges[(nedges-1)*4+3]
				nedges--
				match = true
				i--
			}
		}

		if !match {
			break
		}
	}

	tris := make([]int32, nhole*3)
	tverts := make([]int32, nhole*4)
	thole := make([]int64, nhole)

	for i := int32(0); i < nhole; i++ {
		pi := hole[i]
		tverts[i*4+0] = int32(mesh.Verts[pi*3+0])
		tverts[i*4+1] = int32(mesh.Verts[pi*3+1])
		tverts[i*4+2] = int32(mesh.Verts[pi*3+2])
		tverts[i*4+3] = 0
		thole[i] = int64(i)
	}

	ntris := triangulate(nhole, tverts[:], thole[:], tris)
	if ntris < 0 {
		ntris = -ntris
		ctx.Warningf("removeVertex: triangulate produced a degenerate result for vertex %d", rem)
	}

	polys := make([]uint16, (ntris+1)*nvp)
	pregs := make([]uint16, ntris)
	pareas := make([]uint8, ntris)

	tmpPoly := polys[ntris*nvp:]

	var npolys int32
	for i := int32(0); i < ntris*nvp; i++ {
		polys[i] = 0xffff
	}

	for j := int32(0); j < ntris; j++ {
		t := tris[j*3:]
		if t[0] != t[1] && t[0] != t[2] && t[1] != t[2] {
			polys[npolys*nvp+0] = uint16(hole[t[0]])
			polys[npolys*nvp+1] = uint16(hole[t[1]])
			polys[npolys*nvp+2] = uint16(hole[t[2]])

			if hreg[t[0]] != hreg[t[1]] || hreg[t[1]] != hreg[t[2]] {
				pregs[npolys] = multipleRegs
			} else {
				pregs[npolys] = uint16(hreg[t[0]])
			}

			pareas[npolys] = uint8(harea[t[0]])
			npolys++
		}
	}
	if npolys == 0 {
		return true
	}

	if nvp > 3 {
		for {
			var (
				bestMergeVal                   int32
				bestPa, bestPb, bestEa, bestEb int32
			)

			for j := int32(0); j < npolys-1; j++ {
				pj := polys[j*nvp:]
				for k := j + 1; k < npolys; k++ {
					pk := polys[k*nvp:]
					var ea, eb int32
					v := getPolyMergeValue(pj, pk, mesh.Verts, &ea, &eb, nvp)
					if v > bestMergeVal {
						bestMergeVal = v
						bestPa = j
						bestPb = k
						bestEa = ea
						bestEb = eb
					}
				}
			}

			if bestMergeVal > 0 {
				pa := polys[bestPa*nvp:]
				pb := polys[bestPb*nvp:]
				mergePolyVerts(pa, pb, bestEa, bestEb, tmpPoly, nvp)
				if pregs[bestPa] != pregs[bestPb] {
					pregs[bestPa] = multipleRegs
				}

				last := polys[(npolys-1)*nvp:]
				if !sameBackingArray(pb, last) {
					copy(pb, last[:nvp])
				}
				pregs[bestPb] = pregs[npolys-1]
				pareas[bestPb] = pareas[npolys-1]
				npolys--
			} else {
				break
			}
		}
	}

	for i := int32(0); i < npolys; i++ {
		if mesh.NPolys >= maxTris {
			break
		}
		p := mesh.Polys[mesh.NPolys*nvp*2:]
		for idx := int32(0); idx < nvp; idx++ {
			p[idx] = 0xffff
		}

		for j := int32(0); j < nvp; j++ {
			p[j] = polys[i*nvp+j]
		}
		mesh.Regs[mesh.NPolys] = pregs[i]
		mesh.Areas[mesh.NPolys] = pareas[i]
		mesh.NPolys++
		if mesh.NPolys > maxTris {
			ctx.Errorf("removeVertex: exceeded %d polygons while patching vertex %d removal", maxTris, rem)
			return false
		}
	}

	return true
}
