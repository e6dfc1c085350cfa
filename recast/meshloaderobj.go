package recast

import (
	"github.com/aurelien-rainone/gobj"
	"github.com/aurelien-rainone/math32"
)

type MeshLoaderObj struct {
	m_filename  string
	m_scale     float32
	m_verts     []float32
	m_tris      []int32
	m_normals   []float32
	m_vertCount int32
	m_triCount  int32
}

func NewMeshLoaderObj() *MeshLoaderObj {
	return &MeshLoaderObj{
		m_scale:   1.0,
		m_verts:   make([]float32, 0),
		m_tris:    make([]int32, 0),
		m_normals: make([]float32, 0),
	}
}

func (mlo *MeshLoaderObj) Load(filename string) error {
	var (
		obj *gobj.OBJFile
		err error
	)
	obj, err = gobj.Load(filename)
	if err != nil {
		return err
	}

	// copy vertices from OBJ, multiplying them by the scale factor
	verts := obj.Verts()
	mlo.m_vertCount = int32(len(verts))
	mlo.m_verts = make([]float32, mlo.m_vertCount*3)
	for i, v := range verts {
		mlo.m_verts[i*3+0] = float32(v.X()) * mlo.m_scale
		mlo.m_verts[i*3+1] = float32(v.Y()) * mlo.m_scale
		mlo.m_verts[i*3+2] = float32(v.Z()) * mlo.m_scale
	}

	// gobj.Polygon stores the face's vertex values, not their indices into
	// Verts(), so map every unique vertex value back to its index.
	vertIndex := make(map[gobj.Vertex]int32, len(verts))
	for i, v := range verts {
		vertIndex[v] = int32(i)
	}

	// triangulate polygons as a fan around their first vertex, and add them
	for _, p := range obj.Polys() {
		if len(p) < 3 {
			continue
		}
		a, ok := vertIndex[p[0]]
		if !ok {
			continue
		}
		for i := 2; i < len(p); i++ {
			b, okb := vertIndex[p[i-1]]
			c, okc := vertIndex[p[i]]
			if !okb || !okc {
				continue
			}
			mlo.m_tris = append(mlo.m_tris, a, b, c)
			mlo.m_triCount++
		}
	}

	// Calculate normals.
	// TODO: factor this with recast.calcTriNormal
	mlo.m_normals = make([]float32, mlo.m_triCount*3)
	for i := int32(0); i < mlo.m_triCount*3; i += 3 {
		v0 := mlo.m_verts[mlo.m_tris[i]*3 : 3+mlo.m_tris[i]*3]
		v1 := mlo.m_verts[mlo.m_tris[i+1]*3 : 3+mlo.m_tris[i+1]*3]
		v2 := mlo.m_verts[mlo.m_tris[i+2]*3 : 3+mlo.m_tris[i+2]*3]
		var e0, e1 [3]float32
		for j := 0; j < 3; j++ {
			e0[j] = v1[j] - v0[j]
			e1[j] = v2[j] - v0[j]
		}
		n := mlo.m_normals[i : 3+i]
		n[0] = e0[1]*e1[2] - e0[2]*e1[1]
		n[1] = e0[2]*e1[0] - e0[0]*e1[2]
		n[2] = e0[0]*e1[1] - e0[1]*e1[0]
		d := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if d > 0 {
			d = 1.0 / d
			n[0] *= d
			n[1] *= d
			n[2] *= d
		}
	}

	mlo.m_filename = filename
	return nil
}

func (mlo *MeshLoaderObj) Filename() string {
	return mlo.m_filename
}

func (mlo *MeshLoaderObj) Scale() float32 {
	return mlo.m_scale
}

func (mlo *MeshLoaderObj) Verts() []float32 {
	return mlo.m_verts
}

func (mlo *MeshLoaderObj) Tris() []int32 {
	return mlo.m_tris
}

func (mlo *MeshLoaderObj) Normals() []float32 {
	return mlo.m_normals
}

func (mlo *MeshLoaderObj) VertCount() int32 {
	return mlo.m_vertCount
}

func (mlo *MeshLoaderObj) TriCount() int32 {
	return mlo.m_triCount
}
