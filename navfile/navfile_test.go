package navfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/status"
)

func fixture() ([]geom.Vec3, [][]int) {
	verts := []geom.Vec3{
		geom.NewVec3XYZ(0, 0, 0),
		geom.NewVec3XYZ(1, 0, 0),
		geom.NewVec3XYZ(1, 0, 1),
		geom.NewVec3XYZ(0, 0, 1),
	}
	polys := [][]int{{0, 1, 2}, {0, 2, 3}}
	return verts, polys
}

func TestBinaryRoundTrip(t *testing.T) {
	verts, polys := fixture()

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, verts, polys))

	gotVerts, gotPolys, st := ReadBinary(&buf)
	require.True(t, st.OK())
	assert.Equal(t, verts, gotVerts)
	assert.Equal(t, polys, gotPolys)
}

func TestBinaryTruncatedIsFormatError(t *testing.T) {
	verts, polys := fixture()

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, verts, polys))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-6])

	_, _, st := ReadBinary(truncated)
	assert.True(t, st.Failed())
	assert.True(t, st.Has(status.FileFormatError))
}

func TestTextRoundTrip(t *testing.T) {
	verts, polys := fixture()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, verts, polys))

	gotVerts, gotPolys, st := ReadText(&buf)
	require.True(t, st.OK())
	require.Len(t, gotVerts, len(verts))
	for i := range verts {
		assert.InDelta(t, verts[i].X(), gotVerts[i].X(), 1e-5)
		assert.InDelta(t, verts[i].Y(), gotVerts[i].Y(), 1e-5)
		assert.InDelta(t, verts[i].Z(), gotVerts[i].Z(), 1e-5)
	}
	assert.Equal(t, polys, gotPolys)
}

func TestTextWrongLineCountIsFormatError(t *testing.T) {
	_, _, st := ReadText(bytes.NewBufferString("1 2 3\n0 1 2"))
	assert.True(t, st.Failed())
}

func TestTextEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, nil, nil))

	verts, polys, st := ReadText(&buf)
	require.True(t, st.OK())
	assert.Empty(t, verts)
	assert.Empty(t, polys)
}
