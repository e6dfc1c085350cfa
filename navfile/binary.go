// Package navfile reads and writes the baked navmesh persistence format:
// a flat vertex/polygon-index/polygon-size triple, either as a
// big-endian binary stream terminated by +Inf sentinels, or as
// whitespace-separated text on three lines. Both formats are legacy
// formats carried over unchanged from the baking tool this package
// replaces; neither has a checksum or version field.
package navfile

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/status"
)

var inf32 = math.Float32bits(float32(math.Inf(1)))

// ReadBinary reads a navmesh from r in the big-endian binary format:
// a float32 vertex-component array terminated by +Inf, an int32
// flat polygon-index array terminated by a +Inf-patterned word, and an
// int32 polygon-size array terminated the same way.
func ReadBinary(r io.Reader) ([]geom.Vec3, [][]int, status.Status) {
	var comps []float32
	for {
		bits, err := readWord(r)
		if err != nil {
			return nil, nil, status.Fail(status.FileFormatError)
		}
		if bits == inf32 {
			break
		}
		comps = append(comps, math.Float32frombits(bits))
	}
	if len(comps)%3 != 0 {
		return nil, nil, status.Fail(status.FileFormatError)
	}
	verts := make([]geom.Vec3, len(comps)/3)
	for i := range verts {
		verts[i] = geom.NewVec3XYZ(comps[3*i], comps[3*i+1], comps[3*i+2])
	}

	var indices []int32
	for {
		bits, err := readWord(r)
		if err != nil {
			return nil, nil, status.Fail(status.FileFormatError)
		}
		if bits == inf32 {
			break
		}
		indices = append(indices, int32(bits))
	}

	var sizes []int32
	for {
		bits, err := readWord(r)
		if err != nil {
			return nil, nil, status.Fail(status.FileFormatError)
		}
		if bits == inf32 {
			break
		}
		sizes = append(sizes, int32(bits))
	}

	polys := make([][]int, len(sizes))
	idx := 0
	for i, size := range sizes {
		if idx+int(size) > len(indices) {
			return nil, nil, status.Fail(status.FileFormatError)
		}
		poly := make([]int, size)
		for j := range poly {
			poly[j] = int(indices[idx+j])
		}
		polys[i] = poly
		idx += int(size)
	}

	return verts, polys, status.Success
}

func readWord(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteBinary writes verts/polys to w in the big-endian format read by
// ReadBinary.
func WriteBinary(w io.Writer, verts []geom.Vec3, polys [][]int) error {
	for _, v := range verts {
		if err := writeFloat32(w, v.X()); err != nil {
			return err
		}
		if err := writeFloat32(w, v.Y()); err != nil {
			return err
		}
		if err := writeFloat32(w, v.Z()); err != nil {
			return err
		}
	}
	if err := writeWord(w, inf32); err != nil {
		return err
	}

	for _, poly := range polys {
		for _, idx := range poly {
			if err := writeWord(w, uint32(int32(idx))); err != nil {
				return err
			}
		}
	}
	if err := writeWord(w, inf32); err != nil {
		return err
	}

	for _, poly := range polys {
		if err := writeWord(w, uint32(int32(len(poly)))); err != nil {
			return err
		}
	}
	return writeWord(w, inf32)
}

func writeFloat32(w io.Writer, f float32) error {
	return writeWord(w, math.Float32bits(f))
}

func writeWord(w io.Writer, bits uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], bits)
	_, err := w.Write(buf[:])
	return err
}
