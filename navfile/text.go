package navfile

import (
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/status"
)

// ReadText reads a navmesh from the three-line whitespace-separated text
// format: a line of vertex components, a line of flat polygon vertex
// indices, and a line of polygon sizes. Any other line count is a
// format error.
func ReadText(r io.Reader) ([]geom.Vec3, [][]int, status.Status) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, nil, status.Fail(status.FileFormatError)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 3 {
		return nil, nil, status.Fail(status.FileFormatError)
	}

	comps, err := parseFloats(lines[0])
	if err != nil || len(comps)%3 != 0 {
		return nil, nil, status.Fail(status.FileFormatError)
	}
	indices, err := parseInts(lines[1])
	if err != nil {
		return nil, nil, status.Fail(status.FileFormatError)
	}
	sizes, err := parseInts(lines[2])
	if err != nil {
		return nil, nil, status.Fail(status.FileFormatError)
	}

	verts := make([]geom.Vec3, len(comps)/3)
	for i := range verts {
		verts[i] = geom.NewVec3XYZ(comps[3*i], comps[3*i+1], comps[3*i+2])
	}

	polys := make([][]int, len(sizes))
	idx := 0
	for i, size := range sizes {
		if idx+size > len(indices) {
			return nil, nil, status.Fail(status.FileFormatError)
		}
		polys[i] = append([]int(nil), indices[idx:idx+size]...)
		idx += size
	}

	return verts, polys, status.Success
}

func parseFloats(line string) ([]float32, error) {
	fields := strings.Fields(line)
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseInts(line string) ([]int, error) {
	fields := strings.Fields(line)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteText writes verts/polys to w in the three-line format read by
// ReadText.
func WriteText(w io.Writer, verts []geom.Vec3, polys [][]int) error {
	comps := make([]string, 0, len(verts)*3)
	for _, v := range verts {
		comps = append(comps, formatFloat(v.X()), formatFloat(v.Y()), formatFloat(v.Z()))
	}
	if _, err := fmt.Fprint(w, strings.Join(comps, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}

	indices := make([]string, 0)
	for _, poly := range polys {
		for _, idx := range poly {
			indices = append(indices, strconv.Itoa(idx))
		}
	}
	if _, err := fmt.Fprint(w, strings.Join(indices, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}

	sizes := make([]string, len(polys))
	for i, poly := range polys {
		sizes[i] = strconv.Itoa(len(poly))
	}
	_, err := fmt.Fprint(w, strings.Join(sizes, " "))
	return err
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
