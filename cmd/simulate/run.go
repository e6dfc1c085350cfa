package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arl/pathfinder3d/geom"
	"github.com/arl/pathfinder3d/navfile"
	"github.com/arl/pathfinder3d/pathfinder"
	"github.com/arl/pathfinder3d/status"
)

var navmeshFormatFlag string

func init() {
	rootCmd.Flags().StringVar(&navmeshFormatFlag, "navmesh-format", "binary", "navmesh file format, 'binary' or 'text'")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	navmeshPath, scenarioPath := args[0], args[1]

	verts, polys, err := loadNavmesh(navmeshPath, navmeshFormatFlag)
	if err != nil {
		return fmt.Errorf("loading navmesh: %w", err)
	}

	sc, err := loadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	pf := pathfinder.New(verts, polys, sc.Params)

	ids := make([]int, len(sc.Agents))
	for i, a := range sc.Agents {
		start := geom.NewVec3XYZ(a.Start[0], a.Start[1], a.Start[2])
		id, ast := pf.AddAgent(start, a.Radius, a.Speed)
		if ast.Failed() {
			return fmt.Errorf("adding agent %d: %v", i, ast)
		}
		dest := geom.NewVec3XYZ(a.Destination[0], a.Destination[1], a.Destination[2])
		if st := pf.SetAgentDestination(id, dest); st.Failed() {
			return fmt.Errorf("setting destination for agent %d: %v", i, st)
		}
		ids[i] = id
	}

	for tick := 0; tick < sc.Ticks; tick++ {
		pf.Update(sc.DT)

		for i, id := range ids {
			pos, ok := pf.AgentPosition(id)
			if !ok {
				continue
			}
			fmt.Printf("tick=%d agent=%d x=%.3f z=%.3f\n", tick, i, pos.X, pos.Y)
		}
	}

	return nil
}

func loadNavmesh(path, format string) ([]geom.Vec3, [][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var (
		verts []geom.Vec3
		polys [][]int
		st    status.Status
	)
	switch format {
	case "text":
		verts, polys, st = navfile.ReadText(f)
	case "binary", "":
		verts, polys, st = navfile.ReadBinary(f)
	default:
		return nil, nil, fmt.Errorf("unknown navmesh format %q, want 'binary' or 'text'", format)
	}
	if st.Failed() {
		return nil, nil, fmt.Errorf("%v", st)
	}
	return verts, polys, nil
}
