package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"github.com/arl/pathfinder3d/navfile"
	"github.com/arl/pathfinder3d/recast"
)

var (
	inputFlag     string
	configFlag    string
	formatFlag    string
	partitionFlag string
)

var buildCmd = &cobra.Command{
	Use:   "build OUTFILE",
	Short: "build a navigation mesh from input geometry",
	Long: `Build a navigation mesh from input geometry in OBJ.
Build process is controlled by the provided build settings. The
generated navmesh is saved to OUTFILE in binary or text format,
readable with the navfile package and cmd/simulate.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&inputFlag, "input", "", "input geometry OBJ file (required)")
	buildCmd.Flags().StringVar(&configFlag, "config", "", "build settings YAML file (optional, uses defaults if absent)")
	buildCmd.Flags().StringVar(&formatFlag, "format", "binary", "output format, 'binary' or 'text'")
	buildCmd.Flags().StringVar(&partitionFlag, "partition", "", "override the partition method: 'watershed', 'monotone' or 'layers'")
	buildCmd.MarkFlagRequired("input")
}

func runBuild(cmd *cobra.Command, args []string) error {
	outPath := args[0]

	settings := recast.DefaultBuildSettings()
	if configFlag != "" {
		buf, err := os.ReadFile(configFlag)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(buf, &settings); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if partitionFlag != "" {
		settings.Partition = partitionFlag
	}

	sm := recast.NewSoloMesh()
	sm.SetBuildSettings(settings)

	if !sm.Load(inputFlag) {
		return fmt.Errorf("loading %q failed", inputFlag)
	}

	pmesh, ok := sm.Build()
	if !ok {
		return fmt.Errorf("baking %q failed", inputFlag)
	}

	verts, polys := pmesh.ToNavfile()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", outPath, err)
	}
	defer out.Close()

	switch formatFlag {
	case "text":
		err = navfile.WriteText(out, verts, polys)
	case "binary", "":
		err = navfile.WriteBinary(out, verts, polys)
	default:
		return fmt.Errorf("unknown format %q, want 'binary' or 'text'", formatFlag)
	}
	if err != nil {
		return fmt.Errorf("writing %q: %w", outPath, err)
	}

	fmt.Printf("baked navmesh: %d vertices, %d polygons -> %s\n", len(verts), len(polys), outPath)
	return nil
}
