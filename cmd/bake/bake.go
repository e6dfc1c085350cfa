// Command bake loads level geometry from an OBJ file, runs the baking
// pipeline over it, and writes the resulting navmesh to disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bake",
	Short: "bake navigation meshes from level geometry",
	Long: `bake builds a navigation mesh from input geometry in OBJ format.
The build process can be tuned with a YAML settings file, and the
resulting navmesh is saved to a file readable by the navfile package
and cmd/simulate.`,
}
