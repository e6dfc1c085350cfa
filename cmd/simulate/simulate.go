// Command simulate drives a PathFinder simulation from a baked navmesh
// and a YAML scenario file, printing each agent's trajectory.
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
	Use:   "simulate NAVMESH SCENARIO",
	Short: "run a multi-agent pathfinding simulation over a baked navmesh",
	Long: `simulate loads a navmesh produced by 'bake' and a YAML scenario
describing agents and their destinations, then runs PathFinder.Update in
a loop, printing each agent's position at every tick.`,
	Args: cobra.ExactArgs(2),
	RunE: runSimulate,
}
