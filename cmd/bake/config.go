package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"github.com/arl/pathfinder3d/recast"
)

var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "create a build settings file",
	Long: `Create a build settings file in YAML format, prefilled with default
values.

If FILE is not provided, 'bake.yml' is used.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := "bake.yml"
	if len(args) >= 1 {
		path = args[0]
	}

	ok, err := confirmIfExists(path, fmt.Sprintf("file %q already exists, overwrite? [y/N]", path))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("aborted by user")
		return nil
	}

	buf, err := yaml.Marshal(recast.DefaultBuildSettings())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return err
	}
	fmt.Printf("build settings written to %q\n", path)
	return nil
}

// confirmIfExists checks that a file exists, and asks for confirmation
// before letting the caller overwrite it.
func confirmIfExists(path, msg string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return askForConfirmation(msg), nil
}

func askForConfirmation(msg string) bool {
	fmt.Println(msg)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if len(input) == 0 {
		return false
	}
	switch input[0] {
	case 'Y', 'y':
		return true
	default:
		return false
	}
}
