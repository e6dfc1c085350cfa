package main

import (
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/arl/pathfinder3d/pathfinder"
)

// agentSpec describes one simulated agent: its start position, the
// destination it is sent to immediately, and its movement parameters.
type agentSpec struct {
	Start       [3]float32 `yaml:"start"`
	Destination [3]float32 `yaml:"destination"`
	Radius      float32    `yaml:"radius"`
	Speed       float32    `yaml:"speed"`
}

// scenario is the YAML document cmd/simulate reads: simulation-wide
// parameters, the tick count and step, and the agents to spawn.
type scenario struct {
	Params pathfinder.Params `yaml:"params"`
	Ticks  int               `yaml:"ticks"`
	DT     float32           `yaml:"dt"`
	Agents []agentSpec       `yaml:"agents"`
}

func defaultScenario() scenario {
	return scenario{
		Params: pathfinder.DefaultParams(),
		Ticks:  100,
		DT:     0.1,
	}
}

func loadScenario(path string) (scenario, error) {
	sc := defaultScenario()
	buf, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(buf, &sc); err != nil {
		return sc, err
	}
	return sc, nil
}
