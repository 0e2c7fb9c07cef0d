package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// inputConfig is one pre-registered reactive input: createInput(Name,
// Value) is called before the program is built (spec.md §6: "Reactive
// input surface").
type inputConfig struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// updateConfig is one updateInput(Name, Value) + reevaluateDataflowGraph()
// step, applied in order after the program has been built and its
// first value printed.
type updateConfig struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// config is the --config YAML document: it pre-registers reactive
// inputs and can supply defaults for the mode-selecting flags so a
// scenario can be replayed without repeating them on the command line.
type config struct {
	Mode        string         `yaml:"mode"`
	CPSBuiltins bool           `yaml:"cpsBuiltins"`
	Abbrev      bool           `yaml:"abbrev"`
	Height      int            `yaml:"height"`
	Inputs      []inputConfig  `yaml:"inputs"`
	Updates     []updateConfig `yaml:"updates"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
