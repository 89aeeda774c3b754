package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/urgentcare-sim/urgentcare-sim/sim/clinic"
)

// LoadScenario reads a scenario YAML file into cfg, overriding only the
// fields the file sets. Validation happens later, in one place, when the
// batch starts.
func LoadScenario(path string, cfg *clinic.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return nil
}
