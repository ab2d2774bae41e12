package cmd

import (
	"fmt"
	"os"

	sim "github.com/procsim/procsim/sim"
)

// LoadNetworkConfig reads and parses a network description YAML file.
func LoadNetworkConfig(path string) (*sim.NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sim.ParseNetworkConfig(data)
}
