package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frankonly/merklekit/merkle"
)

// loadShape reads a tree shape from a YAML file, JSON is accepted as well
func loadShape(path string) (*merkle.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shape: %w", err)
	}

	shape := &merkle.Shape{}
	if err := yaml.Unmarshal(data, shape); err != nil {
		return nil, fmt.Errorf("invalid shape %s: %w", path, err)
	}

	return shape, nil
}
