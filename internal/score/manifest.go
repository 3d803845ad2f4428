package score

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the yaml file listing measured variants and optional weight
// overrides.
type Manifest struct {
	Weights  Weights            `yaml:"weights"`
	Variants map[string]Metrics `yaml:"variants"`
}

// LoadManifest reads a variant metrics manifest from disk.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("score: read manifest %s: %w", path, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("score: parse manifest %s: %w", path, err)
	}
	if len(manifest.Variants) == 0 {
		return Manifest{}, fmt.Errorf("score: manifest %s lists no variants", path)
	}
	return manifest, nil
}
