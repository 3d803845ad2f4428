// Package config handles the .sigma project configuration file. Every
// project that runs sigma gets a .sigma/ folder in its root; config.yaml
// inside it carries the tunable knobs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ralvarado/sigma/internal/score"
	"github.com/ralvarado/sigma/internal/workspace"
)

const configFileName = "config.yaml"

const defaultProjectConfigYAML = `# sigma project configuration
version: 1

# Roots containing research bundles, each laid out as <root>/<perspective>/NN_topic.md.
research_roots:
  - research

server:
  enabled: true
  host: 127.0.0.1
  port: 8743

# Weighted-sum scoring policy applied by "sigma score". Omitted fields keep
# their defaults.
score: {}
`

// ServerConfig models the server block of config.yaml.
type ServerConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// ProjectConfig models .sigma/config.yaml.
type ProjectConfig struct {
	Version       int           `yaml:"version"`
	ResearchRoots []string      `yaml:"research_roots"`
	Server        ServerConfig  `yaml:"server"`
	Score         score.Weights `yaml:"score"`
}

// Config holds runtime configuration for sigma.
type Config struct {
	// ProjectDir is the directory the user invoked sigma from.
	ProjectDir string
	// Workspace resolves output paths beneath ProjectDir/.sigma.
	Workspace *workspace.Workspace

	Project ProjectConfig
}

// Init ensures the .sigma tree and a default config.yaml exist, then loads
// the configuration.
func Init(projectDir string) (*Config, error) {
	ws := workspace.New(projectDir)
	if err := ws.Init(); err != nil {
		return nil, err
	}
	path := filepath.Join(ws.Dir(), configFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644); err != nil {
			return nil, fmt.Errorf("config: seed %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}
	return Load(projectDir)
}

// Load reads .sigma/config.yaml for the project directory.
func Load(projectDir string) (*Config, error) {
	ws := workspace.New(projectDir)
	path := filepath.Join(ws.Dir(), configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var project ProjectConfig
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg := &Config{
		ProjectDir: projectDir,
		Workspace:  ws,
		Project:    project,
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Project.Version == 0 {
		c.Project.Version = 1
	}
	if len(c.Project.ResearchRoots) == 0 {
		c.Project.ResearchRoots = []string{"research"}
	}
	c.Project.Score = c.Project.Score.WithDefaults()
}

// ResearchRoots resolves the configured research roots against the project
// directory.
func (c *Config) ResearchRoots() []string {
	roots := make([]string, 0, len(c.Project.ResearchRoots))
	for _, root := range c.Project.ResearchRoots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if !filepath.IsAbs(root) {
			root = filepath.Join(c.ProjectDir, root)
		}
		roots = append(roots, filepath.Clean(root))
	}
	return roots
}
