// Package config loads the imgrec YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/imgrec/index"
)

// Transition bounds the transition-path search; see
// recommender.TransitionConfig.
type Transition struct {
	NeighborsPerEndpoint int     `yaml:"neighbors_per_endpoint"`
	Waypoints            int     `yaml:"waypoints"`
	ExpansionNeighbors   int     `yaml:"expansion_neighbors"`
	MaxCandidates        int     `yaml:"max_candidates"`
	EdgesPerNode         int     `yaml:"edges_per_node"`
	MaxHops              int     `yaml:"max_hops"`
	MinSimilarity        float64 `yaml:"min_similarity"`
	HopPenalty           float64 `yaml:"hop_penalty"`
}

// Log selects the log level (debug|info|warn|error) and format (text|json).
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Eval tunes the eval command.
type Eval struct {
	Parallelism int `yaml:"parallelism"`
	TruthK      int `yaml:"truth_k"`
}

// Config is the imgrec.yaml document. Command-line flags override the
// source paths, kind, index and log level.
type Config struct {
	Vectors    string     `yaml:"vectors,omitempty"`
	Catalog    string     `yaml:"catalog,omitempty"`
	Prompts    string     `yaml:"prompts,omitempty"`
	IDMap      string     `yaml:"idmap,omitempty"`
	Kind       string     `yaml:"kind"`
	Index      string     `yaml:"index"`
	K          int        `yaml:"k"`
	Transition Transition `yaml:"transition"`
	Log        Log        `yaml:"log"`
	Eval       Eval       `yaml:"eval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Kind:  "image_embedding",
		Index: string(index.KindAuto),
		K:     10,
		Transition: Transition{
			NeighborsPerEndpoint: 20,
			Waypoints:            3,
			ExpansionNeighbors:   5,
			MaxCandidates:        64,
			EdgesPerNode:         8,
			MaxHops:              6,
		},
		Log:  Log{Level: "info", Format: "text"},
		Eval: Eval{Parallelism: 4, TruthK: 100},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Kind == "" {
		return fmt.Errorf("config: kind is required")
	}
	if _, err := index.ParseKind(c.Index); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.K <= 0 {
		return fmt.Errorf("config: k must be positive, got %d", c.K)
	}
	t := c.Transition
	if t.MaxCandidates < 2 {
		return fmt.Errorf("config: transition.max_candidates must be >= 2, got %d", t.MaxCandidates)
	}
	if t.MaxHops < 1 {
		return fmt.Errorf("config: transition.max_hops must be >= 1, got %d", t.MaxHops)
	}
	if t.NeighborsPerEndpoint < 0 || t.Waypoints < 0 || t.ExpansionNeighbors < 0 || t.EdgesPerNode < 0 || t.HopPenalty < 0 {
		return fmt.Errorf("config: transition values must not be negative")
	}
	if t.MinSimilarity < -1 || t.MinSimilarity > 1 {
		return fmt.Errorf("config: transition.min_similarity must be within [-1, 1]")
	}
	return nil
}
