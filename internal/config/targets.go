// Package config loads the seed target list the pipeline searches against.
package config

import (
	"fmt"
	"os"

	"github.com/tenexhq/sourcer/internal/lead"
	"gopkg.in/yaml.v3"
)

// targetsFile is the YAML shape of a seed target configuration file.
type targetsFile struct {
	Targets []lead.SeedTarget `yaml:"targets"`
}

// DefaultTargets returns the built-in seed list used when no configuration
// file is provided.
func DefaultTargets() []lead.SeedTarget {
	return []lead.SeedTarget{
		{URL: "https://github.com/vercel-labs/agent-browser", Category: lead.CategoryAgents},
		{URL: "https://github.com/vercel-labs/agent-skills", Category: lead.CategoryAgents},
		{URL: "https://github.com/vercel-labs/json-render", Category: lead.CategoryAITools},
		{URL: "https://github.com/anthropics/claude-code", Category: lead.CategoryAITools},
		{URL: "https://github.com/vercel/ai", Category: lead.CategorySDKs},
	}
}

// Load reads seed targets from a YAML file. Every entry must have a URL and
// a recognized category.
func Load(path string) ([]lead.SeedTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	for i, target := range file.Targets {
		if target.URL == "" {
			return nil, fmt.Errorf("target %d has no url", i)
		}
		if !target.Category.IsValid() {
			return nil, fmt.Errorf("target %d has unrecognized category %q", i, target.Category)
		}
	}
	return file.Targets, nil
}

// LoadOrDefault reads targets from path when it is non-empty, otherwise
// returns the built-in seed list.
func LoadOrDefault(path string) ([]lead.SeedTarget, error) {
	if path == "" {
		return DefaultTargets(), nil
	}
	return Load(path)
}
