package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// Load reads a policy file and overlays it on the defaults. The format is
// picked by extension: .yaml/.yml use YAML, anything else is parsed as HJSON
// (which also accepts plain JSON). The result is validated before return.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse yaml config %s: %w", path, err)
		}
	default:
		if err := hjson.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse hjson config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
