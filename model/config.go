package model

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/truthlens/truthlens/scoring"
)

// Config is the application-level configuration: where the model bundle
// lives plus the engine analysis parameters
type Config struct {
	ModelDir string               `json:"model_dir" yaml:"model_dir"`
	Engine   scoring.EngineConfig `json:"engine" yaml:"engine"`
}

// DefaultConfig returns the reference configuration with models expected in
// ./models
func DefaultConfig() Config {
	return Config{
		ModelDir: "models",
		Engine:   scoring.DefaultEngineConfig(),
	}
}

// LoadConfig reads a YAML configuration file. Fields absent from the file
// keep their defaults, so a partial override file is valid.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config file %s: %v", scoring.ErrConfig, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config file %s: %v", scoring.ErrConfig, path, err)
	}

	if cfg.ModelDir == "" {
		return cfg, fmt.Errorf("%w: model_dir must not be empty", scoring.ErrConfig)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
