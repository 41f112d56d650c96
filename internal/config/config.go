// Package config holds the engine settings: which renderer binary to
// invoke, its quality flags per render kind, and where artifacts land.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version        int    `yaml:"version"`
	Binary         string `yaml:"binary"`
	PreviewQuality string `yaml:"preview_quality"`
	VideoQuality   string `yaml:"video_quality"`
	OutputDir      string `yaml:"output_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// KeepWorkdirs leaves per-render temp directories on disk for
	// debugging failed engine runs.
	KeepWorkdirs bool `yaml:"keep_workdirs"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		Version:        1,
		Binary:         "manim",
		PreviewQuality: "-ql",
		VideoQuality:   "-qh",
		OutputDir:      "output",
		TimeoutSeconds: 600,
	}
}

// Load reads a YAML config file. Fields left empty in the file keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Version != 1 {
		return Config{}, fmt.Errorf("unsupported config version: %d", cfg.Version)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}
	return cfg, nil
}

// Timeout returns the per-render process timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
