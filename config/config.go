// Package config loads run configuration from an optional TOML file.
// All values are fixed for the duration of one run.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the full configuration surface of one curation run.
type Config struct {
	Provider      string `toml:"provider"`
	Model         string `toml:"model"`
	BaseURL       string `toml:"base_url"`
	SourceURL     string `toml:"source_url"`
	PrefsPath     string `toml:"prefs_path"`
	OutputPath    string `toml:"output_path"`
	MaxIters      int    `toml:"max_iters"`
	LogTrajectory bool   `toml:"log_trajectory"`
}

// Default returns the configuration used when no file and no flags are
// given.
func Default() Config {
	return Config{
		Provider:   "gemini",
		Model:      "gemini-2.0-flash",
		SourceURL:  "https://huggingface.co/papers",
		PrefsPath:  "./userprefs.txt",
		OutputPath: "./report.txt",
		MaxIters:   5,
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.MaxIters < 1 {
		return fmt.Errorf("max_iters must be positive, got %d", c.MaxIters)
	}
	switch c.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}
