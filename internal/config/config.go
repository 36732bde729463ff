package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"plancharts/internal/logging"
)

// envPrefix maps nested keys to PLANCHARTS_<SECTION>_<FIELD>.
const envPrefix = "PLANCHARTS"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server ServerConfig   `yaml:"server" mapstructure:"server"`
	Log    logging.Config `yaml:"log" mapstructure:"log"`
	// Optional: YAML file whose sections replace the embedded default datasets.
	// Relative paths are resolved against the config file's directory.
	DatasetsFile string `yaml:"datasets_file" mapstructure:"datasets_file"`
	// WatchDatasets reloads DatasetsFile when it changes on disk.
	WatchDatasets bool `yaml:"watch_datasets" mapstructure:"watch_datasets"`
	// Palette replaces the brand palette when set.
	Palette []string `yaml:"palette" mapstructure:"palette"`
	// Milestone is the fallback market milestone in $B.
	Milestone float64 `yaml:"milestone" mapstructure:"milestone"`
}

type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	Mode        string   `yaml:"mode" mapstructure:"mode"`
	StaticDir   string   `yaml:"static_dir" mapstructure:"static_dir"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Mode:        "release",
			StaticDir:   "./web/dist",
			CORSOrigins: []string{"*"},
		},
		Log:       logging.Config{Level: "info", Format: "json"},
		Milestone: 1000,
	}
}

// Load reads path (or starts from Default when path is empty), applies
// PLANCHARTS_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file over the defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.DatasetsFile != "" && !filepath.IsAbs(c.DatasetsFile) {
		// Prefer interpreting relative paths as relative to the config file directory,
		// but fall back to the provided path (relative to cwd) if that doesn't exist.
		cand := filepath.Join(filepath.Dir(path), c.DatasetsFile)
		if _, err := os.Stat(cand); err == nil {
			c.DatasetsFile = cand
		}
	}
	return c, nil
}

// ApplyEnv overlays PLANCHARTS_* environment variables, e.g.
// PLANCHARTS_SERVER_PORT or PLANCHARTS_LOG_LEVEL. List values are
// comma-separated.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only resolves env vars for keys it knows about, so every field
	// is registered with its current value as the default.
	v.SetDefault("server.port", c.Server.Port)
	v.SetDefault("server.mode", c.Server.Mode)
	v.SetDefault("server.static_dir", c.Server.StaticDir)
	v.SetDefault("server.cors_origins", c.Server.CORSOrigins)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.output_paths", c.Log.OutputPaths)
	v.SetDefault("datasets_file", c.DatasetsFile)
	v.SetDefault("watch_datasets", c.WatchDatasets)
	v.SetDefault("palette", c.Palette)
	v.SetDefault("milestone", c.Milestone)

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return fmt.Errorf("apply environment: %w", err)
	}
	*c = out
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1..65535, got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Milestone <= 0 {
		return errors.New("milestone must be positive")
	}
	for i, p := range c.Palette {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("palette[%d] is empty", i)
		}
	}
	if c.DatasetsFile != "" {
		if _, err := os.Stat(c.DatasetsFile); err != nil {
			return fmt.Errorf("datasets_file: %w", err)
		}
	}
	if c.WatchDatasets && c.DatasetsFile == "" {
		return errors.New("watch_datasets requires datasets_file")
	}
	return nil
}
