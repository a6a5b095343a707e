package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/logger"
	"github.com/compozy/bumpver/internal/orchestrator"
	"github.com/compozy/bumpver/internal/repository"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file name looked up in the project root, without extension.
	FileName = ".bumpver"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BUMPVER"
)

type Config struct {
	Root        string            `mapstructure:"root"`
	Scheme      string            `mapstructure:"scheme"`
	TrackerFile string            `mapstructure:"tracker_file"`
	Manifests   []domain.Manifest `mapstructure:"manifests"`
	Branch      string            `mapstructure:"branch"`
	Stage       bool              `mapstructure:"stage"`
	LockTimeout time.Duration     `mapstructure:"lock_timeout"`
	LogLevel    string            `mapstructure:"log_level"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Root:        ".",
		Scheme:      string(domain.SchemeSemver),
		TrackerFile: filepath.Join(".git", "bumped-branches"),
		Manifests: []domain.Manifest{
			{Path: filepath.Join("src-tauri", "tauri.conf.json"), Format: domain.ManifestJSON},
			{Path: filepath.Join("src-tauri", "Cargo.toml"), Format: domain.ManifestTOML},
		},
		LockTimeout: repository.DefaultLockTimeout,
		LogLevel:    logger.DefaultLevel,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root cannot be empty")
	}
	if _, err := domain.ParseScheme(c.Scheme); err != nil {
		return fmt.Errorf("invalid scheme: %w", err)
	}
	if err := validateRelativePath("tracker_file", c.TrackerFile); err != nil {
		return err
	}
	if len(c.Manifests) == 0 {
		return fmt.Errorf("at least one manifest is required")
	}
	seen := make(map[string]struct{}, len(c.Manifests))
	for i, m := range c.Manifests {
		if err := validateRelativePath(fmt.Sprintf("manifests[%d].path", i), m.Path); err != nil {
			return err
		}
		if !m.Format.Valid() {
			return fmt.Errorf("manifests[%d]: unknown format %q (expected toml, json or plain)", i, m.Format)
		}
		key := filepath.Clean(m.Path)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("manifests[%d]: duplicate path %s", i, m.Path)
		}
		seen[key] = struct{}{}
	}
	if c.Branch != "" {
		if err := orchestrator.ValidateBranchName(c.Branch); err != nil {
			return fmt.Errorf("invalid branch: %w", err)
		}
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %s", c.LockTimeout)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func validateRelativePath(key, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("%s must be relative to root: %s", key, path)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains invalid path traversal", key)
	}
	return nil
}

// Settings converts the configuration into orchestrator settings.
func (c *Config) Settings() (orchestrator.Settings, error) {
	scheme, err := domain.ParseScheme(c.Scheme)
	if err != nil {
		return orchestrator.Settings{}, err
	}
	manifests := make([]domain.Manifest, len(c.Manifests))
	for i, m := range c.Manifests {
		manifests[i] = domain.Manifest{Path: filepath.Clean(m.Path), Format: m.Format}
	}
	return orchestrator.Settings{
		Scheme:    scheme,
		Manifests: manifests,
		Branch:    c.Branch,
		Stage:     c.Stage,
	}, nil
}

// LockFile is the path of the lock guarding the tracker and the manifests.
func (c *Config) LockFile() string {
	return filepath.Join(c.Root, c.TrackerFile) + ".lock"
}

// LoadConfig reads .bumpver.yaml from dir, applies BUMPVER_* overrides and
// validates the result. A missing config file is not an error.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"root", "scheme", "tracker_file", "branch", "stage", "lock_timeout", "log_level"} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	defaults := DefaultConfig()
	v.SetDefault("root", dir)
	v.SetDefault("scheme", defaults.Scheme)
	v.SetDefault("tracker_file", defaults.TrackerFile)
	manifests := make([]map[string]any, 0, len(defaults.Manifests))
	for _, m := range defaults.Manifests {
		manifests = append(manifests, map[string]any{"path": m.Path, "format": string(m.Format)})
	}
	v.SetDefault("manifests", manifests)
	v.SetDefault("stage", defaults.Stage)
	v.SetDefault("lock_timeout", defaults.LockTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
