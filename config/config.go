package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/tradebook/ledger"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Config is the complete tradebook configuration.
type Config struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Labels  LabelsConfig  `json:"labels" yaml:"labels"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
}

// StorageConfig selects where profiles and trades live.
type StorageConfig struct {
	Type     string `json:"type" yaml:"type"` // "sqlite" or "yaml"
	DBPath   string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// Path returns the location for the configured storage type.
func (s StorageConfig) Path() string {
	if s.Type == "yaml" {
		return s.FilePath
	}
	return s.DBPath
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// LabelsConfig overrides the names used on equity curve points.
type LabelsConfig struct {
	Start string   `json:"start,omitempty" yaml:"start,omitempty"`
	Days  []string `json:"days,omitempty" yaml:"days,omitempty"` // Sunday first
}

// AuthConfig tunes password hashing. A zero BcryptCost uses auth.DefaultCost.
type AuthConfig struct {
	BcryptCost int `json:"bcrypt_cost,omitempty" yaml:"bcrypt_cost,omitempty"`
}

// Ledger returns the label table, falling back to ledger.DefaultLabels.
func (l LabelsConfig) Ledger() ledger.Labels {
	out := ledger.DefaultLabels
	if l.Start != "" {
		out.Start = l.Start
	}
	if len(l.Days) == len(out.Days) {
		copy(out.Days[:], l.Days)
	}
	return out
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvStorage   = "TRADEBOOK_STORAGE"
	EnvDB        = "TRADEBOOK_DB"
	EnvFile      = "TRADEBOOK_FILE"
	EnvLogLevel  = "TRADEBOOK_LOG_LEVEL"
	EnvLogFormat = "TRADEBOOK_LOG_FORMAT"
)

// ApplyEnv loads the given .env files (missing ones are ignored) and then
// overrides c with any TRADEBOOK_* variables that are set.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Storage.Type, EnvStorage)
	set(&c.Storage.DBPath, EnvDB)
	set(&c.Storage.FilePath, EnvFile)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)

	return c.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required for sqlite type")
		}
	case "yaml":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path required for yaml type")
		}
	default:
		return fmt.Errorf("storage.type must be 'sqlite' or 'yaml'")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	if n := len(c.Labels.Days); n != 0 && n != 7 {
		return fmt.Errorf("labels.days must name all 7 days, got %d", n)
	}
	if cost := c.Auth.BcryptCost; cost != 0 && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
		return fmt.Errorf("auth.bcrypt_cost must be 0 (default) or between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:     "sqlite",
			DBPath:   "./tradebook.sqlite",
			FilePath: "./tradebook.yaml",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
