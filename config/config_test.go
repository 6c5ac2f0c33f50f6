package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "./tradebook.sqlite", cfg.Storage.Path())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ledger.DefaultLabels, cfg.Labels.Ledger())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			edit: func(c *Config) {},
		},
		{
			name: "yaml storage",
			edit: func(c *Config) { c.Storage.Type = "yaml" },
		},
		{
			name:    "unknown storage",
			edit:    func(c *Config) { c.Storage.Type = "redis" },
			wantErr: true,
			errMsg:  "storage.type must be 'sqlite' or 'yaml'",
		},
		{
			name:    "sqlite without path",
			edit:    func(c *Config) { c.Storage.DBPath = "" },
			wantErr: true,
			errMsg:  "storage.db_path required",
		},
		{
			name: "yaml without path",
			edit: func(c *Config) {
				c.Storage.Type = "yaml"
				c.Storage.FilePath = ""
			},
			wantErr: true,
			errMsg:  "storage.file_path required",
		},
		{
			name:    "bad log level",
			edit:    func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			edit:    func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format",
		},
		{
			name:    "short day table",
			edit:    func(c *Config) { c.Labels.Days = []string{"Sun", "Mon"} },
			wantErr: true,
			errMsg:  "labels.days must name all 7 days",
		},
		{
			name: "default bcrypt cost",
			edit: func(c *Config) { c.Auth.BcryptCost = 0 },
		},
		{
			name: "minimum bcrypt cost",
			edit: func(c *Config) { c.Auth.BcryptCost = 4 },
		},
		{
			name:    "bcrypt cost below minimum",
			edit:    func(c *Config) { c.Auth.BcryptCost = 3 },
			wantErr: true,
			errMsg:  "auth.bcrypt_cost must be 0 (default) or between 4 and 31",
		},
		{
			name:    "bcrypt cost above maximum",
			edit:    func(c *Config) { c.Auth.BcryptCost = 32 },
			wantErr: true,
			errMsg:  "auth.bcrypt_cost",
		},
		{
			name:    "negative bcrypt cost",
			edit:    func(c *Config) { c.Auth.BcryptCost = -1 },
			wantErr: true,
			errMsg:  "auth.bcrypt_cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Storage.Type = "yaml"
			cfg.Labels.Start = "Open"
			cfg.Labels.Days = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Storage, loaded.Storage)
			assert.Equal(t, cfg.Log, loaded.Log)
			labels := loaded.Labels.Ledger()
			assert.Equal(t, "Open", labels.Start)
			assert.Equal(t, "Mon", labels.Days[1])
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "./tradebook.sqlite", cfg.Storage.DBPath)
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRADEBOOK_STORAGE=yaml\nTRADEBOOK_FILE="+filepath.Join(dir, "book.yaml")+"\n"), 0o644))

	t.Setenv(EnvLogLevel, "warn")
	// godotenv.Load never overrides variables that are already set.
	t.Setenv(EnvStorage, "")
	os.Unsetenv(EnvStorage)
	t.Setenv(EnvFile, "")
	os.Unsetenv(EnvFile)

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "yaml", cfg.Storage.Type)
	assert.Equal(t, filepath.Join(dir, "book.yaml"), cfg.Storage.Path())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv(EnvStorage, "floppy")

	cfg := Default()
	assert.Error(t, cfg.ApplyEnv())
}
