package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Store:  StoreConfig{Path: "/tmp/skillforge-test"},
		Recommend: RecommendConfig{
			TagWeight:        0.65,
			RatingWeight:     0.25,
			PopularityWeight: 0.10,
			PopularityScale:  50,
			DefaultLimit:     5,
			MaxLimit:         20,
		},
	}

	assert.NoError(t, cfg.Validate())
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Store:  StoreConfig{Path: "/tmp/skillforge-test"},
			Recommend: RecommendConfig{
				TagWeight:        0.65,
				RatingWeight:     0.25,
				PopularityWeight: 0.10,
				PopularityScale:  50,
				DefaultLimit:     5,
				MaxLimit:         20,
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "testing" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"negative weight", func(c *Config) { c.Recommend.TagWeight = -1 }},
		{"all-zero weights", func(c *Config) {
			c.Recommend.TagWeight = 0
			c.Recommend.RatingWeight = 0
			c.Recommend.PopularityWeight = 0
		}},
		{"zero popularity scale", func(c *Config) { c.Recommend.PopularityScale = 0 }},
		{"default limit above max", func(c *Config) { c.Recommend.DefaultLimit = 30 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandStorePaths_SearchDefaultsUnderStore(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Path: "/tmp/skillforge-data"}}

	require.NoError(t, cfg.expandStorePaths())

	assert.Equal(t, "/tmp/skillforge-data", cfg.Store.Path)
	assert.Equal(t, filepath.Join("/tmp/skillforge-data", "search"), cfg.Store.SearchIndexPath)
}

func TestLoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")

	content := "# comment\nSKILLFORGE_TEST_KEY=hello\nSKILLFORGE_QUOTED=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SKILLFORGE_TEST_KEY")
		os.Unsetenv("SKILLFORGE_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("SKILLFORGE_TEST_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("SKILLFORGE_QUOTED"))
}

func TestLoadEnvFile_EnvVarsTakePrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")

	require.NoError(t, os.WriteFile(envPath, []byte("SKILLFORGE_PRESET=file\n"), 0o600))
	t.Setenv("SKILLFORGE_PRESET", "env")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "env", os.Getenv("SKILLFORGE_PRESET"))
}
