package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 1048576, cfg.Server.BodyLimit)
	assert.Equal(t, "./src/data/eslint-rules.json", cfg.Catalog.Path)
	assert.Empty(t, cfg.Security.CORSOrigins)
	assert.False(t, cfg.Security.EnableHTTPS)
	assert.Equal(t, 100, cfg.Security.RateLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, 25, cfg.UI.DefaultPageSize)
	assert.Equal(t, "ESLint Rules Index", cfg.UI.Title)

	assert.Equal(t, ".", cfg.Extract.ProjectRoot)
	assert.Equal(t, "src/data/eslint-rules.json", cfg.Extract.OutPath)
	assert.Equal(t, "https://eslint.org/docs/latest/rules", cfg.Extract.DocBase)
	assert.Equal(t, "eslint", cfg.Extract.LinterPackage)
	assert.Empty(t, cfg.Extract.SkipList())
	assert.Equal(t, "node", cfg.Extract.NodeBinary)
	assert.Equal(t, 30*time.Second, cfg.Extract.PluginTimeout)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("PORT", "9090")
	os.Setenv("READ_TIMEOUT", "10s")
	os.Setenv("CATALOG_PATH", "/srv/rules.yaml")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("CORS_ORIGINS", "https://example.com,https://test.com")
	os.Setenv("DEFAULT_PAGE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/rules.yaml", cfg.Catalog.Path)
	assert.Equal(t, "/srv/rules.yaml", cfg.CatalogPath())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://example.com", "https://test.com"}, cfg.Security.CORSOrigins)
	assert.Equal(t, 50, cfg.UI.DefaultPageSize)
}

func TestLoad_ExtractEnvironmentVariables(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	tempDir := t.TempDir()
	os.Setenv("EXTRACT_PROJECT_ROOT", tempDir)
	os.Setenv("EXTRACT_OUT_PATH", "public/rules.json")
	os.Setenv("ESLINT_DOC_BASE", "https://eslint.org/docs/v8.x/rules/")
	os.Setenv("LINTER_PACKAGE", "eslint-v8")
	os.Setenv("EXTRACT_SKIP_PLUGINS", "eslint-plugin-import, eslint-plugin-node,")
	os.Setenv("NODE_BINARY", "/usr/local/bin/node")
	os.Setenv("PLUGIN_LOAD_TIMEOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, tempDir, cfg.Extract.ProjectRoot)
	assert.Equal(t, "public/rules.json", cfg.Extract.OutPath)
	assert.Equal(t, "https://eslint.org/docs/v8.x/rules/", cfg.Extract.DocBase)
	assert.Equal(t, "eslint-v8", cfg.Extract.LinterPackage)
	assert.Equal(t, []string{"eslint-plugin-import", "eslint-plugin-node"}, cfg.Extract.SkipList())
	assert.Equal(t, "/usr/local/bin/node", cfg.Extract.NodeBinary)
	assert.Equal(t, time.Minute, cfg.Extract.PluginTimeout)
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 0

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Port must be at least 1")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := createValidConfig(t.TempDir())
	cfg.Logging.Level = "invalid"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Level must be one of: debug info warn error")
}

func TestValidate_InvalidPageSize(t *testing.T) {
	cfg := createValidConfig(t.TempDir())
	cfg.UI.DefaultPageSize = 30

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DefaultPageSize must be one of: 10 25 50 100")
}

func TestValidate_InvalidDocBase(t *testing.T) {
	cfg := createValidConfig(t.TempDir())
	cfg.Extract.DocBase = "eslint docs"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DocBase must be a valid URL")
}

func TestValidate_InvalidCORSOrigins(t *testing.T) {
	cfg := createValidConfig(t.TempDir())
	cfg.Security.CORSOrigins = []string{"invalid-origin"}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CORSOrigins contains invalid origin format")
}

func TestValidate_ValidCORSOrigins(t *testing.T) {
	cfg := createValidConfig(t.TempDir())
	cfg.Security.CORSOrigins = []string{"*", "https://example.com", "http://localhost:3000"}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_InvalidPortRange(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too high", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig(t.TempDir())
			cfg.Server.Port = tt.port
			err := Validate(cfg)
			assert.Error(t, err)
		})
	}
}

func TestValidate_ValidPortRange(t *testing.T) {
	tests := []int{1, 80, 443, 8080, 65535}

	for _, port := range tests {
		t.Run(strconv.Itoa(port), func(t *testing.T) {
			cfg := createValidConfig(t.TempDir())
			cfg.Server.Port = port
			err := Validate(cfg)
			assert.NoError(t, err)
		})
	}
}

func TestValidate_ExtractRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExtractConfig)
		message string
	}{
		{"timeout too short", func(c *ExtractConfig) { c.PluginTimeout = 500 * time.Millisecond }, "plugin load timeout must be at least 1 second"},
		{"empty linter", func(c *ExtractConfig) { c.LinterPackage = "" }, "linter package cannot be empty"},
		{"empty output", func(c *ExtractConfig) { c.OutPath = "" }, "extract output path cannot be empty"},
		{"linter skipped", func(c *ExtractConfig) { c.SkipPlugins = []string{" eslint "} }, "linter package eslint cannot be skipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig(t.TempDir())
			tt.mutate(&cfg.Extract)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected []string
	}{
		{"single wildcard", "*", []string{"*"}},
		{"single origin", "https://example.com", []string{"https://example.com"}},
		{"multiple origins", "https://a.com,https://b.com", []string{"https://a.com", "https://b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			defer clearEnvVars()

			os.Setenv("CORS_ORIGINS", tt.envValue)

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.expected, cfg.Security.CORSOrigins)
		})
	}
}

func TestCatalogPath_Relative(t *testing.T) {
	cfg := createValidConfig(t.TempDir())
	cfg.Catalog.Path = "data/rules.json"

	path := cfg.CatalogPath()
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "rules.json", filepath.Base(path))
}

func clearEnvVars() {
	envVars := []string{
		"PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "BODY_LIMIT",
		"CATALOG_PATH",
		"CORS_ORIGINS", "ENABLE_HTTPS", "RATE_LIMIT",
		"LOG_LEVEL", "LOG_FORMAT",
		"DEFAULT_PAGE_SIZE", "UI_TITLE",
		"EXTRACT_PROJECT_ROOT", "EXTRACT_OUT_PATH", "ESLINT_DOC_BASE", "LINTER_PACKAGE",
		"EXTRACT_SKIP_PLUGINS", "NODE_BINARY", "PLUGIN_LOAD_TIMEOUT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func createValidConfig(tempDir string) *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.BodyLimit = 1048576
	cfg.Server.ReadTimeout = time.Second
	cfg.Server.WriteTimeout = time.Second
	cfg.Catalog.Path = tempDir + "/eslint-rules.json"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Security.CORSOrigins = []string{"*"}
	cfg.Security.EnableHTTPS = false
	cfg.Security.RateLimit = 100
	cfg.UI.DefaultPageSize = 25
	cfg.UI.Title = "ESLint Rules Index"
	cfg.Extract.ProjectRoot = tempDir
	cfg.Extract.OutPath = "src/data/eslint-rules.json"
	cfg.Extract.DocBase = "https://eslint.org/docs/latest/rules"
	cfg.Extract.LinterPackage = "eslint"
	cfg.Extract.NodeBinary = "node"
	cfg.Extract.PluginTimeout = 30 * time.Second
	return cfg
}
