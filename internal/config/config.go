package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the rules index server and extractor
type Config struct {
	Server struct {
		Port         int           `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
		BodyLimit    int           `env:"BODY_LIMIT" envDefault:"1048576" validate:"min=1"` // 1MB
	}

	Catalog struct {
		Path string `env:"CATALOG_PATH" envDefault:"./src/data/eslint-rules.json"`
	}

	Security struct {
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," validate:"cors_origins"`
		EnableHTTPS bool     `env:"ENABLE_HTTPS" envDefault:"false"`
		RateLimit   int      `env:"RATE_LIMIT" envDefault:"100" validate:"min=1"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
		Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	}

	UI UIConfig

	Extract ExtractConfig
}

// UIConfig holds table presentation defaults
type UIConfig struct {
	DefaultPageSize int    `env:"DEFAULT_PAGE_SIZE" envDefault:"25" validate:"oneof=10 25 50 100"`
	Title           string `env:"UI_TITLE" envDefault:"ESLint Rules Index"`
}

// ExtractConfig holds configuration for the offline catalog extractor
type ExtractConfig struct {
	ProjectRoot   string        `env:"EXTRACT_PROJECT_ROOT" envDefault:"."`
	OutPath       string        `env:"EXTRACT_OUT_PATH" envDefault:"src/data/eslint-rules.json"`
	DocBase       string        `env:"ESLINT_DOC_BASE" envDefault:"https://eslint.org/docs/latest/rules" validate:"url"`
	LinterPackage string        `env:"LINTER_PACKAGE" envDefault:"eslint"`
	SkipPlugins   []string      `env:"EXTRACT_SKIP_PLUGINS" envSeparator:","`
	NodeBinary    string        `env:"NODE_BINARY" envDefault:"node"`
	PluginTimeout time.Duration `env:"PLUGIN_LOAD_TIMEOUT" envDefault:"30s"`
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration using struct tags
func Validate(cfg *Config) error {
	validator := validator.New()

	if err := validator.RegisterValidation("cors_origins", validateCORSOrigins); err != nil {
		return fmt.Errorf("failed to register cors_origins validation: %w", err)
	}

	if err := validator.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCORSOrigins validates CORS origins format
func validateCORSOrigins(fl validator.FieldLevel) bool {
	origins := fl.Field().Interface().([]string)
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return false
		}
	}
	return true
}

// validateCustomRules performs additional validation beyond struct tags
func validateCustomRules(cfg *Config) error {
	if cfg.Catalog.Path == "" {
		return fmt.Errorf("catalog path cannot be empty")
	}

	if cfg.Server.ReadTimeout < time.Millisecond {
		return fmt.Errorf("read timeout must be at least 1ms")
	}
	if cfg.Server.WriteTimeout < time.Millisecond {
		return fmt.Errorf("write timeout must be at least 1ms")
	}

	return validateExtractConfig(&cfg.Extract)
}

// validateExtractConfig validates extractor-specific configuration
func validateExtractConfig(cfg *ExtractConfig) error {
	if cfg.PluginTimeout < time.Second {
		return fmt.Errorf("plugin load timeout must be at least 1 second")
	}
	if cfg.LinterPackage == "" {
		return fmt.Errorf("linter package cannot be empty")
	}
	if cfg.OutPath == "" {
		return fmt.Errorf("extract output path cannot be empty")
	}
	if slices.Contains(cfg.SkipList(), cfg.LinterPackage) {
		return fmt.Errorf("linter package %s cannot be skipped", cfg.LinterPackage)
	}
	return nil
}

// CatalogPath returns the absolute catalog path the server loads
func (cfg *Config) CatalogPath() string {
	path, err := filepath.Abs(cfg.Catalog.Path)
	if err != nil {
		return cfg.Catalog.Path
	}
	return path
}

// SkipList returns the trimmed, non-empty skip list
func (cfg *ExtractConfig) SkipList() []string {
	var out []string
	for _, name := range cfg.SkipPlugins {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
			case "oneof":
				messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
			case "url":
				messages = append(messages, fmt.Sprintf("%s must be a valid URL", e.Field()))
			case "cors_origins":
				messages = append(messages, fmt.Sprintf("%s contains invalid origin format", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s failed validation: %s", e.Field(), e.Tag()))
			}
		}
		return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
	}
	return err
}
