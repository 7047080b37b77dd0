// Package config loads and validates YAML configuration for md2html.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file too large")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxConfigSize limits config input to prevent memory exhaustion (1MB).
const MaxConfigSize = 1 << 20

// Field length limits.
const (
	MaxPathLength           = 4096
	MaxTitleLength          = 200
	MaxStyleLength          = 4096 // name or path
	MaxHighlightStyleLength = 50
)

// MaxWorkers bounds the number of parallel workers.
const MaxWorkers = 64

// Engine names. Kept in sync with internal/pipeline.
const (
	EngineLine     = "line"
	EngineGoldmark = "goldmark"
)

// configDirName is the directory searched under the user config dir.
const configDirName = "go-md2html"

// Config holds all configuration for document generation.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Engine    string          `yaml:"engine"`  // "line" (default) or "goldmark"
	Workers   int             `yaml:"workers"` // 0 = auto
	CSS       CSSConfig       `yaml:"css"`
	Highlight HighlightConfig `yaml:"highlight"`
	Document  DocumentConfig  `yaml:"document"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// CSSConfig defines CSS styling options.
type CSSConfig struct {
	Style    string `yaml:"style"`    // Style name or CSS file path; empty = built-in default
	Disabled bool   `yaml:"disabled"` // No base style at all
}

// HighlightConfig defines fenced code highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// DocumentConfig defines how the HTML document is assembled.
type DocumentConfig struct {
	Title      string `yaml:"title"`      // Empty = first header, then file name
	Paragraphs bool   `yaml:"paragraphs"` // Wrap text in <p> and break on blank lines
	Fragment   bool   `yaml:"fragment"`   // Emit the body only, no <html> wrapper
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Engine:    EngineLine,
		Highlight: HighlightConfig{Style: "github"},
		Document:  DocumentConfig{Paragraphs: true},
	}
}

// Validate checks field values and lengths.
// Called by LoadConfig, and available for callers that build a Config.
func (c *Config) Validate() error {
	switch c.Engine {
	case "", EngineLine, EngineGoldmark:
	default:
		return fmt.Errorf("%w: engine %q (must be %s or %s)", ErrInvalidValue, c.Engine, EngineLine, EngineGoldmark)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"css.style", c.CSS.Style, MaxStyleLength},
		{"highlight.style", c.Highlight.Style, MaxHighlightStyleLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Parse decodes YAML config data on top of the defaults, rejecting unknown
// fields, and validates the result.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxConfigSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
