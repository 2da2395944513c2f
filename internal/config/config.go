package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxThemeLength  = 64
	MaxStyleLength  = 64
	MaxAddrLength   = 255  // host:port
	MaxURLLength    = 2048 // Browser limit
	MaxPathLength   = 4096
	MaxOriginsCount = 32
)

// MaxInputSizeLimit caps render.maxInputSize (64 MiB).
const MaxInputSizeLimit = 64 << 20

// Clipboard modes.
const (
	ClipboardAuto   = "auto"   // OSC 52 over SSH or without a system clipboard
	ClipboardSystem = "system" // OS clipboard only
	ClipboardOSC52  = "osc52"  // terminal escape sequence only
)

// Config holds all configuration for rendering, serving and copying.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Page      PageConfig      `yaml:"page"`
	Assets    AssetsConfig    `yaml:"assets"`
	Server    ServerConfig    `yaml:"server"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Browser   BrowserConfig   `yaml:"browser"`
}

// RenderConfig defines the markdown pipeline options.
type RenderConfig struct {
	Sanitize     bool   `yaml:"sanitize"`
	TOC          bool   `yaml:"toc"`
	Mermaid      bool   `yaml:"mermaid"`
	Math         bool   `yaml:"math"`
	CodeTheme    string `yaml:"codeTheme"`    // chroma style name
	MaxInputSize int    `yaml:"maxInputSize"` // bytes
	Timeout      string `yaml:"timeout"`      // Go duration, empty = none
}

// PageConfig defines standalone page options.
type PageConfig struct {
	Style   string `yaml:"style"` // stylesheet name (default: "default")
	ShowTOC bool   `yaml:"showTOC"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// ServerConfig defines the HTTP API options.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	AllowAllOrigins bool     `yaml:"allowAllOrigins"`
	AllowedOrigins  []string `yaml:"allowedOrigins"`
}

// ClipboardConfig defines how code is copied from the terminal.
type ClipboardConfig struct {
	Mode string `yaml:"mode"` // "auto", "system", "osc52" (default: "auto")
}

// BrowserConfig defines the headless Chrome used by preview.
type BrowserConfig struct {
	Bin     string `yaml:"bin"`     // Empty = auto-detect or download
	Timeout string `yaml:"timeout"` // Go duration (default: "30s")
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Sanitize:     true,
			TOC:          true,
			Mermaid:      true,
			Math:         true,
			CodeTheme:    "monokai",
			MaxInputSize: 1 << 20,
		},
		Page:      PageConfig{Style: "default", ShowTOC: true},
		Server:    ServerConfig{Addr: ":8080"},
		Clipboard: ClipboardConfig{Mode: ClipboardAuto},
		Browser:   BrowserConfig{Timeout: "30s"},
	}
}

// Validate checks field lengths and enumerations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("render.codeTheme", c.Render.CodeTheme, MaxThemeLength); err != nil {
		return err
	}
	if c.Render.MaxInputSize <= 0 || c.Render.MaxInputSize > MaxInputSizeLimit {
		return fmt.Errorf("%w: render.maxInputSize must be between 1 and %d, got %d",
			ErrInvalidValue, MaxInputSizeLimit, c.Render.MaxInputSize)
	}
	if _, err := parseDuration("render.timeout", c.Render.Timeout); err != nil {
		return err
	}

	if err := validateFieldLength("page.style", c.Page.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if len(c.Server.AllowedOrigins) > MaxOriginsCount {
		return fmt.Errorf("%w: server.allowedOrigins has %d entries, max %d",
			ErrInvalidValue, len(c.Server.AllowedOrigins), MaxOriginsCount)
	}
	for i, origin := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxURLLength); err != nil {
			return err
		}
	}

	if c.Clipboard.Mode != "" {
		switch strings.ToLower(c.Clipboard.Mode) {
		case ClipboardAuto, ClipboardSystem, ClipboardOSC52:
		default:
			return fmt.Errorf("%w: clipboard.mode %q (must be auto, system, or osc52)", ErrInvalidValue, c.Clipboard.Mode)
		}
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if _, err := parseDuration("browser.timeout", c.Browser.Timeout); err != nil {
		return err
	}
	return nil
}

// RenderTimeout returns render.timeout, zero when unset.
func (c *Config) RenderTimeout() time.Duration {
	d, _ := parseDuration("render.timeout", c.Render.Timeout)
	return d
}

// BrowserTimeout returns browser.timeout, zero when unset.
func (c *Config) BrowserTimeout() time.Duration {
	d, _ := parseDuration("browser.timeout", c.Browser.Timeout)
	return d
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
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

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-mdview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdview", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
