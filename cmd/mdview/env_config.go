package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // MDVIEW_CONFIG: config file name or path
	Theme          string        // MDVIEW_THEME: chroma code theme
	MaxInputSize   int           // MDVIEW_MAX_INPUT_SIZE: bytes
	Addr           string        // MDVIEW_ADDR: serve listen address
	Clipboard      string        // MDVIEW_CLIPBOARD: auto, system, osc52
	Style          string        // MDVIEW_STYLE: page stylesheet name
	AssetPath      string        // MDVIEW_ASSET_PATH: custom asset directory
	Timeout        time.Duration // MDVIEW_TIMEOUT: render timeout
	BrowserTimeout time.Duration // MDVIEW_BROWSER_TIMEOUT: page load timeout
	Workers        int           // MDVIEW_WORKERS: parallel preview browsers
}

// knownEnvVars lists valid MDVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDVIEW_CONFIG":          true,
	"MDVIEW_THEME":           true,
	"MDVIEW_MAX_INPUT_SIZE":  true,
	"MDVIEW_ADDR":            true,
	"MDVIEW_CLIPBOARD":       true,
	"MDVIEW_STYLE":           true,
	"MDVIEW_ASSET_PATH":      true,
	"MDVIEW_TIMEOUT":         true,
	"MDVIEW_BROWSER_TIMEOUT": true,
	"MDVIEW_WORKERS":         true,
	"MDVIEW_CONTAINER":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDVIEW_CONFIG"),
		Theme:      getenv("MDVIEW_THEME"),
		Addr:       getenv("MDVIEW_ADDR"),
		Clipboard:  strings.ToLower(getenv("MDVIEW_CLIPBOARD")),
		Style:      getenv("MDVIEW_STYLE"),
		AssetPath:  getenv("MDVIEW_ASSET_PATH"),
	}

	if v := getenv("MDVIEW_MAX_INPUT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxInputSize = n
		}
	}
	if v := getenv("MDVIEW_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := getenv("MDVIEW_BROWSER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BrowserTimeout = d
		}
	}
	if v := getenv("MDVIEW_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDVIEW_* variables.
// Helps catch typos like MDVIEW_THEMES instead of MDVIEW_THEME.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "MDVIEW_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded
// config. Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeRenderFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Render.CodeTheme = env.Theme
	}
	if env.MaxInputSize > 0 {
		cfg.Render.MaxInputSize = env.MaxInputSize
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Clipboard != "" {
		cfg.Clipboard.Mode = env.Clipboard
	}
	if env.Style != "" {
		cfg.Page.Style = env.Style
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.BrowserTimeout > 0 {
		cfg.Browser.Timeout = env.BrowserTimeout.String()
	}
}
