package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrBlockIndex         = errors.New("code block out of range")
	ErrCopy               = errors.New("failed to copy code block")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runContext is the resolved state shared by every command.
type runContext struct {
	cfg    *config.Config
	env    *envConfig
	logger *slog.Logger
	svc    *mdview.Service
}

// prepare resolves configuration (flags > env > file > defaults), then
// builds the logger and the render service.
func prepare(common *commonFlags, rf *renderFlags, env *Environment) (*runContext, error) {
	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadConfig(common.config, envCfg)
	if err != nil {
		return nil, err
	}
	mergeRenderFlags(rf, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(common, env.Stderr)
	svc, err := newService(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &runContext{cfg: cfg, env: envCfg, logger: logger, svc: svc}, nil
}

// loadConfig loads the named config, falling back to MDVIEW_CONFIG and
// then to defaults, and applies environment overrides.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeRenderFlags applies CLI flags over config values. Zero flag
// values leave the config untouched.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.theme != "" {
		cfg.Render.CodeTheme = f.theme
	}
	if f.noSanitize {
		cfg.Render.Sanitize = false
	}
	if f.noTOC {
		cfg.Render.TOC = false
	}
	if f.maxSize > 0 {
		cfg.Render.MaxInputSize = f.maxSize
	}
	if f.timeout != "" {
		cfg.Render.Timeout = f.timeout
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

func mergePageFlags(f *pageFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Page.Style = f.style
	}
	if f.noNav {
		cfg.Page.ShowTOC = false
	}
}

// newLogger writes warnings to stderr, debug output with --verbose and
// nothing with --quiet.
func newLogger(f *commonFlags, stderr io.Writer) *slog.Logger {
	if f.quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func renderOptions(cfg *config.Config) mdview.RenderOptions {
	return mdview.RenderOptions{
		SanitizeHTML:  cfg.Render.Sanitize,
		EnableTOC:     cfg.Render.TOC,
		EnableMermaid: cfg.Render.Mermaid,
		EnableMath:    cfg.Render.Math,
		CodeTheme:     cfg.Render.CodeTheme,
		MaxInputSize:  cfg.Render.MaxInputSize,
		Timeout:       cfg.RenderTimeout(),
	}
}

func newService(cfg *config.Config, logger *slog.Logger) (*mdview.Service, error) {
	opts := []mdview.ServiceOption{
		mdview.WithRenderOptions(renderOptions(cfg)),
		mdview.WithServiceLogger(logger),
	}
	if cfg.Assets.BasePath != "" {
		loader, err := mdview.NewAssetLoader(cfg.Assets.BasePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mdview.WithAssetLoader(loader))
	}
	return mdview.NewService(opts...)
}

// inputPath returns the single positional input, "-" meaning stdin.
func inputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
}

func readMarkdown(path string, env *Environment, maxSize int) (string, error) {
	content, err := fileutil.ReadInput(path, env.Stdin, int64(maxSize))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, fileutil.ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	return content, nil
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(path string, data []byte, env *Environment) error {
	if path == "" || path == fileutil.StdinPath {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
