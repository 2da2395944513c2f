package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds markdown pipeline overrides.
type renderFlags struct {
	theme      string
	noSanitize bool
	noTOC      bool
	maxSize    int
	timeout    string
	assetPath  string
}

// pageFlags holds standalone page options.
type pageFlags struct {
	title string
	style string
	noNav bool
}

type renderCmdFlags struct {
	common commonFlags
	render renderFlags
	page   pageFlags
	output string
	format string
}

type listCmdFlags struct {
	common commonFlags
	render renderFlags
	json   bool
}

type copyCmdFlags struct {
	common    commonFlags
	render    renderFlags
	index     int
	clipboard string
	print     bool
}

type previewCmdFlags struct {
	common         commonFlags
	render         renderFlags
	page           pageFlags
	output         string
	gotoID         string
	workers        int
	browserTimeout string
	width          int
	height         int
}

type serveCmdFlags struct {
	common          commonFlags
	render          renderFlags
	addr            string
	allowAllOrigins bool
	origins         []string
}

// Output formats for the render command.
const (
	formatHTML = "html"
	formatJSON = "json"
	formatPage = "page"
)

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addRenderFlags adds markdown pipeline flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "code highlighting theme")
	fs.BoolVar(&f.noSanitize, "no-sanitize", false, "keep raw HTML unsanitized")
	fs.BoolVar(&f.noTOC, "no-toc", false, "disable table of contents extraction")
	fs.IntVar(&f.maxSize, "max-size", 0, "maximum input size in bytes")
	fs.StringVar(&f.timeout, "timeout", "", "render timeout (e.g., 5s)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addPageFlags adds standalone page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.title, "title", "", "page title (\"\" = frontmatter or first H1)")
	fs.StringVar(&f.style, "style", "", "page stylesheet name")
	fs.BoolVar(&f.noNav, "no-nav", false, "hide the table of contents navigator")
}

// parseFlagSet parses args, marking bad flags as usage errors.
// flag.ErrHelp passes through unwrapped.
func parseFlagSet(fs *flag.FlagSet, args []string, env *Environment, usage func(io.Writer)) ([]string, error) {
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { usage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// The build*FlagSet functions register every flag of a command. They are
// shared by parsing and shell completion.

func buildRenderFlagSet(f *renderCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVarP(&f.format, "format", "f", formatHTML, "output format: html, json, page")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	return fs
}

func buildListFlagSet(name string, f *listCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "output JSON")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func buildCopyFlagSet(f *copyCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	fs.IntVarP(&f.index, "number", "n", 1, "code block number (1 = first)")
	fs.StringVar(&f.clipboard, "clipboard", "", "clipboard: auto, system, osc52")
	fs.BoolVarP(&f.print, "print", "p", false, "also print the block with line numbers")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func buildPreviewFlagSet(f *previewCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "screenshot file, or directory for several inputs")
	fs.StringVarP(&f.gotoID, "goto", "g", "", "heading id to scroll to")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.StringVar(&f.browserTimeout, "browser-timeout", "", "page load timeout (e.g., 30s)")
	fs.IntVar(&f.width, "width", 0, "viewport width in pixels")
	fs.IntVar(&f.height, "height", 0, "viewport height in pixels")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	return fs
}

func buildServeFlagSet(f *serveCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8080)")
	fs.BoolVar(&f.allowAllOrigins, "allow-all-origins", false, "allow CORS requests from any origin")
	fs.StringSliceVar(&f.origins, "origin", nil, "allowed CORS origin (repeatable)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func buildMCPFlagSet(f *listCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func parseRenderFlags(args []string, env *Environment) (*renderCmdFlags, []string, error) {
	f := &renderCmdFlags{}
	pos, err := parseFlagSet(buildRenderFlagSet(f), args, env, printRenderUsage)
	if err != nil {
		return nil, nil, err
	}
	switch f.format {
	case formatHTML, formatJSON, formatPage:
	default:
		return nil, nil, fmt.Errorf("%w: --format %q (must be html, json, or page)", ErrUsage, f.format)
	}
	return f, pos, nil
}

func parseListFlags(name string, args []string, env *Environment, usage func(io.Writer)) (*listCmdFlags, []string, error) {
	f := &listCmdFlags{}
	pos, err := parseFlagSet(buildListFlagSet(name, f), args, env, usage)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

func parseCopyFlags(args []string, env *Environment) (*copyCmdFlags, []string, error) {
	f := &copyCmdFlags{}
	pos, err := parseFlagSet(buildCopyFlagSet(f), args, env, printCopyUsage)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

func parsePreviewFlags(args []string, env *Environment) (*previewCmdFlags, []string, error) {
	f := &previewCmdFlags{}
	pos, err := parseFlagSet(buildPreviewFlagSet(f), args, env, printPreviewUsage)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

func parseServeFlags(args []string, env *Environment) (*serveCmdFlags, []string, error) {
	f := &serveCmdFlags{}
	pos, err := parseFlagSet(buildServeFlagSet(f), args, env, printServeUsage)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

func parseMCPFlags(args []string, env *Environment) (*listCmdFlags, error) {
	f := &listCmdFlags{}
	if _, err := parseFlagSet(buildMCPFlagSet(f), args, env, printMCPUsage); err != nil {
		return nil, err
	}
	return f, nil
}
