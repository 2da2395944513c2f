package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/browser"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/hints"
)

// commands lists the subcommand names, in help order.
var commands = []string{
	"render", "toc", "blocks", "copy", "preview",
	"serve", "mcp", "doctor", "completion", "version", "help",
}

func isCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

// runMain dispatches the subcommand in args[1] and returns the exit code.
// A markdown path in place of a command is shorthand for "render".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	warnUnknownEnvVars(env.Stderr, env.Environ())

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "toc":
		err = runTOC(ctx, rest, env)
	case "blocks":
		err = runBlocks(ctx, rest, env)
	case "copy":
		err = runCopy(ctx, rest, env)
	case "preview":
		err = runPreview(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "mcp":
		err = runMCP(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdview %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		if fileutil.IsMarkdown(cmd) || cmd == fileutil.StdinPath {
			err = runRender(ctx, args[1:], env)
			break
		}
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, browser.ErrBrowserConnect),
		errors.Is(err, browser.ErrPageCreate):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, browser.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, mdview.ErrInvalidTheme):
		return hints.ForThemeNotFound(assets.Themes())
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	case errors.Is(err, ErrCopy):
		return hints.ForClipboard(runtime.GOOS)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
