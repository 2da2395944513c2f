package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render markdown to HTML, JSON, or a full page")
	fmt.Fprintln(w, "  toc         Print the table of contents")
	fmt.Fprintln(w, "  blocks      List fenced code blocks")
	fmt.Fprintln(w, "  copy        Copy a code block to the clipboard")
	fmt.Fprintln(w, "  preview     Load pages in headless Chrome, scroll, screenshot")
	fmt.Fprintln(w, "  serve       Serve the HTTP API")
	fmt.Fprintln(w, "  mcp         Serve MCP tools on stdio")
	fmt.Fprintln(w, "  doctor      Check clipboard, Chrome, and assets")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "'mdview <file.md>' is short for 'mdview render <file.md>'.")
	fmt.Fprintln(w, "Run 'mdview help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --theme <name>        Code highlighting theme (default: monokai)")
	fmt.Fprintln(w, "      --no-sanitize         Keep raw HTML unsanitized")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents extraction")
	fmt.Fprintln(w, "      --max-size <n>        Maximum input size in bytes")
	fmt.Fprintln(w, "      --timeout <d>         Render timeout (e.g., 5s)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printPageUsage(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = frontmatter or first H1)")
	fmt.Fprintln(w, "      --style <name>        Page stylesheet (default: default)")
	fmt.Fprintln(w, "      --no-nav              Hide the table of contents navigator")
	fmt.Fprintln(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown. Input \"-\" reads stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "  -f, --format <s>          html (fragment), json (with toc and blocks), page")
	fmt.Fprintln(w)
	printPageUsage(w)
	printCommonUsage(w)
}

func printTOCUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview toc <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print headings indented by level, with their anchor ids.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printBlocksUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview blocks <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List code blocks: number, language, line count, first line.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printCopyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview copy <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy the full code of one block to the clipboard.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -n, --number <n>          Block number, as listed by 'mdview blocks' (default: 1)")
	fmt.Fprintln(w, "      --clipboard <mode>    auto, system, osc52 (default: auto)")
	fmt.Fprintln(w, "  -p, --print               Also print the block with line numbers")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview preview <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load rendered pages in headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "  -o, --output <path>       Screenshot file (directory for several inputs)")
	fmt.Fprintln(w, "  -g, --goto <id>           Scroll to the heading with this id")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w, "      --browser-timeout <d> Page load timeout (default: 30s)")
	fmt.Fprintln(w, "      --width <px>          Viewport width (default: 1024)")
	fmt.Fprintln(w, "      --height <px>         Viewport height (default: 768)")
	fmt.Fprintln(w)
	printPageUsage(w)
	printCommonUsage(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /markdown/{render,toc,code-blocks,page} and GET /healthz.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default: :8080)")
	fmt.Fprintln(w, "      --allow-all-origins   Allow CORS requests from any origin")
	fmt.Fprintln(w, "      --origin <url>        Allowed CORS origin (repeatable)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve render_markdown, extract_toc and extract_code_blocks over stdio.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(mdview completion bash)\"   # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(mdview completion zsh)\"    # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  mdview completion fish > ~/.config/fish/completions/mdview.fish")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "toc":
		printTOCUsage(env.Stdout)
	case "blocks":
		printBlocksUsage(env.Stdout)
	case "copy":
		printCopyUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "mcp":
		printMCPUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdview doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check clipboard support, Chrome availability, and built-in assets.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
