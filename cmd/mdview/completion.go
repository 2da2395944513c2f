package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdview/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Desc   string
	Bool   bool
	Values []string // enum values
	Files  string   // file glob, "" = none
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool
}

// flagValues maps flag names to their fixed values.
var flagValues = map[string]func() []string{
	"format":    func() []string { return []string{formatHTML, formatJSON, formatPage} },
	"clipboard": func() []string { return []string{"auto", "system", "osc52"} },
	"theme":     assets.Themes,
	"style":     func() []string { return assets.NewEmbeddedLoader().Styles() },
}

// flagFiles maps flag names to file globs.
var flagFiles = map[string]string{
	"config": "*.yaml",
	"output": "*",
}

// extractFlags converts a FlagSet into completion definitions.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
			Bool:  f.Value.Type() == "bool",
		}
		if values, ok := flagValues[f.Name]; ok {
			fd.Values = values()
		}
		fd.Files = flagFiles[f.Name]
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
// Flags come from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "render", Desc: "Render markdown to HTML", Flags: extractFlags(buildRenderFlagSet(&renderCmdFlags{})), TakesFiles: true},
		{Name: "toc", Desc: "Print the table of contents", Flags: extractFlags(buildListFlagSet("toc", &listCmdFlags{})), TakesFiles: true},
		{Name: "blocks", Desc: "List code blocks", Flags: extractFlags(buildListFlagSet("blocks", &listCmdFlags{})), TakesFiles: true},
		{Name: "copy", Desc: "Copy a code block to the clipboard", Flags: extractFlags(buildCopyFlagSet(&copyCmdFlags{})), TakesFiles: true},
		{Name: "preview", Desc: "Load pages in headless Chrome", Flags: extractFlags(buildPreviewFlagSet(&previewCmdFlags{})), TakesFiles: true},
		{Name: "serve", Desc: "Serve the HTTP API", Flags: extractFlags(buildServeFlagSet(&serveCmdFlags{}))},
		{Name: "mcp", Desc: "Serve MCP tools on stdio", Flags: extractFlags(buildMCPFlagSet(&listCmdFlags{}))},
		{Name: "doctor", Desc: "Check system configuration", Flags: []flagDef{{Long: "json", Desc: "output JSON", Bool: true}}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder
	b.WriteString("# bash completion for mdview\n")
	b.WriteString("_mdview() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, fd := range enumFlags(cmds) {
		fmt.Fprintf(&b, "        --%s)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            return ;;\n",
			fd.Long, strings.Join(fd.Values, " "))
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		fmt.Fprintf(&b, "            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", flagWords(c.Flags))
		if c.TakesFiles {
			b.WriteString("            else\n")
			b.WriteString("                COMPREPLY=($(compgen -f -X '!*.@(md|markdown)' -- \"$cur\") $(compgen -d -- \"$cur\"))\n")
		}
		b.WriteString("            fi ;;\n")
	}
	b.WriteString("        completion)\n            COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\")) ;;\n")
	b.WriteString("    esac\n}\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _mdview mdview\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder
	b.WriteString("#compdef mdview\n\n")
	b.WriteString("_mdview() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n            _arguments \\\n", c.Name)
		for _, fd := range c.Flags {
			arg := "--" + fd.Long + "[" + zshEscape(fd.Desc) + "]"
			switch {
			case fd.Bool:
			case len(fd.Values) > 0:
				arg += ":" + fd.Long + ":(" + strings.Join(fd.Values, " ") + ")"
			case fd.Files != "":
				arg += ":file:_files"
			default:
				arg += ":" + fd.Long + ":"
			}
			fmt.Fprintf(&b, "                '%s' \\\n", arg)
		}
		if c.TakesFiles {
			b.WriteString("                '*:markdown file:_files -g \"*.(md|markdown)\"'\n")
		} else {
			b.WriteString("                && return\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("        completion)\n            _values 'shell' bash zsh fish ;;\n")
	b.WriteString("    esac\n}\n\n")
	b.WriteString("_mdview \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder
	b.WriteString("# fish completion for mdview\n")
	b.WriteString("complete -c mdview -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c mdview -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_seen_subcommand_from %s", c.Name)
		for _, fd := range c.Flags {
			line := fmt.Sprintf("complete -c mdview -n '%s' -l %s", cond, fd.Long)
			if fd.Short != "" {
				line += " -s " + fd.Short
			}
			switch {
			case fd.Bool:
			case len(fd.Values) > 0:
				line += " -x -a '" + strings.Join(fd.Values, " ") + "'"
			case fd.Files != "":
				line += " -r -F"
			default:
				line += " -x"
			}
			line += " -d '" + fishEscape(fd.Desc) + "'"
			b.WriteString(line + "\n")
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c mdview -n '%s' -a '(__fish_complete_suffix .md)'\n", cond)
		}
	}
	b.WriteString("complete -c mdview -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, fd := range flags {
		words = append(words, "--"+fd.Long)
		if fd.Short != "" {
			words = append(words, "-"+fd.Short)
		}
	}
	return strings.Join(words, " ")
}

// enumFlags returns each flag with fixed values once, sorted by name.
func enumFlags(cmds []commandDef) []flagDef {
	seen := map[string]flagDef{}
	for _, c := range cmds {
		for _, fd := range c.Flags {
			if len(fd.Values) > 0 {
				seen[fd.Long] = fd
			}
		}
	}
	out := make([]flagDef, 0, len(seen))
	for _, fd := range seen {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Long < out[j].Long })
	return out
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}
