package main

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, process environment, and clipboard construction.
type Environment struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// IsTerminal reports whether stderr is attached to a terminal, which
	// is where OSC 52 sequences are written.
	IsTerminal func() bool

	// NewClipboard builds the writer used by the copy command.
	NewClipboard func(mode string, env *Environment) mdview.ClipboardWriter

	// SystemClipboardSupported reports whether an OS clipboard utility exists.
	SystemClipboardSupported func() bool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd()))
		},
		NewClipboard:             newClipboard,
		SystemClipboardSupported: mdview.SystemClipboardSupported,
	}
}

// newClipboard selects clipboard writers for mode. In auto mode an SSH
// session prefers OSC 52, since the OS clipboard would be the remote
// host's; otherwise the OS clipboard is tried first. OSC 52 is only
// used when stderr is a terminal.
func newClipboard(mode string, env *Environment) mdview.ClipboardWriter {
	switch mode {
	case config.ClipboardSystem:
		return mdview.NewSystemClipboard()
	case config.ClipboardOSC52:
		return mdview.NewTerminalClipboard(env.Stderr)
	}

	var osc mdview.ClipboardWriter
	if env.IsTerminal() {
		osc = mdview.NewTerminalClipboard(env.Stderr)
	}
	if inSSHSession(env.Getenv) {
		return mdview.ClipboardChain(osc, mdview.NewSystemClipboard())
	}
	return mdview.ClipboardChain(mdview.NewSystemClipboard(), osc)
}

func inSSHSession(getenv func(string) string) bool {
	return getenv("SSH_TTY") != "" || getenv("SSH_CONNECTION") != ""
}
