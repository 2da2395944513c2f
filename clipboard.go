package mdview

import (
	"io"

	"github.com/alnah/go-mdview/internal/clipboard"
)

// NewSystemClipboard returns a ClipboardWriter backed by the operating
// system clipboard. Writes fail when no clipboard utility is installed.
func NewSystemClipboard() ClipboardWriter {
	return clipboard.NewSystem()
}

// SystemClipboardSupported reports whether a system clipboard utility
// was found.
func SystemClipboardSupported() bool {
	return clipboard.NewSystem().Supported()
}

// NewTerminalClipboard returns a ClipboardWriter emitting the OSC 52
// escape sequence to out, wrapped for tmux or screen when detected.
func NewTerminalClipboard(out io.Writer) ClipboardWriter {
	return clipboard.NewOSC52(out)
}

// ClipboardChain tries each writer in order until one succeeds.
func ClipboardChain(writers ...ClipboardWriter) ClipboardWriter {
	chain := make(clipboard.Fallback, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			chain = append(chain, w)
		}
	}
	return chain
}
