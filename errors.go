package mdview

import "errors"

// Sentinel errors for library operations.
var (
	ErrInputTooLarge  = errors.New("markdown content exceeds maximum size")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrParseContent   = errors.New("failed to parse HTML content")
	ErrPageRender     = errors.New("page template rendering failed")

	// Clipboard errors. Copy operations never return these; they reach
	// the handler registered with WithCopyErrorHandler.
	ErrNoClipboard    = errors.New("no clipboard writer configured")
	ErrClipboardWrite = errors.New("clipboard write failed")
	ErrCopyPanic      = errors.New("clipboard writer panicked")

	// Navigation errors.
	ErrElementNotFound = errors.New("element not found")

	// Options validation errors.
	ErrInvalidMaxInputSize = errors.New("invalid maximum input size")
	ErrInvalidTheme        = errors.New("invalid code theme")
)
