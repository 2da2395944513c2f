// Package mdview renders Markdown to HTML and makes the result
// interactive: code blocks get copy-to-clipboard controls with a transient
// "copied" confirmation, and headings get a table of contents that scrolls
// to its target.
//
// # Quick Start
//
// Render markdown and wrap it in a document view:
//
//	svc, err := mdview.NewService()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := svc.Render(ctx, mdview.RenderRequest{Content: "# Hello\n\n```go\nfmt.Println()\n```"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	view, err := mdview.NewDocumentView(mdview.DocumentProps{
//	    Content: result.HTML,
//	    ShowTOC: true,
//	    TOC:     result.TOC,
//	}, mdview.NewSystemClipboard())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer view.Close()
//
//	view.CopyBlock(ctx, 0)
//	view.NavigateTo(ctx, "hello")
//
// # Components
//
// CodeBlockView renders one block with line numbers and a copy button.
// Augmenter attaches copy buttons to the <pre> elements of HTML it did not
// produce; scanning the same tree twice never adds a second button.
// Navigator renders the table of contents and scrolls a ScrollTarget.
// DocumentView combines the last two over one piece of content.
//
// # Copy Feedback
//
// A successful copy switches the control to PhaseCopied for
// FeedbackWindow (2s). Copying again restarts the window. Closing a view
// cancels the pending revert. Clipboard failures are never returned; they
// reach the handler set with WithCopyErrorHandler and the logger.
//
// # Navigation
//
// Selecting an entry whose element does not exist does nothing. Use
// WithScrollTarget to drive a live page instead of the parsed tree.
//
// # Rendering Pipeline
//
//  1. Size check against RenderOptions.MaxInputSize
//  2. YAML frontmatter split into RenderResult.Metadata
//  3. Markdown preprocessing (line endings, ==highlight==)
//  4. Goldmark conversion (GFM, footnotes, chroma highlighting, heading IDs)
//  5. HTML sanitizing with bluemonday
//
// Service.Page wraps the result in a standalone HTML page.
//
// # Error Handling
//
// Errors wrap sentinels and can be checked with errors.Is:
//
//	if errors.Is(err, mdview.ErrInputTooLarge) {
//	    // reject the request
//	}
package mdview
