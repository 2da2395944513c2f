// Package pipeline implements the markdown stages that run before a
// document is augmented:
//   - preprocessing (line endings, ==highlight== syntax)
//   - YAML frontmatter extraction
//   - markdown to HTML conversion via goldmark, with chroma highlighting
//     that keeps the language-<id> class on every code element
//   - heading and code block extraction from the goldmark AST
//   - HTML sanitizing via bluemonday
//   - relative path rewriting for previews loaded from disk
//
// Copy controls and TOC navigation are handled by the root mdview package
// on the HTML this package produces.
package pipeline
