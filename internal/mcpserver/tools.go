package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

var renderMarkdownTool = mcp.NewTool("render_markdown",
	mcp.WithDescription("Render markdown to sanitized HTML. Returns JSON with html, toc, metadata, and code_blocks."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Markdown source, optionally starting with YAML frontmatter"),
	),
)

var extractTOCTool = mcp.NewTool("extract_toc",
	mcp.WithDescription("List the headings of a markdown document with their level, text, and anchor id."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Markdown source"),
	),
)

var extractCodeBlocksTool = mcp.NewTool("extract_code_blocks",
	mcp.WithDescription("List the fenced code blocks of a markdown document with their language and line count."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Markdown source"),
	),
)
