// Package mcpserver exposes markdown rendering as Model Context Protocol tools.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/alnah/go-mdview"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Renderer is the part of mdview.Service the tools call.
type Renderer interface {
	Render(ctx context.Context, req mdview.RenderRequest) (*mdview.RenderResult, error)
	ExtractTOC(ctx context.Context, content string) ([]mdview.TOCEntry, error)
	ExtractCodeBlocks(ctx context.Context, content string) ([]mdview.CodeBlock, error)
}

var _ Renderer = (*mdview.Service)(nil)

// Server wraps an MCP server exposing the markdown tools.
type Server struct {
	renderer Renderer
	mcp      *server.MCPServer
}

// NewServer creates an MCP server backed by renderer.
func NewServer(renderer Renderer) *Server {
	s := &Server{renderer: renderer}

	s.mcp = server.NewMCPServer(
		"mdview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(renderMarkdownTool, s.handleRenderMarkdown)
	s.mcp.AddTool(extractTOCTool, s.handleExtractTOC)
	s.mcp.AddTool(extractCodeBlocksTool, s.handleExtractCodeBlocks)

	return s
}

// Serve runs the server on stdio. Stdout carries protocol messages, so
// logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
