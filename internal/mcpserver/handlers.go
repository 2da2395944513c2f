package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alnah/go-mdview"
)

func (s *Server) handleRenderMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	result, err := s.renderer.Render(ctx, mdview.RenderRequest{Content: content})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (s *Server) handleExtractTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	toc, err := s.renderer.ExtractTOC(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extract failed: %v", err)), nil
	}
	if toc == nil {
		toc = []mdview.TOCEntry{}
	}
	return jsonResult(map[string]any{"toc": toc})
}

func (s *Server) handleExtractCodeBlocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	blocks, err := s.renderer.ExtractCodeBlocks(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extract failed: %v", err)), nil
	}
	if blocks == nil {
		blocks = []mdview.CodeBlock{}
	}
	return jsonResult(map[string]any{"code_blocks": blocks})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
