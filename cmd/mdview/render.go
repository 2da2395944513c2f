package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/indent"

	"github.com/alnah/go-mdview"
)

// tocIndentWidth is the terminal indent per heading level.
const tocIndentWidth = 2

// runRender converts one markdown input to HTML, JSON, or a full page.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseRenderFlags(args, env)
	if err != nil {
		return err
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}
	mergePageFlags(&flags.page, rc.cfg)

	path, err := inputPath(pos)
	if err != nil {
		return err
	}
	content, err := readMarkdown(path, env, rc.cfg.Render.MaxInputSize)
	if err != nil {
		return err
	}

	var out []byte
	switch flags.format {
	case formatPage:
		page, err := rc.svc.Page(ctx, content, mdview.PageOptions{
			Title:   flags.page.title,
			ShowTOC: rc.cfg.Page.ShowTOC,
			Style:   rc.cfg.Page.Style,
		})
		if err != nil {
			return err
		}
		out = []byte(page.HTML)
	case formatJSON:
		result, err := rc.svc.Render(ctx, mdview.RenderRequest{Content: content})
		if err != nil {
			return err
		}
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		out = append(out, '\n')
	default:
		result, err := rc.svc.Render(ctx, mdview.RenderRequest{Content: content})
		if err != nil {
			return err
		}
		out = []byte(result.HTML)
	}

	if err := writeOutput(flags.output, out, env); err != nil {
		return err
	}
	if flags.output != "" && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Created %s\n", flags.output)
	}
	return nil
}

// runTOC prints the heading outline of one input.
func runTOC(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseListFlags("toc", args, env, printTOCUsage)
	if err != nil {
		return err
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}
	path, err := inputPath(pos)
	if err != nil {
		return err
	}
	content, err := readMarkdown(path, env, rc.cfg.Render.MaxInputSize)
	if err != nil {
		return err
	}

	toc, err := rc.svc.ExtractTOC(ctx, content)
	if err != nil {
		return err
	}
	if flags.json {
		if toc == nil {
			toc = []mdview.TOCEntry{}
		}
		return writeJSON(env.Stdout, map[string]any{"toc": toc})
	}
	printTOC(env.Stdout, toc)
	return nil
}

// printTOC writes one line per heading, indented by level.
func printTOC(w io.Writer, toc []mdview.TOCEntry) {
	for _, e := range toc {
		line := fmt.Sprintf("- %s (#%s)", e.Text, e.ID)
		fmt.Fprintln(w, indent.String(line, uint((e.Level-1)*tocIndentWidth)))
	}
}

// runBlocks lists the fenced code blocks of one input.
func runBlocks(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseListFlags("blocks", args, env, printBlocksUsage)
	if err != nil {
		return err
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}
	path, err := inputPath(pos)
	if err != nil {
		return err
	}
	content, err := readMarkdown(path, env, rc.cfg.Render.MaxInputSize)
	if err != nil {
		return err
	}

	blocks, err := rc.svc.ExtractCodeBlocks(ctx, content)
	if err != nil {
		return err
	}
	if flags.json {
		if blocks == nil {
			blocks = []mdview.CodeBlock{}
		}
		return writeJSON(env.Stdout, map[string]any{"code_blocks": blocks})
	}
	return printBlocks(env.Stdout, blocks)
}

// printBlocks writes a numbered table: number, language, lines, first line.
func printBlocks(w io.Writer, blocks []mdview.CodeBlock) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, b := range blocks {
		view := mdview.NewCodeBlockView(b, nil)
		first, _, _ := strings.Cut(b.Code, "\n")
		fmt.Fprintf(tw, "%d\t%s\t%d lines\t%s\n", i+1, view.DisplayLanguage(), b.LineCount, first)
		view.Close()
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
