package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
)

// runCopy copies one code block of the input to the clipboard.
func runCopy(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseCopyFlags(args, env)
	if err != nil {
		return err
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}
	if flags.clipboard != "" {
		rc.cfg.Clipboard.Mode = strings.ToLower(flags.clipboard)
		if err := rc.cfg.Validate(); err != nil {
			return err
		}
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
	if flags.index < 1 || flags.index > len(blocks) {
		return fmt.Errorf("%w: block %d requested, %s has %d", ErrBlockIndex, flags.index, path, len(blocks))
	}

	mode := rc.cfg.Clipboard.Mode
	if mode == "" {
		mode = config.ClipboardAuto
	}

	var copyErr error
	view := mdview.NewCodeBlockView(blocks[flags.index-1], env.NewClipboard(mode, env),
		mdview.WithLogger(rc.logger),
		mdview.WithCopyErrorHandler(func(err error) { copyErr = err }),
	)
	defer view.Close()

	if flags.print {
		for _, line := range view.Lines() {
			fmt.Fprintf(env.Stdout, "%4d  %s\n", line.Number, line.Text)
		}
	}

	if !view.Copy(ctx) {
		if copyErr == nil {
			copyErr = ctx.Err()
		}
		if copyErr == nil {
			copyErr = errors.New("copy not confirmed")
		}
		return fmt.Errorf("%w: %v", ErrCopy, copyErr)
	}

	if !flags.common.quiet && view.Phase() == mdview.PhaseCopied {
		fmt.Fprintf(env.Stderr, "Copied block %d (%s, %d lines)\n",
			flags.index, view.DisplayLanguage(), len(view.Lines()))
	}
	return nil
}
