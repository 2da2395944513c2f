package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/browser"
	"github.com/alnah/go-mdview/internal/fileutil"
)

// BrowserPool abstracts browser pool operations for testability.
type BrowserPool interface {
	Acquire() (*browser.Browser, error)
	Release(*browser.Browser)
	Size() int
}

var _ BrowserPool = (*browser.Pool)(nil)

// previewParams groups parameters shared across previewed files.
type previewParams struct {
	svc     *mdview.Service
	env     *Environment
	opts    mdview.PageOptions
	gotoID  string
	maxSize int
}

// previewJob is one input and its screenshot path ("" = none).
type previewJob struct {
	InputPath  string
	OutputPath string
}

// previewResult holds the outcome of a single preview.
type previewResult struct {
	InputPath   string
	OutputPath  string
	CopyButtons int
	Scrolled    bool
	ScrollY     float64
	Err         error
	Duration    time.Duration
}

// runPreview loads each input as a page in headless Chrome, optionally
// scrolls to a heading and takes a viewport screenshot.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parsePreviewFlags(args, env)
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		return ErrNoInput
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}
	mergePageFlags(&flags.page, rc.cfg)

	timeout := rc.cfg.BrowserTimeout()
	if flags.browserTimeout != "" {
		timeout, err = time.ParseDuration(flags.browserTimeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("%w: --browser-timeout %q", ErrUsage, flags.browserTimeout)
		}
	}

	workers := flags.workers
	if workers == 0 {
		workers = rc.env.Workers
	}
	size := browser.ResolvePoolSize(workers)
	if size > len(pos) {
		size = len(pos)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", size)
	}

	pool := browser.NewPool(size, browser.Options{
		Bin:     rc.cfg.Browser.Bin,
		Timeout: timeout,
		Width:   flags.width,
		Height:  flags.height,
	})
	defer func() {
		if err := pool.Close(); err != nil {
			rc.logger.Warn("closing browsers", "error", err)
		}
	}()

	params := &previewParams{
		svc: rc.svc,
		env: env,
		opts: mdview.PageOptions{
			Title:   flags.page.title,
			ShowTOC: rc.cfg.Page.ShowTOC,
			Style:   rc.cfg.Page.Style,
		},
		gotoID:  flags.gotoID,
		maxSize: rc.cfg.Render.MaxInputSize,
	}

	results := previewBatch(ctx, pool, previewJobs(pos, flags.output), params)
	return printPreviewResults(results, flags.common, env)
}

// previewJobs maps inputs to screenshot paths. With one input, output is
// the file itself; with several, a directory receiving <name>.png.
func previewJobs(inputs []string, output string) []previewJob {
	jobs := make([]previewJob, len(inputs))
	for i, in := range inputs {
		jobs[i] = previewJob{InputPath: in}
		switch {
		case output == "":
		case len(inputs) == 1:
			jobs[i].OutputPath = output
		default:
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			jobs[i].OutputPath = filepath.Join(output, base+".png")
		}
	}
	return jobs
}

// previewBatch processes jobs concurrently, one browser per worker.
func previewBatch(ctx context.Context, pool BrowserPool, jobs []previewJob, params *previewParams) []previewResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]previewResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			b, err := pool.Acquire()
			if err != nil {
				for idx := range queue {
					results[idx] = previewResult{InputPath: jobs[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(b)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = previewResult{InputPath: jobs[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = previewFile(ctx, b, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// previewFile renders one input, loads it and drives the page.
func previewFile(ctx context.Context, b *browser.Browser, job previewJob, params *previewParams) previewResult {
	start := time.Now()
	result := previewResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	fail := func(err error) previewResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := readMarkdown(job.InputPath, params.env, params.maxSize)
	if err != nil {
		return fail(err)
	}

	opts := params.opts
	if job.InputPath != fileutil.StdinPath {
		if abs, err := filepath.Abs(job.InputPath); err == nil {
			opts.SourceDir = filepath.Dir(abs)
		}
	}
	page, err := params.svc.Page(ctx, content, opts)
	if err != nil {
		return fail(err)
	}

	bp, err := b.OpenHTML(ctx, page.HTML)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = bp.Close() }()

	if result.CopyButtons, err = bp.CopyButtonCount(ctx); err != nil {
		return fail(err)
	}

	if params.gotoID != "" {
		nav := mdview.NewNavigator(page.Result.TOC, bp, mdview.WithScrollBehavior(mdview.ScrollInstant))
		result.Scrolled = nav.Select(ctx, params.gotoID)
		if y, err := bp.ScrollY(ctx); err == nil {
			result.ScrollY = y
		}
	}

	if job.OutputPath != "" {
		png, err := bp.Screenshot(ctx)
		if err != nil {
			return fail(err)
		}
		if err := writeOutput(job.OutputPath, png, params.env); err != nil {
			return fail(err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// printPreviewResults reports each preview and returns the first failure,
// annotated with the failure count.
func printPreviewResults(results []previewResult, common commonFlags, env *Environment) error {
	var failed int
	var first error
	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if common.quiet {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s: %d copy buttons", r.InputPath, r.CopyButtons)
		if r.Scrolled {
			fmt.Fprintf(&b, ", scrolled to y=%.0f", r.ScrollY)
		}
		if r.OutputPath != "" {
			fmt.Fprintf(&b, " -> %s", r.OutputPath)
		}
		if common.verbose {
			fmt.Fprintf(&b, " (%v)", r.Duration.Round(time.Millisecond))
		}
		fmt.Fprintln(env.Stdout, b.String())
	}

	if first == nil {
		return nil
	}
	if len(results) == 1 {
		return first
	}
	return fmt.Errorf("%d of %d previews failed: %w", failed, len(results), first)
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 || n > browser.MaxPoolSize {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, browser.MaxPoolSize)
	}
	return nil
}
