package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-mdview/internal/mcpserver"
	"github.com/alnah/go-mdview/internal/server"
)

// runServe starts the HTTP API and blocks until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseServeFlags(args, env)
	if err != nil {
		return err
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}

	if flags.addr != "" {
		rc.cfg.Server.Addr = flags.addr
	}
	if flags.allowAllOrigins {
		rc.cfg.Server.AllowAllOrigins = true
	}
	if len(flags.origins) > 0 {
		rc.cfg.Server.AllowedOrigins = flags.origins
	}
	if err := rc.cfg.Validate(); err != nil {
		return err
	}

	var accessLog io.Writer
	if flags.common.verbose {
		accessLog = env.Stderr
	}
	srv := server.New(server.Config{
		Addr:            rc.cfg.Server.Addr,
		AllowAllOrigins: rc.cfg.Server.AllowAllOrigins,
		AllowedOrigins:  rc.cfg.Server.AllowedOrigins,
		MaxBodyBytes:    int64(rc.cfg.Render.MaxInputSize) * 2,
		Logger:          rc.logger,
		AccessLog:       accessLog,
	}, rc.svc)

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Serving on %s\n", srv.Addr())
	}
	return srv.ListenAndServe(ctx)
}

// runMCP serves the markdown tools over stdio. Stdout belongs to the
// protocol; diagnostics go to stderr.
func runMCP(_ context.Context, args []string, env *Environment) error {
	flags, err := parseMCPFlags(args, env)
	if err != nil {
		return err
	}
	rc, err := prepare(&flags.common, &flags.render, env)
	if err != nil {
		return err
	}

	mcpserver.Version = Version
	return mcpserver.NewServer(rc.svc).Serve()
}
