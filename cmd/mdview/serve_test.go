package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunServe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantStderr string
	}{
		{name: "positional argument", args: []string{"doc.md"}, wantErr: ErrUsage},
		{name: "bad flag", args: []string{"--port", "80"}, wantErr: ErrUsage},
		{name: "stops on cancel", args: []string{"-a", "127.0.0.1:0"}, wantStderr: "Serving on 127.0.0.1:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := runServe(ctx, tt.args, env.Environment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("runServe() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("runServe() unexpected error: %v", err)
			}
			if !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunServe_EnvAddr(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.vars["MDVIEW_ADDR"] = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runServe(ctx, []string{"-q"}, env.Environment); err != nil {
		t.Fatalf("runServe() unexpected error: %v", err)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty with --quiet", env.stderr.String())
	}
}
