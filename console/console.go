// Copyright © 2024 The ruby-lint authors

// Package console is an interactive explorer for the definition graph of a
// single analyzed file.  It parses the file, runs the engine and the checks
// once, and then answers queries against the frozen graph.
package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"github.com/h2dkb/ruby-lint/analysis"
)

type config struct {
	stdin   io.ReadCloser
	stdout  io.WriteCloser
	history string
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option adjusts console wiring, mostly for tests.
type Option func(*config)

// WithStdin overrides the input of the console.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout overrides the output of the console.
func WithStdout(stdout io.WriteCloser) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithHistoryFile overrides the readline history location.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// Run analyzes the file at path and enters the interactive loop.
func Run(ctx context.Context, path string, opts ...Option) error {
	result, err := analysis.NewLinter().AnalyzeFile(ctx, path)
	if err != nil {
		return err
	}
	return RunResult(result, opts...)
}

// RunResult enters the interactive loop over a finished analysis.
func RunResult(result *analysis.Result, opts ...Option) error {
	cfg := newConfig(opts...)
	history := cfg.history
	if history == "" {
		history = historyPath()
	}

	rlCfg := &readline.Config{
		Prompt:            "rlint> ",
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &pathCompleter{root: result.Machine.Root()},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	if cfg.stdout != nil {
		rlCfg.Stdout = cfg.stdout
		rlCfg.Stderr = cfg.stdout
	}
	ensureHistoryFilePermissions(history)
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	out := io.Writer(os.Stdout)
	if cfg.stdout != nil {
		out = cfg.stdout
	}
	c := &console{result: result, out: out}
	fmt.Fprintf(out, "%s: %d diagnostics (help lists commands)\n",
		result.Source.Name, len(result.Diagnostics))

	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			// Ctrl-C drops the partial line and prompts again.
			continue
		}
		if err != nil {
			// Ctrl-D and closed input end the session.
			break
		}
		cmd := string(bytes.TrimSpace(line))
		if cmd == "" {
			continue
		}
		if c.dispatch(cmd) {
			break
		}
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ruby-lint_history")
}

// ensureHistoryFilePermissions keeps the history file private: command
// lines can contain local paths.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0600)
	if err != nil {
		return
	}
	f.Close() //nolint:errcheck // read-only handle
	_ = os.Chmod(path, 0600)
}
