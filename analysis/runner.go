// Copyright © 2024 The ruby-lint authors

package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/h2dkb/ruby-lint/parser"
)

// Runner resolves command line arguments into source files and lints each
// one.  Arguments may name files, glob patterns, or directories; a
// directory suffixed /... is walked recursively.
type Runner struct {
	Linter *Linter

	// Logger receives scan warnings and skipped file notices.  nil means
	// slog.Default.
	Logger *slog.Logger

	exclude []glob.Glob
}

// NewRunner returns a runner over the given linter, nil selecting the
// default analyzer set.  Files matching an exclude pattern, by slash
// separated path or by base name, are never linted.
func NewRunner(linter *Linter, exclude []string) (*Runner, error) {
	if linter == nil {
		linter = NewLinter()
	}
	r := &Runner{Linter: linter}
	for _, pat := range exclude {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pat, err)
		}
		r.exclude = append(r.exclude, g)
	}
	return r, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run lints every file the arguments resolve to and returns the combined
// diagnostics sorted by position.  Files that fail to read or parse are
// logged and skipped; resolution problems fail the run.
func (r *Runner) Run(ctx context.Context, args []string) ([]Diagnostic, error) {
	files, err := r.Resolve(args)
	if err != nil {
		return nil, err
	}
	var all []Diagnostic
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		diags, err := r.Linter.LintFile(ctx, path)
		if err != nil {
			r.logger().Warn("skipping file", "path", path, "err", err)
			continue
		}
		all = append(all, diags...)
	}
	sortDiagnostics(all)
	return all, nil
}

// Resolve expands arguments into a sorted, deduplicated file list.
func (r *Runner) Resolve(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if seen[path] || r.excluded(path) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}
	for _, arg := range args {
		switch {
		case strings.HasSuffix(arg, "/..."):
			root := strings.TrimSuffix(arg, "/...")
			if root == "" {
				root = "."
			}
			if err := r.walk(root, add); err != nil {
				return nil, err
			}
		case strings.ContainsAny(arg, "*?["):
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("pattern %s: %w", arg, err)
			}
			for _, m := range matches {
				if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() && Lintable(m) {
					add(m)
				}
			}
		default:
			info, err := os.Stat(arg)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(arg)
				continue
			}
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if path := filepath.Join(arg, e.Name()); !e.IsDir() && Lintable(path) {
					add(path)
				}
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// walk collects lintable files under root, skipping dependency trees and
// scratch directories.
func (r *Runner) walk(root string, add func(string)) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			r.logger().Warn("skipping path", "path", path, "err", err)
			return nil
		}
		if info.IsDir() {
			if path != root && IgnoredDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() && Lintable(path) {
			add(path)
		}
		return nil
	})
}

// IgnoredDir reports whether a directory never holds project sources:
// hidden directories, dependency trees, and scratch space.
func IgnoredDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	switch name {
	case "vendor", "node_modules", "tmp":
		return true
	}
	return false
}

// Lintable reports whether a file belongs in a lint run: Ruby sources and
// parse tree dumps.
func Lintable(path string) bool {
	return parser.IsRubyFile(path) || parser.IsDumpFile(path)
}

// excluded reports whether a path matches any exclude pattern.
func (r *Runner) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range r.exclude {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}
