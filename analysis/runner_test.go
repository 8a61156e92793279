// Copyright © 2024 The ruby-lint authors

package analysis

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunner_ResolveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.rb", "x = 1\nx\n")

	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	files, err := r.Resolve([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestRunner_ResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rb", "x = 1\n")
	b := writeFile(t, dir, "b.rlint", "(int 1)")
	writeFile(t, dir, "notes.txt", "not ruby")
	writeFile(t, dir, "nested/c.rb", "y = 2\n")

	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	files, err := r.Resolve([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestRunner_ResolveRecursive(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rb", "x = 1\n")
	c := writeFile(t, dir, "lib/c.rb", "y = 2\n")
	writeFile(t, dir, "vendor/bundle/gem.rb", "z = 3\n")
	writeFile(t, dir, ".git/hook.rb", "h = 4\n")
	writeFile(t, dir, "tmp/scratch.rb", "s = 5\n")

	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	files, err := r.Resolve([]string{dir + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, files)
}

func TestRunner_ResolveGlob(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rb", "x = 1\n")
	b := writeFile(t, dir, "b.rb", "y = 2\n")
	writeFile(t, dir, "c.txt", "not ruby")

	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	files, err := r.Resolve([]string{filepath.Join(dir, "*.rb")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestRunner_Exclude(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "app.rb", "x = 1\n")
	writeFile(t, dir, "app_test.rb", "y = 2\n")

	r, err := NewRunner(nil, []string{"*_test.rb"})
	require.NoError(t, err)
	files, err := r.Resolve([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestRunner_BadExcludePattern(t *testing.T) {
	_, err := NewRunner(nil, []string{"["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude pattern")
}

func TestRunner_MissingArgument(t *testing.T) {
	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	_, err = r.Resolve([]string{"no-such-file.rb"})
	assert.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	one := writeFile(t, dir, "one.rb", "x = 1\n")
	two := writeFile(t, dir, "two.rb", "y = 2\ny\nstale = 3\n")

	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	diags, err := r.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, one, diags[0].Pos.File)
	assert.Contains(t, diags[0].Message, "unused local variable x")
	assert.Equal(t, two, diags[1].Pos.File)
	assert.Equal(t, 3, diags[1].Pos.Line)
}

func TestRunner_Run_SkipsBroken(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.rb", "a = 1\n")
	writeFile(t, dir, "bad.rlint", "(((")

	var buf bytes.Buffer
	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	r.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	diags, err := r.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unused local variable a")
	assert.Contains(t, buf.String(), "skipping file")
}

func TestRunner_Run_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.rb", "x = 1\n")

	r, err := NewRunner(nil, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}
