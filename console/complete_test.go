// Copyright © 2024 The ruby-lint authors

package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// complete runs the completer with the cursor at the end of line and returns
// the suggested suffixes.
func complete(c *pathCompleter, line string) ([]string, int) {
	runes := []rune(line)
	got, n := c.Do(runes, len(runes))
	out := make([]string, 0, len(got))
	for _, r := range got {
		out = append(out, string(r))
	}
	return out, n
}

func TestCompleteCommands(t *testing.T) {
	c := &pathCompleter{root: testRoot(t)}

	got, n := complete(c, "loo")
	assert.Equal(t, []string{"kup"}, got)
	assert.Equal(t, 3, n)

	got, _ = complete(c, "c")
	assert.Equal(t, []string{"allers", "alls"}, got)
}

func TestCompleteConstant(t *testing.T) {
	c := &pathCompleter{root: testRoot(t)}

	got, n := complete(c, "lookup Gree")
	assert.Equal(t, []string{"ter"}, got)
	assert.Equal(t, 4, n)
}

func TestCompleteInstanceMembers(t *testing.T) {
	c := &pathCompleter{root: testRoot(t)}

	// After # both instance methods and variables complete.
	got, _ := complete(c, "lookup Greeter#gr")
	assert.Equal(t, []string{"eet"}, got)

	got, _ = complete(c, "lookup Greeter#@")
	assert.Equal(t, []string{"name"}, got)
}

func TestCompleteSingletonMethod(t *testing.T) {
	c := &pathCompleter{root: testRoot(t)}

	got, n := complete(c, "lookup Greeter.n")
	assert.Equal(t, []string{"ew"}, got)
	assert.Equal(t, 9, n)
}

func TestCompleteGlobals(t *testing.T) {
	c := &pathCompleter{root: testRoot(t)}

	got, _ := complete(c, "lookup $st")
	assert.Equal(t, []string{"derr", "din", "dout"}, got)
}

func TestCompleteNothing(t *testing.T) {
	c := &pathCompleter{root: testRoot(t)}

	got, n := complete(c, "lookup ")
	assert.Empty(t, got)
	assert.Equal(t, 0, n)

	got, _ = complete(c, "lookup Nope#x")
	assert.Empty(t, got)
}
