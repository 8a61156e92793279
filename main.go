// Copyright © 2024 The ruby-lint authors

package main

import "github.com/h2dkb/ruby-lint/cmd"

func main() {
	cmd.Execute()
}
