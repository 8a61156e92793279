// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/h2dkb/ruby-lint/console"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console FILE",
	Short: "Explore a file's definition graph interactively",
	Long: `Explore a file's definition graph interactively.

The file is analyzed once and the console answers queries against the frozen
graph. Line editing, tab completion on definition paths, and in-session
command history are supported via readline. Use Ctrl-D or exit to leave.

Example session:
  $ ruby-lint console app.rb
  app.rb: 2 diagnostics (help lists commands)
  rlint> lookup Order#total
  instance method Order#total
    source      app.rb:12:3
    visibility  public
    signature   (items, discount = ?)
    arity       1..2
  rlint> members Order imethod
  instance method  total
  instance method  apply_discount
  rlint> callers Order#total
  app.rb:40:5              (top level)
  rlint> diag
  ...
  rlint> exit`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := console.Run(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "ruby-lint console: %v\n", err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
