// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/h2dkb/ruby-lint/lsp"
)

var (
	lspStdio bool
	lspTCP   string
)

var lspCmd = &cobra.Command{
	Use:   "lsp [flags]",
	Short: "Start the Ruby language server",
	Long: `Start an LSP server for Ruby source files.

The language server analyzes documents as they change and provides
diagnostics, hover documentation, go-to-definition, find references,
completion, document and workspace symbols, and call hierarchy.

Transport modes:
  --stdio        Use stdin/stdout for LSP communication (default)
  --tcp ADDR     Listen for an LSP client on a TCP address

Examples:
  ruby-lint lsp                          Start with stdio transport
  ruby-lint lsp --stdio                  Same as above (explicit)
  ruby-lint lsp --tcp localhost:7658    Start with TCP transport

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "ruby-lint lsp --stdio" for .rb files.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		srv := lsp.New(lsp.WithLogger(logger))

		if !lspStdio && lspTCP != "" {
			logger.Info("language server listening", "addr", lspTCP)
			if err := srv.RunTCP(lspTCP); err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
				os.Exit(1)
			}
		} else {
			if err := srv.RunStdio(); err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)

	lspCmd.Flags().BoolVar(&lspStdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	lspCmd.Flags().StringVar(&lspTCP, "tcp", "",
		"TCP address for the LSP server (use instead of --stdio)")
}
