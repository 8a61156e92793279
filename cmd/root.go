// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ruby-lint",
	Short: "ruby-lint — static analysis for Ruby",
	Long: `ruby-lint analyzes Ruby programs without running them. It builds a
definition graph of every class, module, method, variable, and constant a
program defines or references, then runs analysis checks against that graph.

Getting started:
  ruby-lint analyze app.rb          Analyze a Ruby source file
  ruby-lint analyze lib/...         Analyze a directory tree
  ruby-lint analyze --list          List the available checks
  ruby-lint inspect app.rb          Dump the definition graph of a file
  ruby-lint console app.rb          Explore a file's graph interactively
  ruby-lint watch lib               Re-analyze files as they change

Input formats:
  .rb .rake .gemspec .ru            Ruby source, parsed with tree-sitter
  .rlint .sexp .ast                 Parse tree dumps in s-expression form
  (stdin)                           Read as an s-expression dump

The analysis is a single forward pass: assignments, scopes, and calls are
replayed against definition tables, never executed. Anything the pass cannot
determine statically degrades to an explicit unknown value instead of a
false finding.

To suppress a diagnostic, add a comment on the same line:
  risky_call  # rubylint:disable undefined-method

More information:
  Source code:     https://github.com/h2dkb/ruby-lint`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.ruby-lint.yaml, then $HOME/.ruby-lint.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search the working directory first, then the home directory, for a
		// config named ".ruby-lint" (without extension).
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".ruby-lint")
	}

	viper.SetEnvPrefix("RUBY_LINT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
