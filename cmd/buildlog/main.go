// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/structuredlog/buildlog/tool"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "buildlog [command] (flags)",
	Short: "build log artifact introspection tool",
	Long:  ``,
}

func main() {
	cobra.EnableCommandSorting = false

	logger := newLogger(os.Stderr, slog.LevelWarn)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log informational messages")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			logger.level.Set(slog.LevelInfo)
		}
	}

	t := tool.New(tool.Logger(logger))
	rootCmd.AddCommand(t.Commands...)

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
