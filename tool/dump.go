// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/structuredlog/buildlog"
)

// dumpT implements the dump command.
type dumpT struct {
	Root *cobra.Command

	opts *buildlog.Options
	crlf bool
}

func newDump(opts *buildlog.Options) *dumpT {
	d := &dumpT{opts: opts}
	d.Root = &cobra.Command{
		Use:   "dump <artifacts>",
		Short: "print the tree of an artifact",
		Long: `
Print the tree stored in each artifact, one node per line. Children are
indented by four spaces and every node lists its non-null attributes.
`,
		Args: cobra.MinimumNArgs(1),
		Run:  d.run,
	}
	d.Root.Flags().BoolVar(&d.crlf, "crlf", false, "terminate lines with CRLF")
	return d
}

func (d *dumpT) run(cmd *cobra.Command, args []string) {
	stdout, stderr := cmd.OutOrStdout(), cmd.OutOrStderr()
	for _, arg := range args {
		if len(args) > 1 {
			fmt.Fprintf(stdout, "%s\n", arg)
		}
		root, err := buildlog.ReadFile(arg, d.opts)
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			continue
		}
		if err := buildlog.FormatText(stdout, root, buildlog.TextOptions{CRLF: d.crlf}); err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}
}
