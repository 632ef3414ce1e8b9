// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/structuredlog/buildlog"
)

// statsT implements the stats command.
type statsT struct {
	Root *cobra.Command

	opts *buildlog.Options
}

func newStats(opts *buildlog.Options) *statsT {
	s := &statsT{opts: opts}
	s.Root = &cobra.Command{
		Use:   "stats <artifacts>",
		Short: "print node and string statistics",
		Long: `
Print the number of nodes of each kind, the maximum depth of the tree and the
number of distinct string values stored in each artifact.
`,
		Args: cobra.MinimumNArgs(1),
		Run:  s.run,
	}
	return s
}

type kindStats struct {
	tag      string
	unknown  bool
	count    int64
	children int64
}

type treeStats struct {
	kinds    map[string]*kindStats
	maxDepth int
}

func (s *treeStats) add(n buildlog.Node, depth int) {
	tag := n.Kind().Tag()
	u, unknown := n.(*buildlog.Unknown)
	if unknown {
		tag = u.Tag
	}
	ks := s.kinds[tag]
	if ks == nil {
		ks = &kindStats{tag: tag, unknown: unknown}
		s.kinds[tag] = ks
	}
	ks.count++
	ks.children += int64(len(n.Children()))
	s.maxDepth = max(s.maxDepth, depth)
	for _, c := range n.Children() {
		s.add(c, depth+1)
	}
}

func (s *statsT) run(cmd *cobra.Command, args []string) {
	stdout, stderr := cmd.OutOrStdout(), cmd.OutOrStderr()
	for _, arg := range args {
		if err := s.runOne(stdout, arg); err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}
}

func (s *statsT) runOne(stdout io.Writer, path string) (err error) {
	r, err := buildlog.Open(path, s.opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.CombineErrors(err, r.Close()) }()
	root, err := r.ReadRoot()
	if err != nil {
		return err
	}

	ts := treeStats{kinds: make(map[string]*kindStats), maxDepth: 1}
	ts.add(root, 1)
	rows := make([]*kindStats, 0, len(ts.kinds))
	for _, ks := range ts.kinds {
		rows = append(rows, ks)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].tag < rows[j].tag
	})

	m := r.Metrics()
	fmt.Fprintf(stdout, "%s\n", path)
	tbl := tablewriter.NewWriter(stdout)
	tbl.SetHeader([]string{"Kind", "Nodes", "Share", "Children"})
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, ks := range rows {
		tag := ks.tag
		if ks.unknown {
			tag += " (unknown)"
		}
		tbl.Append([]string{
			tag,
			fmt.Sprintf("%d", ks.count),
			fmt.Sprintf("%.1f%%", 100*float64(ks.count)/float64(m.Nodes)),
			fmt.Sprintf("%d", ks.children),
		})
	}
	tbl.SetFooter([]string{"total", fmt.Sprintf("%d", m.Nodes), "", ""})
	tbl.Render()
	fmt.Fprintf(stdout, "depth: %d\n", ts.maxDepth)
	fmt.Fprint(stdout, m.String())
	return nil
}
